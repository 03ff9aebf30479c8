package fsm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegExp(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"a", "a"},
		{"a.b*.c", "a.b*.c"},
		{"ab*c", "a.b*.c"},
		{"a|b|c", "a|b|c"},
		{"(a|b).c", "(a|b).c"},
		{"(a.b)*", "(a.b)*"},
		{"a+", "a+"},
		{"((a))", "a"},
		{"a|(b.c)", "a|b.c"},
		{"()", "()"},
		{"", "()"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re, err := NewRegExp(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, re.String())
		})
	}
}

func TestRegExpKinds(t *testing.T) {
	re, err := NewRegExp("a|b.c*")
	require.NoError(t, err)

	root := re.node(re.root)
	assert.Equal(t, REGEXP_UNION, root.kind)
	assert.Equal(t, REGEXP_LITERAL, re.node(root.exp1).kind)

	concat := re.node(root.exp2)
	assert.Equal(t, REGEXP_CONCATENATION, concat.kind)
	assert.Equal(t, REGEXP_REPEAT, re.node(concat.exp2).kind)
	assert.True(t, re.isSimple(root.exp1))
	assert.False(t, re.isSimple(re.root))
}

func TestRegExpErrors(t *testing.T) {
	tests := []struct {
		pattern string
		want    error
	}{
		{"|a", ErrMalformedAlternation},
		{"a|", ErrMalformedAlternation},
		{"a||b", ErrMalformedAlternation},
		{"(|a)", ErrMalformedAlternation},
		{"(", ErrSyntax},
		{")", ErrSyntax},
		{"a(", ErrSyntax},
		{"a*(", ErrSyntax},
		{"()a)", ErrSyntax},
		{"(a", ErrSyntax},
		{"(a|b", ErrSyntax},
		{"a)", ErrSyntax},
		{"*a", ErrSyntax},
		{"a.", ErrSyntax},
		{"a.*", ErrSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, err := NewRegExp(tt.pattern)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), err.Error())
			if tt.want == ErrSyntax {
				assert.False(t, errors.Is(err, ErrMalformedAlternation), err.Error())
			}

			var syntaxErr *SyntaxError
			require.True(t, errors.As(err, &syntaxErr))
			assert.Equal(t, tt.pattern, syntaxErr.Pattern)
		})
	}
}

func TestRegExpMaxDepth(t *testing.T) {
	deep := strings.Repeat("(", DefaultMaxDepth+1) + "a" + strings.Repeat(")", DefaultMaxDepth+1)
	_, err := NewRegExp(deep)
	assert.True(t, errors.Is(err, ErrSubexpressionOverflow))

	ok := strings.Repeat("(", DefaultMaxDepth) + "a" + strings.Repeat(")", DefaultMaxDepth)
	_, err = NewRegExp(ok)
	assert.NoError(t, err)

	_, err = NewRegExp("((a))", WithMaxDepth(1))
	assert.True(t, errors.Is(err, ErrSubexpressionOverflow))

	_, err = NewRegExp("(a)(b)", WithMaxDepth(1))
	assert.NoError(t, err)
}

func TestRegExpCaseFolding(t *testing.T) {
	re, err := NewRegExp("AbC", WithCaseFolding())
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", re.String())
}
