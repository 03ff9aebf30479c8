package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ab*c", "a.b*.c"},
		{"abc", "a.b.c"},
		{"a|b", "a|b"},
		{"(ab)*", "(a.b)*"},
		{"a(b|c)d", "a.(b|c).d"},
		{"a+b", "a+.b"},
		{"a.b", "a.b"},
		{"", ""},
		{"a", "a"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, s := range []string{"ab*c", "(a|b)*abb", "a+(bc)*d", "x.y|z"} {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), s)
	}
}
