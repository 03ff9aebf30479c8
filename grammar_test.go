package fsm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRightLinearGrammar(t *testing.T) {
	src := "S -> aA | b\n\nA -> bS | a\n"
	g, err := ReadGrammar(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, RightLinear, g.Kind)
	assert.Equal(t, "S", g.Start())

	nfa := g.NFA()
	assert.Equal(t, "S", nfa.Start)
	assert.Equal(t, GrammarFinalState, nfa.End)
	assert.Equal(t, []string{"S", "A", "H"}, nfa.States)
	assert.Equal(t, []Edge{
		{From: "S", To: "A", Label: "a"},
		{From: "S", To: "H", Label: "b"},
		{From: "A", To: "S", Label: "b"},
		{From: "A", To: "H", Label: "a"},
	}, nfa.Edges)

	dfa := Determinize(nfa)
	for _, w := range []string{"b", "aa", "abb", "abaa"} {
		assert.True(t, dfa.Accepts(split(w)), w)
	}
	for _, w := range []string{"", "a", "ab", "bb"} {
		assert.False(t, dfa.Accepts(split(w)), w)
	}
}

func TestLeftLinearGrammar(t *testing.T) {
	src := "S -> Ab | a\nA -> Sa | b\n"
	nfa, err := ParseGrammar(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, GrammarFinalState, nfa.Start)
	assert.Equal(t, "S", nfa.End)
	assert.Contains(t, nfa.Edges, Edge{From: "A", To: "S", Label: "b"})
	assert.Contains(t, nfa.Edges, Edge{From: "H", To: "A", Label: "b"})

	dfa := Determinize(nfa)
	for _, w := range []string{"a", "bb", "aab", "bbab"} {
		assert.True(t, dfa.Accepts(split(w)), w)
	}
	for _, w := range []string{"", "b", "ab", "aa"} {
		assert.False(t, dfa.Accepts(split(w)), w)
	}
}

func TestGrammarNondeterminism(t *testing.T) {
	// S can read a into S or into the final state.
	nfa, err := ParseGrammar(strings.NewReader("S -> aS | a | bS\n"))
	require.NoError(t, err)

	got := MinimizeMoore(Determinize(nfa).ToMoore())
	assert.Equal(t, 2, got.NumStates())
	out, ok := got.Translate(split("bba"))
	require.True(t, ok)
	assert.Equal(t, AcceptOutput, out[len(out)-1])
}

func TestGrammarErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"mixed", "S -> aB | Bb\nB -> b\n", ErrMixedGrammar},
		{"mixed across lines", "S -> aB\nB -> Sb\n", ErrMixedGrammar},
		{"two nonterminals", "S -> SB\nB -> b\n", ErrMixedGrammar},
		{"no nonterminal", "S -> ab\n", ErrMalformedGrammar},
		{"empty", "\n\n", ErrMalformedGrammar},
		{"missing arrow", "S aA\n", ErrMalformedGrammar},
		{"long head", "SA -> a\n", ErrMalformedGrammar},
		{"empty alternative", "S -> a |\n", ErrMalformedGrammar},
		{"long alternative", "S -> abS\n", ErrMalformedGrammar},
		{"reserved head", "H -> a\n", ErrMalformedGrammar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGrammar(strings.NewReader(tt.src))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
