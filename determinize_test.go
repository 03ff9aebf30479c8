package fsm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func split(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "")
}

func TestDeterminizeUnion(t *testing.T) {
	nfa, err := Compile("a|b")
	require.NoError(t, err)

	dfa := Determinize(nfa)
	assert.Equal(t, []string{"S0", "S1" + AcceptSuffix}, dfa.States)
	assert.Equal(t, "S0", dfa.Start)
	assert.Equal(t, []string{"a", "b"}, dfa.Alphabet)
	assert.Equal(t, []Edge{
		{From: "S0", To: "S1 (end)", Label: "a"},
		{From: "S0", To: "S1 (end)", Label: "b"},
	}, dfa.Edges)
	assert.Equal(t, []string{"q0"}, dfa.Subsets["S0"])
	assert.Equal(t, []string{"qf"}, dfa.Subsets["S1 (end)"])
}

func TestDeterminizeStarAcceptsEmpty(t *testing.T) {
	nfa, err := Compile("a*")
	require.NoError(t, err)

	dfa := Determinize(nfa)
	assert.True(t, dfa.IsAccepting(dfa.Start))
	assert.Equal(t, []string{"q0", "qf", "q1"}, dfa.Subsets[dfa.Start])
	assert.True(t, dfa.Accepts(nil))
	assert.True(t, dfa.Accepts(split("aaa")))
}

func TestDeterminizeEpsilonCycle(t *testing.T) {
	nfa := &NFA{
		States: []string{"s", "a", "b", "f"},
		Start:  "s",
		End:    "f",
		Edges: []Edge{
			{From: "s", To: "a", Label: EmptySignal},
			{From: "a", To: "b", Label: EmptySignal},
			{From: "b", To: "a", Label: EmptySignal},
			{From: "b", To: "s", Label: EmptySignal},
			{From: "b", To: "f", Label: "x"},
			{From: "f", To: "s", Label: EmptySignal},
		},
	}

	dfa := Determinize(nfa)
	assert.Len(t, dfa.States, 2)
	assert.True(t, dfa.Accepts(split("xxx")))
	assert.False(t, dfa.Accepts(nil))
}

func TestDeterminizeIsDeterministic(t *testing.T) {
	for _, pattern := range []string{"(a|b)*abb", "a+b*|c", "(ab|a)*", "((a|b)c)*d"} {
		t.Run(pattern, func(t *testing.T) {
			nfa, err := Compile(pattern)
			require.NoError(t, err)
			dfa := Determinize(nfa)

			seen := make(map[[2]string]bool)
			for _, e := range dfa.Edges {
				key := [2]string{e.From, e.Label}
				assert.False(t, seen[key], "duplicate move %v", key)
				seen[key] = true
				assert.NotEqual(t, EmptySignal, e.Label)
			}
		})
	}
}

func TestDeterminizeAgreesWithNFA(t *testing.T) {
	inputs := []string{"", "a", "b", "ab", "abb", "aabb", "babb", "abab", "bbabb", "abba", "c", "ac"}
	for _, pattern := range []string{"(a|b)*abb", "a+b*|c", "(ab|a)*", "a*b*", "()"} {
		nfa, err := Compile(pattern)
		require.NoError(t, err)
		dfa := Determinize(nfa)

		for _, in := range inputs {
			assert.Equal(t, nfa.Accepts(split(in)), dfa.Accepts(split(in)), "%s on %q", pattern, in)
		}
	}
}

func TestDFAStep(t *testing.T) {
	nfa, err := Compile("ab")
	require.NoError(t, err)
	dfa := Determinize(nfa)

	next, ok := dfa.Step(dfa.Start, "a")
	require.True(t, ok)
	assert.False(t, dfa.IsAccepting(next))

	next, ok = dfa.Step(next, "b")
	require.True(t, ok)
	assert.True(t, dfa.IsAccepting(next))
	assert.Equal(t, []string{next}, dfa.Accepting())

	_, ok = dfa.Step(dfa.Start, "b")
	assert.False(t, ok)
}

func TestDeterminizeTotal(t *testing.T) {
	for _, pattern := range []string{"(a|b)*abb", "a+b*|c", "(ab|a)*", "((a|b)c)*d", "a(b|())c*"} {
		t.Run(pattern, func(t *testing.T) {
			nfa, err := Compile(pattern)
			require.NoError(t, err)
			dfa := Determinize(nfa)

			moves := make(map[string]map[string]bool)
			for _, e := range nfa.Edges {
				if e.Label == EmptySignal {
					continue
				}
				if moves[e.From] == nil {
					moves[e.From] = make(map[string]bool)
				}
				moves[e.From][e.Label] = true
			}

			for _, s := range dfa.States {
				members := dfa.Subsets[s]
				require.NotEmpty(t, members, s)
				for _, signal := range dfa.Alphabet {
					enabled := false
					for _, m := range members {
						enabled = enabled || moves[m][signal]
					}
					_, ok := dfa.Step(s, signal)
					assert.Equal(t, enabled, ok, "%s on %s", s, signal)
				}
			}
		})
	}
}
