package fsm

import "github.com/bits-and-blooms/bitset"

// EmptySignal labels a transition that consumes no input.
const EmptySignal = ""

// Edge is a labelled transition of an NFA or DFA.
type Edge struct {
	From  string `json:"from" yaml:"from"`
	To    string `json:"to" yaml:"to"`
	Label string `json:"label" yaml:"label"`
}

// NFA is a nondeterministic automaton with a single start and a single
// accepting state. Transitions labelled EmptySignal are epsilon moves.
type NFA struct {
	States []string `json:"states" yaml:"states"`
	Edges  []Edge   `json:"edges" yaml:"edges"`
	Start  string   `json:"start" yaml:"start"`
	End    string   `json:"end" yaml:"end"`
}

// Alphabet returns the distinct non-empty labels in order of first appearance.
func (n *NFA) Alphabet() []string {
	seen := make(map[string]struct{})
	signals := make([]string, 0)
	for _, e := range n.Edges {
		if e.Label == EmptySignal {
			continue
		}
		if _, ok := seen[e.Label]; ok {
			continue
		}
		seen[e.Label] = struct{}{}
		signals = append(signals, e.Label)
	}
	return signals
}

// stateIndex numbers the listed states first, then any edge endpoint that was
// not listed.
func (n *NFA) stateIndex() (map[string]int, []string) {
	index := make(map[string]int, len(n.States))
	names := make([]string, 0, len(n.States))
	add := func(s string) {
		if _, ok := index[s]; !ok {
			index[s] = len(names)
			names = append(names, s)
		}
	}
	for _, s := range n.States {
		add(s)
	}
	add(n.Start)
	add(n.End)
	for _, e := range n.Edges {
		add(e.From)
		add(e.To)
	}
	return index, names
}

// epsilonClosures computes, for every numbered state, the set of states
// reachable through EmptySignal edges alone. Each closure contains its own
// state; the visited set makes epsilon cycles terminate.
func epsilonClosures(n *NFA, index map[string]int, numStates int) []*bitset.BitSet {
	epsilon := make([][]int, numStates)
	for _, e := range n.Edges {
		if e.Label == EmptySignal {
			from := index[e.From]
			epsilon[from] = append(epsilon[from], index[e.To])
		}
	}

	closures := make([]*bitset.BitSet, numStates)
	for s := 0; s < numStates; s++ {
		closure := bitset.New(uint(numStates))
		closure.Set(uint(s))
		stack := []int{s}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, to := range epsilon[cur] {
				if !closure.Test(uint(to)) {
					closure.Set(uint(to))
					stack = append(stack, to)
				}
			}
		}
		closures[s] = closure
	}
	return closures
}

// EpsilonClosure returns the states reachable from state through epsilon
// moves, state included, in numbering order.
func (n *NFA) EpsilonClosure(state string) []string {
	index, names := n.stateIndex()
	i, ok := index[state]
	if !ok {
		return nil
	}
	closure := epsilonClosures(n, index, len(names))[i]
	result := make([]string, 0, closure.Count())
	for s, ok := closure.NextSet(0); ok; s, ok = closure.NextSet(s + 1) {
		result = append(result, names[s])
	}
	return result
}

// Accepts simulates the NFA over input.
func (n *NFA) Accepts(input []string) bool {
	index, names := n.stateIndex()
	closures := epsilonClosures(n, index, len(names))

	current := closures[index[n.Start]].Clone()
	for _, signal := range input {
		next := bitset.New(uint(len(names)))
		for _, e := range n.Edges {
			if e.Label == signal && current.Test(uint(index[e.From])) {
				next.InPlaceUnion(closures[index[e.To]])
			}
		}
		if next.None() {
			return false
		}
		current = next
	}
	return current.Test(uint(index[n.End]))
}
