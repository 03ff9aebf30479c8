package fsm

import (
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// AcceptSuffix is appended to the name of every accepting DFA state.
const AcceptSuffix = " (end)"

const dfaStateName = "S"

// DFA is a deterministic automaton produced by Determinize. Acceptance is
// carried by the state name (see AcceptSuffix). Subsets maps each DFA state
// to the NFA states it stands for.
type DFA struct {
	States   []string            `json:"states" yaml:"states"`
	Alphabet []string            `json:"alphabet" yaml:"alphabet"`
	Edges    []Edge              `json:"edges" yaml:"edges"`
	Start    string              `json:"start" yaml:"start"`
	Subsets  map[string][]string `json:"subsets,omitempty" yaml:"subsets,omitempty"`
}

// IsAccepting reports whether state is an accepting state.
func (d *DFA) IsAccepting(state string) bool {
	return strings.HasSuffix(state, AcceptSuffix)
}

// Accepting returns the accepting states in state order.
func (d *DFA) Accepting() []string {
	result := make([]string, 0)
	for _, s := range d.States {
		if d.IsAccepting(s) {
			result = append(result, s)
		}
	}
	return result
}

func (d *DFA) delta() map[string]map[string]string {
	delta := make(map[string]map[string]string, len(d.States))
	for _, e := range d.Edges {
		if delta[e.From] == nil {
			delta[e.From] = make(map[string]string)
		}
		delta[e.From][e.Label] = e.To
	}
	return delta
}

// Step returns the successor of state on signal.
func (d *DFA) Step(state, signal string) (string, bool) {
	for _, e := range d.Edges {
		if e.From == state && e.Label == signal {
			return e.To, true
		}
	}
	return "", false
}

// Accepts runs the DFA over input from its start state.
func (d *DFA) Accepts(input []string) bool {
	delta := d.delta()
	state := d.Start
	for _, signal := range input {
		next, ok := delta[state][signal]
		if !ok {
			return false
		}
		state = next
	}
	return d.IsAccepting(state)
}

// Determinize converts n into an equivalent DFA by subset construction over
// epsilon closures. DFA states are named S0, S1, ... in discovery order;
// S0 is the closure of the NFA start state. Signals that lead nowhere from a
// subset produce no transition.
func Determinize(n *NFA) *DFA {
	index, names := n.stateIndex()
	numStates := len(names)
	closures := epsilonClosures(n, index, numStates)
	alphabet := n.Alphabet()

	moves := make([]map[string][]int, numStates)
	for _, e := range n.Edges {
		if e.Label == EmptySignal {
			continue
		}
		from := index[e.From]
		if moves[from] == nil {
			moves[from] = make(map[string][]int)
		}
		moves[from][e.Label] = append(moves[from][e.Label], index[e.To])
	}

	initialSet := NewStateSet(closures[index[n.Start]].Clone())
	sets := []*StateSet{initialSet}
	newState := NewHashMap[int](WithCapacity(16))
	newState.Set(initialSet, 0)

	type dfaEdge struct {
		from, to int
		signal   string
	}
	edges := make([]dfaEdge, 0)

	worklist := []int{0}
	for len(worklist) > 0 {
		cur := worklist[0]
		worklist = worklist[1:]
		members := sets[cur].GetArray()

		for _, signal := range alphabet {
			target := bitset.New(uint(numStates))
			for _, s := range members {
				for _, dest := range moves[s][signal] {
					target.InPlaceUnion(closures[dest])
				}
			}
			if target.None() {
				continue
			}

			key := NewStateSet(target)
			id, ok := newState.Get(key)
			if !ok {
				id = len(sets)
				sets = append(sets, key)
				newState.Set(key, id)
				worklist = append(worklist, id)
			}
			edges = append(edges, dfaEdge{from: cur, to: id, signal: signal})
		}
	}

	end := index[n.End]
	stateNames := make([]string, len(sets))
	subsets := make(map[string][]string, len(sets))
	for i, set := range sets {
		name := dfaStateName + strconv.Itoa(i)
		if set.Contains(end) {
			name += AcceptSuffix
		}
		stateNames[i] = name

		members := make([]string, 0, set.Size())
		for _, s := range set.GetArray() {
			members = append(members, names[s])
		}
		subsets[name] = members
	}

	dfa := &DFA{
		States:   stateNames,
		Alphabet: alphabet,
		Edges:    make([]Edge, 0, len(edges)),
		Start:    stateNames[0],
		Subsets:  subsets,
	}
	for _, e := range edges {
		dfa.Edges = append(dfa.Edges, Edge{From: stateNames[e.from], To: stateNames[e.to], Label: e.signal})
	}
	return dfa
}
