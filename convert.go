package fsm

import (
	"slices"
	"strconv"
)

// AcceptOutput is the Moore output given to accepting DFA states; other
// states output the empty string.
const AcceptOutput = "F"

// MealyToMoore moves every output from the transitions onto the state they
// enter. All transitions entering a state must carry the same output,
// otherwise an *InconsistentOutputError is returned. States that are never
// entered output the empty string.
func MealyToMoore(m *Mealy) (*Moore, error) {
	result := NewMoore(m.States, m.Inputs)
	for _, s := range m.States {
		result.SetOutput(s, "")
	}

	seen := make(map[string]string)
	conflicts := make(map[string][]string)
	order := make([]string, 0)

	for _, s := range m.States {
		for _, in := range m.Inputs {
			t, ok := m.Transition(s, in)
			if !ok {
				continue
			}
			result.SetTransition(s, in, t.Next)

			prev, ok := seen[t.Next]
			if !ok {
				seen[t.Next] = t.Output
				result.SetOutput(t.Next, t.Output)
				continue
			}
			if prev == t.Output {
				continue
			}
			if _, ok := conflicts[t.Next]; !ok {
				conflicts[t.Next] = []string{prev}
				order = append(order, t.Next)
			}
			if !slices.Contains(conflicts[t.Next], t.Output) {
				conflicts[t.Next] = append(conflicts[t.Next], t.Output)
			}
		}
	}

	if len(order) > 0 {
		state := order[0]
		return nil, &InconsistentOutputError{State: state, Outputs: conflicts[state]}
	}
	return result, nil
}

// MooreToMealy labels every transition with the output of the state it
// enters.
func MooreToMealy(m *Moore) *Mealy {
	result := NewMealy(m.States, m.Inputs)
	for _, s := range m.States {
		for _, in := range m.Inputs {
			next, ok := m.Next(s, in)
			if !ok {
				continue
			}
			result.SetTransition(s, in, next, m.Output(next))
		}
	}
	return result
}

// ToMoore projects the DFA into a Moore machine over its alphabet. Accepting
// states output AcceptOutput. The start state is listed first.
func (d *DFA) ToMoore() *Moore {
	states := make([]string, 0, len(d.States))
	states = append(states, d.Start)
	for _, s := range d.States {
		if s != d.Start {
			states = append(states, s)
		}
	}

	result := NewMoore(states, d.Alphabet)
	for _, s := range states {
		out := ""
		if d.IsAccepting(s) {
			out = AcceptOutput
		}
		result.SetOutput(s, out)
	}
	for _, e := range d.Edges {
		result.SetTransition(e.From, e.Label, e.To)
	}
	return result
}

// ToMealy projects the DFA into a Mealy machine whose transition outputs
// tell whether the entered state is accepting.
func (d *DFA) ToMealy() *Mealy {
	return MooreToMealy(d.ToMoore())
}

// ToMealy views the NFA as a Mealy machine for display: every edge gets its
// own numbered input signal and outputs its label.
func (n *NFA) ToMealy() *Mealy {
	inputs := make([]string, 0, len(n.Edges))
	for i := range n.Edges {
		inputs = append(inputs, strconv.Itoa(i+1))
	}
	result := NewMealy(n.States, inputs)
	for i, e := range n.Edges {
		result.SetTransition(e.From, inputs[i], e.To, e.Label)
	}
	return result
}
