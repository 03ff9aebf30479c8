package fsm

import (
	"fmt"
	"slices"
	"strings"
)

type MachineKind int

const (
	KindMealy MachineKind = iota
	KindMoore
)

func (k MachineKind) String() string {
	switch k {
	case KindMealy:
		return "mealy"
	case KindMoore:
		return "moore"
	default:
		return fmt.Sprintf("MachineKind(%d)", int(k))
	}
}

// ParseMachineKind accepts "mealy" or "moore" in any case.
func ParseMachineKind(s string) (MachineKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mealy":
		return KindMealy, nil
	case "moore":
		return KindMoore, nil
	}
	return 0, fmt.Errorf("unknown machine kind %q", s)
}

// Machine is either a *Mealy or a *Moore. The first listed state is the
// initial state.
type Machine interface {
	Kind() MachineKind
	NumStates() int
	Initial() string
	isMachine()
}

// MealyTransition is the target and output of one Mealy transition.
type MealyTransition struct {
	Next   string `json:"next" yaml:"next"`
	Output string `json:"output" yaml:"output"`
}

// Mealy attaches outputs to transitions. Transitions may be partial; a
// missing entry means the machine has no move for that state and input.
type Mealy struct {
	States      []string
	Inputs      []string
	Transitions map[string]map[string]MealyTransition
}

func NewMealy(states, inputs []string) *Mealy {
	return &Mealy{
		States:      slices.Clone(states),
		Inputs:      slices.Clone(inputs),
		Transitions: make(map[string]map[string]MealyTransition, len(states)),
	}
}

func (m *Mealy) Kind() MachineKind { return KindMealy }

func (m *Mealy) NumStates() int { return len(m.States) }

func (m *Mealy) Initial() string {
	if len(m.States) == 0 {
		return ""
	}
	return m.States[0]
}

func (m *Mealy) isMachine() {}

func (m *Mealy) SetTransition(state, input, next, output string) {
	if m.Transitions == nil {
		m.Transitions = make(map[string]map[string]MealyTransition)
	}
	if m.Transitions[state] == nil {
		m.Transitions[state] = make(map[string]MealyTransition)
	}
	m.Transitions[state][input] = MealyTransition{Next: next, Output: output}
}

func (m *Mealy) Transition(state, input string) (MealyTransition, bool) {
	t, ok := m.Transitions[state][input]
	return t, ok
}

// Translate feeds inputs to the machine from its initial state and returns
// the outputs produced. ok is false if some input has no transition.
func (m *Mealy) Translate(inputs []string) (outputs []string, ok bool) {
	return m.TranslateFrom(m.Initial(), inputs)
}

func (m *Mealy) TranslateFrom(state string, inputs []string) ([]string, bool) {
	outputs := make([]string, 0, len(inputs))
	for _, in := range inputs {
		t, ok := m.Transition(state, in)
		if !ok {
			return outputs, false
		}
		outputs = append(outputs, t.Output)
		state = t.Next
	}
	return outputs, true
}

func (m *Mealy) Clone() *Mealy {
	c := NewMealy(m.States, m.Inputs)
	for s, row := range m.Transitions {
		for in, t := range row {
			c.SetTransition(s, in, t.Next, t.Output)
		}
	}
	return c
}

// Moore attaches outputs to states. Transitions may be partial.
type Moore struct {
	States      []string
	Inputs      []string
	Outputs     map[string]string
	Transitions map[string]map[string]string
}

func NewMoore(states, inputs []string) *Moore {
	return &Moore{
		States:      slices.Clone(states),
		Inputs:      slices.Clone(inputs),
		Outputs:     make(map[string]string, len(states)),
		Transitions: make(map[string]map[string]string, len(states)),
	}
}

func (m *Moore) Kind() MachineKind { return KindMoore }

func (m *Moore) NumStates() int { return len(m.States) }

func (m *Moore) Initial() string {
	if len(m.States) == 0 {
		return ""
	}
	return m.States[0]
}

func (m *Moore) isMachine() {}

func (m *Moore) SetOutput(state, output string) {
	if m.Outputs == nil {
		m.Outputs = make(map[string]string)
	}
	m.Outputs[state] = output
}

func (m *Moore) Output(state string) string {
	return m.Outputs[state]
}

func (m *Moore) SetTransition(state, input, next string) {
	if m.Transitions == nil {
		m.Transitions = make(map[string]map[string]string)
	}
	if m.Transitions[state] == nil {
		m.Transitions[state] = make(map[string]string)
	}
	m.Transitions[state][input] = next
}

func (m *Moore) Next(state, input string) (string, bool) {
	next, ok := m.Transitions[state][input]
	return next, ok
}

// Translate returns the output of every state entered while feeding inputs
// from the initial state. The initial state's own output is not included.
func (m *Moore) Translate(inputs []string) (outputs []string, ok bool) {
	return m.TranslateFrom(m.Initial(), inputs)
}

func (m *Moore) TranslateFrom(state string, inputs []string) ([]string, bool) {
	outputs := make([]string, 0, len(inputs))
	for _, in := range inputs {
		next, ok := m.Next(state, in)
		if !ok {
			return outputs, false
		}
		outputs = append(outputs, m.Output(next))
		state = next
	}
	return outputs, true
}

func (m *Moore) Clone() *Moore {
	c := NewMoore(m.States, m.Inputs)
	for s, out := range m.Outputs {
		c.SetOutput(s, out)
	}
	for s, row := range m.Transitions {
		for in, next := range row {
			c.SetTransition(s, in, next)
		}
	}
	return c
}

// Isomorphic reports whether a and b are the same machine up to state names:
// same kind, same inputs, same number of states, and a bijection between the
// states reachable from the initial states that preserves transitions and
// outputs.
func Isomorphic(a, b Machine) bool {
	if a.Kind() != b.Kind() || a.NumStates() != b.NumStates() {
		return false
	}
	va, vb := viewOf(a), viewOf(b)
	if !sameInputs(va.inputs, vb.inputs) {
		return false
	}
	if a.NumStates() == 0 {
		return true
	}

	pairs := map[string]string{a.Initial(): b.Initial()}
	used := map[string]string{b.Initial(): a.Initial()}
	worklist := []string{a.Initial()}

	for len(worklist) > 0 {
		sa := worklist[0]
		worklist = worklist[1:]
		sb := pairs[sa]
		if va.stateOutput(sa) != vb.stateOutput(sb) {
			return false
		}

		for _, in := range va.inputs {
			na, oka := va.next(sa, in)
			nb, okb := vb.next(sb, in)
			if oka != okb {
				return false
			}
			if !oka {
				continue
			}
			if va.output(sa, in) != vb.output(sb, in) {
				return false
			}
			if mapped, ok := pairs[na]; ok {
				if mapped != nb {
					return false
				}
				continue
			}
			if _, taken := used[nb]; taken {
				return false
			}
			pairs[na] = nb
			used[nb] = na
			worklist = append(worklist, na)
		}
	}
	return true
}

func sameInputs(a, b []string) bool {
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}

// machineView gives the minimizer and Isomorphic one way to read both kinds.
type machineView struct {
	states []string
	inputs []string

	next        func(state, input string) (string, bool)
	output      func(state, input string) string
	stateOutput func(state string) string
}

func viewOf(m Machine) *machineView {
	switch t := m.(type) {
	case *Mealy:
		return &machineView{
			states: t.States,
			inputs: t.Inputs,
			next: func(s, in string) (string, bool) {
				tr, ok := t.Transition(s, in)
				return tr.Next, ok
			},
			output: func(s, in string) string {
				tr, _ := t.Transition(s, in)
				return tr.Output
			},
			stateOutput: func(string) string { return "" },
		}
	case *Moore:
		return &machineView{
			states:      t.States,
			inputs:      t.Inputs,
			next:        t.Next,
			output:      func(string, string) string { return "" },
			stateOutput: t.Output,
		}
	}
	panic(fmt.Sprintf("fsm: unknown machine type %T", m))
}
