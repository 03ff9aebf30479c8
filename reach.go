package fsm

import "github.com/bits-and-blooms/bitset"

// reachable marks the states reachable from the initial state.
func reachable(v *machineView) *bitset.BitSet {
	index := make(map[string]int, len(v.states))
	for i, s := range v.states {
		index[s] = i
	}
	live := bitset.New(uint(len(v.states)))
	if len(v.states) == 0 {
		return live
	}

	workList := []int{0}
	live.Set(0)
	for len(workList) > 0 {
		s := workList[0]
		workList = workList[1:]
		for _, in := range v.inputs {
			next, ok := v.next(v.states[s], in)
			if !ok {
				continue
			}
			i, known := index[next]
			if known && !live.Test(uint(i)) {
				live.Set(uint(i))
				workList = append(workList, i)
			}
		}
	}
	return live
}

// RemoveUnreachable returns a copy of m without the states that cannot be
// reached from its initial state.
func RemoveUnreachable(m Machine) Machine {
	v := viewOf(m)
	live := reachable(v)

	states := make([]string, 0, live.Count())
	for i, s := range v.states {
		if live.Test(uint(i)) {
			states = append(states, s)
		}
	}

	switch t := m.(type) {
	case *Mealy:
		result := NewMealy(states, t.Inputs)
		for _, s := range states {
			for _, in := range t.Inputs {
				if tr, ok := t.Transition(s, in); ok {
					result.SetTransition(s, in, tr.Next, tr.Output)
				}
			}
		}
		return result
	case *Moore:
		result := NewMoore(states, t.Inputs)
		for _, s := range states {
			result.SetOutput(s, t.Output(s))
			for _, in := range t.Inputs {
				if next, ok := t.Next(s, in); ok {
					result.SetTransition(s, in, next)
				}
			}
		}
		return result
	}
	return m
}
