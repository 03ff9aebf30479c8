package fsm

import (
	"fmt"
	"strconv"
)

const minimizedStateName = "q"

// Minimize dispatches to MinimizeMealy or MinimizeMoore.
func Minimize(m Machine) Machine {
	switch t := m.(type) {
	case *Mealy:
		return MinimizeMealy(t)
	case *Moore:
		return MinimizeMoore(t)
	}
	panic(fmt.Sprintf("fsm: unknown machine type %T", m))
}

// indexedMachine is a machine with states and inputs replaced by their
// positions. next[s][i] is -1 when state s has no transition on input i.
type indexedMachine struct {
	states []string
	inputs []string
	next   [][]int
	output [][]string
}

// index numbers the listed states first; transition targets that are not
// listed get numbers after them so no transition is lost.
func (v *machineView) indexed() *indexedMachine {
	im := &indexedMachine{
		states: append([]string(nil), v.states...),
		inputs: v.inputs,
	}
	index := make(map[string]int, len(v.states))
	for i, s := range im.states {
		index[s] = i
	}
	lookup := func(s string) int {
		if i, ok := index[s]; ok {
			return i
		}
		index[s] = len(im.states)
		im.states = append(im.states, s)
		return index[s]
	}

	for s := 0; s < len(im.states); s++ {
		next := make([]int, len(v.inputs))
		output := make([]string, len(v.inputs))
		for i, in := range v.inputs {
			n, ok := v.next(im.states[s], in)
			if !ok {
				next[i] = -1
				continue
			}
			next[i] = lookup(n)
			output[i] = v.output(im.states[s], in)
		}
		im.next = append(im.next, next)
		im.output = append(im.output, output)
	}
	return im
}

func (im *indexedMachine) target(groupOf []int, s, i int) int {
	n := im.next[s][i]
	if n < 0 {
		return -1
	}
	return groupOf[n]
}

// refine splits every group with a representative scan until the number of
// groups stops growing. The first member of a group always seeds its first
// sub-group, so the group holding state 0 stays in front.
func refine(groups [][]int, numStates int, equivalent func(a, b int, groupOf []int) bool) ([][]int, []int) {
	groupOf := make([]int, numStates)
	assign := func() {
		for g, members := range groups {
			for _, s := range members {
				groupOf[s] = g
			}
		}
	}
	assign()

	for {
		next := make([][]int, 0, len(groups))
		for _, members := range groups {
			subGroups := make([][]int, 0, 1)
			for _, s := range members {
				added := false
				for k, sub := range subGroups {
					if equivalent(sub[0], s, groupOf) {
						subGroups[k] = append(sub, s)
						added = true
						break
					}
				}
				if !added {
					subGroups = append(subGroups, []int{s})
				}
			}
			next = append(next, subGroups...)
		}

		changed := len(next) != len(groups)
		groups = next
		assign()
		if !changed {
			return groups, groupOf
		}
	}
}

func groupName(g int) string {
	return minimizedStateName + strconv.Itoa(g)
}

// MinimizeMealy merges states that produce the same outputs and reach
// equivalent states on every input. Missing transitions only match missing
// transitions. The result names its states q0, q1, ... in partition order.
func MinimizeMealy(m *Mealy) *Mealy {
	im := viewOf(m).indexed()
	if len(im.states) == 0 {
		return NewMealy(nil, m.Inputs)
	}

	all := make([]int, len(im.states))
	for i := range all {
		all[i] = i
	}

	groups, groupOf := refine([][]int{all}, len(im.states), func(a, b int, groupOf []int) bool {
		for i := range im.inputs {
			if im.target(groupOf, a, i) != im.target(groupOf, b, i) {
				return false
			}
			if im.next[a][i] >= 0 && im.output[a][i] != im.output[b][i] {
				return false
			}
		}
		return true
	})

	names := make([]string, len(groups))
	for g := range groups {
		names[g] = groupName(g)
	}
	result := NewMealy(names, m.Inputs)
	for g, members := range groups {
		rep := members[0]
		for i, in := range im.inputs {
			n := im.next[rep][i]
			if n < 0 {
				continue
			}
			result.SetTransition(names[g], in, names[groupOf[n]], im.output[rep][i])
		}
	}
	return result
}

// MinimizeMoore merges states with equal outputs whose successors are
// equivalent on every input. States with different outputs never merge.
func MinimizeMoore(m *Moore) *Moore {
	im := viewOf(m).indexed()
	if len(im.states) == 0 {
		return NewMoore(nil, m.Inputs)
	}

	initial := make([][]int, 0)
	byOutput := make(map[string]int)
	for s, name := range im.states {
		out := m.Output(name)
		g, ok := byOutput[out]
		if !ok {
			g = len(initial)
			byOutput[out] = g
			initial = append(initial, nil)
		}
		initial[g] = append(initial[g], s)
	}

	groups, groupOf := refine(initial, len(im.states), func(a, b int, groupOf []int) bool {
		for i := range im.inputs {
			if im.target(groupOf, a, i) != im.target(groupOf, b, i) {
				return false
			}
		}
		return true
	})

	names := make([]string, len(groups))
	for g := range groups {
		names[g] = groupName(g)
	}
	result := NewMoore(names, m.Inputs)
	for g, members := range groups {
		rep := members[0]
		result.SetOutput(names[g], m.Output(im.states[rep]))
		for i, in := range im.inputs {
			n := im.next[rep][i]
			if n < 0 {
				continue
			}
			result.SetTransition(names[g], in, names[groupOf[n]])
		}
	}
	return result
}
