package fsm

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is the serialized form of a Machine used by the YAML and JSON
// codecs. Transitions are listed in state then input order.
type Document struct {
	Kind        string               `json:"kind" yaml:"kind"`
	States      []string             `json:"states" yaml:"states"`
	Inputs      []string             `json:"inputs" yaml:"inputs"`
	Outputs     map[string]string    `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Transitions []DocumentTransition `json:"transitions" yaml:"transitions"`
}

type DocumentTransition struct {
	From   string `json:"from" yaml:"from"`
	Input  string `json:"input" yaml:"input"`
	To     string `json:"to" yaml:"to"`
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
}

func NewDocument(m Machine) *Document {
	doc := &Document{Kind: m.Kind().String()}
	switch t := m.(type) {
	case *Mealy:
		doc.States, doc.Inputs = t.States, t.Inputs
		for _, s := range t.States {
			for _, in := range t.Inputs {
				if tr, ok := t.Transition(s, in); ok {
					doc.Transitions = append(doc.Transitions, DocumentTransition{From: s, Input: in, To: tr.Next, Output: tr.Output})
				}
			}
		}
	case *Moore:
		doc.States, doc.Inputs = t.States, t.Inputs
		doc.Outputs = make(map[string]string, len(t.States))
		for _, s := range t.States {
			doc.Outputs[s] = t.Output(s)
			for _, in := range t.Inputs {
				if next, ok := t.Next(s, in); ok {
					doc.Transitions = append(doc.Transitions, DocumentTransition{From: s, Input: in, To: next})
				}
			}
		}
	}
	return doc
}

// Machine rebuilds the machine described by the document.
func (d *Document) Machine() (Machine, error) {
	kind, err := ParseMachineKind(d.Kind)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindMoore:
		m := NewMoore(d.States, d.Inputs)
		for _, s := range d.States {
			m.SetOutput(s, d.Outputs[s])
		}
		for _, t := range d.Transitions {
			if t.Output != "" {
				return nil, fmt.Errorf("moore transition %s --%s--> %s carries output %q", t.From, t.Input, t.To, t.Output)
			}
			m.SetTransition(t.From, t.Input, t.To)
		}
		return m, nil
	default:
		m := NewMealy(d.States, d.Inputs)
		for _, t := range d.Transitions {
			m.SetTransition(t.From, t.Input, t.To, t.Output)
		}
		return m, nil
	}
}

func MarshalMachine(m Machine) ([]byte, error) {
	return yaml.Marshal(NewDocument(m))
}

func UnmarshalMachine(data []byte) (Machine, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse machine: %w", err)
	}
	return doc.Machine()
}
