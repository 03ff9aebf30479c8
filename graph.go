package fsm

import (
	"fmt"
	"strings"
)

// EpsilonLabel is how EmptySignal edges are labelled in graph exports.
const EpsilonLabel = "ε"

// Node is a state in a graph export.
type Node struct {
	ID        string `json:"id" yaml:"id"`
	Label     string `json:"label" yaml:"label"`
	Initial   bool   `json:"initial,omitempty" yaml:"initial,omitempty"`
	Accepting bool   `json:"accepting,omitempty" yaml:"accepting,omitempty"`
}

// GraphEdge is a labelled edge in a graph export.
type GraphEdge struct {
	From  string `json:"from" yaml:"from"`
	To    string `json:"to" yaml:"to"`
	Label string `json:"label" yaml:"label"`
}

// Graph is a renderer-neutral list of states and edges.
type Graph struct {
	Nodes []Node      `json:"nodes" yaml:"nodes"`
	Edges []GraphEdge `json:"edges" yaml:"edges"`
}

func edgeLabel(label string) string {
	if label == EmptySignal {
		return EpsilonLabel
	}
	return label
}

func (n *NFA) Graph() *Graph {
	g := &Graph{}
	for _, s := range n.States {
		g.Nodes = append(g.Nodes, Node{ID: s, Label: s, Initial: s == n.Start, Accepting: s == n.End})
	}
	for _, e := range n.Edges {
		g.Edges = append(g.Edges, GraphEdge{From: e.From, To: e.To, Label: edgeLabel(e.Label)})
	}
	return g
}

func (d *DFA) Graph() *Graph {
	g := &Graph{}
	for _, s := range d.States {
		g.Nodes = append(g.Nodes, Node{ID: s, Label: s, Initial: s == d.Start, Accepting: d.IsAccepting(s)})
	}
	for _, e := range d.Edges {
		g.Edges = append(g.Edges, GraphEdge{From: e.From, To: e.To, Label: e.Label})
	}
	return g
}

type graphOptions struct {
	accepting    string
	hasAccepting bool
}

type GraphOption func(*graphOptions)

// WithAcceptingOutput marks Moore states whose output is output as accepting.
// Use it for machines projected from a DFA, where AcceptOutput has that
// meaning.
func WithAcceptingOutput(output string) GraphOption {
	return func(o *graphOptions) {
		o.accepting = output
		o.hasAccepting = true
	}
}

// MachineGraph exports m. Mealy edges are labelled "input / output"; Moore
// nodes are labelled "state / output" and edges by input. No node is accepting
// unless WithAcceptingOutput is given.
func MachineGraph(m Machine, options ...GraphOption) *Graph {
	opts := &graphOptions{}
	for _, fn := range options {
		fn(opts)
	}

	g := &Graph{}
	switch t := m.(type) {
	case *Mealy:
		for _, s := range t.States {
			g.Nodes = append(g.Nodes, Node{ID: s, Label: s, Initial: s == t.Initial()})
		}
		for _, s := range t.States {
			for _, in := range t.Inputs {
				if tr, ok := t.Transition(s, in); ok {
					g.Edges = append(g.Edges, GraphEdge{From: s, To: tr.Next, Label: in + " / " + tr.Output})
				}
			}
		}
	case *Moore:
		for _, s := range t.States {
			out := t.Output(s)
			g.Nodes = append(g.Nodes, Node{
				ID:        s,
				Label:     s + " / " + out,
				Initial:   s == t.Initial(),
				Accepting: opts.hasAccepting && out == opts.accepting,
			})
		}
		for _, s := range t.States {
			for _, in := range t.Inputs {
				if next, ok := t.Next(s, in); ok {
					g.Edges = append(g.Edges, GraphEdge{From: s, To: next, Label: in})
				}
			}
		}
	}
	return g
}

// DOT renders the graph in Graphviz syntax.
func (g *Graph) DOT(name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "digraph %q {\n", name)
	sb.WriteString("    rankdir=LR;\n")
	for _, n := range g.Nodes {
		shape := "circle"
		if n.Accepting {
			shape = "doublecircle"
		}
		fmt.Fprintf(&sb, "    %q [shape=%s, label=%q];\n", n.ID, shape, n.Label)
		if n.Initial {
			fmt.Fprintf(&sb, "    %q [shape=point];\n    %q -> %q;\n", "_start", "_start", n.ID)
		}
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&sb, "    %q -> %q [label=%q];\n", e.From, e.To, e.Label)
	}
	sb.WriteString("}\n")
	return sb.String()
}

// Mermaid renders the graph as a Mermaid flowchart. Accepting states are drawn
// as double circles and the initial state as a circle.
func (g *Graph) Mermaid() string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, n := range g.Nodes {
		opener, closer := "[", "]"
		switch {
		case n.Accepting:
			opener, closer = "(((", ")))"
		case n.Initial:
			opener, closer = "((", "))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(n.ID), opener, escapeMermaid(n.Label), closer)
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", sanitizeMermaidID(e.From), escapeMermaid(e.Label), sanitizeMermaidID(e.To))
	}
	return sb.String()
}

func sanitizeMermaidID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, id)
}

func escapeMermaid(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
