package fsm

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// GrammarFinalState is the extra state added for rules whose right-hand side
// is a single terminal.
const GrammarFinalState = "H"

const (
	productionArrow     = "->"
	alternativeOperator = "|"
)

type GrammarKind int

const (
	RightLinear GrammarKind = iota
	LeftLinear
)

func (k GrammarKind) String() string {
	if k == LeftLinear {
		return "left"
	}
	return "right"
}

// Rule is one alternative of a production. Symbol is the nonterminal of the
// alternative, or empty when the alternative is a lone terminal.
type Rule struct {
	Head   string
	Signal string
	Symbol string
}

// Grammar is a regular grammar whose nonterminals are single runes. A
// right-linear rule reads "A -> aB", a left-linear one "A -> Ba".
type Grammar struct {
	Kind         GrammarKind
	Nonterminals []string
	Rules        []Rule
}

// Start is the head of the first production.
func (g *Grammar) Start() string {
	if len(g.Nonterminals) == 0 {
		return ""
	}
	return g.Nonterminals[0]
}

type production struct {
	line         int
	head         string
	alternatives []string
}

// ReadGrammar parses productions of the form
//
//	S -> aA | b
//	A -> bS | a
//
// one per line. Every rune that heads a production is a nonterminal, every
// other rune is a terminal. The first rule with a nonterminal decides whether
// the grammar is right- or left-linear; a later rule of the other form fails
// with ErrMixedGrammar.
func ReadGrammar(r io.Reader) (*Grammar, error) {
	productions, err := scanProductions(r)
	if err != nil {
		return nil, err
	}
	if len(productions) == 0 {
		return nil, fmt.Errorf("%w: no productions", ErrMalformedGrammar)
	}

	g := &Grammar{}
	nonterminals := make(map[string]bool)
	for _, p := range productions {
		if !nonterminals[p.head] {
			nonterminals[p.head] = true
			g.Nonterminals = append(g.Nonterminals, p.head)
		}
	}

	decided := false
	for _, p := range productions {
		for _, alt := range p.alternatives {
			runes := []rune(alt)
			if len(runes) == 1 {
				g.Rules = append(g.Rules, Rule{Head: p.head, Signal: alt})
				continue
			}

			first, second := string(runes[0]), string(runes[1])
			isLeft, isRight := nonterminals[first], nonterminals[second]
			switch {
			case isLeft && isRight:
				return nil, fmt.Errorf("%w: line %d: %q has two nonterminals", ErrMixedGrammar, p.line, alt)
			case !isLeft && !isRight:
				return nil, fmt.Errorf("%w: line %d: %q has no nonterminal", ErrMalformedGrammar, p.line, alt)
			}

			kind := RightLinear
			if isLeft {
				kind = LeftLinear
			}
			if !decided {
				g.Kind, decided = kind, true
			} else if kind != g.Kind {
				return nil, fmt.Errorf("%w: line %d: %q is %s-linear in a %s-linear grammar", ErrMixedGrammar, p.line, alt, kind, g.Kind)
			}

			if kind == LeftLinear {
				g.Rules = append(g.Rules, Rule{Head: p.head, Signal: second, Symbol: first})
			} else {
				g.Rules = append(g.Rules, Rule{Head: p.head, Signal: first, Symbol: second})
			}
		}
	}
	return g, nil
}

func scanProductions(r io.Reader) ([]production, error) {
	var productions []production
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		head, body, ok := strings.Cut(text, productionArrow)
		if !ok {
			return nil, fmt.Errorf("%w: line %d: missing %q", ErrMalformedGrammar, line, productionArrow)
		}
		head = strings.TrimSpace(head)
		if utf8.RuneCountInString(head) != 1 {
			return nil, fmt.Errorf("%w: line %d: nonterminal %q must be a single rune", ErrMalformedGrammar, line, head)
		}
		if head == GrammarFinalState {
			return nil, fmt.Errorf("%w: line %d: %s is reserved for the final state", ErrMalformedGrammar, line, GrammarFinalState)
		}

		p := production{line: line, head: head}
		for _, alt := range strings.Split(body, alternativeOperator) {
			alt = strings.TrimSpace(alt)
			if n := utf8.RuneCountInString(alt); n == 0 || n > 2 {
				return nil, fmt.Errorf("%w: line %d: alternative %q must be one or two runes", ErrMalformedGrammar, line, alt)
			}
			p.alternatives = append(p.alternatives, alt)
		}
		productions = append(productions, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return productions, nil
}

// NFA builds the automaton of the grammar. For a right-linear grammar the
// start symbol is the start state and GrammarFinalState accepts; rule A -> aB
// is the edge A --a--> B and A -> a is A --a--> H. A left-linear grammar is
// read backwards: H is the start state, the start symbol accepts, A -> Ba is
// B --a--> A and A -> a is H --a--> A.
func (g *Grammar) NFA() *NFA {
	n := &NFA{}
	if g.Kind == LeftLinear {
		n.Start, n.End = GrammarFinalState, g.Start()
		n.States = append([]string{GrammarFinalState}, g.Nonterminals...)
	} else {
		n.Start, n.End = g.Start(), GrammarFinalState
		n.States = append(append([]string(nil), g.Nonterminals...), GrammarFinalState)
	}

	for _, rule := range g.Rules {
		from, to := rule.Head, rule.Symbol
		if to == "" {
			to = GrammarFinalState
		}
		if g.Kind == LeftLinear {
			from, to = to, from
		}
		n.Edges = append(n.Edges, Edge{From: from, To: to, Label: rule.Signal})
	}
	return n
}

// ParseGrammar reads a grammar and returns its NFA.
func ParseGrammar(r io.Reader) (*NFA, error) {
	g, err := ReadGrammar(r)
	if err != nil {
		return nil, err
	}
	return g.NFA(), nil
}
