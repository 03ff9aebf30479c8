package fsm

import (
	"errors"
	"strconv"
)

const (
	baseStateName  = "q"
	finalStateName = "qf"
)

// Compiler turns patterns into NFAs. It owns the counters that name new
// states, so two compilations with the same Compiler never produce clashing
// names. A Compiler is not safe for concurrent use.
type Compiler struct {
	nextState int
	finals    int
	options   []RegExpOption
}

func NewCompiler(options ...RegExpOption) *Compiler {
	return &Compiler{options: options}
}

// Compile compiles pattern with a fresh Compiler.
func Compile(pattern string, options ...RegExpOption) (*NFA, error) {
	return NewCompiler(options...).Compile(pattern)
}

func (c *Compiler) newState() string {
	name := baseStateName + strconv.Itoa(c.nextState)
	c.nextState++
	return name
}

// The first accepting state is "qf"; later compilations get "qf1", "qf2", ...
func (c *Compiler) finishState() string {
	name := finalStateName
	if c.finals > 0 {
		name += strconv.Itoa(c.finals)
	}
	c.finals++
	return name
}

// Compile normalizes and parses pattern, then expands it into an NFA whose
// transitions are labelled with single literals or EmptySignal.
// Syntax errors report positions in pattern, not in its normalized form.
func (c *Compiler) Compile(pattern string) (*NFA, error) {
	normalized, origin := normalize(pattern)
	re, err := NewRegExp(normalized, c.options...)
	if err != nil {
		var syntaxErr *SyntaxError
		if errors.As(err, &syntaxErr) {
			pos := len([]rune(pattern))
			if syntaxErr.Pos < len(origin) {
				pos = origin[syntaxErr.Pos]
			}
			return nil, &SyntaxError{Pattern: pattern, Pos: pos, Err: syntaxErr.Err}
		}
		return nil, err
	}
	return c.CompileRegExp(re), nil
}

type pendingEdge struct {
	from, to string
	expr     int
}

// CompileRegExp starts from a single transition labelled with the whole
// expression and rewrites every compound label one level per pass until all
// labels are simple.
func (c *Compiler) CompileRegExp(re *RegExp) *NFA {
	start := c.newState()
	end := c.finishState()
	states := []string{start, end}
	edges := []pendingEdge{{from: start, to: end, expr: re.root}}

	var empty = -1
	emptyNode := func() int {
		if empty == -1 {
			empty = re.makeEmpty()
		}
		return empty
	}

	for {
		simple := true
		next := make([]pendingEdge, 0, len(edges)*2)

		for _, e := range edges {
			if re.isSimple(e.expr) {
				next = append(next, e)
				continue
			}
			simple = false

			n := re.node(e.expr)
			switch n.kind {
			case REGEXP_UNION:
				next = append(next,
					pendingEdge{from: e.from, to: e.to, expr: n.exp1},
					pendingEdge{from: e.from, to: e.to, expr: n.exp2})
			case REGEXP_CONCATENATION:
				mid := c.newState()
				states = append(states, mid)
				next = append(next,
					pendingEdge{from: e.from, to: mid, expr: n.exp1},
					pendingEdge{from: mid, to: e.to, expr: n.exp2})
			case REGEXP_REPEAT_MIN:
				loop := c.newState()
				states = append(states, loop)
				next = append(next,
					pendingEdge{from: e.from, to: loop, expr: n.exp1},
					pendingEdge{from: loop, to: loop, expr: n.exp1},
					pendingEdge{from: loop, to: e.to, expr: emptyNode()})
			case REGEXP_REPEAT:
				loop := c.newState()
				states = append(states, loop)
				next = append(next,
					pendingEdge{from: e.from, to: loop, expr: emptyNode()},
					pendingEdge{from: loop, to: loop, expr: n.exp1},
					pendingEdge{from: loop, to: e.to, expr: emptyNode()})
			}
		}

		edges = next
		if simple {
			break
		}
	}

	nfa := &NFA{
		States: states,
		Edges:  make([]Edge, 0, len(edges)),
		Start:  start,
		End:    end,
	}
	for _, e := range edges {
		label := EmptySignal
		if n := re.node(e.expr); n.kind == REGEXP_LITERAL {
			label = string(n.c)
		}
		nfa.Edges = append(nfa.Edges, Edge{From: e.from, To: e.to, Label: label})
	}
	return nfa
}
