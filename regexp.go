package fsm

import (
	"strings"
	"unicode"
)

type Kind int

const (
	REGEXP_LITERAL       = Kind(iota) // A single input signal
	REGEXP_EMPTY                      // The empty string
	REGEXP_CONCATENATION              // A sequence of two expressions
	REGEXP_UNION                      // The union of two expressions
	REGEXP_REPEAT                     // Zero or more repetitions
	REGEXP_REPEAT_MIN                 // One or more repetitions
)

const (
	opUnion  = '|'
	opConcat = '.'
	opStar   = '*'
	opPlus   = '+'
	opOpen   = '('
	opClose  = ')'
)

// DefaultMaxDepth bounds how deeply parenthesized groups may nest.
const DefaultMaxDepth = 64

// exprNode is one node of the expression arena. Children are referenced by
// their index in RegExp.nodes; -1 marks an absent child.
type exprNode struct {
	kind       Kind
	c          rune
	exp1, exp2 int
}

// RegExp is a parsed pattern. Nodes are stored in an arena and never change
// after parsing, so subtrees can be shared by index.
type RegExp struct {
	nodes          []exprNode
	root           int
	originalString []rune
	pos            int
	depth          int
	opts           *regExpOption
}

type regExpOption struct {
	maxDepth    int
	caseFolding bool
}

type RegExpOption func(*regExpOption)

// WithMaxDepth sets how many parenthesized groups may be open at once.
func WithMaxDepth(depth int) RegExpOption {
	return func(o *regExpOption) {
		o.maxDepth = depth
	}
}

// WithCaseFolding lower-cases every literal of the pattern.
func WithCaseFolding() RegExpOption {
	return func(o *regExpOption) {
		o.caseFolding = true
	}
}

// NewRegExp parses s. Concatenation may be written with '.' or implied by
// adjacency. The empty pattern matches only the empty string.
func NewRegExp(s string, options ...RegExpOption) (*RegExp, error) {
	opts := &regExpOption{
		maxDepth: DefaultMaxDepth,
	}
	for _, fn := range options {
		fn(opts)
	}

	r := &RegExp{
		originalString: []rune(s),
		opts:           opts,
	}

	if len(r.originalString) == 0 {
		r.root = r.makeEmpty()
		return r, nil
	}

	root, err := r.parseUnionExp()
	if err != nil {
		return nil, err
	}
	if r.more() {
		return nil, r.errorf(ErrSyntax)
	}
	r.root = root
	return r, nil
}

func (r *RegExp) makeNode(kind Kind, c rune, exp1, exp2 int) int {
	r.nodes = append(r.nodes, exprNode{kind: kind, c: c, exp1: exp1, exp2: exp2})
	return len(r.nodes) - 1
}

func (r *RegExp) makeLiteral(c rune) int {
	return r.makeNode(REGEXP_LITERAL, c, -1, -1)
}

func (r *RegExp) makeEmpty() int {
	return r.makeNode(REGEXP_EMPTY, 0, -1, -1)
}

func (r *RegExp) makeUnion(exp1, exp2 int) int {
	return r.makeNode(REGEXP_UNION, 0, exp1, exp2)
}

func (r *RegExp) makeConcatenation(exp1, exp2 int) int {
	return r.makeNode(REGEXP_CONCATENATION, 0, exp1, exp2)
}

func (r *RegExp) makeRepeat(exp int) int {
	return r.makeNode(REGEXP_REPEAT, 0, exp, -1)
}

func (r *RegExp) makeRepeatMin(exp int) int {
	return r.makeNode(REGEXP_REPEAT_MIN, 0, exp, -1)
}

func (r *RegExp) node(i int) exprNode {
	return r.nodes[i]
}

// isSimple reports whether node i can label an NFA transition as is.
func (r *RegExp) isSimple(i int) bool {
	k := r.nodes[i].kind
	return k == REGEXP_LITERAL || k == REGEXP_EMPTY
}

func (r *RegExp) more() bool {
	return r.pos < len(r.originalString)
}

func (r *RegExp) peek(s string) bool {
	return r.more() && strings.ContainsRune(s, r.originalString[r.pos])
}

func (r *RegExp) match(c rune) bool {
	if r.more() && r.originalString[r.pos] == c {
		r.pos++
		return true
	}
	return false
}

func (r *RegExp) errorf(err error) error {
	return &SyntaxError{Pattern: string(r.originalString), Pos: r.pos, Err: err}
}

func (r *RegExp) parseUnionExp() (int, error) {
	if r.peek("|") {
		return -1, r.errorf(ErrMalformedAlternation)
	}
	if !r.more() || r.peek(")") {
		return -1, r.errorf(ErrSyntax)
	}
	e, err := r.parseConcatExp()
	if err != nil {
		return -1, err
	}
	if r.match(opUnion) {
		if !r.more() || r.peek("|)") {
			return -1, r.errorf(ErrMalformedAlternation)
		}
		e2, err := r.parseUnionExp()
		if err != nil {
			return -1, err
		}
		e = r.makeUnion(e, e2)
	}
	return e, nil
}

func (r *RegExp) parseConcatExp() (int, error) {
	e, err := r.parseRepeatExp()
	if err != nil {
		return -1, err
	}
	explicit := r.match(opConcat)
	if explicit && (!r.more() || r.peek("|).*+")) {
		return -1, r.errorf(ErrSyntax)
	}
	if explicit || (r.more() && !r.peek(")|")) {
		e2, err := r.parseConcatExp()
		if err != nil {
			return -1, err
		}
		e = r.makeConcatenation(e, e2)
	}
	return e, nil
}

func (r *RegExp) parseRepeatExp() (int, error) {
	e, err := r.parseSimpleExp()
	if err != nil {
		return -1, err
	}
	for r.peek("*+") {
		if r.match(opStar) {
			e = r.makeRepeat(e)
		} else if r.match(opPlus) {
			e = r.makeRepeatMin(e)
		}
	}
	return e, nil
}

func (r *RegExp) parseSimpleExp() (int, error) {
	if r.match(opOpen) {
		r.depth++
		if r.depth > r.opts.maxDepth {
			return -1, r.errorf(ErrSubexpressionOverflow)
		}
		var e int
		if r.match(opClose) {
			e = r.makeEmpty()
		} else {
			var err error
			if e, err = r.parseUnionExp(); err != nil {
				return -1, err
			}
			if !r.match(opClose) {
				return -1, r.errorf(ErrSyntax)
			}
		}
		r.depth--
		return e, nil
	}

	if !r.more() || r.peek("*+.)|") {
		return -1, r.errorf(ErrSyntax)
	}
	c := r.originalString[r.pos]
	r.pos++
	if r.opts.caseFolding {
		c = unicode.ToLower(c)
	}
	return r.makeLiteral(c), nil
}

// String renders the expression with explicit concatenation and only the
// parentheses that precedence requires.
func (r *RegExp) String() string {
	b := new(strings.Builder)
	r.write(b, r.root, 0)
	return b.String()
}

func precedence(k Kind) int {
	switch k {
	case REGEXP_UNION:
		return 1
	case REGEXP_CONCATENATION:
		return 2
	case REGEXP_REPEAT, REGEXP_REPEAT_MIN:
		return 3
	default:
		return 4
	}
}

func (r *RegExp) write(b *strings.Builder, i int, outer int) {
	n := r.nodes[i]
	p := precedence(n.kind)
	if p < outer {
		b.WriteRune(opOpen)
		defer b.WriteRune(opClose)
	}
	switch n.kind {
	case REGEXP_LITERAL:
		b.WriteRune(n.c)
	case REGEXP_EMPTY:
		b.WriteString("()")
	case REGEXP_UNION:
		r.write(b, n.exp1, p+1)
		b.WriteRune(opUnion)
		r.write(b, n.exp2, p)
	case REGEXP_CONCATENATION:
		r.write(b, n.exp1, p+1)
		b.WriteRune(opConcat)
		r.write(b, n.exp2, p)
	case REGEXP_REPEAT:
		r.write(b, n.exp1, p+1)
		b.WriteRune(opStar)
	case REGEXP_REPEAT_MIN:
		r.write(b, n.exp1, p+1)
		b.WriteRune(opPlus)
	}
}
