package fsm

import (
	"fmt"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"
)

// Stage names reported to a StageObserver.
const (
	StageCompile     = "compile"
	StageDeterminize = "determinize"
	StageMinimize    = "minimize"
)

// StageObserver is told how long each pipeline stage took and how many
// states it produced.
type StageObserver interface {
	ObserveStage(stage string, states int, elapsed time.Duration)
}

// Pipeline runs regex -> NFA -> DFA -> minimal machine.
type Pipeline struct {
	target        MachineKind
	logger        *slog.Logger
	observer      StageObserver
	regExpOptions []RegExpOption
	maxLength     int
}

type PipelineOption func(*Pipeline)

// WithTarget chooses the kind of the minimized machine. Default is Moore.
func WithTarget(kind MachineKind) PipelineOption {
	return func(p *Pipeline) {
		p.target = kind
	}
}

func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

func WithObserver(observer StageObserver) PipelineOption {
	return func(p *Pipeline) {
		p.observer = observer
	}
}

// WithRegExpOptions passes options to the pattern parser.
func WithRegExpOptions(options ...RegExpOption) PipelineOption {
	return func(p *Pipeline) {
		p.regExpOptions = append(p.regExpOptions, options...)
	}
}

// WithMaxPatternLength rejects patterns longer than n runes with
// ErrPatternTooLong. Zero means no limit.
func WithMaxPatternLength(n int) PipelineOption {
	return func(p *Pipeline) {
		p.maxLength = n
	}
}

func NewPipeline(options ...PipelineOption) *Pipeline {
	p := &Pipeline{
		target: KindMoore,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, fn := range options {
		fn(p)
	}
	return p
}

// Result holds the output of every stage of one run.
type Result struct {
	NFA     *NFA
	DFA     *DFA
	Machine Machine
}

// Run compiles pattern and returns the minimized machine. The DFA is
// projected into Moore form with AcceptOutput on accepting states; a Mealy
// target is minimized after projecting that machine to Mealy form. Each run
// uses its own Compiler, so a Pipeline may be shared between goroutines.
func (p *Pipeline) Run(pattern string) (*Result, error) {
	if n := utf8.RuneCountInString(pattern); p.maxLength > 0 && n > p.maxLength {
		return nil, fmt.Errorf("%w: %d runes, limit is %d", ErrPatternTooLong, n, p.maxLength)
	}

	start := time.Now()
	nfa, err := NewCompiler(p.regExpOptions...).Compile(pattern)
	if err != nil {
		p.logger.Debug("compile failed", "pattern", pattern, "err", err)
		return nil, err
	}
	p.observe(StageCompile, len(nfa.States), start)
	p.logger.Debug("compiled", "pattern", pattern, "states", len(nfa.States), "edges", len(nfa.Edges))

	start = time.Now()
	dfa := Determinize(nfa)
	p.observe(StageDeterminize, len(dfa.States), start)
	p.logger.Debug("determinized", "states", len(dfa.States), "alphabet", len(dfa.Alphabet))

	start = time.Now()
	var machine Machine
	if p.target == KindMealy {
		machine = MinimizeMealy(dfa.ToMealy())
	} else {
		machine = MinimizeMoore(dfa.ToMoore())
	}
	p.observe(StageMinimize, machine.NumStates(), start)
	p.logger.Debug("minimized", "kind", machine.Kind().String(), "states", machine.NumStates())

	return &Result{NFA: nfa, DFA: dfa, Machine: machine}, nil
}

func (p *Pipeline) observe(stage string, states int, start time.Time) {
	if p.observer != nil {
		p.observer.ObserveStage(stage, states, time.Since(start))
	}
}
