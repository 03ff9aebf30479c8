package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/geange/fsm"
	"github.com/geange/fsm/internal/metrics"
)

const (
	maxBodyBytes            = 1 << 20
	defaultMaxPatternLength = 256
)

// CompileRequest is the body of POST /compile.
type CompileRequest struct {
	Pattern string `json:"pattern"`
	Target  string `json:"target,omitempty"`
}

// CompileResponse carries every stage of the pipeline.
type CompileResponse struct {
	Normalized string        `json:"normalized"`
	NFA        *fsm.Graph    `json:"nfa"`
	DFA        *fsm.Graph    `json:"dfa"`
	Machine    *fsm.Document `json:"machine"`
	DOT        string        `json:"dot"`
}

// MinimizeRequest is the body of POST /minimize.
type MinimizeRequest struct {
	Machine *fsm.Document `json:"machine"`
	Prune   bool          `json:"prune,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server exposes the pipeline over HTTP.
type Server struct {
	logger    *slog.Logger
	collector *metrics.Collector
	options   []fsm.RegExpOption
	target    fsm.MachineKind
	maxLength int
}

type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithCollector(c *metrics.Collector) Option {
	return func(s *Server) {
		s.collector = c
	}
}

func WithRegExpOptions(options ...fsm.RegExpOption) Option {
	return func(s *Server) {
		s.options = append(s.options, options...)
	}
}

// WithTarget sets the machine kind used when a request names none.
func WithTarget(kind fsm.MachineKind) Option {
	return func(s *Server) {
		s.target = kind
	}
}

// WithMaxPatternLength bounds the patterns accepted by POST /compile. Zero
// means no limit.
func WithMaxPatternLength(n int) Option {
	return func(s *Server) {
		s.maxLength = n
	}
}

func New(options ...Option) *Server {
	s := &Server{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		target:    fsm.KindMoore,
		maxLength: defaultMaxPatternLength,
	}
	for _, fn := range options {
		fn(s)
	}
	if s.collector == nil {
		s.collector = metrics.New()
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", s.collector.Handler())
	r.Post("/compile", s.compile)
	r.Post("/minimize", s.minimize)
	return r
}

func (s *Server) compile(w http.ResponseWriter, r *http.Request) {
	var req CompileRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	target := s.target
	if req.Target != "" {
		kind, err := fsm.ParseMachineKind(req.Target)
		if err != nil {
			s.fail(w, http.StatusBadRequest, err)
			return
		}
		target = kind
	}

	p := fsm.NewPipeline(
		fsm.WithTarget(target),
		fsm.WithLogger(s.logger),
		fsm.WithObserver(s.collector),
		fsm.WithRegExpOptions(s.options...),
		fsm.WithMaxPatternLength(s.maxLength),
	)
	res, err := p.Run(req.Pattern)
	if err != nil {
		status := http.StatusInternalServerError
		if isPatternError(err) {
			status = http.StatusUnprocessableEntity
		}
		s.fail(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, CompileResponse{
		Normalized: fsm.Normalize(req.Pattern),
		NFA:        res.NFA.Graph(),
		DFA:        res.DFA.Graph(),
		Machine:    fsm.NewDocument(res.Machine),
		DOT:        fsm.MachineGraph(res.Machine, fsm.WithAcceptingOutput(fsm.AcceptOutput)).DOT("fsm"),
	})
}

func (s *Server) minimize(w http.ResponseWriter, r *http.Request) {
	var req MinimizeRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	if req.Machine == nil {
		s.fail(w, http.StatusBadRequest, errors.New("missing machine"))
		return
	}

	m, err := req.Machine.Machine()
	if err != nil {
		s.fail(w, http.StatusUnprocessableEntity, err)
		return
	}
	if req.Prune {
		m = fsm.RemoveUnreachable(m)
	}
	minimal := fsm.Minimize(m)
	s.logger.Debug("minimized", "kind", m.Kind().String(), "before", m.NumStates(), "after", minimal.NumStates())
	writeJSON(w, http.StatusOK, fsm.NewDocument(minimal))
}

func isPatternError(err error) bool {
	return errors.Is(err, fsm.ErrPatternTooLong) ||
		errors.Is(err, fsm.ErrSyntax) ||
		errors.Is(err, fsm.ErrMalformedAlternation) ||
		errors.Is(err, fsm.ErrSubexpressionOverflow)
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	s.logger.Warn("request failed", "status", status, "err", err)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
