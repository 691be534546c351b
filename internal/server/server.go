// Package server exposes the analyzer over HTTP.
//
//	POST /analyze  analyze one or two functions, JSON result
//	POST /plot     same request, PNG image
//	GET  /schema   request schema for client registration
//	GET  /health   liveness check
//	GET  /metrics  Prometheus metrics
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	gonumplot "gonum.org/v1/plot"

	"github.com/njchilds90/plotsense/analysis"
	"github.com/njchilds90/plotsense/internal/config"
	"github.com/njchilds90/plotsense/internal/plot"
	"github.com/njchilds90/plotsense/symbolic"
)

// MaxPoints caps npoints in a request.
const MaxPoints = 100_000

// Request is the body of POST /analyze and POST /plot. XMin and XMax
// default to the configured interval.
type Request struct {
	Functions []string `json:"functions"`
	XMin      *float64 `json:"xmin,omitempty"`
	XMax      *float64 `json:"xmax,omitempty"`
	NPoints   int      `json:"npoints,omitempty"`
}

// Response carries Result for one function and Pair for two.
type Response struct {
	RequestID string               `json:"request_id"`
	Result    *analysis.Result     `json:"result,omitempty"`
	Pair      *analysis.PairResult `json:"pair,omitempty"`
}

// Error kinds reported in error bodies.
const (
	KindRequest  = "request"
	KindParse    = "parse"
	KindArgument = "argument"
	KindTimeout  = "timeout"
	KindInternal = "internal"
)

type errorBody struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	RequestID string `json:"request_id,omitempty"`
}

type Server struct {
	an  *analysis.Analyzer
	cfg config.ServerConfig
	iv  analysis.Interval
	log *zap.Logger
}

// New returns a Server answering with an and falling back to iv when a
// request gives no bounds.
func New(an *analysis.Analyzer, iv analysis.Interval, cfg config.ServerConfig, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{an: an, cfg: cfg, iv: iv, log: log}
}

// Handler returns the routed and instrumented handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/analyze", s.instrument("analyze", s.handleAnalyze))
	mux.Handle("/plot", s.instrument("plot", s.handlePlot))
	mux.Handle("/schema", s.instrument("schema", s.handleSchema))
	mux.Handle("/health", s.instrument("health", s.handleHealth))
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      s.cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.cfg.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.analyze(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.analyze(w, r)
	if !ok {
		return
	}
	var p *gonumplot.Plot
	var err error
	if resp.Pair != nil {
		p, err = plot.Pair(resp.Pair)
	} else {
		p, err = plot.Single(resp.Result)
	}
	var buf bytes.Buffer
	if err == nil {
		err = plot.WritePNG(&buf, p)
	}
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, KindInternal, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// analyze decodes the request and runs the analysis. On failure it has
// already written the error response.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) (*Response, bool) {
	if r.Method != http.MethodPost {
		s.fail(w, r, http.StatusMethodNotAllowed, KindRequest, errors.New("method not allowed"))
		return nil, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req Request
	if err := dec.Decode(&req); err != nil {
		s.fail(w, r, http.StatusBadRequest, KindRequest, fmt.Errorf("invalid JSON: %w", err))
		return nil, false
	}
	if dec.More() {
		s.fail(w, r, http.StatusBadRequest, KindRequest, errors.New("invalid JSON: trailing data"))
		return nil, false
	}

	an, iv, err := s.prepare(req)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, KindArgument, err)
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	resp := &Response{RequestID: requestID(r.Context())}
	mode := "single"
	if len(req.Functions) == 2 {
		mode = "pair"
	}
	start := time.Now()
	if mode == "pair" {
		resp.Pair, err = an.AnalyzePair(ctx, req.Functions[0], req.Functions[1], iv)
	} else {
		resp.Result, err = an.Analyze(ctx, req.Functions[0], iv)
	}
	analysisSeconds.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	if err != nil {
		code, kind := classify(err)
		analysisErrorsTotal.WithLabelValues(kind).Inc()
		s.fail(w, r, code, kind, err)
		return nil, false
	}
	return resp, true
}

// prepare checks the request arguments and returns the analyzer and
// interval to use.
func (s *Server) prepare(req Request) (*analysis.Analyzer, analysis.Interval, error) {
	iv := s.iv
	if n := len(req.Functions); n < 1 || n > 2 {
		return nil, iv, fmt.Errorf("expected 1 or 2 functions, got %d", n)
	}
	if req.XMin != nil {
		iv.Min = *req.XMin
	}
	if req.XMax != nil {
		iv.Max = *req.XMax
	}
	if err := iv.Validate(); err != nil {
		return nil, iv, err
	}
	if req.NPoints == 0 {
		return s.an, iv, nil
	}
	if req.NPoints > MaxPoints {
		return nil, iv, fmt.Errorf("%w: npoints %d exceeds %d", analysis.ErrInvalidConfig, req.NPoints, MaxPoints)
	}
	cfg := s.an.Config()
	cfg.SamplePoints = req.NPoints
	an, err := analysis.New(cfg, analysis.WithLogger(s.log))
	if err != nil {
		return nil, iv, err
	}
	return an, iv, nil
}

func classify(err error) (int, string) {
	var perr *symbolic.ParseError
	switch {
	case errors.As(err, &perr):
		return http.StatusBadRequest, KindParse
	case errors.Is(err, analysis.ErrInvalidInterval),
		errors.Is(err, analysis.ErrInvalidConfig),
		errors.Is(err, analysis.ErrVariableMismatch):
		return http.StatusBadRequest, KindArgument
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, KindTimeout
	}
	return http.StatusInternalServerError, KindInternal
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, code int, kind string, err error) {
	id := requestID(r.Context())
	s.log.Info("request failed",
		zap.String("request_id", id),
		zap.String("kind", kind),
		zap.Int("code", code),
		zap.Error(err))
	writeJSON(w, code, errorBody{Error: err.Error(), Kind: kind, RequestID: id})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type ctxKey struct{}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.code = code
	sr.ResponseWriter.WriteHeader(code)
}

// instrument tags the request with an ID, recovers panics, logs the request
// and counts it by endpoint and status.
func (s *Server) instrument(endpoint string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, id))
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		start := time.Now()

		defer func() {
			if p := recover(); p != nil {
				panicsTotal.Inc()
				s.log.Error("panic in handler",
					zap.String("endpoint", endpoint),
					zap.String("request_id", id),
					zap.Any("panic", p),
					zap.ByteString("stack", debug.Stack()))
				http.Error(rec, "internal server error", http.StatusInternalServerError)
			}
			requestsTotal.WithLabelValues(endpoint, strconv.Itoa(rec.code)).Inc()
			s.log.Debug("request",
				zap.String("endpoint", endpoint),
				zap.String("request_id", id),
				zap.Int("code", rec.code),
				zap.Duration("elapsed", time.Since(start)))
		}()

		h(rec, r)
	})
}
