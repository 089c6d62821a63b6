// Package http exposes the triage engine over HTTP: a JSON API, a single-page form,
// the workflow diagram and operational endpoints.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/triage"
	"github.com/aretw0/triage/internal/presentation/graph"
	"github.com/aretw0/triage/pkg/domain"
	"github.com/aretw0/triage/pkg/ports"
	"github.com/aretw0/triage/pkg/runner"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MaxBodyBytes caps request bodies before the query sanitizer runs.
const MaxBodyBytes = 64 << 10

// Server serves the triage API.
type Server struct {
	Triager ports.Triager

	logger    *slog.Logger
	metrics   http.Handler
	title     string
	apiDoc    *openapi3.T
	sanitizer *runner.Sanitizer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger for request errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithTitle sets the heading of the HTML form.
func WithTitle(title string) Option {
	return func(s *Server) {
		s.title = title
	}
}

// WithSanitizer sets the query sanitizer applied before every run.
func WithSanitizer(san *runner.Sanitizer) Option {
	return func(s *Server) {
		s.sanitizer = san
	}
}

// NewHandler creates a new HTTP handler for the engine.
// It fails if the embedded OpenAPI document does not validate.
func NewHandler(t ports.Triager, opts ...Option) (http.Handler, error) {
	apiDoc, err := GetSwagger()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Triager:   t,
		logger:    slog.New(slog.DiscardHandler),
		title:     "Customer Support Assistant",
		apiDoc:    apiDoc,
		sanitizer: runner.NewSanitizer(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/", s.GetForm)
	r.Post("/", s.PostForm)
	r.Post("/triage", s.PostTriage)
	r.Get("/graph", s.GetGraph)
	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type triageRequest struct {
	Query *string `json:"query"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// PostTriage handles the POST /triage request.
func (s *Server) PostTriage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	var body triageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if body.Query == nil {
		s.writeError(w, r, http.StatusBadRequest, errors.New("missing field: query"))
		return
	}

	res, err := s.run(r, *body.Query)
	if err != nil {
		s.writeError(w, r, StatusFor(err), err)
		return
	}

	s.writeJSON(w, http.StatusOK, runner.NewResponse(res))
}

// GetForm handles the GET / request.
func (s *Server) GetForm(w http.ResponseWriter, r *http.Request) {
	s.renderForm(w, http.StatusOK, formView{})
}

// PostForm handles the form submission on POST /.
func (s *Server) PostForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.renderForm(w, http.StatusBadRequest, formView{Error: "invalid form submission"})
		return
	}

	query := r.PostForm.Get("query")
	res, err := s.run(r, query)
	if err != nil {
		s.logger.Warn("form query failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
		s.renderForm(w, StatusFor(err), formView{Query: query, Error: err.Error()})
		return
	}

	s.renderForm(w, http.StatusOK, formView{
		Query: query,
		Result: &formResult{
			Category:  res.State.Category,
			Sentiment: res.State.Sentiment,
			Response:  res.State.Response,
		},
	})
}

// GetGraph handles the GET /graph request.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	var overlay *graph.GraphOverlay
	if p := r.URL.Query().Get("path"); p != "" {
		overlay = graph.OverlayFromPath(strings.Split(p, ","))
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(graph.GenerateMermaid(s.Triager.Graph(), overlay)))
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.apiDoc.Info != nil {
		apiVersion = s.apiDoc.Info.Version
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "triage-http",
		"version":     triage.Version,
		"api_version": apiVersion,
	})
}

func (s *Server) run(r *http.Request, query string) (*domain.Result, error) {
	clean, err := s.sanitizer.Sanitize(query)
	if err != nil {
		return nil, err
	}
	return s.Triager.Triage(r.Context(), clean)
}

// StatusFor maps a triage error to an HTTP status code.
func StatusFor(err error) int {
	var nodeErr *domain.NodeExecutionError
	switch {
	case errors.Is(err, runner.ErrEmptyQuery),
		errors.Is(err, runner.ErrInputTooLarge),
		errors.Is(err, runner.ErrInvalidUTF8):
		return http.StatusBadRequest
	case errors.As(err, &nodeErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(r.Context(), level, "request failed",
		"path", r.URL.Path,
		"status", status,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err,
	)
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}
