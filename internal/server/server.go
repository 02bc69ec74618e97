// Package server exposes footprint generation over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Mohammedazif/keystone-map3d-sub002/internal/logging"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/pipeline"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/spec"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/validation"
)

// maxBody bounds the size of an uploaded site.
const maxBody = 4 << 20

// Server serves the generation API.
type Server struct {
	addr   string
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error  string             `json:"error"`
	Report *validation.Report `json:"report,omitempty"`
}

// New creates a server listening on addr.
func New(addr string, runner *pipeline.Runner, logger *log.Logger) *Server {
	s := &Server{addr: addr, runner: runner, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/typologies", s.handleTypologies)
		r.Post("/validate", s.handleValidate)
		r.Post("/generate", s.handleGenerate)
	})
	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("server stopping")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		l := s.logger.With("request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(ww, r.WithContext(logging.WithLogger(r.Context(), l)))
		l.Info("request", "method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "elapsed", time.Since(start).Round(time.Microsecond))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleTypologies lists every typology with its default parameters.
func (s *Server) handleTypologies(w http.ResponseWriter, _ *http.Request) {
	out := make(map[spec.Typology]spec.Params, len(spec.Typologies))
	for _, t := range spec.Typologies {
		p, err := spec.DefaultParams(t)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
		out[t] = p
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	site, ok := readSite(w, r)
	if !ok {
		return
	}
	report := validation.ValidateSite(site)
	status := http.StatusOK
	if !report.Valid {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, report)
}

// handleGenerate runs a site. The seed query parameter overrides the site's
// seed; format=geojson returns only the feature collection.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	site, ok := readSite(w, r)
	if !ok {
		return
	}
	var opts pipeline.Options
	if raw := r.URL.Query().Get("seed"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "seed: " + err.Error()})
			return
		}
		opts.Seed = &seed
	}

	res, err := s.runner.Run(r.Context(), site, opts)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pipeline.ErrInvalidSite) {
			status = http.StatusUnprocessableEntity
		}
		var report *validation.Report
		if res != nil {
			report = res.Report
		}
		logging.FromContext(r.Context()).Warn("generate failed", "site", site.Name, "err", err)
		writeJSON(w, status, ErrorResponse{Error: err.Error(), Report: report})
		return
	}
	if res.Cached {
		w.Header().Set("X-Cache", "hit")
	}
	if r.URL.Query().Get("format") == "geojson" {
		writeJSON(w, http.StatusOK, res.Footprints)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func readSite(w http.ResponseWriter, r *http.Request) (*spec.Site, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: err.Error()})
		return nil, false
	}
	site, err := spec.Parse(data)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return nil, false
	}
	return site, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
