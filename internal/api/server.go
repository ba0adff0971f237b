// Package api serves the export flow over HTTP so a browser extension or a
// script can trigger exports and manage preferences.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	convopdf "github.com/porticus-lab/convo-pdf"
	"github.com/porticus-lab/convo-pdf/internal/prefs"
)

const maxBodyBytes = 32 << 20

// Exporter is the part of [convopdf.Exporter] the server uses.
type Exporter interface {
	ExportWithOptions(ctx context.Context, src convopdf.Source, opts convopdf.Options) (*convopdf.Result, error)
	Extract(ctx context.Context, src convopdf.Source, opts convopdf.Options) (convopdf.Response, error)
}

// Server is the HTTP control API.
type Server struct {
	router   chi.Router
	exporter Exporter
	store    prefs.Store
	log      logrus.FieldLogger
	origins  []string
}

// NewServer creates and configures the HTTP server.
func NewServer(e Exporter, store prefs.Store, log logrus.FieldLogger, origins []string) *Server {
	s := &Server{
		exporter: e,
		store:    store,
		log:      log,
		origins:  origins,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(CORS(s.origins))
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/extract", s.handleExtract)
		r.Post("/export", s.handleExport)
		r.Get("/preferences", s.handleGetPreferences)
		r.Put("/preferences", s.handlePutPreferences)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// pageRequest names the page to read: inline HTML or a URL the browser
// loads.
type pageRequest struct {
	HTML string `json:"html,omitempty"`
	URL  string `json:"url,omitempty"`
}

func (p pageRequest) source() convopdf.Source {
	switch {
	case p.HTML != "":
		return convopdf.StaticSource(p.HTML)
	case p.URL != "":
		return convopdf.LiveSource{URL: p.URL}
	}
	return nil
}

type extractRequest struct {
	convopdf.Request
	pageRequest
}

type exportRequest struct {
	// Options are used as given. When absent the stored preferences apply
	// with Type.
	Options *convopdf.Options `json:"options,omitempty"`
	Type    string            `json:"type,omitempty"`
	pageRequest
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Action != "" && req.Action != "downloadPdf" {
		writeJSON(w, http.StatusBadRequest, convopdf.Response{Error: fmt.Sprintf("unsupported action %q", req.Action)})
		return
	}

	resp, err := s.exporter.Extract(r.Context(), req.source(), req.Options)
	if err != nil {
		writeJSON(w, statusFor(err), convopdf.Response{Error: convopdf.UserMessage(err)})
		return
	}
	status := http.StatusOK
	if !resp.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if !s.decode(w, r, &req) {
		return
	}

	opts, err := s.exportOptions(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, convopdf.Response{Error: err.Error()})
		return
	}

	res, err := s.exporter.ExportWithOptions(r.Context(), req.source(), opts)
	if err != nil {
		writeJSON(w, statusFor(err), convopdf.Response{Error: convopdf.UserMessage(err)})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename()))
	w.Header().Set("Content-Length", strconv.Itoa(res.Len()))
	w.Header().Set("X-Pdf-Pages", strconv.Itoa(res.Pages()))
	w.WriteHeader(http.StatusOK)
	if _, err := res.WriteTo(w); err != nil {
		s.log.WithError(err).Warn("Writing PDF response failed")
	}
}

func (s *Server) exportOptions(ctx context.Context, req exportRequest) (convopdf.Options, error) {
	if req.Options != nil {
		return *req.Options, nil
	}
	kind := convopdf.Conversation
	if req.Type != "" {
		k, err := convopdf.ParseKind(req.Type)
		if err != nil {
			return convopdf.Options{}, err
		}
		kind = k
	}
	p, err := s.store.Get(ctx, prefs.Defaults())
	if err != nil {
		s.log.WithError(err).Warn("Reading preferences failed, using defaults")
		p = prefs.Defaults()
	}
	return p.Options(kind), nil
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context(), prefs.Defaults())
	if err != nil {
		s.log.WithError(err).Error("Reading preferences failed")
		writeJSON(w, http.StatusInternalServerError, convopdf.Response{Error: "Error: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handlePutPreferences merges the posted fields into the stored values.
func (s *Server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context(), prefs.Defaults())
	if err != nil {
		p = prefs.Defaults()
	}
	if !s.decode(w, r, &p) {
		return
	}
	if err := s.store.Set(r.Context(), p); err != nil {
		s.log.WithError(err).Error("Saving preferences failed")
		writeJSON(w, http.StatusInternalServerError, convopdf.Response{Error: "Error: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, convopdf.Response{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, convopdf.ErrNoActiveTab), errors.Is(err, convopdf.ErrUnsupportedType):
		return http.StatusBadRequest
	case errors.Is(err, convopdf.ErrExtractionFailed), errors.Is(err, convopdf.ErrEmptyResult):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
