package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/jonasreimer/schemascope/pkg/errors"
	"github.com/jonasreimer/schemascope/pkg/pipeline"
	"github.com/jonasreimer/schemascope/pkg/schema"
)

// optionsFromQuery builds pipeline options from the filter query
// parameters shared by the schema and diagram endpoints. Builtins are
// excluded unless exclude_django is explicitly anything other than
// "true".
func (s *Server) optionsFromQuery(r *http.Request) pipeline.Options {
	q := r.URL.Query()

	exclude := true
	if v := q.Get("exclude_django"); v != "" {
		exclude = strings.EqualFold(v, "true")
	}

	var apps []string
	if v := q.Get("apps"); v != "" {
		apps = strings.Split(v, ",")
	}

	return pipeline.Options{
		Source:          s.source,
		IncludeBuiltins: !exclude,
		Apps:            apps,
		Logger:          s.logger,
	}
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	opts := s.optionsFromQuery(r)

	sch, err := s.runner.Fetch(r.Context(), opts)
	if err != nil {
		s.writeFetchError(w, r, err)
		return
	}
	s.record(sch)

	writeJSON(w, http.StatusOK, sch)
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	app := chi.URLParam(r, "app")
	model := chi.URLParam(r, "model")

	if err := apperrors.ValidateAppLabel(app); err != nil {
		writeError(w, http.StatusBadRequest, apperrors.UserMessage(err))
		return
	}
	if err := apperrors.ValidateModelName(model); err != nil {
		writeError(w, http.StatusBadRequest, apperrors.UserMessage(err))
		return
	}

	// Model lookup sees the whole schema, builtin apps included.
	opts := pipeline.Options{Source: s.source, IncludeBuiltins: true, Logger: s.logger}
	sch, err := s.runner.Fetch(r.Context(), opts)
	if err != nil {
		s.writeFetchError(w, r, err)
		return
	}

	m, ok := sch.Model(app, model)
	if !ok {
		writeError(w, http.StatusNotFound, "Model not found")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	opts := s.optionsFromQuery(r)
	opts.Formats = []string{pipeline.FormatSVG}
	opts.Interactive = true

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeFetchError(w, r, err)
		return
	}
	s.record(result.Schema)

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(result.Artifacts[pipeline.FormatSVG])
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

// record hands the schema to the snapshot recorder, if one is configured.
func (s *Server) record(sch *schema.Schema) {
	if s.recorder != nil {
		s.recorder.Record(sch)
	}
}

// writeFetchError maps schema loading failures onto HTTP statuses.
func (s *Server) writeFetchError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		"path", r.URL.Path,
		"err", err,
		"request_id", RequestIDFrom(r.Context()))

	switch {
	case errors.Is(err, schema.ErrNotFound):
		writeError(w, http.StatusNotFound, "Schema not found")
	case errors.Is(err, schema.ErrNetwork):
		writeError(w, http.StatusBadGateway, "Upstream schema source unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
