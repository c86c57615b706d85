// Package server exposes the model-performance reports over HTTP for the
// dashboard.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"scrutiny/internal/dataset"
	"scrutiny/internal/perf"

	"github.com/rs/zerolog/log"
)

// Server serves the report endpoints.
type Server struct {
	reporter *perf.Reporter
	port     int
}

// New creates a Server for the given reporter.
func New(reporter *perf.Reporter, port int) *Server {
	return &Server{reporter: reporter, port: port}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /dataset_splits/{split}/outcome_count/per_filter", s.handleOutcomeCountPerFilter)
	mux.HandleFunc("GET /dataset_splits/{split}/outcome_count/per_threshold", s.handleOutcomeCountPerThreshold)
	mux.HandleFunc("GET /dataset_splits/{split}/utterance_count/per_filter", s.handleUtteranceCountPerFilter)

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down server")
		_ = srv.Shutdown(context.Background())
	}()

	log.Info().Int("port", s.port).Msg("Starting server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleOutcomeCountPerFilter(w http.ResponseWriter, r *http.Request) {
	split, pipelineIndex, ok := s.splitAndPipeline(w, r)
	if !ok {
		return
	}
	withoutPostprocessing, err := boolQuery(r, "without_postprocessing")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.reporter.OutcomeCountPerFilter(split, pipelineIndex, withoutPostprocessing)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleOutcomeCountPerThreshold(w http.ResponseWriter, r *http.Request) {
	split, pipelineIndex, ok := s.splitAndPipeline(w, r)
	if !ok {
		return
	}
	ticks, err := intQuery(r, "ticks", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.reporter.OutcomeCountPerThreshold(r.Context(), split, pipelineIndex, ticks)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, perf.ErrNotEditable) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleUtteranceCountPerFilter(w http.ResponseWriter, r *http.Request) {
	split, pipelineIndex, ok := s.splitAndPipeline(w, r)
	if !ok {
		return
	}

	res, err := s.reporter.UtteranceCountPerFilter(split, pipelineIndex)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// splitAndPipeline parses the split path value and pipeline_index query
// parameter, writing a 400 response itself when either is invalid.
func (s *Server) splitAndPipeline(w http.ResponseWriter, r *http.Request) (dataset.Split, int, bool) {
	split, err := dataset.ParseSplit(r.PathValue("split"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return "", 0, false
	}
	pipelineIndex, err := intQuery(r, "pipeline_index", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return "", 0, false
	}
	if pipelineIndex < 0 || pipelineIndex >= s.reporter.NumPipelines() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("pipeline_index %d out of range", pipelineIndex))
		return "", 0, false
	}
	return split, pipelineIndex, true
}

func intQuery(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return v, nil
}

func boolQuery(r *http.Request, key string) (bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", key, raw)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
