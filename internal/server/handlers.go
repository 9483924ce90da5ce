// internal/server/handlers.go
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"edna/internal/output"
	"edna/internal/pipeline"
	"edna/internal/version"
	"edna/pkg/api"
)

const maxRequestBody = 64 << 20 // 64 MiB of sequences per request

// Healthz reports liveness plus matcher wiring, for probes.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": version.Version,
		"matcher": h.client != nil,
	})
}

// Analyze runs one sample through the pipeline.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req api.AnalyzeRequestV1
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	opts := applyOptions(h.base, req.Options)
	rep, err := pipeline.Run(r.Context(), h.client, toInput(req), opts)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	rep.RunID = uuid.NewString()
	writeJSON(w, http.StatusOK, output.ToAPIReport(*rep))
}

// AnalyzeBatch runs several samples and adds cross-sample beta
// diversity when two or more complete.
func (h *Handler) AnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req api.AnalyzeBatchRequestV1
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.Samples) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("at least one sample is required"))
		return
	}

	opts := applyOptions(h.base, req.Options)
	inputs := make([]pipeline.Input, 0, len(req.Samples))
	for _, s := range req.Samples {
		// Per-sample option overrides are not supported; batch options
		// apply uniformly so the beta comparison stays meaningful.
		inputs = append(inputs, toInput(s))
	}

	batch, err := pipeline.RunBatch(r.Context(), h.client, inputs, opts)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	runID := uuid.NewString()
	for _, rep := range batch.Reports {
		rep.RunID = runID
	}
	writeJSON(w, http.StatusOK, output.ToAPIBatch(batch))
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func statusFor(err error) int {
	if errors.Is(err, pipeline.ErrValidation) || errors.Is(err, pipeline.ErrConfig) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
