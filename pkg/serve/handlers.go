package serve

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/Natan-Ledur/Churn-ML-ap/pkg/data"
	"github.com/Natan-Ledur/Churn-ML-ap/pkg/pipeline"
)

// PredictRequest is the body of POST /predict.
type PredictRequest struct {
	Records []map[string]any `json:"records"`
}

// PredictResponse holds one positive-class probability per record, in order.
type PredictResponse struct {
	Predictions []float64 `json:"predictions"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status        string  `json:"status"`
	ModelID       string  `json:"model_id,omitempty"`
	Started       string  `json:"started"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				errors.Errorf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "malformed request body"))
		return
	}
	if len(req.Records) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("records must not be empty"))
		return
	}
	df, err := data.FromRecords(req.Records)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	proba, err := s.pipeline.PredictProba(df)
	switch {
	case errors.Is(err, pipeline.ErrSchemaMismatch):
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	case err != nil:
		klog.ErrorS(err, "prediction failed", "records", len(req.Records))
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.metrics.latency.Observe(time.Since(start).Seconds())
	s.metrics.rows.Add(float64(len(proba)))
	writeJSON(w, http.StatusOK, PredictResponse{Predictions: proba})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		ModelID:       s.modelID,
		Started:       humanize.Time(s.started),
		UptimeSeconds: time.Since(s.started).Seconds(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		klog.ErrorS(err, "encode response")
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, errorResponse{Error: err.Error()})
}
