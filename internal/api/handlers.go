package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/harvestlabs/farmpulse/internal/ingest"
	"github.com/harvestlabs/farmpulse/internal/models"
)

type apiResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// handleSensorData runs the full pipeline over one reading. Validation
// failures return 400 with the complete error list; every other degradation
// still yields a 200 with a complete result.
func (s *Server) handleSensorData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var reading models.Reading
	if err := json.NewDecoder(r.Body).Decode(&reading); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	result, validationErrs := s.pipeline.ProcessReading(r.Context(), reading)
	if validationErrs != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid sensor data", Details: validationErrs})
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{
		Success:   true,
		Message:   "Sensor data processed successfully",
		Data:      result,
		Timestamp: time.Now().UTC(),
	})
}

type batchRequest struct {
	FarmID  string           `json:"farm_id"`
	Sensors []models.Reading `json:"sensors"`
}

func (s *Server) handleSensorBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.FarmID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "farm_id is required"})
		return
	}

	batch := s.pipeline.ProcessBatch(r.Context(), req.FarmID, req.Sensors)

	writeJSON(w, http.StatusOK, apiResponse{
		Success:   true,
		Message:   "Batch data processed successfully",
		Data:      batch,
		Timestamp: time.Now().UTC(),
	})
}

func (s *Server) handlePredictions(w http.ResponseWriter, r *http.Request) {
	sensorID := strings.TrimPrefix(r.URL.Path, "/api/sensors/predictions/")
	if sensorID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "sensor id is required"})
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	preds, err := s.store.GetPredictions(r.Context(), sensorID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if preds == nil {
		preds = []models.Prediction{}
	}
	writeJSON(w, http.StatusOK, preds)
}

func (s *Server) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	readings, err := s.store.GetRecentReadings(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	anomalies := ingest.DetectAnomalies(readings, ingest.DefaultAnomalyWindow)
	if anomalies == nil {
		anomalies = []ingest.Anomaly{}
	}
	writeJSON(w, http.StatusOK, anomalies)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	maxAge := 24 * time.Hour
	if v := r.URL.Query().Get("hours"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxAge = time.Duration(n) * time.Hour
		}
	}

	alerts, err := s.store.GetRecentAlerts(r.Context(), maxAge)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if alerts == nil {
		alerts = []models.Alert{}
	}
	writeJSON(w, http.StatusOK, alerts)
}

type thresholdRequest struct {
	SensorType models.SensorType `json:"sensor_type"`
	Min        float64           `json:"min"`
	Max        float64           `json:"max"`
}

func (s *Server) handleThresholds(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.alerts.Thresholds())
	case http.MethodPost:
		var req thresholdRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
			return
		}
		if err := s.alerts.UpdateThresholds(req.SensorType, req.Min, req.Max); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, apiResponse{
			Success:   true,
			Message:   "Thresholds updated",
			Timestamp: time.Now().UTC(),
		})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
