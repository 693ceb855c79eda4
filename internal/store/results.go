package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harvestlabs/farmpulse/internal/models"
)

// SaveSensorResult persists one reading's full pipeline output: the reading
// row with the result document, plus flattened prediction, insight and alert
// rows for querying.
func (s *Store) SaveSensorResult(ctx context.Context, res models.SensorResult) error {
	resultJSON, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO readings (sensor_id, sensor_type, value, observed_at, location, result_json)
		VALUES (?, ?, ?, ?, ?, ?)
	`, res.Reading.SensorID, res.Reading.SensorType, res.Reading.Value, res.Reading.Timestamp.UTC(), res.Reading.Location, string(resultJSON)); err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}

	for _, target := range models.Targets {
		pred, ok := res.Predictions[target]
		if !ok {
			continue
		}
		featuresJSON, _ := json.Marshal(pred.FeaturesUsed)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO predictions (sensor_id, prediction_type, predicted_value, confidence, model_name, features_used, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, res.Reading.SensorID, pred.Target, pred.PredictedValue, pred.Confidence, pred.ModelName, string(featuresJSON), pred.Timestamp.UTC()); err != nil {
			return fmt.Errorf("insert prediction: %w", err)
		}
	}

	for _, target := range models.Targets {
		ins, ok := res.Insights[target]
		if !ok {
			continue
		}
		recsJSON, _ := json.Marshal(ins.Recommendations)
		warnsJSON, _ := json.Marshal(ins.Warnings)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO insights (sensor_id, category, insight_type, content, recommendations, warnings, confidence, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, res.Reading.SensorID, target, ins.InsightType, ins.Content, string(recsJSON), string(warnsJSON), ins.Confidence, ins.Timestamp.UTC()); err != nil {
			return fmt.Errorf("insert insight: %w", err)
		}
	}

	for _, a := range res.Alerts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO alerts (category, sensor_type, value, threshold, severity, message, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, a.Category, a.SensorType, a.Value, a.Threshold, a.Severity, a.Message, a.Timestamp.UTC()); err != nil {
			return fmt.Errorf("insert alert: %w", err)
		}
	}

	return tx.Commit()
}

// SaveBatchResult persists the farm-level status row and each per-sensor
// result of a batch.
func (s *Store) SaveBatchResult(ctx context.Context, batch models.BatchResult) error {
	for _, res := range batch.Sensors {
		if err := s.SaveSensorResult(ctx, res); err != nil {
			return err
		}
	}

	recsJSON, _ := json.Marshal(batch.Status.Recommendations)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO batch_status (farm_id, overall_health_score, alert_count, critical_alerts, warning_alerts, recommendations, sensor_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, batch.FarmID, batch.Status.OverallHealthScore, batch.Status.AlertCount, batch.Status.CriticalAlerts,
		batch.Status.WarningAlerts, string(recsJSON), batch.Status.SensorCount, batch.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("insert batch status: %w", err)
	}
	return nil
}

// GetPredictions returns the most recent predictions for a sensor, newest
// first.
func (s *Store) GetPredictions(ctx context.Context, sensorID string, limit int) ([]models.Prediction, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT prediction_type, predicted_value, confidence, model_name, features_used, created_at
		FROM predictions
		WHERE sensor_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, sensorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var preds []models.Prediction
	for rows.Next() {
		var p models.Prediction
		var featuresJSON sql.NullString
		if err := rows.Scan(&p.Target, &p.PredictedValue, &p.Confidence, &p.ModelName, &featuresJSON, &p.Timestamp); err != nil {
			return nil, err
		}
		p.FeaturesUsed = []string{}
		if featuresJSON.Valid && featuresJSON.String != "" {
			json.Unmarshal([]byte(featuresJSON.String), &p.FeaturesUsed)
		}
		preds = append(preds, p)
	}
	return preds, rows.Err()
}

// GetRecentAlerts returns alerts emitted within maxAge, newest first.
func (s *Store) GetRecentAlerts(ctx context.Context, maxAge time.Duration) ([]models.Alert, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, sensor_type, value, threshold, severity, message, created_at
		FROM alerts
		WHERE created_at > ?
		ORDER BY created_at DESC
	`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var a models.Alert
		if err := rows.Scan(&a.Category, &a.SensorType, &a.Value, &a.Threshold, &a.Severity, &a.Message, &a.Timestamp); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// GetRecentReadings returns up to limit stored readings, oldest first, for
// anomaly scans over recent history.
func (s *Store) GetRecentReadings(ctx context.Context, limit int) ([]models.Reading, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT sensor_id, sensor_type, value, observed_at, COALESCE(location, '')
		FROM readings
		ORDER BY observed_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []models.Reading
	for rows.Next() {
		var r models.Reading
		if err := rows.Scan(&r.SensorID, &r.SensorType, &r.Value, &r.Timestamp, &r.Location); err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Reverse to chronological order for windowed scans.
	for i, j := 0, len(readings)-1; i < j; i, j = i+1, j-1 {
		readings[i], readings[j] = readings[j], readings[i]
	}
	return readings, nil
}
