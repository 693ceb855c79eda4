// Package alerts evaluates sensor values against configurable min/max
// thresholds.
package alerts

import (
	"fmt"
	"sync"
	"time"

	"github.com/harvestlabs/farmpulse/internal/metrics"
	"github.com/harvestlabs/farmpulse/internal/models"
)

// Threshold is the inclusive acceptable band for one sensor category.
type Threshold struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Engine holds the process-wide threshold table. Reads vastly outnumber
// writes; UpdateThresholds is the only write path.
type Engine struct {
	mu         sync.RWMutex
	thresholds map[models.SensorType]Threshold
}

// NewEngine returns an engine with the default agronomic thresholds.
func NewEngine() *Engine {
	return &Engine{
		thresholds: map[models.SensorType]Threshold{
			models.SensorAirTemperature:  {Min: 5, Max: 35},
			models.SensorAirHumidity:     {Min: 20, Max: 90},
			models.SensorSoilMoisture:    {Min: 20, Max: 80},
			models.SensorSoilTemperature: {Min: 5, Max: 30},
		},
	}
}

// Check evaluates each present sensor value against its threshold band.
// A value below the minimum emits a warning alert, above the maximum a
// critical one; one value can trigger at most one alert. Categories are
// visited in a stable order so output ordering is deterministic.
func (e *Engine) Check(values map[models.SensorType]float64) []models.Alert {
	e.mu.RLock()
	defer e.mu.RUnlock()

	now := time.Now().UTC()
	var out []models.Alert
	for _, st := range models.SensorTypes {
		value, present := values[st]
		if !present {
			continue
		}
		th, known := e.thresholds[st]
		if !known {
			continue
		}
		switch {
		case value < th.Min:
			out = append(out, models.Alert{
				Category:   "low_threshold",
				SensorType: st,
				Value:      value,
				Threshold:  th.Min,
				Severity:   models.SeverityWarning,
				Message:    fmt.Sprintf("%s is below minimum threshold", st),
				Timestamp:  now,
			})
		case value > th.Max:
			out = append(out, models.Alert{
				Category:   "high_threshold",
				SensorType: st,
				Value:      value,
				Threshold:  th.Max,
				Severity:   models.SeverityCritical,
				Message:    fmt.Sprintf("%s is above maximum threshold", st),
				Timestamp:  now,
			})
		}
	}
	for _, a := range out {
		metrics.AlertsEmitted.WithLabelValues(string(a.SensorType), string(a.Severity)).Inc()
	}
	return out
}

// UpdateThresholds replaces the band for a known sensor category. Unknown
// categories are rejected rather than silently added.
func (e *Engine) UpdateThresholds(st models.SensorType, min, max float64) error {
	if min > max {
		return fmt.Errorf("min %g exceeds max %g", min, max)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, known := e.thresholds[st]; !known {
		return fmt.Errorf("unknown sensor type: %s", st)
	}
	e.thresholds[st] = Threshold{Min: min, Max: max}
	return nil
}

// Thresholds returns a copy of the current threshold table.
func (e *Engine) Thresholds() map[models.SensorType]Threshold {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[models.SensorType]Threshold, len(e.thresholds))
	for st, th := range e.thresholds {
		out[st] = th
	}
	return out
}
