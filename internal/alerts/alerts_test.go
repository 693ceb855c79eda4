package alerts

import (
	"testing"

	"github.com/harvestlabs/farmpulse/internal/models"
)

func TestCheckLowThreshold(t *testing.T) {
	engine := NewEngine()

	alerts := engine.Check(map[models.SensorType]float64{
		models.SensorAirTemperature: 2,
	})
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(alerts))
	}
	a := alerts[0]
	if a.Category != "low_threshold" {
		t.Errorf("category = %q", a.Category)
	}
	if a.Severity != models.SeverityWarning {
		t.Errorf("severity = %q, want warning", a.Severity)
	}
	if a.Threshold != 5 {
		t.Errorf("threshold = %g, want 5", a.Threshold)
	}
	if a.Message != "air_temperature is below minimum threshold" {
		t.Errorf("message = %q", a.Message)
	}
}

func TestCheckHighThreshold(t *testing.T) {
	engine := NewEngine()

	alerts := engine.Check(map[models.SensorType]float64{
		models.SensorSoilMoisture: 95,
	})
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(alerts))
	}
	a := alerts[0]
	if a.Category != "high_threshold" {
		t.Errorf("category = %q", a.Category)
	}
	if a.Severity != models.SeverityCritical {
		t.Errorf("severity = %q, want critical", a.Severity)
	}
	if a.Threshold != 80 {
		t.Errorf("threshold = %g, want 80", a.Threshold)
	}
}

func TestCheckInRange(t *testing.T) {
	engine := NewEngine()

	// Boundary values are inside the band, not violations.
	alerts := engine.Check(map[models.SensorType]float64{
		models.SensorAirTemperature:  5,
		models.SensorAirHumidity:     90,
		models.SensorSoilMoisture:    50,
		models.SensorSoilTemperature: 30,
	})
	if len(alerts) != 0 {
		t.Errorf("got %d alerts, want 0: %+v", len(alerts), alerts)
	}
}

func TestCheckMultipleOrdered(t *testing.T) {
	engine := NewEngine()

	alerts := engine.Check(map[models.SensorType]float64{
		models.SensorSoilMoisture:   95,
		models.SensorAirTemperature: 2,
	})
	if len(alerts) != 2 {
		t.Fatalf("got %d alerts, want 2", len(alerts))
	}
	// Output follows the canonical sensor type order regardless of map order.
	if alerts[0].SensorType != models.SensorAirTemperature {
		t.Errorf("first alert sensor = %q", alerts[0].SensorType)
	}
	if alerts[1].SensorType != models.SensorSoilMoisture {
		t.Errorf("second alert sensor = %q", alerts[1].SensorType)
	}
}

func TestUpdateThresholds(t *testing.T) {
	engine := NewEngine()

	if err := engine.UpdateThresholds(models.SensorAirTemperature, 0, 40); err != nil {
		t.Fatalf("UpdateThresholds: %v", err)
	}
	th := engine.Thresholds()[models.SensorAirTemperature]
	if th.Min != 0 || th.Max != 40 {
		t.Errorf("threshold = %+v, want {0 40}", th)
	}

	alerts := engine.Check(map[models.SensorType]float64{
		models.SensorAirTemperature: 2,
	})
	if len(alerts) != 0 {
		t.Errorf("got %d alerts after widening band, want 0", len(alerts))
	}
}

func TestUpdateThresholdsRejectsInvalid(t *testing.T) {
	engine := NewEngine()

	if err := engine.UpdateThresholds(models.SensorAirTemperature, 50, 10); err == nil {
		t.Error("expected error for min > max")
	}
	if err := engine.UpdateThresholds(models.SensorType("wind_speed"), 0, 10); err == nil {
		t.Error("expected error for unknown sensor type")
	}
}
