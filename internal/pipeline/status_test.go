package pipeline

import (
	"reflect"
	"testing"

	"github.com/harvestlabs/farmpulse/internal/models"
)

func healthResult(score float64) models.SensorResult {
	return models.SensorResult{
		Predictions: map[models.Target]models.Prediction{
			models.TargetCropHealth: {Target: models.TargetCropHealth, PredictedValue: score},
		},
	}
}

func TestAggregateStatusEmpty(t *testing.T) {
	status := AggregateStatus(nil)
	if status.OverallHealthScore != 50.0 {
		t.Errorf("health = %g, want 50", status.OverallHealthScore)
	}
	want := []string{"No sensor data available"}
	if !reflect.DeepEqual(status.Recommendations, want) {
		t.Errorf("recommendations = %v, want %v", status.Recommendations, want)
	}
	if status.SensorCount != 0 {
		t.Errorf("sensor count = %d", status.SensorCount)
	}
}

func TestAggregateStatusAveragesHealth(t *testing.T) {
	status := AggregateStatus([]models.SensorResult{
		healthResult(80),
		healthResult(71),
	})
	// (80 + 71) / 2 = 75.5, rounded to one decimal.
	if status.OverallHealthScore != 75.5 {
		t.Errorf("health = %g, want 75.5", status.OverallHealthScore)
	}
	if len(status.Recommendations) != 0 {
		t.Errorf("recommendations = %v, want none", status.Recommendations)
	}
	if status.SensorCount != 2 {
		t.Errorf("sensor count = %d, want 2", status.SensorCount)
	}
}

func TestAggregateStatusMissingHealthDefaults(t *testing.T) {
	// Results without a crop health prediction fall back to the neutral 50.
	status := AggregateStatus([]models.SensorResult{{}})
	if status.OverallHealthScore != 50.0 {
		t.Errorf("health = %g, want 50", status.OverallHealthScore)
	}
	// 50 is below the 60 advisory line.
	want := []string{"Crop health below optimal - check soil conditions"}
	if !reflect.DeepEqual(status.Recommendations, want) {
		t.Errorf("recommendations = %v, want %v", status.Recommendations, want)
	}
}

func TestAggregateStatusRecommendationOrder(t *testing.T) {
	results := []models.SensorResult{
		{
			Predictions: map[models.Target]models.Prediction{
				models.TargetIrrigation: {Target: models.TargetIrrigation, PredictedValue: 1},
				models.TargetCropHealth: {Target: models.TargetCropHealth, PredictedValue: 40},
			},
			Alerts: []models.Alert{
				{Severity: models.SeverityCritical},
				{Severity: models.SeverityWarning},
			},
		},
	}
	status := AggregateStatus(results)

	want := []string{
		"Irrigation recommended for multiple fields",
		"Crop health below optimal - check soil conditions",
		"Address critical alerts immediately",
	}
	if !reflect.DeepEqual(status.Recommendations, want) {
		t.Errorf("recommendations = %v, want %v", status.Recommendations, want)
	}
	if status.AlertCount != 2 || status.CriticalAlerts != 1 || status.WarningAlerts != 1 {
		t.Errorf("alert counts = %d/%d/%d", status.AlertCount, status.CriticalAlerts, status.WarningAlerts)
	}
}

func TestAggregateStatusIrrigationZeroIsNotNeeded(t *testing.T) {
	results := []models.SensorResult{
		{
			Predictions: map[models.Target]models.Prediction{
				models.TargetIrrigation: {Target: models.TargetIrrigation, PredictedValue: 0},
				models.TargetCropHealth: {Target: models.TargetCropHealth, PredictedValue: 85},
			},
		},
	}
	status := AggregateStatus(results)
	if len(status.Recommendations) != 0 {
		t.Errorf("recommendations = %v, want none", status.Recommendations)
	}
}
