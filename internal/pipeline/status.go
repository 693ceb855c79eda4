package pipeline

import (
	"math"

	"github.com/harvestlabs/farmpulse/internal/models"
)

// AggregateStatus folds per-sensor results into one farm-level status. The
// three recommendation checks run in a fixed order, so the recommendation
// list is a deterministic function of (any irrigation needed, average health
// below 60, any critical alert).
func AggregateStatus(results []models.SensorResult) models.FarmStatus {
	if len(results) == 0 {
		return models.FarmStatus{
			OverallHealthScore: 50.0,
			Recommendations:    []string{"No sensor data available"},
		}
	}

	var healthSum float64
	var healthCount int
	var alertCount, criticalCount, warningCount int
	irrigationNeeded := false

	for _, res := range results {
		if pred, ok := res.Predictions[models.TargetCropHealth]; ok {
			healthSum += pred.PredictedValue
			healthCount++
		}
		if pred, ok := res.Predictions[models.TargetIrrigation]; ok && pred.PredictedValue == 1 {
			irrigationNeeded = true
		}
		for _, a := range res.Alerts {
			alertCount++
			switch a.Severity {
			case models.SeverityCritical:
				criticalCount++
			case models.SeverityWarning:
				warningCount++
			}
		}
	}

	avgHealth := 50.0
	if healthCount > 0 {
		avgHealth = healthSum / float64(healthCount)
	}

	recommendations := []string{}
	if irrigationNeeded {
		recommendations = append(recommendations, "Irrigation recommended for multiple fields")
	}
	if avgHealth < 60 {
		recommendations = append(recommendations, "Crop health below optimal - check soil conditions")
	}
	if criticalCount > 0 {
		recommendations = append(recommendations, "Address critical alerts immediately")
	}

	return models.FarmStatus{
		OverallHealthScore: math.Round(avgHealth*10) / 10,
		AlertCount:         alertCount,
		CriticalAlerts:     criticalCount,
		WarningAlerts:      warningCount,
		Recommendations:    recommendations,
		SensorCount:        len(results),
	}
}
