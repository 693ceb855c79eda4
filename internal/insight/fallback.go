package insight

import (
	"time"

	"github.com/harvestlabs/farmpulse/internal/models"
)

// fallbackConfidence applies to every statically generated insight and to
// provider responses that omit a confidence.
const fallbackConfidence = 0.6

// fallbackInsight returns the category's canned advisory. It is used when no
// provider is configured, every provider fails, or a response cannot be
// normalized. The pipeline's contract is a complete result either way.
func fallbackInsight(category models.Target) models.Insight {
	now := time.Now().UTC()
	switch category {
	case models.TargetCropHealth:
		return models.Insight{
			InsightType: "crop_health_assessment",
			Content:     "Crop health assessment based on sensor data patterns and historical trends.",
			Recommendations: []string{
				"Maintain optimal soil moisture levels",
				"Monitor temperature and humidity conditions",
				"Regular soil testing recommended",
			},
			Warnings:   []string{"AI provider unavailable - using fallback assessment"},
			Confidence: fallbackConfidence,
			Timestamp:  now,
		}
	case models.TargetYield:
		return models.Insight{
			InsightType: "yield_prediction",
			Content:     "Yield prediction based on current sensor data and environmental conditions.",
			Recommendations: []string{
				"Optimize irrigation schedule",
				"Monitor crop development stages",
				"Consider weather patterns for yield optimization",
			},
			Warnings:   []string{"AI provider unavailable - using fallback prediction"},
			Confidence: fallbackConfidence,
			Timestamp:  now,
		}
	default:
		return models.Insight{
			InsightType: "irrigation_recommendation",
			Content:     "Based on sensor data analysis, irrigation recommendations are generated using rule-based logic.",
			Recommendations: []string{
				"Monitor soil moisture levels regularly",
				"Consider weather conditions before irrigation",
				"Avoid over-irrigation to prevent waterlogging",
			},
			Warnings:   []string{"AI provider unavailable - using fallback recommendations"},
			Confidence: fallbackConfidence,
			Timestamp:  now,
		}
	}
}
