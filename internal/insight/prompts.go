package insight

import "github.com/harvestlabs/farmpulse/internal/models"

// insightTypes are the canonical type labels for each category, used when a
// provider response does not name its own.
var insightTypes = map[models.Target]string{
	models.TargetIrrigation: "irrigation_recommendation",
	models.TargetCropHealth: "crop_health_assessment",
	models.TargetYield:      "yield_prediction",
}

var promptTemplates = map[models.Target]string{
	models.TargetIrrigation: `Based on the farm sensor data and ML prediction, provide irrigation recommendations.
Include:
1. Whether irrigation is needed and why
2. Specific recommendations for irrigation timing and amount
3. Any warnings about over/under irrigation
4. Weather considerations

Format your response as JSON with keys: insight_type, content, recommendations, warnings, confidence`,

	models.TargetCropHealth: `Based on the farm sensor data and ML prediction, provide crop health insights.
Include:
1. Assessment of current crop health
2. Factors affecting crop health
3. Recommendations for improvement
4. Potential issues to watch for

Format your response as JSON with keys: insight_type, content, recommendations, warnings, confidence`,

	models.TargetYield: `Based on the farm sensor data and ML prediction, provide yield insights.
Include:
1. Yield prediction analysis
2. Factors influencing yield
3. Recommendations to optimize yield
4. Risk factors affecting yield

Format your response as JSON with keys: insight_type, content, recommendations, warnings, confidence`,
}

func promptFor(category models.Target) string {
	if t, ok := promptTemplates[category]; ok {
		return t
	}
	return promptTemplates[models.TargetIrrigation]
}
