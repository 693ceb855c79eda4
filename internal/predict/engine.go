package predict

import (
	"fmt"
	"log"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/harvestlabs/farmpulse/internal/metrics"
	"github.com/harvestlabs/farmpulse/internal/models"
)

// regressionConfidence is a fixed constant: the linear regressors carry no
// native uncertainty estimate, so every successful regression prediction
// reports the same confidence. Downstream insight text depends on this
// value, so it must not be replaced with a derived measure.
const regressionConfidence = 0.8

// Neutral values returned when a target's model is unavailable or fails.
var neutralValues = map[models.Target]float64{
	models.TargetIrrigation: 0,
	models.TargetCropHealth: 50.0,
	models.TargetYield:      2000.0,
}

// defaultFeatures is reported for degraded predictions, where the artifact's
// own feature column list is unavailable.
var defaultFeatures = []string{"temperature", "humidity", "soil_moisture", "soil_temperature"}

// Engine owns the loaded model artifacts. The map is populated once at
// startup and read-only afterwards, so concurrent Predict calls need no
// locking.
type Engine struct {
	artifacts map[models.Target]*Artifact
}

func NewEngine(artifacts map[models.Target]*Artifact) *Engine {
	if artifacts == nil {
		artifacts = make(map[models.Target]*Artifact)
	}
	for target := range artifacts {
		log.Printf("predict: %s model loaded", target)
	}
	return &Engine{artifacts: artifacts}
}

// Loaded reports which targets have a model available.
func (e *Engine) Loaded() []models.Target {
	var targets []models.Target
	for _, t := range models.Targets {
		if _, ok := e.artifacts[t]; ok {
			targets = append(targets, t)
		}
	}
	return targets
}

// Predict runs the target's model over the feature vector. It never returns
// an error: an absent model yields a "default" result and any inference
// failure is converted to an "error" result, both with confidence 0.5.
// Predictions must never abort the surrounding request.
func (e *Engine) Predict(target models.Target, features []float64) models.Prediction {
	art, ok := e.artifacts[target]
	if !ok {
		log.Printf("predict: %s model not loaded, returning default prediction", target)
		metrics.PredictionsTotal.WithLabelValues(string(target), "default").Inc()
		return degraded(target, "default", defaultFeatures)
	}

	pred, err := e.infer(art, features)
	if err != nil {
		log.Printf("predict: %s inference failed: %v", target, err)
		metrics.PredictionsTotal.WithLabelValues(string(target), "error").Inc()
		return degraded(target, "error", nil)
	}

	pred.Target = target
	pred.Timestamp = time.Now().UTC()
	metrics.PredictionsTotal.WithLabelValues(string(target), pred.ModelName).Inc()
	return pred
}

func (e *Engine) infer(art *Artifact, features []float64) (models.Prediction, error) {
	scaled, err := art.Scaler.Transform(features)
	if err != nil {
		return models.Prediction{}, err
	}
	if len(scaled) != len(art.Weights) {
		return models.Prediction{}, fmt.Errorf("feature count %d does not match model size %d", len(scaled), len(art.Weights))
	}

	z := floats.Dot(art.Weights, scaled) + art.Bias
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return models.Prediction{}, fmt.Errorf("non-finite model output")
	}

	switch art.Kind {
	case KindClassifier:
		// Logistic output: confidence is the maximum class probability.
		p := 1 / (1 + math.Exp(-z))
		value, confidence := 0.0, 1-p
		if p >= 0.5 {
			value, confidence = 1.0, p
		}
		return models.Prediction{
			PredictedValue: value,
			Confidence:     confidence,
			ModelName:      art.Name,
			FeaturesUsed:   art.FeatureColumns,
		}, nil
	case KindRegressor:
		return models.Prediction{
			PredictedValue: z,
			Confidence:     regressionConfidence,
			ModelName:      art.Name,
			FeaturesUsed:   art.FeatureColumns,
		}, nil
	default:
		return models.Prediction{}, fmt.Errorf("unknown model kind %q", art.Kind)
	}
}

func degraded(target models.Target, modelName string, featuresUsed []string) models.Prediction {
	if featuresUsed == nil {
		featuresUsed = []string{}
	}
	return models.Prediction{
		Target:         target,
		PredictedValue: neutralValues[target],
		Confidence:     0.5,
		ModelName:      modelName,
		FeaturesUsed:   featuresUsed,
		Timestamp:      time.Now().UTC(),
	}
}
