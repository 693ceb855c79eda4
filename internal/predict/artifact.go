// Package predict runs the per-target prediction models over extracted
// feature vectors. Models are trained offline and consumed here as opaque
// JSON artifacts; a missing artifact is an expected state, not an error.
package predict

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harvestlabs/farmpulse/internal/models"
)

const (
	// KindClassifier is a logistic model exposing class probabilities.
	KindClassifier = "classifier"
	// KindRegressor is a linear model with no native uncertainty estimate.
	KindRegressor = "regressor"
)

// Scaler holds the standardization parameters fitted during training.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform standardizes a feature vector in place-order: (x-mean)/scale.
func (s *Scaler) Transform(features []float64) ([]float64, error) {
	if len(features) != len(s.Mean) || len(features) != len(s.Scale) {
		return nil, fmt.Errorf("feature count %d does not match scaler size %d", len(features), len(s.Mean))
	}
	scaled := make([]float64, len(features))
	for i, v := range features {
		if s.Scale[i] == 0 {
			return nil, fmt.Errorf("scaler has zero scale at column %d", i)
		}
		scaled[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return scaled, nil
}

// Artifact is one trained model+scaler pair as exported by the offline
// training job.
type Artifact struct {
	Name           string    `json:"name"`
	Kind           string    `json:"kind"`
	FeatureColumns []string  `json:"feature_columns"`
	Scaler         *Scaler   `json:"scaler"`
	Weights        []float64 `json:"weights"`
	Bias           float64   `json:"bias"`
}

func (a *Artifact) validate() error {
	if a.Kind != KindClassifier && a.Kind != KindRegressor {
		return fmt.Errorf("unknown model kind %q", a.Kind)
	}
	if a.Scaler == nil {
		return fmt.Errorf("model %q has no scaler", a.Name)
	}
	if len(a.Weights) == 0 {
		return fmt.Errorf("model %q has no weights", a.Name)
	}
	return nil
}

var artifactFiles = map[models.Target]string{
	models.TargetIrrigation: "irrigation_model.json",
	models.TargetCropHealth: "crop_health_model.json",
	models.TargetYield:      "yield_model.json",
}

// LoadDir loads whichever model artifacts exist under dir. Targets without
// an artifact are simply absent from the returned map; the engine degrades
// around them.
func LoadDir(dir string) (map[models.Target]*Artifact, error) {
	loaded := make(map[models.Target]*Artifact)
	for _, target := range models.Targets {
		path := filepath.Join(dir, artifactFiles[target])
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var art Artifact
		if err := json.Unmarshal(data, &art); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if err := art.validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		loaded[target] = &art
	}
	return loaded, nil
}
