package forecast

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// ErrArtifactUnavailable marks a degraded-capability condition: the forecast
// artifacts are missing or unusable. Callers keep the rest of the dashboard
// functional and report the forecast area as unavailable.
var ErrArtifactUnavailable = errors.New("forecast artifact unavailable")

// artifactVersion is the artifact layout this build understands.
const artifactVersion = 1

// ModelArtifact is the persisted pre-trained model: an autoregressive linear
// map over a fixed window of scaled observations. Training happens elsewhere;
// this process only ever loads and applies it.
type ModelArtifact struct {
	Version int       `json:"version"`
	Window  int       `json:"window"`
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// ScalerArtifact is the persisted min-max value scaler paired with the model.
// Predictions happen in scaled space and are inverse-scaled back to the
// original monetary unit.
type ScalerArtifact struct {
	Version int     `json:"version"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// LoadAdapter loads the model and scaler artifacts from disk and validates
// them against each other. Every failure path wraps ErrArtifactUnavailable so
// callers need a single errors.Is check.
func LoadAdapter(modelPath, scalerPath string) (*Adapter, error) {
	var model ModelArtifact
	if err := loadArtifact(modelPath, &model); err != nil {
		return nil, fmt.Errorf("model %q: %w", modelPath, err)
	}
	var scaler ScalerArtifact
	if err := loadArtifact(scalerPath, &scaler); err != nil {
		return nil, fmt.Errorf("scaler %q: %w", scalerPath, err)
	}

	if model.Version != artifactVersion || scaler.Version != artifactVersion {
		return nil, fmt.Errorf("artifact version mismatch (model v%d, scaler v%d, want v%d): %w",
			model.Version, scaler.Version, artifactVersion, ErrArtifactUnavailable)
	}
	if model.Window <= 0 || len(model.Weights) != model.Window {
		return nil, fmt.Errorf("model window %d does not match %d weights: %w",
			model.Window, len(model.Weights), ErrArtifactUnavailable)
	}
	if scaler.Max <= scaler.Min {
		return nil, fmt.Errorf("degenerate scaler range [%v, %v]: %w", scaler.Min, scaler.Max, ErrArtifactUnavailable)
	}

	log.Debug().
		Str("model", modelPath).
		Int("window", model.Window).
		Msg("Loaded forecast artifacts")

	return &Adapter{model: model, scaler: scaler}, nil
}

func loadArtifact(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("not found: %w", ErrArtifactUnavailable)
		}
		return fmt.Errorf("read: %v: %w", err, ErrArtifactUnavailable)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("incompatible artifact: %v: %w", err, ErrArtifactUnavailable)
	}
	return nil
}
