// Package classify maps pose descriptors to fingerspelled letters using a
// pretrained model artifact.
package classify

import (
	"fmt"

	"github.com/ayusman/fingerspell/internal/feature"
)

// Prediction is a single per-frame classification: an uppercase letter
// A-Z and the model's confidence in it. Predictions carry no identity
// beyond the frame they came from.
type Prediction struct {
	Letter     string  `json:"letter"`
	Confidence float64 `json:"confidence"`
}

// Classifier defines the interface for letter classification
// implementations. Implementations are stateless across calls.
type Classifier interface {
	// Classify maps a pose descriptor to a letter prediction.
	Classify(v feature.Vector) (Prediction, error)
}

// DimensionError reports a malformed feature vector reaching the model.
// It indicates a contract violation between the normalizer and the
// classifier, not a recoverable condition; callers log it and skip the
// tick rather than coercing the input.
type DimensionError struct {
	Got  int
	Want int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("feature vector has %d dimensions, model expects %d", e.Got, e.Want)
}

// ClassifySlice validates the dimensionality of a raw value slice before
// handing it to the model. This is the entry point for feature data that
// did not come out of the in-process normalizer (API requests, stored
// samples); a wrong length fails with a typed DimensionError, never a
// truncated classification.
func ClassifySlice(c Classifier, values []float64) (Prediction, error) {
	if len(values) != feature.Dim {
		return Prediction{}, &DimensionError{Got: len(values), Want: feature.Dim}
	}
	v, err := feature.FromSlice(values)
	if err != nil {
		return Prediction{}, err
	}
	return c.Classify(v)
}

// IsLetter reports whether s is a single uppercase letter A-Z.
func IsLetter(s string) bool {
	return len(s) == 1 && s[0] >= 'A' && s[0] <= 'Z'
}
