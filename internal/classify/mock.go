package classify

import "github.com/ayusman/fingerspell/internal/feature"

// MockClassifier is a test implementation of the Classifier interface.
// It returns a fixed prediction or error regardless of input.
type MockClassifier struct {
	prediction Prediction
	err        error
}

// NewMockClassifier creates a MockClassifier that predicts the given
// letter with the given confidence.
func NewMockClassifier(letter string, confidence float64) *MockClassifier {
	return &MockClassifier{
		prediction: Prediction{Letter: letter, Confidence: confidence},
	}
}

// SetPrediction sets the prediction returned by Classify.
func (m *MockClassifier) SetPrediction(letter string, confidence float64) {
	m.prediction = Prediction{Letter: letter, Confidence: confidence}
}

// SetError sets the error returned by Classify.
func (m *MockClassifier) SetError(err error) {
	m.err = err
}

// Classify returns the pre-configured prediction or error.
func (m *MockClassifier) Classify(v feature.Vector) (Prediction, error) {
	if m.err != nil {
		return Prediction{}, m.err
	}
	return m.prediction, nil
}
