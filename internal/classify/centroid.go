package classify

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/ayusman/fingerspell/internal/feature"
)

// CentroidModel is a nearest-centroid classifier over pose descriptors:
// one averaged 42-dimensional centroid per letter, trained offline from
// recorded samples. Confidence is 1/(1+distance) to the winning
// centroid, so an exact match scores 1.0 and decays with distance.
type CentroidModel struct {
	Centroids map[string][]float64 `json:"centroids"`
}

// LoadModel reads a serialized model artifact from disk. A missing or
// corrupt artifact is a fatal startup error; the pipeline must not run
// without a valid model.
func LoadModel(path string) (*CentroidModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load model %q: %w", path, err)
	}

	var m CentroidModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse model %q: %w", path, err)
	}

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("model %q: %w", path, err)
	}
	return &m, nil
}

// Save writes the model artifact to disk as JSON.
func (m *CentroidModel) Save(path string) error {
	if err := m.validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write model %q: %w", path, err)
	}
	return nil
}

// Classify returns the letter whose centroid is nearest to v, with
// confidence 1/(1+distance).
func (m *CentroidModel) Classify(v feature.Vector) (Prediction, error) {
	if len(m.Centroids) == 0 {
		return Prediction{}, fmt.Errorf("model has no centroids")
	}

	bestLetter := ""
	bestDist := math.Inf(1)

	for _, letter := range m.Letters() {
		centroid := m.Centroids[letter]
		if len(centroid) != feature.Dim {
			return Prediction{}, &DimensionError{Got: len(centroid), Want: feature.Dim}
		}

		var sum float64
		for i, c := range centroid {
			d := v[i] - c
			sum += d * d
		}
		dist := math.Sqrt(sum)

		if dist < bestDist {
			bestDist = dist
			bestLetter = letter
		}
	}

	return Prediction{
		Letter:     bestLetter,
		Confidence: 1.0 / (1.0 + bestDist),
	}, nil
}

// Letters returns the model's known letters in sorted order.
func (m *CentroidModel) Letters() []string {
	letters := make([]string, 0, len(m.Centroids))
	for letter := range m.Centroids {
		letters = append(letters, letter)
	}
	sort.Strings(letters)
	return letters
}

func (m *CentroidModel) validate() error {
	if len(m.Centroids) == 0 {
		return fmt.Errorf("model has no centroids")
	}
	for letter, centroid := range m.Centroids {
		if !IsLetter(letter) {
			return fmt.Errorf("invalid label %q, want a single uppercase letter A-Z", letter)
		}
		if len(centroid) != feature.Dim {
			return fmt.Errorf("centroid for %q has %d dimensions, want %d", letter, len(centroid), feature.Dim)
		}
	}
	return nil
}
