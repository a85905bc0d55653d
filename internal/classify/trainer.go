package classify

import (
	"fmt"

	"github.com/ayusman/fingerspell/internal/feature"
)

// Sample is a labeled pose descriptor used for offline training.
type Sample struct {
	Letter   string         `json:"letter"`
	Features feature.Vector `json:"features"`
}

// Trainer builds classifier artifacts from recorded samples.
type Trainer struct{}

// NewTrainer creates a new Trainer instance.
func NewTrainer() *Trainer {
	return &Trainer{}
}

// Train averages the samples of each letter into a centroid and returns
// the resulting model. Every letter needs at least one sample; labels
// must be single uppercase letters A-Z.
func (t *Trainer) Train(samples []Sample) (*CentroidModel, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples provided")
	}

	sums := make(map[string][]float64)
	counts := make(map[string]int)

	for i, s := range samples {
		if !IsLetter(s.Letter) {
			return nil, fmt.Errorf("sample %d has invalid label %q, want a single uppercase letter A-Z", i, s.Letter)
		}

		sum, ok := sums[s.Letter]
		if !ok {
			sum = make([]float64, feature.Dim)
			sums[s.Letter] = sum
		}
		for j, v := range s.Features {
			sum[j] += v
		}
		counts[s.Letter]++
	}

	model := &CentroidModel{
		Centroids: make(map[string][]float64, len(sums)),
	}
	for letter, sum := range sums {
		n := float64(counts[letter])
		centroid := make([]float64, feature.Dim)
		for j, v := range sum {
			centroid[j] = v / n
		}
		model.Centroids[letter] = centroid
	}

	return model, nil
}

// Counts returns the number of samples per letter, for reporting after
// a training run.
func Counts(samples []Sample) map[string]int {
	counts := make(map[string]int)
	for _, s := range samples {
		counts[s.Letter]++
	}
	return counts
}
