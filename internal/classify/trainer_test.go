package classify

import (
	"math"
	"testing"

	"github.com/ayusman/fingerspell/internal/feature"
)

func TestTrainer_Train(t *testing.T) {
	trainer := NewTrainer()

	t.Run("averages samples per letter", func(t *testing.T) {
		var low, high feature.Vector
		for i := range low {
			low[i] = 0.0
			high[i] = 1.0
		}

		model, err := trainer.Train([]Sample{
			{Letter: "A", Features: low},
			{Letter: "A", Features: high},
		})
		if err != nil {
			t.Fatalf("Train() error = %v", err)
		}

		centroid := model.Centroids["A"]
		if len(centroid) != feature.Dim {
			t.Fatalf("centroid has %d dimensions, want %d", len(centroid), feature.Dim)
		}
		for i, v := range centroid {
			if math.Abs(v-0.5) > 1e-9 {
				t.Errorf("centroid[%d] = %f, want 0.5", i, v)
			}
		}
	})

	t.Run("one centroid per distinct letter", func(t *testing.T) {
		model, err := trainer.Train([]Sample{
			{Letter: "A"},
			{Letter: "B"},
			{Letter: "B"},
			{Letter: "C"},
		})
		if err != nil {
			t.Fatalf("Train() error = %v", err)
		}

		if len(model.Centroids) != 3 {
			t.Errorf("got %d centroids, want 3", len(model.Centroids))
		}

		letters := model.Letters()
		want := []string{"A", "B", "C"}
		for i, l := range want {
			if letters[i] != l {
				t.Errorf("Letters()[%d] = %q, want %q", i, letters[i], l)
			}
		}
	})

	t.Run("no samples", func(t *testing.T) {
		if _, err := trainer.Train(nil); err == nil {
			t.Error("expected error for empty sample set, got nil")
		}
	})

	t.Run("invalid labels rejected", func(t *testing.T) {
		for _, label := range []string{"", "a", "AB", "1", " "} {
			_, err := trainer.Train([]Sample{{Letter: label}})
			if err == nil {
				t.Errorf("Train() with label %q: expected error, got nil", label)
			}
		}
	})
}

func TestCounts(t *testing.T) {
	counts := Counts([]Sample{
		{Letter: "A"},
		{Letter: "A"},
		{Letter: "S"},
	})

	if counts["A"] != 2 {
		t.Errorf("counts[A] = %d, want 2", counts["A"])
	}
	if counts["S"] != 1 {
		t.Errorf("counts[S] = %d, want 1", counts["S"])
	}
	if len(counts) != 2 {
		t.Errorf("len(counts) = %d, want 2", len(counts))
	}
}
