package api

import (
	"log"
	"net/http"

	"github.com/ayusman/fingerspell/internal/classify"
	"github.com/ayusman/fingerspell/internal/store"
)

// TrainHandler rebuilds the classifier model from the stored samples.
type TrainHandler struct {
	store     *store.Store
	modelPath string
	onModel   func(*classify.CentroidModel)
}

// NewTrainHandler creates a TrainHandler. onModel is invoked with each
// freshly trained model so the caller can swap it into the live
// pipeline; it may be nil. When modelPath is non-empty the model is
// also persisted there.
func NewTrainHandler(s *store.Store, modelPath string, onModel func(*classify.CentroidModel)) *TrainHandler {
	return &TrainHandler{store: s, modelPath: modelPath, onModel: onModel}
}

type trainResponse struct {
	Letters []string       `json:"letters"`
	Counts  map[string]int `json:"counts"`
}

// ServeHTTP handles POST /api/train.
func (h *TrainHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	samples, err := h.store.Samples().TrainingSet()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load training samples")
		return
	}

	model, err := classify.NewTrainer().Train(samples)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.modelPath != "" {
		if err := model.Save(h.modelPath); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save model")
			return
		}
	}

	if h.onModel != nil {
		h.onModel(model)
	}

	log.Printf("Trained model with %d letters from %d samples", len(model.Letters()), len(samples))
	writeJSON(w, http.StatusOK, trainResponse{
		Letters: model.Letters(),
		Counts:  classify.Counts(samples),
	})
}
