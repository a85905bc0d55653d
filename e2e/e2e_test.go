package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/fingerspell/internal/app"
	"github.com/ayusman/fingerspell/internal/capture"
	"github.com/ayusman/fingerspell/internal/classify"
	"github.com/ayusman/fingerspell/internal/confirm"
	"github.com/ayusman/fingerspell/internal/detector"
	"github.com/ayusman/fingerspell/internal/feature"
	"github.com/ayusman/fingerspell/internal/server"
	"github.com/ayusman/fingerspell/internal/store"
	"gocv.io/x/gocv"
)

// trainFixtureModel builds a model from the preset letter shapes the
// mock detector produces.
func trainFixtureModel(t *testing.T) *classify.CentroidModel {
	t.Helper()

	var samples []classify.Sample
	for letter, lm := range map[string]*detector.HandLandmarks{
		"A": detector.LetterALandmarks(),
		"B": detector.LetterBLandmarks(),
		"S": detector.LetterSLandmarks(),
	} {
		v, err := feature.Extract(lm)
		if err != nil {
			t.Fatalf("Extract(%s) error = %v", letter, err)
		}
		samples = append(samples, classify.Sample{Letter: letter, Features: v})
	}

	model, err := classify.NewTrainer().Train(samples)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	return model
}

func TestE2E_HeldLetterDeliveredOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	application := app.New(app.Config{
		Classifier:    trainFixtureModel(t),
		FPS:           100,
		MinConfidence: 0.8,
		HoldDuration:  100 * time.Millisecond,
		QueueCapacity: 8,
	})

	mockDetector := detector.NewMockDetector()
	mockDetector.SetHand(detector.LetterSLandmarks())
	application.SetDetector(mockDetector)
	application.SetCamera(capture.NewMockCamera([]*gocv.Mat{&frame}, true))

	if err := application.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer application.Stop()

	// The fixture hand is held steady: exactly one confirmation comes
	// through the queue, then the debounce holds the line.
	var got string
	deadline := time.After(2 * time.Second)
	for got == "" {
		if e, ok := application.TryReceiveEvent(); ok {
			got = e.Letter
			break
		}
		select {
		case <-deadline:
			t.Fatal("no confirmed letter delivered")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if got != "S" {
		t.Errorf("confirmed letter = %q, want S", got)
	}

	time.Sleep(300 * time.Millisecond)
	if _, ok := application.TryReceiveEvent(); ok {
		t.Error("second event delivered while the hand never left the frame")
	}

	// Record the confirmation the way the consumer loop does, and check
	// it lands in the history API.
	if err := s.Events().Record(confirm.Event{Letter: got, ConfirmedAt: time.Now()}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	srv := server.New(server.Config{Store: s, App: application})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/events")
	if err != nil {
		t.Fatalf("GET /api/events error = %v", err)
	}
	defer resp.Body.Close()

	var listed struct {
		Events []struct {
			Letter string `json:"letter"`
		} `json:"events"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	if len(listed.Events) != 1 || listed.Events[0].Letter != "S" {
		t.Errorf("event history = %+v, want one S", listed.Events)
	}
}

func TestE2E_RecordTrainClassify(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	modelPath := filepath.Join(tmpDir, "model.json")
	srv := server.New(server.Config{Store: s, ModelPath: modelPath})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// Record one sample per fixture letter through the API.
	for letter, lm := range map[string]*detector.HandLandmarks{
		"A": detector.LetterALandmarks(),
		"B": detector.LetterBLandmarks(),
	} {
		v, err := feature.Extract(lm)
		if err != nil {
			t.Fatalf("Extract(%s) error = %v", letter, err)
		}
		body, _ := json.Marshal(map[string]any{"letter": letter, "features": v[:]})

		resp, err := client.Post(ts.URL+"/api/samples", "application/json", bytes.NewBuffer(body))
		if err != nil {
			t.Fatalf("POST /api/samples error = %v", err)
		}
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("POST sample status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}
		resp.Body.Close()
	}

	resp, err := client.Post(ts.URL+"/api/train", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/train error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /api/train status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	// The trained artifact recognizes the shapes it was built from.
	model, err := classify.LoadModel(modelPath)
	if err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}

	v, _ := feature.Extract(detector.LetterBLandmarks())
	pred, err := model.Classify(v)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if pred.Letter != "B" {
		t.Errorf("prediction = %q, want B", pred.Letter)
	}
	if pred.Confidence < 0.99 {
		t.Errorf("confidence = %f, want ~1.0 for a shape in the training set", pred.Confidence)
	}
}
