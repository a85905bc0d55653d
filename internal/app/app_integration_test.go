package app

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ayusman/fingerspell/internal/capture"
	"github.com/ayusman/fingerspell/internal/classify"
	"github.com/ayusman/fingerspell/internal/confirm"
	"github.com/ayusman/fingerspell/internal/detector"
	"gocv.io/x/gocv"
)

// testApp builds an App on a looping mock camera, a scripted detector,
// and a fixed classifier, with the hold window shrunk so tests finish
// quickly.
func testApp(t *testing.T, c classify.Classifier) (*App, *detector.MockDetector) {
	t.Helper()

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { frame.Close() })

	app := New(Config{
		Classifier:    c,
		FPS:           100,
		MinConfidence: 0.8,
		HoldDuration:  100 * time.Millisecond,
		QueueCapacity: 8,
	})
	app.camera = capture.NewMockCamera([]*gocv.Mat{&frame}, true)

	mock := detector.NewMockDetector()
	app.SetDetector(mock)
	return app, mock
}

// waitForEvent polls TryReceiveEvent until an event arrives or the
// deadline passes.
func waitForEvent(t *testing.T, app *App, timeout time.Duration) (confirm.Event, bool) {
	t.Helper()

	deadline := time.After(timeout)
	for {
		if e, ok := app.TryReceiveEvent(); ok {
			return e, true
		}
		select {
		case <-deadline:
			return confirm.Event{}, false
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestApp_HeldLetterReachesConsumer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app, mock := testApp(t, classify.NewMockClassifier("A", 0.9))
	hand := detector.LetterALandmarks()
	mock.SetHand(hand)

	if err := app.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer app.Stop()

	e, ok := waitForEvent(t, app, 2*time.Second)
	if !ok {
		t.Fatal("no confirmed letter reached the consumer")
	}
	if e.Letter != "A" {
		t.Errorf("event letter = %q, want A", e.Letter)
	}

	// Still holding: the debounce must suppress a second confirmation.
	if _, ok := waitForEvent(t, app, 300*time.Millisecond); ok {
		t.Error("debounce failed: second event while the hand never left")
	}

	// Hand leaves, then returns: a fresh hold confirms again.
	mock.SetHand(nil)
	time.Sleep(50 * time.Millisecond)
	mock.SetHand(hand)

	if _, ok := waitForEvent(t, app, 2*time.Second); !ok {
		t.Error("no event after re-presenting the hand")
	}
}

func TestApp_DisabledTicksDiscardHold(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app, mock := testApp(t, classify.NewMockClassifier("B", 0.95))
	mock.SetHand(detector.LetterBLandmarks())
	app.SetEnabled(false)

	if err := app.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer app.Stop()

	if _, ok := waitForEvent(t, app, 300*time.Millisecond); ok {
		t.Fatal("disabled pipeline confirmed a letter")
	}

	app.SetEnabled(true)
	if _, ok := waitForEvent(t, app, 2*time.Second); !ok {
		t.Error("no event after re-enabling recognition")
	}
}

func TestApp_DetectorErrorsDegradeToNoHand(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app, mock := testApp(t, classify.NewMockClassifier("S", 0.9))
	mock.SetError(nil)
	mock.SetHand(nil)

	if err := app.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer app.Stop()

	if _, ok := waitForEvent(t, app, 300*time.Millisecond); ok {
		t.Fatal("pipeline confirmed a letter with no hand in frame")
	}

	stats := app.Stats()
	if stats.FramesProcessed == 0 {
		t.Error("pipeline processed no frames")
	}
	if stats.EventsEmitted != 0 {
		t.Errorf("EventsEmitted = %d, want 0", stats.EventsEmitted)
	}
}

func TestApp_StopIsIdempotentAndFinal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app, mock := testApp(t, classify.NewMockClassifier("A", 0.9))
	mock.SetHand(detector.LetterALandmarks())

	if err := app.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Wait for a confirmation to land in the queue, without consuming it.
	deadline := time.After(2 * time.Second)
	for app.Stats().EventsEmitted == 0 {
		select {
		case <-deadline:
			t.Fatal("no letter confirmed before the deadline")
		case <-time.After(5 * time.Millisecond):
		}
	}

	app.Stop()
	app.Stop() // second stop is a no-op

	// Stop releases the camera; the undelivered event must be discarded,
	// not handed out afterward.
	if e, ok := app.TryReceiveEvent(); ok {
		t.Errorf("event %q delivered after Stop returned", e.Letter)
	}
	if app.Stats().EventsDropped == 0 {
		t.Error("discarded event not counted as dropped")
	}
}

func TestApp_StartRequiresDetector(t *testing.T) {
	app := New(Config{Classifier: classify.NewMockClassifier("A", 0.9)})

	if err := app.Start(); err == nil {
		app.Stop()
		t.Fatal("Start() succeeded without a detector")
	}
}

// flakyCamera opens successfully but fails every read, so the pipeline
// sees an endless run of read failures. Open calls are counted to
// observe reopen attempts.
type flakyCamera struct {
	mu    sync.Mutex
	opens int
}

func (f *flakyCamera) Open() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opens++
	return nil
}

func (f *flakyCamera) Close() error { return nil }

func (f *flakyCamera) ReadFrame() (*gocv.Mat, error) {
	return nil, errors.New("device disconnected")
}

func (f *flakyCamera) SetFPS(fps int) {}
func (f *flakyCamera) FPS() int       { return capture.DefaultFPS }
func (f *flakyCamera) IsOpen() bool   { return true }

func (f *flakyCamera) openCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens
}

func TestApp_ReopensWedgedCamera(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app, mock := testApp(t, classify.NewMockClassifier("A", 0.9))
	cam := &flakyCamera{}
	app.SetCamera(cam)
	mock.SetHand(detector.LetterALandmarks())

	if err := app.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer app.Stop()

	// At 100 ticks/s every read fails, so the reopen threshold is
	// crossed well within the deadline.
	deadline := time.After(2 * time.Second)
	for cam.openCount() < 2 {
		select {
		case <-deadline:
			t.Fatalf("camera never reopened after persistent read failures; opens = %d", cam.openCount())
		case <-time.After(10 * time.Millisecond):
		}
	}
}
