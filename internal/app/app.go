// Package app wires the capture, detection, classification, and
// confirmation stages into the frame-driven recognition pipeline and
// owns its lifecycle.
package app

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/ayusman/fingerspell/internal/capture"
	"github.com/ayusman/fingerspell/internal/classify"
	"github.com/ayusman/fingerspell/internal/confirm"
	"github.com/ayusman/fingerspell/internal/detector"
	"github.com/ayusman/fingerspell/internal/events"
)

// Config holds the dependencies and tuning for the pipeline.
type Config struct {
	Classifier classify.Classifier
	Detector   detector.Detector
	CameraID   int
	FPS        int

	// MinConfidence gates which predictions count toward a hold.
	MinConfidence float64
	// HoldDuration is how long a letter must be held to confirm.
	HoldDuration time.Duration
	// QueueCapacity bounds the confirmed-event handoff queue.
	QueueCapacity int
}

// Stats are cumulative pipeline counters since Start.
type Stats struct {
	FramesProcessed uint64 `json:"frames_processed"`
	FramesDropped   uint64 `json:"frames_dropped"`
	DetectErrors    uint64 `json:"detect_errors"`
	EventsEmitted   uint64 `json:"events_emitted"`
	EventsDropped   uint64 `json:"events_dropped"`
}

// App orchestrates the recognition pipeline: camera frames in,
// confirmed-letter events out through a bounded queue.
type App struct {
	config     Config
	camera     capture.Camera
	classifier classify.Classifier
	machine    *confirm.Machine
	queue      *events.Queue

	mu       sync.RWMutex
	detector detector.Detector
	enabled  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	stats    Stats

	lastHand       *detector.HandLandmarks
	lastPrediction classify.Prediction

	// readFailures is only touched by the pipeline goroutine.
	readFailures int
}

// New creates an App with the given configuration. The detector is a
// hard dependency of recognition: there is no fallback, and Start
// refuses to run until one has been provided.
func New(config Config) *App {
	if config.FPS <= 0 {
		config.FPS = capture.DefaultFPS
	}

	return &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID),
		classifier: config.Classifier,
		detector:   config.Detector,
		machine: confirm.NewMachine(confirm.Config{
			MinConfidence: config.MinConfidence,
			HoldDuration:  config.HoldDuration,
		}),
		queue:   events.NewQueue(config.QueueCapacity),
		enabled: true,
	}
}

// SetEnabled enables or disables recognition. While disabled, frames
// are still paced but every tick is treated as a no-hand observation,
// so any in-progress hold is discarded.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled reports whether recognition is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetCamera replaces the camera. Must be called before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// SetDetector replaces the hand detector. Intended for tests and for
// wiring a preconstructed detector before Start.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetClassifier replaces the letter classifier, e.g. after retraining.
func (a *App) SetClassifier(c classify.Classifier) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.classifier = c
}

// Start opens the camera and launches the pipeline goroutine. A camera
// that cannot be opened is a startup error; nothing is left running.
// Start on a running App is a no-op.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if a.detector == nil {
		return errors.New("no hand detector configured")
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(a.config.FPS)

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	log.Println("Recognition pipeline started")
	return nil
}

// Stop halts the pipeline and releases the camera and detector. It
// waits for the pipeline goroutine to exit, then closes the queue,
// discarding anything undelivered, before tearing the devices down —
// no event is delivered after Stop returns. Idempotent.
func (a *App) Stop() {
	a.mu.Lock()
	if a.stopCh == nil {
		a.mu.Unlock()
		return
	}
	close(a.stopCh)
	a.stopCh = nil
	done := a.doneCh
	a.mu.Unlock()

	<-done

	a.queue.Close()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	if d := a.Detector(); d != nil {
		if err := d.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Recognition pipeline stopped")
}

// TryReceiveEvent dequeues the oldest confirmed letter if one is
// pending. It never blocks; the second return reports whether an event
// was delivered. Each event is delivered at most once.
func (a *App) TryReceiveEvent() (confirm.Event, bool) {
	return a.queue.TryPop()
}

// Snapshot returns the confirmation machine's current status for UI
// feedback.
func (a *App) Snapshot() confirm.Status {
	return a.machine.Snapshot(time.Now())
}

// Preview is what the live preview feed shows for the most recent tick:
// the tracked hand (nil when absent) and its instantaneous prediction.
type Preview struct {
	Hand       *detector.HandLandmarks `json:"hand"`
	Prediction classify.Prediction     `json:"prediction"`
}

// LastPreview returns the most recent tick's detection and prediction.
func (a *App) LastPreview() Preview {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return Preview{Hand: a.lastHand, Prediction: a.lastPrediction}
}

// Stats returns a copy of the cumulative pipeline counters.
func (a *App) Stats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s := a.stats
	s.EventsDropped = a.queue.Dropped()
	return s
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Classifier returns the letter classifier.
func (a *App) Classifier() classify.Classifier {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.classifier
}
