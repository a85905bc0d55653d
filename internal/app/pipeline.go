package app

import (
	"errors"
	"log"
	"time"

	"github.com/ayusman/fingerspell/internal/classify"
	"github.com/ayusman/fingerspell/internal/confirm"
	"github.com/ayusman/fingerspell/internal/detector"
	"github.com/ayusman/fingerspell/internal/feature"
)

// cameraReopenThreshold is how many consecutive failed reads are
// tolerated before the camera is closed and reopened. Webcams drop off
// the bus mid-session; recycling the device is the only way back.
const cameraReopenThreshold = 30

// runPipeline is the frame loop: read a frame, detect landmarks,
// extract features, classify, and advance the confirmation machine by
// exactly one observation per tick.
//
// Every failure mode short of a process crash degrades to a no-hand
// observation rather than stalling the loop, so a flaky camera or
// detector shows up as interrupted holds, never as a hung pipeline.
func (a *App) runPipeline(stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	interval := time.Second / time.Duration(a.config.FPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			now := time.Now()
			obs := a.observe()

			a.mu.Lock()
			a.stats.FramesProcessed++
			a.mu.Unlock()

			if e := a.machine.Update(obs, now); e != nil {
				a.mu.Lock()
				a.stats.EventsEmitted++
				a.mu.Unlock()

				if !a.queue.Push(*e) {
					log.Printf("Confirmed %q dropped: consumer not keeping up", e.Letter)
				} else {
					log.Printf("Confirmed letter %q", e.Letter)
				}
			}
		}
	}
}

// observe produces the observation for one tick. Disabled recognition,
// capture errors, detection errors, and frames without a hand all
// collapse to the no-hand observation.
func (a *App) observe() confirm.Observation {
	if !a.IsEnabled() {
		a.setPreview(nil, classify.Prediction{})
		return confirm.NoHand
	}

	frame, err := a.camera.ReadFrame()
	if err != nil {
		a.mu.Lock()
		a.stats.FramesDropped++
		a.mu.Unlock()
		log.Printf("Error reading frame: %v", err)
		a.reopenIfWedged()
		a.setPreview(nil, classify.Prediction{})
		return confirm.NoHand
	}
	a.readFailures = 0

	hand, err := a.Detector().Detect(frame)
	frame.Close()
	if err != nil {
		a.mu.Lock()
		a.stats.DetectErrors++
		a.mu.Unlock()
		log.Printf("Error detecting hand: %v", err)
		a.setPreview(nil, classify.Prediction{})
		return confirm.NoHand
	}
	if hand == nil {
		a.setPreview(nil, classify.Prediction{})
		return confirm.NoHand
	}

	prediction, err := a.classifyHand(hand)
	if err != nil {
		var dimErr *classify.DimensionError
		if errors.As(err, &dimErr) {
			// A dimension mismatch between detector and classifier is a
			// wiring bug, not a transient condition. Log loudly, keep going.
			log.Printf("Classifier contract violation: %v", dimErr)
		} else {
			log.Printf("Error classifying hand: %v", err)
		}
		a.setPreview(hand, classify.Prediction{})
		return confirm.NoHand
	}

	a.setPreview(hand, prediction)
	return confirm.Observation{
		HandPresent: true,
		Letter:      prediction.Letter,
		Confidence:  prediction.Confidence,
	}
}

func (a *App) classifyHand(hand *detector.HandLandmarks) (classify.Prediction, error) {
	c := a.Classifier()
	if c == nil {
		return classify.Prediction{}, errors.New("no classifier loaded")
	}
	vec, err := feature.Extract(hand)
	if err != nil {
		return classify.Prediction{}, err
	}
	return c.Classify(vec)
}

// reopenIfWedged counts consecutive read failures and recycles the
// camera once they pass the threshold, so a wedged device gets a
// chance to come back instead of degrading to no-hand ticks forever.
func (a *App) reopenIfWedged() {
	a.readFailures++
	if a.readFailures < cameraReopenThreshold {
		return
	}
	a.readFailures = 0

	log.Printf("Camera wedged after %d failed reads, reopening", cameraReopenThreshold)
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing wedged camera: %v", err)
	}
	if err := a.camera.Open(); err != nil {
		log.Printf("Camera reopen failed: %v", err)
		return
	}
	a.camera.SetFPS(a.config.FPS)
}

func (a *App) setPreview(hand *detector.HandLandmarks, p classify.Prediction) {
	a.mu.Lock()
	a.lastHand = hand
	a.lastPrediction = p
	a.mu.Unlock()
}
