package detector

import "gocv.io/x/gocv"

// Detector defines the interface for hand landmark extraction
// implementations. The concrete pose model behind it is swappable; the
// pipeline only depends on this contract.
type Detector interface {
	// Detect analyzes a video frame and returns the landmarks of the
	// single tracked hand, or (nil, nil) when no hand is present.
	// Internal temporal smoothing by the underlying model is permitted
	// but opaque to callers.
	Detect(frame *gocv.Mat) (*HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand landmark extraction.
type Config struct {
	// MinDetectionConfidence is the minimum hand detection confidence
	// threshold (0.0-1.0).
	MinDetectionConfidence float64

	// MinPresenceConfidence is the minimum hand presence confidence
	// threshold (0.0-1.0).
	MinPresenceConfidence float64

	// MinTrackingConfidence is the minimum tracking confidence
	// threshold (0.0-1.0).
	MinTrackingConfidence float64
}

// DefaultConfig returns a Config with conservative thresholds; 0.8
// keeps low-quality detections from ever reaching the classifier.
func DefaultConfig() Config {
	return Config{
		MinDetectionConfidence: 0.8,
		MinPresenceConfidence:  0.8,
		MinTrackingConfidence:  0.8,
	}
}
