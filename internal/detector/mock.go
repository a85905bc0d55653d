package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It can return a fixed result or play back a scripted per-frame
// sequence, which is how tests drive the confirmation state machine.
type MockDetector struct {
	mu     sync.Mutex
	hand   *HandLandmarks
	err    error
	script []*HandLandmarks
	pos    int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHand sets the hand that will be returned by every Detect call.
// Pass nil to simulate no hand in frame.
func (m *MockDetector) SetHand(hand *HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hand = hand
	m.script = nil
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetScript sets a per-call sequence of results. Nil entries simulate
// frames with no hand. After the script is exhausted the last entry
// repeats.
func (m *MockDetector) SetScript(script []*HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = script
	m.pos = 0
}

// Detect returns the pre-configured hand, scripted entry, or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if len(m.script) > 0 {
		hand := m.script[m.pos]
		if m.pos < len(m.script)-1 {
			m.pos++
		}
		return hand, nil
	}
	return m.hand, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// LetterALandmarks returns a preset HandLandmarks for the fingerspelled
// letter A: a fist with the thumb extended alongside the index finger.
func LetterALandmarks() *HandLandmarks {
	lm := &HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	lm.Points[Wrist] = Point{X: 0.50, Y: 0.80}

	// Thumb upright against the side of the fist
	lm.Points[ThumbCMC] = Point{X: 0.57, Y: 0.76}
	lm.Points[ThumbMCP] = Point{X: 0.60, Y: 0.68}
	lm.Points[ThumbIP] = Point{X: 0.61, Y: 0.60}
	lm.Points[ThumbTip] = Point{X: 0.61, Y: 0.53}

	// Index finger curled into the palm
	lm.Points[IndexMCP] = Point{X: 0.56, Y: 0.62}
	lm.Points[IndexPIP] = Point{X: 0.56, Y: 0.56}
	lm.Points[IndexDIP] = Point{X: 0.55, Y: 0.61}
	lm.Points[IndexTip] = Point{X: 0.55, Y: 0.66}

	// Middle finger curled
	lm.Points[MiddleMCP] = Point{X: 0.52, Y: 0.61}
	lm.Points[MiddlePIP] = Point{X: 0.52, Y: 0.55}
	lm.Points[MiddleDIP] = Point{X: 0.51, Y: 0.61}
	lm.Points[MiddleTip] = Point{X: 0.51, Y: 0.66}

	// Ring finger curled
	lm.Points[RingMCP] = Point{X: 0.48, Y: 0.62}
	lm.Points[RingPIP] = Point{X: 0.48, Y: 0.56}
	lm.Points[RingDIP] = Point{X: 0.47, Y: 0.62}
	lm.Points[RingTip] = Point{X: 0.47, Y: 0.66}

	// Pinky curled
	lm.Points[PinkyMCP] = Point{X: 0.44, Y: 0.64}
	lm.Points[PinkyPIP] = Point{X: 0.44, Y: 0.59}
	lm.Points[PinkyDIP] = Point{X: 0.43, Y: 0.63}
	lm.Points[PinkyTip] = Point{X: 0.43, Y: 0.67}

	return lm
}

// LetterBLandmarks returns a preset HandLandmarks for the fingerspelled
// letter B: four fingers extended upward, thumb folded across the palm.
func LetterBLandmarks() *HandLandmarks {
	lm := &HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	lm.Points[Wrist] = Point{X: 0.50, Y: 0.80}

	// Thumb folded across the palm
	lm.Points[ThumbCMC] = Point{X: 0.56, Y: 0.74}
	lm.Points[ThumbMCP] = Point{X: 0.55, Y: 0.68}
	lm.Points[ThumbIP] = Point{X: 0.51, Y: 0.65}
	lm.Points[ThumbTip] = Point{X: 0.47, Y: 0.64}

	// Index finger extended upward
	lm.Points[IndexMCP] = Point{X: 0.55, Y: 0.60}
	lm.Points[IndexPIP] = Point{X: 0.56, Y: 0.50}
	lm.Points[IndexDIP] = Point{X: 0.56, Y: 0.43}
	lm.Points[IndexTip] = Point{X: 0.56, Y: 0.36}

	// Middle finger extended upward
	lm.Points[MiddleMCP] = Point{X: 0.51, Y: 0.59}
	lm.Points[MiddlePIP] = Point{X: 0.51, Y: 0.48}
	lm.Points[MiddleDIP] = Point{X: 0.51, Y: 0.40}
	lm.Points[MiddleTip] = Point{X: 0.51, Y: 0.32}

	// Ring finger extended upward
	lm.Points[RingMCP] = Point{X: 0.47, Y: 0.60}
	lm.Points[RingPIP] = Point{X: 0.46, Y: 0.49}
	lm.Points[RingDIP] = Point{X: 0.46, Y: 0.42}
	lm.Points[RingTip] = Point{X: 0.46, Y: 0.35}

	// Pinky extended upward
	lm.Points[PinkyMCP] = Point{X: 0.43, Y: 0.62}
	lm.Points[PinkyPIP] = Point{X: 0.42, Y: 0.54}
	lm.Points[PinkyDIP] = Point{X: 0.42, Y: 0.48}
	lm.Points[PinkyTip] = Point{X: 0.41, Y: 0.43}

	return lm
}

// LetterSLandmarks returns a preset HandLandmarks for the fingerspelled
// letter S: a closed fist with the thumb crossed over the fingers.
func LetterSLandmarks() *HandLandmarks {
	lm := &HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	lm.Points[Wrist] = Point{X: 0.50, Y: 0.80}

	// Thumb crossed over the curled fingers
	lm.Points[ThumbCMC] = Point{X: 0.56, Y: 0.75}
	lm.Points[ThumbMCP] = Point{X: 0.57, Y: 0.68}
	lm.Points[ThumbIP] = Point{X: 0.53, Y: 0.63}
	lm.Points[ThumbTip] = Point{X: 0.48, Y: 0.62}

	// Index finger curled tight
	lm.Points[IndexMCP] = Point{X: 0.55, Y: 0.63}
	lm.Points[IndexPIP] = Point{X: 0.55, Y: 0.58}
	lm.Points[IndexDIP] = Point{X: 0.54, Y: 0.62}
	lm.Points[IndexTip] = Point{X: 0.54, Y: 0.65}

	// Middle finger curled tight
	lm.Points[MiddleMCP] = Point{X: 0.51, Y: 0.62}
	lm.Points[MiddlePIP] = Point{X: 0.51, Y: 0.57}
	lm.Points[MiddleDIP] = Point{X: 0.50, Y: 0.61}
	lm.Points[MiddleTip] = Point{X: 0.50, Y: 0.64}

	// Ring finger curled tight
	lm.Points[RingMCP] = Point{X: 0.47, Y: 0.63}
	lm.Points[RingPIP] = Point{X: 0.47, Y: 0.58}
	lm.Points[RingDIP] = Point{X: 0.46, Y: 0.62}
	lm.Points[RingTip] = Point{X: 0.46, Y: 0.64}

	// Pinky curled tight
	lm.Points[PinkyMCP] = Point{X: 0.43, Y: 0.65}
	lm.Points[PinkyPIP] = Point{X: 0.43, Y: 0.61}
	lm.Points[PinkyDIP] = Point{X: 0.42, Y: 0.64}
	lm.Points[PinkyTip] = Point{X: 0.42, Y: 0.66}

	return lm
}
