// Package detector provides hand landmark extraction for the fingerspell
// recognition pipeline.
package detector

import "fmt"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point represents a 2D keypoint in frame-normalized space, where both
// coordinates are in [0, 1] relative to the frame dimensions.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HandLandmarks represents the 21 tracked keypoints of a single hand plus
// the pose model's presence confidence. The absence of a hand in a frame
// is represented by no HandLandmarks value at all, never by a zero value.
type HandLandmarks struct {
	Points     [NumLandmarks]Point `json:"points"`
	Handedness string              `json:"handedness"` // "Left" or "Right"
	Score      float64             `json:"score"`      // presence confidence in [0, 1]
}

// Translate returns a copy of the landmarks shifted by (dx, dy) in frame
// space. The hand pose itself is unchanged.
func (h *HandLandmarks) Translate(dx, dy float64) *HandLandmarks {
	if h == nil {
		return nil
	}
	out := &HandLandmarks{
		Handedness: h.Handedness,
		Score:      h.Score,
	}
	for i := 0; i < NumLandmarks; i++ {
		out.Points[i] = Point{X: h.Points[i].X + dx, Y: h.Points[i].Y + dy}
	}
	return out
}

// FromPoints builds HandLandmarks from a variable-length point slice,
// rejecting any slice whose length is not exactly NumLandmarks. This is
// the validation gate for landmark data arriving over a wire or from
// storage.
func FromPoints(points []Point, handedness string, score float64) (*HandLandmarks, error) {
	if len(points) != NumLandmarks {
		return nil, fmt.Errorf("expected %d landmarks, got %d", NumLandmarks, len(points))
	}
	lm := &HandLandmarks{
		Handedness: handedness,
		Score:      score,
	}
	copy(lm.Points[:], points)
	return lm, nil
}
