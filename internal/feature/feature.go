// Package feature converts hand landmarks into the fixed-size descriptor
// fed to the letter classifier.
package feature

import (
	"fmt"

	"github.com/ayusman/fingerspell/internal/detector"
)

// Dim is the descriptor dimensionality: 21 keypoints times 2 axes.
const Dim = 2 * detector.NumLandmarks

// Vector is the wrist-relative pose descriptor. Element 2i holds the X
// offset of landmark i from the wrist, element 2i+1 the Y offset.
type Vector [Dim]float64

// Extract converts a landmark set into a Vector. Each coordinate is
// expressed relative to the wrist keypoint, which makes the descriptor
// invariant to where the hand sits in the frame. Scale and rotation are
// deliberately not normalized out; the signer is expected to keep a
// roughly consistent distance from the camera.
func Extract(lm *detector.HandLandmarks) (Vector, error) {
	var v Vector
	if lm == nil {
		return v, fmt.Errorf("no landmarks to extract features from")
	}

	wrist := lm.Points[detector.Wrist]
	for i := 0; i < detector.NumLandmarks; i++ {
		v[2*i] = lm.Points[i].X - wrist.X
		v[2*i+1] = lm.Points[i].Y - wrist.Y
	}
	return v, nil
}

// FromSlice builds a Vector from a variable-length float slice, rejecting
// any slice whose length is not exactly Dim. This is the validation gate
// for feature data arriving over the API or from storage; it never
// truncates or pads.
func FromSlice(values []float64) (Vector, error) {
	var v Vector
	if len(values) != Dim {
		return v, fmt.Errorf("expected %d feature values, got %d", Dim, len(values))
	}
	copy(v[:], values)
	return v, nil
}
