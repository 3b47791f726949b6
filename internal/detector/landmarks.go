// Package detector provides hand detection interfaces and types for gesture recognition.
package detector

import (
	"errors"
	"fmt"
	"math"
)

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

// ErrInvalidLandmarks is returned when a landmark set is malformed:
// wrong point count or non-finite coordinates.
var ErrInvalidLandmarks = errors.New("invalid landmarks")

// Point3D represents a tracked skeletal point with x, y in normalized [0,1]
// image coordinates and z as relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
// Points come straight from the detector; Validate rejects sets that do
// not follow the 21-point convention.
type HandLandmarks struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"` // "Left" or "Right"
	Score      float64   `json:"score"`
}

// Validate checks that the landmark set is well formed: exactly 21 points,
// all with finite coordinates. Returns an error wrapping ErrInvalidLandmarks
// otherwise.
func (h *HandLandmarks) Validate() error {
	if len(h.Points) != NumLandmarks {
		return fmt.Errorf("%w: got %d points, want %d", ErrInvalidLandmarks, len(h.Points), NumLandmarks)
	}
	for i, p := range h.Points {
		if !finite(p.X) || !finite(p.Y) || !finite(p.Z) {
			return fmt.Errorf("%w: point %d has non-finite coordinates", ErrInvalidLandmarks, i)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// BestHand returns the hand with the highest detection score, or nil if
// the slice is empty. The pipeline tracks a single hand per frame.
func BestHand(hands []HandLandmarks) *HandLandmarks {
	if len(hands) == 0 {
		return nil
	}
	best := &hands[0]
	for i := 1; i < len(hands); i++ {
		if hands[i].Score > best.Score {
			best = &hands[i]
		}
	}
	return best
}
