package gesture

import (
	"github.com/ayusman/mudra/internal/detector"
)

// FingerState holds the per-finger extended booleans derived from one frame.
// It is recomputed every frame and never persisted.
type FingerState struct {
	Thumb  bool `json:"thumb"`
	Index  bool `json:"index"`
	Middle bool `json:"middle"`
	Ring   bool `json:"ring"`
	Pinky  bool `json:"pinky"`
}

// ExtendedCount returns how many of the four non-thumb fingers are extended.
func (f FingerState) ExtendedCount() int {
	count := 0
	for _, extended := range []bool{f.Index, f.Middle, f.Ring, f.Pinky} {
		if extended {
			count++
		}
	}
	return count
}

// Classifier turns a single landmark set into a gesture label. It is pure
// and stateless: the result depends only on the current frame and the
// configured thresholds.
type Classifier struct {
	config Config
}

// NewClassifier creates a Classifier with the given configuration. Zero
// thresholds and an empty vocabulary are replaced with the defaults.
func NewClassifier(config Config) *Classifier {
	defaults := DefaultConfig()
	if config.Vocabulary == "" {
		config.Vocabulary = defaults.Vocabulary
	}
	if config.FingerMargin <= 0 {
		config.FingerMargin = defaults.FingerMargin
	}
	if config.ThumbThreshold <= 0 {
		config.ThumbThreshold = defaults.ThumbThreshold
	}
	if config.TiltThreshold <= 0 {
		config.TiltThreshold = defaults.TiltThreshold
	}
	return &Classifier{config: config}
}

// Config returns the classifier's effective configuration.
func (c *Classifier) Config() Config {
	return c.config
}

// Classify maps a landmark set to a gesture label. A nil hand (no hand this
// frame) yields LabelNone without inspecting landmarks. A malformed landmark
// set yields an error wrapping detector.ErrInvalidLandmarks; callers decide
// whether to treat that as "no gesture" or propagate.
func (c *Classifier) Classify(hand *detector.HandLandmarks) (Label, error) {
	if hand == nil {
		return LabelNone, nil
	}
	if err := hand.Validate(); err != nil {
		return LabelNone, err
	}

	fingers := c.Fingers(hand)

	switch c.config.Vocabulary {
	case VocabularyDirectional:
		return c.classifyDirectional(hand, fingers), nil
	default:
		return c.classifyRPS(fingers), nil
	}
}

// Fingers computes the extended boolean for each of the five fingers.
// The hand must be a valid 21-point landmark set.
func (c *Classifier) Fingers(hand *detector.HandLandmarks) FingerState {
	return FingerState{
		Thumb:  c.thumbExtended(hand),
		Index:  c.fingerExtended(hand, detector.IndexTip, detector.IndexPIP),
		Middle: c.fingerExtended(hand, detector.MiddleTip, detector.MiddlePIP),
		Ring:   c.fingerExtended(hand, detector.RingTip, detector.RingPIP),
		Pinky:  c.fingerExtended(hand, detector.PinkyTip, detector.PinkyPIP),
	}
}

// fingerExtended reports whether a fingertip sits above its PIP joint by
// more than the configured margin. Image y grows downward, so "above"
// means a smaller y value.
func (c *Classifier) fingerExtended(hand *detector.HandLandmarks, tip, pip int) bool {
	return hand.Points[tip].Y < hand.Points[pip].Y-c.config.FingerMargin
}

// thumbExtended reports whether the thumb tip is spread laterally from the
// thumb MCP joint beyond the configured threshold. In a mirrored feed a
// right hand's thumb opens toward larger x, a left hand's toward smaller x;
// an unreported handedness is treated as right.
func (c *Classifier) thumbExtended(hand *detector.HandLandmarks) bool {
	spread := hand.Points[detector.ThumbTip].X - hand.Points[detector.ThumbMCP].X
	if hand.Handedness == "Left" {
		spread = -spread
	}
	return spread > c.config.ThumbThreshold
}

// classifyRPS applies the rock/paper/scissors rules in priority order:
// paper, rock, scissors.
func (c *Classifier) classifyRPS(fingers FingerState) Label {
	switch {
	case fingers.Index && fingers.Middle && fingers.Ring && fingers.Pinky:
		return LabelPaper
	case fingers.ExtendedCount() == 0:
		return LabelRock
	case fingers.Index && fingers.Middle && !fingers.Ring && !fingers.Pinky:
		return LabelScissors
	default:
		return LabelNone
	}
}

// classifyDirectional applies the directional rules in priority order:
// right, left, rotate, down.
func (c *Classifier) classifyDirectional(hand *detector.HandLandmarks, fingers FingerState) Label {
	count := fingers.ExtendedCount()

	switch {
	case count <= 1:
		return LabelRight
	case count >= 4 && fingers.Index && fingers.Middle:
		return LabelLeft
	case fingers.Index && fingers.Middle && !fingers.Thumb && !fingers.Ring && !fingers.Pinky:
		return LabelRotate
	case c.handLowered(hand):
		return LabelDown
	default:
		return LabelNone
	}
}

// handLowered reports whether the wrist has dropped below the middle finger
// base by more than the tilt threshold.
func (c *Classifier) handLowered(hand *detector.HandLandmarks) bool {
	drop := hand.Points[detector.Wrist].Y - hand.Points[detector.MiddleMCP].Y
	return drop > c.config.TiltThreshold
}
