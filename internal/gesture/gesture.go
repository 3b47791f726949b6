// Package gesture provides rule-based hand gesture classification and
// temporal debouncing of the resulting label stream.
package gesture

// Label identifies a recognized gesture. LabelNone means no gesture was
// recognized this frame, including frames where no hand is present.
type Label string

// Labels of the rock/paper/scissors vocabulary.
const (
	LabelNone     Label = "none"
	LabelRock     Label = "rock"
	LabelPaper    Label = "paper"
	LabelScissors Label = "scissors"
)

// Labels of the directional vocabulary.
const (
	LabelLeft   Label = "left"
	LabelRight  Label = "right"
	LabelRotate Label = "rotate"
	LabelDown   Label = "down"
)

// Vocabulary selects which rule set the classifier applies.
type Vocabulary string

const (
	// VocabularyRPS classifies rock, paper and scissors hand poses.
	VocabularyRPS Vocabulary = "rps"
	// VocabularyDirectional classifies left, right, rotate and down commands.
	VocabularyDirectional Vocabulary = "directional"
)

// Labels returns the labels the vocabulary can produce, in rule priority order.
func (v Vocabulary) Labels() []Label {
	switch v {
	case VocabularyDirectional:
		return []Label{LabelRight, LabelLeft, LabelRotate, LabelDown}
	default:
		return []Label{LabelPaper, LabelRock, LabelScissors}
	}
}

// Config holds the classification thresholds. All geometric comparisons run
// on raw normalized image coordinates; accuracy depends on the hand facing
// the camera at a roughly consistent scale and orientation.
type Config struct {
	// Vocabulary selects the active rule set.
	Vocabulary Vocabulary

	// FingerMargin is how far (in normalized y) a fingertip must sit above
	// its PIP joint to count as extended. Guards against jitter at
	// borderline poses.
	FingerMargin float64

	// ThumbThreshold is the horizontal tip-vs-MCP displacement beyond which
	// the thumb counts as extended. The thumb moves laterally, so it is
	// judged on x spread rather than vertical position; the sign follows
	// the reported handedness of a mirrored camera feed.
	ThumbThreshold float64

	// TiltThreshold is how far (in normalized y) the wrist must drop below
	// the middle finger base for the directional "down" rule.
	TiltThreshold float64
}

// DefaultConfig returns the canonical threshold set.
func DefaultConfig() Config {
	return Config{
		Vocabulary:     VocabularyRPS,
		FingerMargin:   0.05,
		ThumbThreshold: 0.12,
		TiltThreshold:  0.25,
	}
}
