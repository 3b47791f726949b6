package gesture

import (
	"errors"
	"math"
	"testing"

	"github.com/ayusman/mudra/internal/detector"
)

func TestClassifier_RPS(t *testing.T) {
	c := NewClassifier(Config{Vocabulary: VocabularyRPS})

	tests := []struct {
		name string
		hand detector.HandLandmarks
		want Label
	}{
		{"fist is rock", detector.FistLandmarks(), LabelRock},
		{"open palm is paper", detector.OpenPalmLandmarks(), LabelPaper},
		{"index+middle is scissors", detector.ScissorsLandmarks(), LabelScissors},
		{"index only matches nothing", detector.PointingLandmarks(), LabelNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(&tt.hand)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifier_Directional(t *testing.T) {
	c := NewClassifier(Config{Vocabulary: VocabularyDirectional})

	tests := []struct {
		name string
		hand detector.HandLandmarks
		want Label
	}{
		{"fist is right", detector.FistLandmarks(), LabelRight},
		{"index only is right", detector.PointingLandmarks(), LabelRight},
		{"open palm is left", detector.OpenPalmLandmarks(), LabelLeft},
		{"index+middle is rotate", detector.ScissorsLandmarks(), LabelRotate},
		{"lowered hand is down", detector.LoweredHandLandmarks(), LabelDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(&tt.hand)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifier_PriorityOrdering(t *testing.T) {
	// A lowered fist satisfies both the "right" rule (no fingers extended)
	// and the "down" rule (wrist well below the middle finger base). The
	// first-listed rule must win.
	c := NewClassifier(Config{Vocabulary: VocabularyDirectional})

	hand := detector.FistLandmarks()
	hand.Points[detector.Wrist].Y = 0.95 // drop of 0.29 vs middle MCP, past the 0.25 tilt threshold

	got, err := c.Classify(&hand)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got != LabelRight {
		t.Errorf("Classify() = %q, want %q (right outranks down)", got, LabelRight)
	}
}

func TestClassifier_AbsentHand(t *testing.T) {
	for _, vocabulary := range []Vocabulary{VocabularyRPS, VocabularyDirectional} {
		c := NewClassifier(Config{Vocabulary: vocabulary})

		got, err := c.Classify(nil)
		if err != nil {
			t.Errorf("vocabulary %q: Classify(nil) error = %v", vocabulary, err)
		}
		if got != LabelNone {
			t.Errorf("vocabulary %q: Classify(nil) = %q, want %q", vocabulary, got, LabelNone)
		}
	}
}

func TestClassifier_Determinism(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	hand := detector.ScissorsLandmarks()

	first, err := c.Classify(&hand)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	for i := 0; i < 10; i++ {
		got, err := c.Classify(&hand)
		if err != nil {
			t.Fatalf("Classify() call %d error = %v", i, err)
		}
		if got != first {
			t.Fatalf("Classify() call %d = %q, want %q", i, got, first)
		}
	}
}

func TestClassifier_InvalidLandmarks(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	truncated := detector.FistLandmarks()
	truncated.Points = truncated.Points[:10]

	nan := detector.FistLandmarks()
	nan.Points[detector.ThumbTip].X = math.NaN()

	for name, hand := range map[string]detector.HandLandmarks{
		"wrong point count": truncated,
		"NaN coordinate":    nan,
	} {
		t.Run(name, func(t *testing.T) {
			got, err := c.Classify(&hand)
			if !errors.Is(err, detector.ErrInvalidLandmarks) {
				t.Errorf("error = %v, want ErrInvalidLandmarks", err)
			}
			if got != LabelNone {
				t.Errorf("label = %q, want %q on invalid input", got, LabelNone)
			}
		})
	}
}

func TestClassifier_ThumbFollowsHandedness(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	right := detector.OpenPalmLandmarks()
	if fingers := c.Fingers(&right); !fingers.Thumb {
		t.Error("right-hand open palm should have thumb extended")
	}

	// Same geometry reported as a left hand flips the spread sign, so the
	// thumb no longer counts as extended.
	left := detector.OpenPalmLandmarks()
	left.Handedness = "Left"
	if fingers := c.Fingers(&left); fingers.Thumb {
		t.Error("left-hand thumb spread toward +x should not count as extended")
	}
}

func TestClassifier_MarginIsConfigurable(t *testing.T) {
	// With an absurdly large margin nothing counts as extended, so an open
	// palm degrades to a fist.
	c := NewClassifier(Config{Vocabulary: VocabularyRPS, FingerMargin: 0.6})

	hand := detector.OpenPalmLandmarks()
	got, err := c.Classify(&hand)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got != LabelRock {
		t.Errorf("Classify() = %q, want %q with 0.6 margin", got, LabelRock)
	}
}

func TestNewClassifier_FillsDefaults(t *testing.T) {
	c := NewClassifier(Config{})
	cfg := c.Config()

	want := DefaultConfig()
	if cfg != want {
		t.Errorf("Config() = %+v, want defaults %+v", cfg, want)
	}
}

func TestFingerState_ExtendedCount(t *testing.T) {
	tests := []struct {
		name    string
		fingers FingerState
		want    int
	}{
		{"none", FingerState{}, 0},
		{"thumb does not count", FingerState{Thumb: true}, 0},
		{"index and middle", FingerState{Index: true, Middle: true}, 2},
		{"all four", FingerState{Index: true, Middle: true, Ring: true, Pinky: true}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fingers.ExtendedCount(); got != tt.want {
				t.Errorf("ExtendedCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestVocabulary_Labels(t *testing.T) {
	tests := []struct {
		name  string
		vocab Vocabulary
		want  []Label
	}{
		{"rps priority order", VocabularyRPS, []Label{LabelPaper, LabelRock, LabelScissors}},
		{"directional priority order", VocabularyDirectional, []Label{LabelRight, LabelLeft, LabelRotate, LabelDown}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.vocab.Labels()
			if len(got) != len(tt.want) {
				t.Fatalf("Labels() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Labels()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
