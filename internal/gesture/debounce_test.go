package gesture

import (
	"testing"
	"time"
)

// at returns a fixed base time offset by the given number of milliseconds.
func at(ms int) time.Time {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(ms) * time.Millisecond)
}

func TestDebouncer_SuppressesShortLabels(t *testing.T) {
	d := NewDebouncer(400*time.Millisecond, DisciplineSingle)

	for _, ms := range []int{0, 100, 200, 300} {
		if ev := d.Update(LabelPaper, at(ms)); ev != nil {
			t.Fatalf("event fired at %dms, before dwell threshold", ms)
		}
	}

	// Hand disappears before the dwell is reached: tracking resets, nothing fires.
	if ev := d.Update(LabelNone, at(350)); ev != nil {
		t.Fatal("event fired on hand disappearance")
	}

	label, since := d.Tracking()
	if label != LabelNone || !since.IsZero() {
		t.Errorf("Tracking() = (%q, %v), want idle", label, since)
	}
}

func TestDebouncer_SingleFire(t *testing.T) {
	// Concrete scenario: dwell 400ms, single-fire, frames every 100ms all
	// reporting paper. The event fires at the first update strictly past
	// the threshold (t=500ms) and not again while the hand stays up.
	d := NewDebouncer(400*time.Millisecond, DisciplineSingle)

	var fired []Event
	d.OnGesture(func(ev Event) { fired = append(fired, ev) })

	for _, ms := range []int{0, 100, 200, 300, 400} {
		if ev := d.Update(LabelPaper, at(ms)); ev != nil {
			t.Fatalf("event fired at %dms, want first fire at 500ms", ms)
		}
	}

	ev := d.Update(LabelPaper, at(500))
	if ev == nil {
		t.Fatal("no event fired at 500ms")
	}
	if ev.Label != LabelPaper {
		t.Errorf("event label = %q, want %q", ev.Label, LabelPaper)
	}
	if !ev.At.Equal(at(500)) {
		t.Errorf("event time = %v, want %v", ev.At, at(500))
	}

	// Still holding the gesture: single-fire requires the label to
	// disappear (or re-accumulate a full dwell) before firing again.
	if ev := d.Update(LabelPaper, at(600)); ev != nil {
		t.Error("single-fire re-fired at 600ms while gesture was held")
	}

	// Disappear and reappear: a fresh dwell period confirms again.
	d.Update(LabelNone, at(700))
	d.Update(LabelPaper, at(800))
	if ev := d.Update(LabelPaper, at(1000)); ev != nil {
		t.Error("event fired 200ms after reappearance, before dwell")
	}
	if ev := d.Update(LabelPaper, at(1300)); ev == nil {
		t.Error("no event fired after fresh dwell period")
	}

	if len(fired) != 2 {
		t.Errorf("handler invoked %d times, want 2", len(fired))
	}
}

func TestDebouncer_RepeatFire(t *testing.T) {
	d := NewDebouncer(400*time.Millisecond, DisciplineRepeat)

	if ev := d.Update(LabelRock, at(0)); ev != nil {
		t.Fatal("event fired immediately")
	}
	if ev := d.Update(LabelRock, at(400)); ev != nil {
		t.Fatal("event fired at exactly the dwell threshold, want strictly after")
	}

	// Past the threshold every sustained frame fires again.
	for _, ms := range []int{500, 600, 700} {
		ev := d.Update(LabelRock, at(ms))
		if ev == nil {
			t.Fatalf("repeat-fire produced no event at %dms", ms)
		}
		if ev.Label != LabelRock {
			t.Errorf("event label = %q, want %q", ev.Label, LabelRock)
		}
	}

	// The dwell timer is never refreshed while the label is sustained.
	label, since := d.Tracking()
	if label != LabelRock {
		t.Errorf("tracked label = %q, want %q", label, LabelRock)
	}
	if !since.Equal(at(0)) {
		t.Errorf("tracking start = %v, want %v (unchanged)", since, at(0))
	}
}

func TestDebouncer_LabelSwitchRestartsTimer(t *testing.T) {
	d := NewDebouncer(400*time.Millisecond, DisciplineSingle)

	d.Update(LabelRock, at(0))
	if ev := d.Update(LabelRock, at(200)); ev != nil {
		t.Fatal("rock fired before dwell")
	}

	// Switching labels abandons rock without firing and restarts the timer.
	if ev := d.Update(LabelPaper, at(300)); ev != nil {
		t.Fatal("event fired on label switch")
	}

	// Paper has only accumulated 400ms at t=700; it must independently
	// exceed a full dwell before firing.
	if ev := d.Update(LabelPaper, at(700)); ev != nil {
		t.Fatal("paper fired before accumulating a full dwell")
	}
	ev := d.Update(LabelPaper, at(750))
	if ev == nil {
		t.Fatal("paper did not fire after a full dwell")
	}
	if ev.Label != LabelPaper {
		t.Errorf("event label = %q, want %q", ev.Label, LabelPaper)
	}
}

func TestDebouncer_NoneKeepsIdle(t *testing.T) {
	d := NewDebouncer(400*time.Millisecond, DisciplineSingle)

	for _, ms := range []int{0, 100, 200} {
		if ev := d.Update(LabelNone, at(ms)); ev != nil {
			t.Fatalf("event fired from idle at %dms", ms)
		}
	}

	label, since := d.Tracking()
	if label != LabelNone || !since.IsZero() {
		t.Errorf("Tracking() = (%q, %v), want idle", label, since)
	}
}

func TestDebouncer_FiresWithoutHandler(t *testing.T) {
	// No handler registered: firing is a no-op, not an error.
	d := NewDebouncer(100*time.Millisecond, DisciplineSingle)

	d.Update(LabelScissors, at(0))
	if ev := d.Update(LabelScissors, at(150)); ev == nil {
		t.Fatal("no event fired")
	}
}

func TestNewDebouncer_Defaults(t *testing.T) {
	d := NewDebouncer(0, "")

	if d.Dwell() != DefaultDwell {
		t.Errorf("Dwell() = %v, want %v", d.Dwell(), DefaultDwell)
	}
	if d.Discipline() != DisciplineSingle {
		t.Errorf("Discipline() = %q, want %q", d.Discipline(), DisciplineSingle)
	}
}
