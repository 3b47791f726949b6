package gesture

import "time"

// Discipline selects how the debouncer fires once the dwell threshold is
// crossed.
type Discipline string

const (
	// DisciplineSingle fires once per dwell period: after firing, the
	// tracked label must disappear (or accumulate a fresh dwell) before it
	// can fire again. Suited to discrete one-shot commands.
	DisciplineSingle Discipline = "single"

	// DisciplineRepeat fires on every subsequent frame while the label is
	// sustained past the dwell threshold. Suited to held-gesture
	// continuous controls.
	DisciplineRepeat Discipline = "repeat"
)

// DefaultDwell is the default minimum duration a label must persist before
// it is confirmed as a gesture event.
const DefaultDwell = 400 * time.Millisecond

// Event is a confirmed gesture, delivered when a label has been observed
// continuously past the dwell threshold.
type Event struct {
	Label Label     `json:"label"`
	At    time.Time `json:"at"`
}

// Debouncer suppresses flicker in the per-frame label stream by requiring
// a label to persist for a dwell period before confirming it.
//
// Update must be called exactly once per frame, including frames where the
// hand is absent (label = LabelNone). A Debouncer is not safe for concurrent
// use; it belongs to a single frame-delivery loop.
type Debouncer struct {
	dwell      time.Duration
	discipline Discipline
	handler    func(Event)

	// tracked is LabelNone exactly when since is the zero time.
	tracked Label
	since   time.Time
}

// NewDebouncer creates a Debouncer with the given dwell threshold and firing
// discipline. Non-positive dwell falls back to DefaultDwell; an empty
// discipline falls back to DisciplineSingle.
func NewDebouncer(dwell time.Duration, discipline Discipline) *Debouncer {
	if dwell <= 0 {
		dwell = DefaultDwell
	}
	if discipline == "" {
		discipline = DisciplineSingle
	}
	return &Debouncer{
		dwell:      dwell,
		discipline: discipline,
		tracked:    LabelNone,
	}
}

// OnGesture registers the handler invoked synchronously each time an event
// fires. Firing with no handler registered is a no-op.
func (d *Debouncer) OnGesture(fn func(Event)) {
	d.handler = fn
}

// Dwell returns the configured dwell threshold.
func (d *Debouncer) Dwell() time.Duration {
	return d.dwell
}

// Discipline returns the configured firing discipline.
func (d *Debouncer) Discipline() Discipline {
	return d.discipline
}

// Tracking returns the currently tracked label and when tracking started.
// The label is LabelNone when idle.
func (d *Debouncer) Tracking() (Label, time.Time) {
	return d.tracked, d.since
}

// Reset clears tracking back to idle without firing.
func (d *Debouncer) Reset() {
	d.tracked = LabelNone
	d.since = time.Time{}
}

// Update consumes one frame's label and decides whether a gesture event
// fires. It returns the fired event, or nil. The registered handler is
// invoked before Update returns.
//
// A label change restarts the dwell timer for the new label; the abandoned
// label never fires. While a label is sustained the tracking start time is
// not refreshed, so the event fires at the first frame where the elapsed
// time exceeds the dwell threshold.
func (d *Debouncer) Update(label Label, now time.Time) *Event {
	switch {
	case label == LabelNone:
		d.Reset()
		return nil
	case label != d.tracked:
		d.tracked = label
		d.since = now
		return nil
	}

	if now.Sub(d.since) <= d.dwell {
		return nil
	}

	event := Event{Label: label, At: now}
	if d.discipline == DisciplineSingle {
		d.Reset()
	}
	if d.handler != nil {
		d.handler(event)
	}
	return &event
}
