package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
)

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "data.db")

	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	srv := server.New(server.Config{Store: s, Live: server.NewLiveFeed()})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	t.Run("CreateBinding", func(t *testing.T) {
		resp, err := client.Post(
			ts.URL+"/api/bindings",
			"application/json",
			strings.NewReader(`{"label": "paper", "plugin_name": "keyboard", "action_name": "keystroke"}`),
		)
		if err != nil {
			t.Fatalf("create binding error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}
	})

	application := app.New(app.Config{
		Store:     s,
		PluginDir: filepath.Join(tmpDir, "plugins"),
		Dwell:     100 * time.Millisecond,
	})

	mockDetector := detector.NewMockDetector()
	application.SetDetector(mockDetector)

	t.Run("ClassifyOpenPalm", func(t *testing.T) {
		mockDetector.SetHands([]detector.HandLandmarks{detector.OpenPalmLandmarks()})

		hands, _ := mockDetector.Detect(nil)
		if len(hands) == 0 {
			t.Fatal("no hands detected")
		}

		label, err := application.Classifier().Classify(detector.BestHand(hands))
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		if label != gesture.LabelPaper {
			t.Errorf("label = %q, want %q", label, gesture.LabelPaper)
		}
	})

	t.Run("DebounceConfirmsAndRecords", func(t *testing.T) {
		base := time.Now()
		d := application.Debouncer()
		d.Update(gesture.LabelPaper, base)
		d.Update(gesture.LabelPaper, base.Add(150*time.Millisecond))

		resp, err := client.Get(ts.URL + "/api/events")
		if err != nil {
			t.Fatalf("list events error = %v", err)
		}
		defer resp.Body.Close()

		var events []struct {
			Label string `json:"label"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
			t.Fatalf("decode events: %v", err)
		}
		if len(events) != 1 {
			t.Fatalf("recorded %d events, want 1", len(events))
		}
		if events[0].Label != "paper" {
			t.Errorf("event label = %q, want %q", events[0].Label, "paper")
		}
	})

	t.Run("APIStillWorks", func(t *testing.T) {
		resp, _ := client.Get(ts.URL + "/api/health")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health check failed after app operations")
		}
		resp.Body.Close()
	})
}

func TestE2E_DirectionalWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	application := app.New(app.Config{
		Store:      s,
		PluginDir:  filepath.Join(tmpDir, "plugins"),
		Classifier: gesture.Config{Vocabulary: gesture.VocabularyDirectional},
		Dwell:      100 * time.Millisecond,
		Discipline: gesture.DisciplineRepeat,
	})

	var confirmed []gesture.Label
	application.OnEvent(func(ev gesture.Event) {
		confirmed = append(confirmed, ev.Label)
	})

	// A fist means "right" in the directional vocabulary. With repeat-fire
	// discipline a held gesture confirms on every frame past the dwell.
	hand := detector.FistLandmarks()
	label, err := application.Classifier().Classify(&hand)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if label != gesture.LabelRight {
		t.Fatalf("label = %q, want %q", label, gesture.LabelRight)
	}

	base := time.Now()
	d := application.Debouncer()
	for ms := 0; ms <= 400; ms += 100 {
		d.Update(label, base.Add(time.Duration(ms)*time.Millisecond))
	}

	// Frames at 200, 300 and 400ms all exceed the 100ms dwell.
	if len(confirmed) != 3 {
		t.Fatalf("confirmed %d events, want 3", len(confirmed))
	}
	for _, l := range confirmed {
		if l != gesture.LabelRight {
			t.Errorf("confirmed label = %q, want %q", l, gesture.LabelRight)
		}
	}

	events, err := s.Events().ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(events) != 3 {
		t.Errorf("recorded %d events, want 3", len(events))
	}
}

func TestE2E_SettingsRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	s, err := store.New(filepath.Join(t.TempDir(), "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	srv := server.New(server.Config{Store: s})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/settings",
		strings.NewReader(`{"vocabulary": "directional", "dwell_ms": "350"}`))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("put settings error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	got, err := s.Settings().Get("vocabulary")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "directional" {
		t.Errorf("vocabulary = %q, want %q", got, "directional")
	}
}
