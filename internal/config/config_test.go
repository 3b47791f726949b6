package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want %q", cfg.Addr, ":8080")
	}
	if cfg.Vocabulary != "rps" {
		t.Errorf("Vocabulary = %q, want %q", cfg.Vocabulary, "rps")
	}
	if cfg.Discipline != "single" {
		t.Errorf("Discipline = %q, want %q", cfg.Discipline, "single")
	}
	if cfg.Dwell() != 400*time.Millisecond {
		t.Errorf("Dwell() = %v, want %v", cfg.Dwell(), 400*time.Millisecond)
	}
	if cfg.FingerMargin != 0.05 {
		t.Errorf("FingerMargin = %v, want 0.05", cfg.FingerMargin)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MUDRA_ADDR", ":9090")
	t.Setenv("MUDRA_VOCABULARY", "directional")
	t.Setenv("MUDRA_DISCIPLINE", "repeat")
	t.Setenv("MUDRA_DWELL_MS", "300")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want %q", cfg.Addr, ":9090")
	}
	if cfg.Vocabulary != "directional" {
		t.Errorf("Vocabulary = %q, want %q", cfg.Vocabulary, "directional")
	}
	if cfg.Discipline != "repeat" {
		t.Errorf("Discipline = %q, want %q", cfg.Discipline, "repeat")
	}
	if cfg.Dwell() != 300*time.Millisecond {
		t.Errorf("Dwell() = %v, want %v", cfg.Dwell(), 300*time.Millisecond)
	}
}

func TestApplySettings_OverridesEnvValues(t *testing.T) {
	t.Setenv("MUDRA_VOCABULARY", "rps")
	t.Setenv("MUDRA_DWELL_MS", "400")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg, err = cfg.ApplySettings(map[string]string{
		SettingVocabulary:     "directional",
		SettingDiscipline:     "repeat",
		SettingDwellMs:        "350",
		SettingFingerMargin:   "0.08",
		SettingTiltThreshold:  "0.3",
		SettingThumbThreshold: "0.15",
	})
	if err != nil {
		t.Fatalf("ApplySettings() error = %v", err)
	}

	if cfg.Vocabulary != "directional" {
		t.Errorf("Vocabulary = %q, want stored %q", cfg.Vocabulary, "directional")
	}
	if cfg.Discipline != "repeat" {
		t.Errorf("Discipline = %q, want stored %q", cfg.Discipline, "repeat")
	}
	if cfg.Dwell() != 350*time.Millisecond {
		t.Errorf("Dwell() = %v, want stored %v", cfg.Dwell(), 350*time.Millisecond)
	}
	if cfg.FingerMargin != 0.08 {
		t.Errorf("FingerMargin = %v, want stored 0.08", cfg.FingerMargin)
	}
	if cfg.ThumbThreshold != 0.15 {
		t.Errorf("ThumbThreshold = %v, want stored 0.15", cfg.ThumbThreshold)
	}
	if cfg.TiltThreshold != 0.3 {
		t.Errorf("TiltThreshold = %v, want stored 0.3", cfg.TiltThreshold)
	}
}

func TestApplySettings_KeepsUntouchedValues(t *testing.T) {
	t.Setenv("MUDRA_ADDR", ":9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg, err = cfg.ApplySettings(map[string]string{
		SettingDwellMs: "500",
		"ui_theme":     "dark", // unknown keys are ignored
	})
	if err != nil {
		t.Fatalf("ApplySettings() error = %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want env %q", cfg.Addr, ":9090")
	}
	if cfg.Vocabulary != "rps" {
		t.Errorf("Vocabulary = %q, want default %q", cfg.Vocabulary, "rps")
	}
	if cfg.Dwell() != 500*time.Millisecond {
		t.Errorf("Dwell() = %v, want stored %v", cfg.Dwell(), 500*time.Millisecond)
	}
}

func TestApplySettings_Invalid(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad vocabulary", SettingVocabulary, "morse"},
		{"bad discipline", SettingDiscipline, "burst"},
		{"non-numeric dwell", SettingDwellMs, "soon"},
		{"zero dwell", SettingDwellMs, "0"},
		{"negative margin", SettingFingerMargin, "-0.05"},
		{"non-numeric threshold", SettingTiltThreshold, "high"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := cfg.ApplySettings(map[string]string{tt.key: tt.value}); err == nil {
				t.Errorf("ApplySettings(%s=%s) should fail", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad vocabulary", "MUDRA_VOCABULARY", "morse"},
		{"bad discipline", "MUDRA_DISCIPLINE", "burst"},
		{"zero dwell", "MUDRA_DWELL_MS", "0"},
		{"negative dwell", "MUDRA_DWELL_MS", "-100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s should fail", tt.key, tt.value)
			}
		})
	}
}
