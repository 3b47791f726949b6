package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func doSettingsRequest(t *testing.T, h http.Handler, method string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, "/api/settings", &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSettingsHandler_PutAndGet(t *testing.T) {
	h := NewSettingsHandler(newTestStore(t))

	rec := doSettingsRequest(t, h, http.MethodPut, map[string]string{
		"vocabulary": "directional",
		"dwell_ms":   "500",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	rec = doSettingsRequest(t, h, http.MethodGet, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want %d", rec.Code, http.StatusOK)
	}

	var settings map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&settings); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if settings["vocabulary"] != "directional" {
		t.Errorf("vocabulary = %q, want %q", settings["vocabulary"], "directional")
	}
	if settings["dwell_ms"] != "500" {
		t.Errorf("dwell_ms = %q, want %q", settings["dwell_ms"], "500")
	}
}

func TestSettingsHandler_PutOverwrites(t *testing.T) {
	h := NewSettingsHandler(newTestStore(t))

	doSettingsRequest(t, h, http.MethodPut, map[string]string{"discipline": "single"})
	rec := doSettingsRequest(t, h, http.MethodPut, map[string]string{"discipline": "repeat"})
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, want %d", rec.Code, http.StatusOK)
	}

	var settings map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&settings); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if settings["discipline"] != "repeat" {
		t.Errorf("discipline = %q, want %q", settings["discipline"], "repeat")
	}
}

func TestSettingsHandler_PutEmptyBody(t *testing.T) {
	h := NewSettingsHandler(newTestStore(t))

	rec := doSettingsRequest(t, h, http.MethodPut, map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSettingsHandler_GetEmpty(t *testing.T) {
	h := NewSettingsHandler(newTestStore(t))

	rec := doSettingsRequest(t, h, http.MethodGet, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var settings map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&settings); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if len(settings) != 0 {
		t.Errorf("got %d settings, want 0", len(settings))
	}
}
