// server/server_test.go
// Copyright(c) 2022-2025 aloft contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mmp/aloft/aero"
	"github.com/mmp/aloft/sim"
)

type stubEnv struct{}

func (stubEnv) TerrainHeight(x, z float32) float32 { return 0 }

func (stubEnv) MinBuildingDistance(p [3]float32) float32 { return 1e9 }

func (stubEnv) Update(dt float32) {}

func newTestServer() (http.Handler, *sim.Sim) {
	s := sim.New(aero.DefaultParameters(), stubEnv{}, nil)
	return New(s, nil), s
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("bad JSON response: %v\n%s", err, w.Body.String())
	}
	return m
}

func TestStateEndpoint(t *testing.T) {
	h, _ := newTestServer()
	w := do(t, h, "GET", "/api/v1/state", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type %q", ct)
	}

	m := decode(t, w)
	for _, key := range []string{"aircraft", "mission", "collision", "paused", "sim_rate"} {
		if _, ok := m[key]; !ok {
			t.Errorf("response missing %q", key)
		}
	}
	ac := m["aircraft"].(map[string]any)
	if alt := ac["position"].([]any)[1].(float64); alt != 500 {
		t.Errorf("spawn altitude %v", alt)
	}
}

func TestMissionEndpoint(t *testing.T) {
	h, _ := newTestServer()
	w := do(t, h, "GET", "/api/v1/mission", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	m := decode(t, w)
	if segs, ok := m["segments"].([]any); !ok || len(segs) != 6 {
		t.Errorf("segments: %v", m["segments"])
	}
	if cur, ok := m["current"].(float64); !ok || cur != 0 {
		t.Errorf("current: %v", m["current"])
	}
}

func TestHealthEndpoint(t *testing.T) {
	h, _ := newTestServer()
	w := do(t, h, "GET", "/api/v1/health", "")
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Errorf("health: %d %q", w.Code, w.Body.String())
	}
}

func TestPauseResume(t *testing.T) {
	h, s := newTestServer()

	w := do(t, h, "POST", "/api/v1/sim/pause", "")
	if m := decode(t, w); m["paused"] != true {
		t.Error("pause response not paused")
	}
	if !s.Snapshot().Paused {
		t.Error("sim not paused")
	}

	w = do(t, h, "POST", "/api/v1/sim/resume", "")
	if m := decode(t, w); m["paused"] != false {
		t.Error("resume response still paused")
	}
	if s.Snapshot().Paused {
		t.Error("sim still paused")
	}
}

func TestResetEndpoint(t *testing.T) {
	h, s := newTestServer()
	s.RunFor(time.Second)

	w := do(t, h, "POST", "/api/v1/sim/reset", "")
	m := decode(t, w)
	if mt := m["aircraft"].(map[string]any)["mission_time"].(float64); mt != 0 {
		t.Errorf("mission time after reset: %v", mt)
	}
}

func TestRateEndpoint(t *testing.T) {
	h, s := newTestServer()

	w := do(t, h, "POST", "/api/v1/sim/rate", `{"rate": 4}`)
	if m := decode(t, w); m["sim_rate"].(float64) != 4 {
		t.Errorf("rate: %v", m["sim_rate"])
	}

	// Out-of-range requests are clamped, not rejected.
	w = do(t, h, "POST", "/api/v1/sim/rate", `{"rate": 100}`)
	if m := decode(t, w); m["sim_rate"].(float64) != float64(sim.MaxSimRate) {
		t.Errorf("clamped rate: %v", m["sim_rate"])
	}
	if s.Snapshot().SimRate != sim.MaxSimRate {
		t.Error("sim rate not clamped")
	}

	for _, body := range []string{"", "{}", `{"rate": -1}`, "not json"} {
		w = do(t, h, "POST", "/api/v1/sim/rate", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: status %d", body, w.Code)
		}
	}
}

func TestStateCaching(t *testing.T) {
	h, s := newTestServer()

	first := do(t, h, "GET", "/api/v1/state", "").Body.String()
	s.RunFor(time.Second)
	second := do(t, h, "GET", "/api/v1/state", "").Body.String()
	if first != second {
		t.Error("back-to-back requests should be served from cache")
	}

	// Mutations purge the cache.
	do(t, h, "POST", "/api/v1/sim/pause", "")
	third := do(t, h, "GET", "/api/v1/state", "").Body.String()
	if third == first {
		t.Error("cache not purged after mutation")
	}
}

func TestNotFound(t *testing.T) {
	h, _ := newTestServer()
	if w := do(t, h, "GET", "/api/v1/nope", ""); w.Code != http.StatusNotFound {
		t.Errorf("status %d", w.Code)
	}
}

func TestStatusPage(t *testing.T) {
	h, _ := newTestServer()
	w := do(t, h, "GET", "/sup", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Server Status", "Sim Status", "WUTO"} {
		if !strings.Contains(body, want) {
			t.Errorf("status page missing %q", want)
		}
	}
}
