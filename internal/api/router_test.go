package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"antares/internal/sim"
)

// fakeSession is a minimal SessionInterface for exercising routes without
// ticking a real simulation.
type fakeSession struct {
	snapshot *sim.Snapshot
	admirals []sim.Admiral
	lastIn   sim.InputFrame
}

func (f *fakeSession) Snapshot() *sim.Snapshot    { return f.snapshot }
func (f *fakeSession) Admirals() []sim.Admiral    { return f.admirals }
func (f *fakeSession) SubmitInput(in sim.InputFrame) { f.lastIn = in }

func newTestRouter() (*fakeSession, http.Handler) {
	session := &fakeSession{
		snapshot: &sim.Snapshot{
			Tick:    5,
			Objects: []sim.ObjectSnapshot{{Slot: 0, ID: 1}},
		},
		admirals: []sim.Admiral{{ID: 0, Name: "Flagship Admiral"}},
	}
	router := NewRouter(RouterConfig{
		Host:            session,
		RateLimitConfig: &RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000, CleanupInterval: 0},
		DisableLogging:  true,
	})
	return session, router
}

func TestHandleGetState(t *testing.T) {
	_, router := newTestRouter()
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/state")
	if err != nil {
		t.Fatalf("GET /api/state: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var snap sim.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Tick != 5 {
		t.Errorf("expected tick 5, got %d", snap.Tick)
	}
}

func TestHandleGetStats(t *testing.T) {
	_, router := newTestRouter()
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/stats")
	if err != nil {
		t.Fatalf("GET /api/stats: %v", err)
	}
	defer resp.Body.Close()

	var stats map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if int(stats["objectCount"].(float64)) != 1 {
		t.Errorf("expected objectCount 1, got %v", stats["objectCount"])
	}
}

func TestHandleGetAdmirals(t *testing.T) {
	_, router := newTestRouter()
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/admirals")
	if err != nil {
		t.Fatalf("GET /api/admirals: %v", err)
	}
	defer resp.Body.Close()

	var admirals []sim.Admiral
	if err := json.NewDecoder(resp.Body).Decode(&admirals); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(admirals) != 1 || admirals[0].Name != "Flagship Admiral" {
		t.Errorf("unexpected admirals: %+v", admirals)
	}
}

func TestHandlePostInput(t *testing.T) {
	session, router := newTestRouter()
	ts := httptest.NewServer(router)
	defer ts.Close()

	body, _ := json.Marshal(sim.InputFrame{KeysDown: sim.KeyUp})
	resp, err := http.Post(ts.URL+"/api/input", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/input: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if session.lastIn.KeysDown&sim.KeyUp == 0 {
		t.Error("expected submitted input to reach the session")
	}
}

func TestHandlePostInputRejectsInvalidJSON(t *testing.T) {
	_, router := newTestRouter()
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/input", "application/json", bytes.NewReader([]byte("not json")))
	if err != nil {
		t.Fatalf("POST /api/input: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
