package api

import (
	"encoding/json"
	"net/http"

	"antares/internal/sim"
)

// Handler methods for routerHandlers. Used by both the standalone
// router (for testing) and the full Server.

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	snap := h.host.Snapshot()
	writeJSON(w, snap)
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	snap := h.host.Snapshot()
	writeJSON(w, map[string]interface{}{
		"tick":        snap.Tick,
		"objectCount": len(snap.Objects),
		"beamCount":   len(snap.Beams),
		"gameOver":    snap.GameOver,
		"winner":      snap.Winner,
	})
}

func (h *routerHandlers) handleGetAdmirals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.host.Admirals())
}

// handlePostInput accepts a single tick's worth of input, replacing
// whatever the next tick would otherwise consume. A websocket or chat
// command source is expected to call this far more often than an
// operator console would.
func (h *routerHandlers) handlePostInput(w http.ResponseWriter, r *http.Request) {
	var frame sim.InputFrame
	if err := json.NewDecoder(r.Body).Decode(&frame); err != nil {
		writeError(w, "invalid input frame", http.StatusBadRequest)
		return
	}
	h.host.SubmitInput(frame)
	writeJSON(w, map[string]bool{"accepted": true})
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
