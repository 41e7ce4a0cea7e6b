package handlers

import (
	"net/http"
	"time"

	"opsradar/config"
	"opsradar/core/incidents"
	"opsradar/core/workspace"
)

type DashboardHandler struct {
	cfg   *config.AppConfig
	ws    *workspace.Workspace
	cache *incidents.ViewCache
}

func NewDashboardHandler(cfg *config.AppConfig, ws *workspace.Workspace, cache *incidents.ViewCache) *DashboardHandler {
	return &DashboardHandler{cfg: cfg, ws: ws, cache: cache}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	snap, filtered, _ := currentView(r, h.ws, h.cache)
	stats := incidents.Stats(snap.Incidents, filtered, time.Now().UTC(), h.cfg.Dashboard.OutOfRuleAge)
	writeJSON(w, http.StatusOK, stats)
}

// Critical lists high-priority unresolved incidents over the whole loaded
// dataset, ignoring the active filters.
func (h *DashboardHandler) Critical(w http.ResponseWriter, _ *http.Request) {
	snap := h.ws.Snapshot()
	set := incidents.CriticalPending(snap.Incidents)
	writeJSON(w, http.StatusOK, map[string]interface{}{"total": len(set), "incidents": set})
}

// Pending lists unresolved, not-on-hold incidents over the whole loaded
// dataset.
func (h *DashboardHandler) Pending(w http.ResponseWriter, _ *http.Request) {
	snap := h.ws.Snapshot()
	set := incidents.Pending(snap.Incidents)
	writeJSON(w, http.StatusOK, map[string]interface{}{"total": len(set), "incidents": set})
}

// OnHold lists on-hold incidents within the filtered view.
func (h *DashboardHandler) OnHold(w http.ResponseWriter, r *http.Request) {
	_, filtered, _ := currentView(r, h.ws, h.cache)
	set := incidents.OnHold(filtered)
	writeJSON(w, http.StatusOK, map[string]interface{}{"total": len(set), "incidents": set})
}

// OutOfRule lists open incidents within the filtered view that sat without
// an update past the inactivity window.
func (h *DashboardHandler) OutOfRule(w http.ResponseWriter, r *http.Request) {
	_, filtered, _ := currentView(r, h.ws, h.cache)
	set := incidents.OutOfRule(filtered, time.Now().UTC(), h.cfg.Dashboard.OutOfRuleAge)
	writeJSON(w, http.StatusOK, map[string]interface{}{"total": len(set), "incidents": set})
}
