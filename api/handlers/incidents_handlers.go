package handlers

import (
	"net/http"

	"opsradar/core/incidents"
	"opsradar/core/workspace"
)

type IncidentsHandler struct {
	ws    *workspace.Workspace
	cache *incidents.ViewCache
}

func NewIncidentsHandler(ws *workspace.Workspace, cache *incidents.ViewCache) *IncidentsHandler {
	return &IncidentsHandler{ws: ws, cache: cache}
}

// List returns the filtered incident view. Criteria query parameters
// override the stored workspace view for this request only.
func (h *IncidentsHandler) List(w http.ResponseWriter, r *http.Request) {
	_, filtered, criteria := currentView(r, h.ws, h.cache)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":     len(filtered),
		"criteria":  criteria,
		"incidents": filtered,
	})
}

// Categories returns the distinct bucketed category labels of the loaded
// dataset, for filter dropdowns.
func (h *IncidentsHandler) Categories(w http.ResponseWriter, _ *http.Request) {
	snap := h.ws.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories": incidents.Categories(snap.Incidents),
	})
}
