package handlers

import (
	"net/http"

	"opsradar/core/incidents"
	"opsradar/core/workspace"
)

var criteriaKeys = []string{"search", "category", "status", "from", "to"}

// requestCriteria resolves the criteria a read request operates on. Any
// criteria key in the query replaces the workspace criteria wholesale;
// without one, the stored view applies.
func requestCriteria(r *http.Request, fallback incidents.Criteria) incidents.Criteria {
	q := r.URL.Query()
	override := false
	for _, key := range criteriaKeys {
		if q.Has(key) {
			override = true
			break
		}
	}
	if !override {
		return fallback
	}
	return incidents.Criteria{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Status:   q.Get("status"),
		From:     q.Get("from"),
		To:       q.Get("to"),
	}
}

// currentView snapshots the workspace and computes the filtered slice for
// the request.
func currentView(r *http.Request, ws *workspace.Workspace, cache *incidents.ViewCache) (workspace.Snapshot, []incidents.Incident, incidents.Criteria) {
	snap := ws.Snapshot()
	criteria := requestCriteria(r, snap.Criteria)
	filtered := cache.Filtered(snap.Version, snap.Incidents, criteria)
	return snap, filtered, criteria
}
