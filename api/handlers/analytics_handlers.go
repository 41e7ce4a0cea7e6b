package handlers

import (
	"net/http"
	"strings"
	"time"

	"opsradar/config"
	"opsradar/core/incidents"
	"opsradar/core/workspace"
)

type AnalyticsHandler struct {
	cfg   *config.AppConfig
	ws    *workspace.Workspace
	cache *incidents.ViewCache
}

func NewAnalyticsHandler(cfg *config.AppConfig, ws *workspace.Workspace, cache *incidents.ViewCache) *AnalyticsHandler {
	return &AnalyticsHandler{cfg: cfg, ws: ws, cache: cache}
}

func boolQuery(r *http.Request, key string) bool {
	v := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key)))
	return v == "1" || v == "true"
}

type slaRow struct {
	incidents.SLABucket
	ComplianceRate  float64 `json:"compliance_rate"`
	ComplianceLevel string  `json:"compliance_level"`
}

// SLA returns the per-priority compliance rollup over the filtered view.
// With onhold_only=1 only on-hold incidents are aggregated.
func (h *AnalyticsHandler) SLA(w http.ResponseWriter, r *http.Request) {
	_, filtered, _ := currentView(r, h.ws, h.cache)
	buckets := incidents.SLARollup(filtered, time.Now().UTC(), boolQuery(r, "onhold_only"))

	rows := make([]slaRow, 0, len(buckets))
	var total, within int
	for _, b := range buckets {
		rate := b.ComplianceRate()
		rows = append(rows, slaRow{
			SLABucket:       b,
			ComplianceRate:  rate,
			ComplianceLevel: incidents.ComplianceLevel(rate),
		})
		total += b.Total
		within += b.WithinSLA
	}
	overall := 0.0
	if total > 0 {
		overall = float64(within) / float64(total) * 100
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"target":           incidents.SLATarget,
		"overall_rate":     overall,
		"overall_level":    incidents.ComplianceLevel(overall),
		"buckets":          rows,
		"total_incidents":  total,
		"within_threshold": within,
	})
}

// SLAIncidents is the click-through behind one rollup cell.
func (h *AnalyticsHandler) SLAIncidents(w http.ResponseWriter, r *http.Request) {
	priority := incidents.NormalizePriority(r.URL.Query().Get("priority"))
	if r.URL.Query().Get("priority") == "" {
		http.Error(w, "missing priority", http.StatusBadRequest)
		return
	}
	compliant := boolQuery(r, "compliant")
	_, filtered, _ := currentView(r, h.ws, h.cache)
	set := incidents.SLAIncidents(filtered, time.Now().UTC(), priority, compliant, boolQuery(r, "onhold_only"))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"priority":  priority,
		"compliant": compliant,
		"total":     len(set),
		"incidents": set,
	})
}

// Groups breaks the filtered view down along one dimension. With a value
// parameter it returns that group's incidents instead.
func (h *AnalyticsHandler) Groups(w http.ResponseWriter, r *http.Request) {
	d := incidents.Dimension(r.URL.Query().Get("dimension"))
	if !incidents.ValidDimension(d) {
		http.Error(w, "unknown dimension", http.StatusBadRequest)
		return
	}
	_, filtered, _ := currentView(r, h.ws, h.cache)

	if value := r.URL.Query().Get("value"); value != "" {
		set := incidents.GroupIncidents(filtered, d, value)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"dimension": d,
			"value":     value,
			"total":     len(set),
			"incidents": set,
		})
		return
	}
	groups := incidents.GroupBy(filtered, d, h.cfg.Dashboard.TopGroups)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dimension": d,
		"groups":    groups,
	})
}

// History returns monthly buckets for one dimension, or with value/month
// set, the incidents behind one cell.
func (h *AnalyticsHandler) History(w http.ResponseWriter, r *http.Request) {
	d := incidents.Dimension(r.URL.Query().Get("dimension"))
	if !incidents.ValidDimension(d) {
		http.Error(w, "unknown dimension", http.StatusBadRequest)
		return
	}
	_, filtered, _ := currentView(r, h.ws, h.cache)

	if month := r.URL.Query().Get("month"); month != "" {
		set := incidents.MonthIncidents(filtered, d, r.URL.Query().Get("value"), month)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"dimension": d,
			"month":     month,
			"value":     r.URL.Query().Get("value"),
			"total":     len(set),
			"incidents": set,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dimension": d,
		"months":    incidents.History(filtered, d),
	})
}
