package incidents

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Dimension selects the grouping field for breakdowns and histories.
type Dimension string

const (
	DimensionCaller   Dimension = "caller"
	DimensionCategory Dimension = "category"
	DimensionGroup    Dimension = "group"
	DimensionLocation Dimension = "location"
	DimensionAnalyst  Dimension = "analyst"
)

// TopCallers is the table cap applied to the caller dimension by default.
const TopCallers = 20

// ValidDimension reports whether d names a known grouping dimension.
func ValidDimension(d Dimension) bool {
	switch d {
	case DimensionCaller, DimensionCategory, DimensionGroup, DimensionLocation, DimensionAnalyst:
		return true
	}
	return false
}

// dimensionKey extracts the trimmed group key for one incident, falling
// back to the dimension's sentinel when the field is empty. The category
// dimension groups by bucketed label so the breakdown matches the filter
// choices.
func dimensionKey(in Incident, d Dimension) string {
	switch d {
	case DimensionCategory:
		return BucketCategory(in.Category)
	case DimensionGroup:
		if v := strings.TrimSpace(in.AssignmentGroup); v != "" {
			return v
		}
		return GroupUnknown
	case DimensionLocation:
		if v := strings.TrimSpace(in.Location); v != "" {
			return v
		}
		return LocationUnknown
	case DimensionAnalyst:
		if v := strings.TrimSpace(in.AssignedTo); v != "" {
			return v
		}
		return AnalystUnknown
	default:
		if v := strings.TrimSpace(in.Caller); v != "" {
			return v
		}
		return CallerUnknown
	}
}

// GroupStat is one row of a per-dimension breakdown.
type GroupStat struct {
	Name            string           `json:"name"`
	Total           int              `json:"total"`
	ByPriority      map[Priority]int `json:"by_priority"`
	ByState         map[State]int    `json:"by_state"`
	OpenIncidents   int              `json:"open_incidents"`
	CriticalPending int              `json:"critical_pending"`
	// Percentage is the group's share of the whole collection, computed
	// before any top-N cap so capped tables still show true shares.
	Percentage float64 `json:"percentage"`
}

// GroupBy aggregates the collection along one dimension. Groups are sorted
// by total descending (name ascending on ties, for stable output) and
// capped to topN when topN > 0.
func GroupBy(set []Incident, d Dimension, topN int) []GroupStat {
	groups := map[string]*GroupStat{}
	for _, in := range set {
		key := dimensionKey(in, d)
		g, ok := groups[key]
		if !ok {
			g = &GroupStat{
				Name:       key,
				ByPriority: map[Priority]int{},
				ByState:    map[State]int{},
			}
			groups[key] = g
		}
		priority := NormalizePriority(in.Priority)
		state := NormalizeState(in.State)
		g.Total++
		g.ByPriority[priority]++
		g.ByState[state]++
		if state != StateClosed {
			g.OpenIncidents++
			if priority == PriorityP1 || priority == PriorityP2 {
				g.CriticalPending++
			}
		}
	}

	out := make([]GroupStat, 0, len(groups))
	grand := 0
	for _, g := range groups {
		grand += g.Total
	}
	for _, g := range groups {
		if grand > 0 {
			g.Percentage = float64(g.Total) / float64(grand) * 100
		}
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// GroupIncidents is the click-through behind a breakdown row: every
// incident whose dimension key equals value.
func GroupIncidents(set []Incident, d Dimension, value string) []Incident {
	out := make([]Incident, 0)
	for _, in := range set {
		if dimensionKey(in, d) == value {
			out = append(out, in)
		}
	}
	return out
}

// MonthBucket is one month of a trend series: total plus per-dimension-value
// counts. Month keys use the "2006-01" layout.
type MonthBucket struct {
	Month   string         `json:"month"`
	Total   int            `json:"total"`
	ByValue map[string]int `json:"by_value"`
}

func monthKey(in Incident) (string, bool) {
	opened, ok := in.OpenedAt()
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d", opened.Year(), int(opened.Month())), true
}

// History buckets the collection by the month of Opened and counts per
// dimension value inside each bucket. Incidents with an unparseable Opened
// are excluded. Buckets come back in chronological order.
func History(set []Incident, d Dimension) []MonthBucket {
	months := map[string]*MonthBucket{}
	for _, in := range set {
		key, ok := monthKey(in)
		if !ok {
			continue
		}
		b, found := months[key]
		if !found {
			b = &MonthBucket{Month: key, ByValue: map[string]int{}}
			months[key] = b
		}
		b.Total++
		b.ByValue[dimensionKey(in, d)]++
	}
	out := make([]MonthBucket, 0, len(months))
	for _, b := range months {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// MonthIncidents is the click-through behind a history cell: the exact
// incidents of one (dimension value, month) pair. An empty value matches
// the whole month.
func MonthIncidents(set []Incident, d Dimension, value, month string) []Incident {
	out := make([]Incident, 0)
	for _, in := range set {
		key, ok := monthKey(in)
		if !ok || key != month {
			continue
		}
		if value != "" && dimensionKey(in, d) != value {
			continue
		}
		out = append(out, in)
	}
	return out
}

// DashboardStats backs the headline cards: totals over the filtered view
// plus the four derived-subset counts with their intentional full-vs-
// filtered scoping.
type DashboardStats struct {
	Total              int     `json:"total"`
	HighPriority       int     `json:"high_priority"`
	HighPriorityShare  float64 `json:"high_priority_share"`
	Trend              string  `json:"trend"`
	DistinctCategories int     `json:"distinct_categories"`
	CriticalPending    int     `json:"critical_pending"`
	Pending            int     `json:"pending"`
	OnHold             int     `json:"on_hold"`
	OutOfRule          int     `json:"out_of_rule"`
}

// Stats computes the card values. CriticalPending and Pending count over
// the full collection (global alerts); OnHold and OutOfRule over the
// filtered view.
func Stats(all, filtered []Incident, now time.Time, outOfRuleAge time.Duration) DashboardStats {
	stats := DashboardStats{
		Total:           len(filtered),
		CriticalPending: len(CriticalPending(all)),
		Pending:         len(Pending(all)),
		OnHold:          len(OnHold(filtered)),
		OutOfRule:       len(OutOfRule(filtered, now, outOfRuleAge)),
		Trend:           "0%",
	}
	seen := map[string]struct{}{}
	for _, in := range filtered {
		if IsHighPriority(in.Priority) && !IsCancelled(in.State) {
			stats.HighPriority++
		}
		seen[in.Category] = struct{}{}
	}
	stats.DistinctCategories = len(seen)
	if stats.Total > 0 {
		stats.HighPriorityShare = float64(stats.HighPriority) / float64(stats.Total) * 100
		if stats.HighPriorityShare > 0 {
			stats.Trend = fmt.Sprintf("↑ %.2f%%", stats.HighPriorityShare)
		}
	}
	return stats
}
