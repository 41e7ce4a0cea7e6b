package incidents

import (
	"strings"
	"time"
)

// DefaultOutOfRuleAge is how stale an active incident's last update may be
// before the incident counts as out of rule.
const DefaultOutOfRuleAge = 48 * time.Hour

// Criteria is the current filter selection. Zero values mean "no
// constraint" for each field independently.
type Criteria struct {
	// Search is free text matched against number, description, caller,
	// category, assignment group, assignee and location. Numeric-looking
	// queries additionally match numbers with leading zeros stripped.
	Search string `json:"search"`
	// Category is a case-insensitive substring match against the raw
	// category field (not the bucketed label).
	Category string `json:"category"`
	// Status compares against the normalized canonical state.
	Status string `json:"status"`
	// From and To bound the Opened timestamp to
	// [start-of-day(From), end-of-day(To)], each side optional.
	// Accepted layouts are the same as for incident timestamps.
	From string `json:"from"`
	To   string `json:"to"`
}

// Filter applies the criteria to the collection and returns the active
// view. Cancelled incidents are always excluded. With search text the
// free-text/number match is OR-combined and then AND-ed with the category,
// status and date filters; without search text the three filters apply
// alone. The input slice is never modified.
func Filter(all []Incident, c Criteria) []Incident {
	query := strings.ToLower(strings.TrimSpace(c.Search))
	out := make([]Incident, 0, len(all))
	for _, in := range all {
		if IsCancelled(in.State) {
			continue
		}
		if !matchesCategory(in, c.Category) || !matchesStatus(in, c.Status) || !inDateRange(in, c.From, c.To) {
			continue
		}
		if query != "" && !matchesSearch(in, query) && !matchesNumber(in.Number, query) {
			continue
		}
		out = append(out, in)
	}
	return out
}

func matchesCategory(in Incident, category string) bool {
	if category == "" {
		return true
	}
	return strings.Contains(strings.ToLower(in.Category), strings.ToLower(category))
}

func matchesStatus(in Incident, status string) bool {
	if status == "" {
		return true
	}
	return NormalizeState(in.State) == State(status)
}

// inDateRange checks Opened against [start-of-day(from), end-of-day(to)].
// With neither bound set the filter is inactive; with any bound set an
// unparseable Opened excludes the record rather than erroring.
func inDateRange(in Incident, from, to string) bool {
	if from == "" && to == "" {
		return true
	}
	opened, ok := in.OpenedAt()
	if !ok {
		return false
	}
	if from != "" {
		start, ok := parseWhen(from)
		if !ok {
			return false
		}
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		if opened.Before(start) {
			return false
		}
	}
	if to != "" {
		end, ok := parseWhen(to)
		if !ok {
			return false
		}
		end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), end.Location())
		if opened.After(end) {
			return false
		}
	}
	return true
}

func matchesSearch(in Incident, query string) bool {
	fields := []string{
		in.Number,
		in.ShortDescription,
		in.Caller,
		in.Category,
		in.AssignmentGroup,
		in.AssignedTo,
		in.Location,
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// matchesNumber supports numeric lookup with leading zeros stripped from
// both sides, so "007" finds number "7" as well as "0000007".
func matchesNumber(number, query string) bool {
	n := strings.TrimLeft(strings.ToLower(number), "0")
	q := strings.TrimLeft(query, "0")
	return n == q || strings.Contains(n, q)
}

// CriticalPending returns the high-priority incidents that are not closed
// and not cancelled. Computed over the full collection: it backs a global
// alert, not a view scoped to the current filter.
func CriticalPending(all []Incident) []Incident {
	out := make([]Incident, 0)
	for _, in := range all {
		if !IsHighPriority(in.Priority) {
			continue
		}
		if NormalizeState(in.State) == StateClosed || IsCancelled(in.State) {
			continue
		}
		out = append(out, in)
	}
	return out
}

// Pending returns the incidents that are not closed, not cancelled and not
// on hold. Computed over the full collection, like CriticalPending.
func Pending(all []Incident) []Incident {
	out := make([]Incident, 0)
	for _, in := range all {
		if NormalizeState(in.State) == StateClosed || IsCancelled(in.State) || IsOnHold(in.State) {
			continue
		}
		out = append(out, in)
	}
	return out
}

// OnHold returns the non-cancelled incidents currently on hold. Scoped to
// the filtered view, unlike the two global alert sets.
func OnHold(filtered []Incident) []Incident {
	out := make([]Incident, 0)
	for _, in := range filtered {
		if IsCancelled(in.State) {
			continue
		}
		if IsOnHold(in.State) {
			out = append(out, in)
		}
	}
	return out
}

// outOfRuleStateTokens mark the raw states eligible for the aging check:
// open, in progress or assigned, in either language.
var outOfRuleStateTokens = []string{"open", "in progress", "assigned", "aberto", "em andamento", "atribuído"}

// OutOfRule returns the filtered incidents whose last update is older than
// maxAge. On-hold incidents are exempt, the raw state must carry an
// open/in-progress/assigned token, and a present-but-unparseable Updated
// value is treated as non-breaching. Elapsed time is measured in whole
// hours, matching the SLA engine.
func OutOfRule(filtered []Incident, now time.Time, maxAge time.Duration) []Incident {
	maxHours := int(maxAge.Hours())
	out := make([]Incident, 0)
	for _, in := range filtered {
		if IsOnHold(in.State) {
			continue
		}
		state := strings.ToLower(strings.TrimSpace(in.State))
		eligible := false
		for _, tok := range outOfRuleStateTokens {
			if strings.Contains(state, tok) {
				eligible = true
				break
			}
		}
		if !eligible {
			continue
		}
		lastUpdate := now
		if strings.TrimSpace(in.Updated) != "" {
			parsed, ok := in.UpdatedAt()
			if !ok {
				continue
			}
			lastUpdate = parsed
		}
		if hoursBetween(now, lastUpdate) > maxHours {
			out = append(out, in)
		}
	}
	return out
}
