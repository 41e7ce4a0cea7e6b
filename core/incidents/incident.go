// Package incidents holds the analytical core of opsradar: normalization of
// noisy free-text incident fields into canonical states and priorities, the
// filter pipeline that produces the active dashboard view, and the SLA and
// grouping aggregations derived from it.
//
// Every function in this package is pure and total: inputs are never
// mutated, no errors are returned, and malformed input degrades to a defined
// default or sentinel instead of failing.
package incidents

import (
	"strings"
	"time"
)

// State is the canonical lifecycle label an incident's raw State text is
// normalized into.
type State string

const (
	StateOpen       State = "Em Aberto"
	StateInProgress State = "Em Andamento"
	StateOnHold     State = "Em Espera"
	StateClosed     State = "Fechado"
	StateCancelled  State = "Cancelado"
)

// Priority is the canonical SLA tier an incident's raw Priority text is
// normalized into.
type Priority string

const (
	PriorityP1        Priority = "P1"
	PriorityP2        Priority = "P2"
	PriorityP3        Priority = "P3"
	PriorityP4        Priority = "P4"
	PriorityUndefined Priority = "Não definido"
)

// Sentinels substituted for empty dimension fields. Matching the labels the
// dashboard front end displays, so group names round-trip unchanged.
const (
	CategoryUnknown = "Não categorizado"
	CallerUnknown   = "Não identificado"
	LocationUnknown = "Local não informado"
	GroupUnknown    = "Grupo não definido"
	AnalystUnknown  = "Analista não definido"
)

// Incident is one record from an ITSM spreadsheet export. All fields are
// kept as the raw strings the export carried; normalization happens on
// demand and never writes back. Number uniqueness is not assumed.
type Incident struct {
	Number               string `json:"number"`
	Opened               string `json:"opened"`
	ShortDescription     string `json:"short_description"`
	Caller               string `json:"caller"`
	Priority             string `json:"priority"`
	State                string `json:"state"`
	Category             string `json:"category"`
	Subcategory          string `json:"subcategory,omitempty"`
	AssignmentGroup      string `json:"assignment_group"`
	AssignedTo           string `json:"assigned_to"`
	Updated              string `json:"updated"`
	UpdatedBy            string `json:"updated_by,omitempty"`
	BusinessImpact       string `json:"business_impact,omitempty"`
	ResponseTime         string `json:"response_time,omitempty"`
	Location             string `json:"location,omitempty"`
	CommentsAndWorkNotes string `json:"comments_and_work_notes,omitempty"`
}

// openedFormats are the timestamp layouts accepted for Opened/Updated.
// Exports alternate between ISO-8601 variants and date-only cells.
var openedFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
}

// parseWhen parses a raw timestamp field. The second return is false when
// the value is empty or matches no known layout; callers decide whether
// that excludes the record or falls back to "now".
func parseWhen(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range openedFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// OpenedAt parses the Opened timestamp.
func (in Incident) OpenedAt() (time.Time, bool) {
	return parseWhen(in.Opened)
}

// UpdatedAt parses the Updated timestamp.
func (in Incident) UpdatedAt() (time.Time, bool) {
	return parseWhen(in.Updated)
}
