// Package ingest loads incident collections from ITSM spreadsheet exports.
// It accepts XLSX and CSV files, maps header rows to record fields through a
// bilingual alias table, and fills the defaults the dashboard expects on
// fields the export left blank. Loading is best-effort per row: only rows
// that are entirely empty are skipped.
package ingest

import (
	"strings"
	"time"

	"opsradar/core/incidents"
)

type fieldSetter func(*incidents.Incident, string)

// headerAliases maps normalized header cells to record fields. Exports come
// in English and Portuguese header variants, sometimes mixed in one file.
var headerAliases = map[string]fieldSetter{
	"number":  func(in *incidents.Incident, v string) { in.Number = v },
	"número":  func(in *incidents.Incident, v string) { in.Number = v },
	"numero":  func(in *incidents.Incident, v string) { in.Number = v },
	"chamado": func(in *incidents.Incident, v string) { in.Number = v },

	"opened":        func(in *incidents.Incident, v string) { in.Opened = v },
	"opened at":     func(in *incidents.Incident, v string) { in.Opened = v },
	"aberto em":     func(in *incidents.Incident, v string) { in.Opened = v },
	"data abertura": func(in *incidents.Incident, v string) { in.Opened = v },

	"short description":  func(in *incidents.Incident, v string) { in.ShortDescription = v },
	"description":        func(in *incidents.Incident, v string) { in.ShortDescription = v },
	"descrição":          func(in *incidents.Incident, v string) { in.ShortDescription = v },
	"descrição resumida": func(in *incidents.Incident, v string) { in.ShortDescription = v },

	"caller":      func(in *incidents.Incident, v string) { in.Caller = v },
	"solicitante": func(in *incidents.Incident, v string) { in.Caller = v },
	"usuário":     func(in *incidents.Incident, v string) { in.Caller = v },

	"priority":   func(in *incidents.Incident, v string) { in.Priority = v },
	"prioridade": func(in *incidents.Incident, v string) { in.Priority = v },

	"state":  func(in *incidents.Incident, v string) { in.State = v },
	"status": func(in *incidents.Incident, v string) { in.State = v },
	"estado": func(in *incidents.Incident, v string) { in.State = v },

	"category":  func(in *incidents.Incident, v string) { in.Category = v },
	"categoria": func(in *incidents.Incident, v string) { in.Category = v },

	"subcategory":  func(in *incidents.Incident, v string) { in.Subcategory = v },
	"subcategoria": func(in *incidents.Incident, v string) { in.Subcategory = v },

	"assignment group":    func(in *incidents.Incident, v string) { in.AssignmentGroup = v },
	"grupo de atribuição": func(in *incidents.Incident, v string) { in.AssignmentGroup = v },
	"grupo":               func(in *incidents.Incident, v string) { in.AssignmentGroup = v },

	"assigned to": func(in *incidents.Incident, v string) { in.AssignedTo = v },
	"atribuído a": func(in *incidents.Incident, v string) { in.AssignedTo = v },
	"atribuido a": func(in *incidents.Incident, v string) { in.AssignedTo = v },
	"analista":    func(in *incidents.Incident, v string) { in.AssignedTo = v },

	"updated":       func(in *incidents.Incident, v string) { in.Updated = v },
	"atualizado":    func(in *incidents.Incident, v string) { in.Updated = v },
	"atualizado em": func(in *incidents.Incident, v string) { in.Updated = v },

	"updated by":     func(in *incidents.Incident, v string) { in.UpdatedBy = v },
	"atualizado por": func(in *incidents.Incident, v string) { in.UpdatedBy = v },

	"business impact": func(in *incidents.Incident, v string) { in.BusinessImpact = v },
	"impacto":         func(in *incidents.Incident, v string) { in.BusinessImpact = v },

	"response time":     func(in *incidents.Incident, v string) { in.ResponseTime = v },
	"tempo de resposta": func(in *incidents.Incident, v string) { in.ResponseTime = v },

	"location":   func(in *incidents.Incident, v string) { in.Location = v },
	"local":      func(in *incidents.Incident, v string) { in.Location = v },
	"localidade": func(in *incidents.Incident, v string) { in.Location = v },

	"comments and work notes": func(in *incidents.Incident, v string) { in.CommentsAndWorkNotes = v },
	"comentários":             func(in *incidents.Incident, v string) { in.CommentsAndWorkNotes = v },
	"anotações de trabalho":   func(in *incidents.Incident, v string) { in.CommentsAndWorkNotes = v },
}

// normalizeHeader folds a header cell for alias lookup: trimmed, lowercased,
// inner whitespace collapsed to single spaces.
func normalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(h)), " ")
}

// mapHeaders resolves a header row into per-column setters. Unrecognized
// columns come back nil and their cells are ignored.
func mapHeaders(row []string) []fieldSetter {
	setters := make([]fieldSetter, len(row))
	for i, cell := range row {
		setters[i] = headerAliases[normalizeHeader(cell)]
	}
	return setters
}

// buildRecord assembles one record from a data row. The second return is
// false when every cell is blank.
func buildRecord(row []string, setters []fieldSetter, loadedAt time.Time) (incidents.Incident, bool) {
	var in incidents.Incident
	empty := true
	for i, cell := range row {
		if i >= len(setters) || setters[i] == nil {
			continue
		}
		value := strings.TrimSpace(cell)
		if value == "" {
			continue
		}
		empty = false
		setters[i](&in, value)
	}
	if empty {
		return incidents.Incident{}, false
	}
	applyDefaults(&in, loadedAt)
	return in, true
}

// applyDefaults fills the blanks the dashboard relies on being present.
func applyDefaults(in *incidents.Incident, loadedAt time.Time) {
	if in.Category == "" {
		in.Category = incidents.CategoryUnknown
	}
	if in.Opened == "" {
		in.Opened = loadedAt.Format(time.RFC3339)
	}
	if in.State == "" {
		in.State = "Aberto"
	}
	if in.Priority == "" {
		in.Priority = string(incidents.PriorityUndefined)
	}
}

// Summary reports what one load produced.
type Summary struct {
	Rows    int `json:"rows"`
	Skipped int `json:"skipped"`
}
