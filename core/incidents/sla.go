package incidents

import (
	"fmt"
	"strings"
	"time"
)

// SLA resolution thresholds in hours per priority tier. Undefined priority
// falls back to the P3 threshold.
const (
	SLAHoursP1       = 1
	SLAHoursP2       = 4
	SLAHoursP3       = 36
	SLAHoursP4       = 72
	SLAHoursFallback = SLAHoursP3
)

// SLATarget is the global compliance target in percent; SLAWarnFloor is the
// floor of the degraded band (at or above: warn, below: critical).
const (
	SLATarget    = 95.0
	SLAWarnFloor = 85.0
)

var slaThresholds = map[Priority]int{
	PriorityP1: SLAHoursP1,
	PriorityP2: SLAHoursP2,
	PriorityP3: SLAHoursP3,
	PriorityP4: SLAHoursP4,
}

// SLAThreshold returns the resolution threshold in hours for a canonical
// priority.
func SLAThreshold(p Priority) int {
	if hours, ok := slaThresholds[p]; ok {
		return hours
	}
	return SLAHoursFallback
}

// hoursBetween is the number of whole hours from b to a, truncated toward
// zero. Fractional hours never tip an incident over a threshold.
func hoursBetween(a, b time.Time) int {
	return int(a.Sub(b).Hours())
}

// SLAResult is the SLA evaluation of a single incident.
type SLAResult struct {
	Priority     Priority `json:"priority"`
	Threshold    int      `json:"threshold_hours"`
	ElapsedHours int      `json:"elapsed_hours"`
	Compliant    bool     `json:"compliant"`
	// Computed is false when Opened, or a present Updated, could not be
	// parsed; the incident is then reported as non-compliant with an
	// "uncomputed" display string.
	Computed bool `json:"computed"`
	// DaysOver and HoursOver split the breach magnitude for display;
	// both zero while compliant.
	DaysOver  int    `json:"days_over,omitempty"`
	HoursOver int    `json:"hours_over,omitempty"`
	Report    string `json:"report"`
}

// EvaluateSLA measures the incident against its priority threshold. Elapsed
// time runs from Opened to Updated, or to now when Updated is absent. A
// present but unparseable timestamp on either end leaves the incident
// uncomputed and non-compliant.
func EvaluateSLA(in Incident, now time.Time) SLAResult {
	res := SLAResult{
		Priority:  NormalizePriority(in.Priority),
		Compliant: false,
	}
	res.Threshold = SLAThreshold(res.Priority)

	opened, ok := in.OpenedAt()
	if !ok {
		res.Report = "Tempo não calculado"
		return res
	}

	lastUpdate := now
	if in.Updated != "" {
		parsed, ok := in.UpdatedAt()
		if !ok {
			res.Report = "Tempo não calculado"
			return res
		}
		lastUpdate = parsed
	}
	res.Computed = true
	res.ElapsedHours = hoursBetween(lastUpdate, opened)

	if res.ElapsedHours <= res.Threshold {
		res.Compliant = true
		res.Report = "Dentro do SLA"
		return res
	}

	over := res.ElapsedHours - res.Threshold
	res.DaysOver = over / 24
	res.HoursOver = over % 24
	res.Report = breachReport(res.DaysOver, res.HoursOver, over)
	return res
}

func breachReport(days, remHours, totalHours int) string {
	if days > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "%d %s", days, plural(days, "dia", "dias"))
		if remHours > 0 {
			fmt.Fprintf(&b, " e %d %s", remHours, plural(remHours, "hora", "horas"))
		}
		b.WriteString(" fora do SLA")
		return b.String()
	}
	return fmt.Sprintf("%d %s fora do SLA", totalHours, plural(totalHours, "hora", "horas"))
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}

// SLABucket is the per-priority compliance rollup.
type SLABucket struct {
	Priority   Priority `json:"priority"`
	Threshold  int      `json:"threshold_hours"`
	Total      int      `json:"total"`
	WithinSLA  int      `json:"within_sla"`
	OutsideSLA int      `json:"outside_sla"`
	OnHold     int      `json:"on_hold"`
}

// ComplianceRate is WithinSLA over evaluated incidents, in percent. Always
// in [0,100]; 0 when nothing was evaluated.
func (b SLABucket) ComplianceRate() float64 {
	evaluated := b.WithinSLA + b.OutsideSLA
	if evaluated == 0 {
		return 0
	}
	return float64(b.WithinSLA) / float64(evaluated) * 100
}

// ComplianceLevel grades a compliance rate against the global target:
// "ok" at or above target, "warn" in the degraded band, "critical" below.
func ComplianceLevel(rate float64) string {
	switch {
	case rate >= SLATarget:
		return "ok"
	case rate >= SLAWarnFloor:
		return "warn"
	default:
		return "critical"
	}
}

var priorityOrder = []Priority{PriorityP1, PriorityP2, PriorityP3, PriorityP4, PriorityUndefined}

// SLARollup aggregates the collection into per-priority buckets, ordered P1
// through P4 then undefined, omitting empty buckets. With onHoldOnly set,
// only on-hold incidents are aggregated. An incident whose Opened, or whose
// present Updated, cannot be parsed counts toward OutsideSLA.
func SLARollup(set []Incident, now time.Time, onHoldOnly bool) []SLABucket {
	buckets := map[Priority]*SLABucket{}
	for _, in := range set {
		onHold := IsOnHold(in.State)
		if onHoldOnly && !onHold {
			continue
		}
		priority := NormalizePriority(in.Priority)
		b, ok := buckets[priority]
		if !ok {
			b = &SLABucket{Priority: priority, Threshold: SLAThreshold(priority)}
			buckets[priority] = b
		}
		b.Total++
		if onHold {
			b.OnHold++
		}
		res := EvaluateSLA(in, now)
		if res.Computed && res.Compliant {
			b.WithinSLA++
		} else {
			b.OutsideSLA++
		}
	}
	out := make([]SLABucket, 0, len(buckets))
	for _, p := range priorityOrder {
		if b, ok := buckets[p]; ok {
			out = append(out, *b)
		}
	}
	return out
}

// SLAIncidents is the click-through behind a rollup cell: the incidents of
// one priority tier on one side of the threshold. Unevaluable incidents
// surface on the non-compliant side, mirroring SLARollup.
func SLAIncidents(set []Incident, now time.Time, priority Priority, compliant, onHoldOnly bool) []Incident {
	out := make([]Incident, 0)
	for _, in := range set {
		if NormalizePriority(in.Priority) != priority {
			continue
		}
		if onHoldOnly && !IsOnHold(in.State) {
			continue
		}
		res := EvaluateSLA(in, now)
		if (res.Computed && res.Compliant) == compliant {
			out = append(out, in)
		}
	}
	return out
}
