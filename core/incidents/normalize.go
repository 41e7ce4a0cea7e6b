package incidents

import "strings"

// stateRules is the precedence-ordered normalization table for raw state
// text. Rules are evaluated top to bottom, first match wins; a token matches
// as a case-insensitive substring of the trimmed input. The order is load
// bearing: "cancelled" must win over "closed", and hold tokens over the
// in-progress ones ("pending assignment" is a hold, not an assignment).
var stateRules = []struct {
	tokens []string
	state  State
}{
	{[]string{"canceled", "cancelled", "cancelado", "cancelada"}, StateCancelled},
	{[]string{"closed", "resolved", "fechado", "resolvido"}, StateClosed},
	{[]string{"on hold", "hold", "espera", "pending", "pendente", "aguardando"}, StateOnHold},
	{[]string{"assigned", "progress", "andamento", "atribuído", "em atendimento", "working", "active", "ativo", "processing", "processando"}, StateInProgress},
	{[]string{"opened", "new", "novo", "aberto"}, StateOpen},
}

// NormalizeState maps arbitrary raw state text to exactly one canonical
// State. Empty input and unmatched input both map to StateOpen.
func NormalizeState(raw string) State {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return StateOpen
	}
	for _, rule := range stateRules {
		for _, tok := range rule.tokens {
			if strings.Contains(s, tok) {
				return rule.state
			}
		}
	}
	return StateOpen
}

// priorityRule is one tier of the priority normalization table. A raw value
// belongs to the tier when it equals one of the exact tokens, starts with
// one of the prefix tokens, or contains one of the substring tokens.
type priorityRule struct {
	exact    []string
	prefixes []string
	contains []string
	priority Priority
}

// priorityRules evaluates P1 through P4 in order; the token sets are
// business-meaningful SLA vocabulary (ServiceNow-style "1 - Critical"
// exports plus their Portuguese counterparts) and must not be trimmed.
var priorityRules = []priorityRule{
	{
		exact:    []string{"p1", "1", "priority 1", "critical", "crítico"},
		prefixes: []string{"p1 -", "p1-", "1 -", "1-"},
		contains: []string{"critical", "crítico"},
		priority: PriorityP1,
	},
	{
		exact:    []string{"p2", "2", "priority 2", "high", "alta"},
		prefixes: []string{"p2 -", "p2-", "2 -", "2-"},
		contains: []string{"high priority", "alta prioridade"},
		priority: PriorityP2,
	},
	{
		exact:    []string{"p3", "3", "priority 3", "medium", "média"},
		prefixes: []string{"p3 -", "p3-", "3 -", "3-"},
		contains: []string{"medium priority", "média prioridade"},
		priority: PriorityP3,
	},
	{
		exact:    []string{"p4", "4", "priority 4", "low", "baixa"},
		prefixes: []string{"p4 -", "p4-", "4 -", "4-"},
		contains: []string{"low priority", "baixa prioridade"},
		priority: PriorityP4,
	},
}

func (r priorityRule) matches(s string) bool {
	for _, tok := range r.exact {
		if s == tok {
			return true
		}
	}
	for _, tok := range r.prefixes {
		if strings.HasPrefix(s, tok) {
			return true
		}
	}
	for _, tok := range r.contains {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

// NormalizePriority maps arbitrary raw priority text to exactly one
// canonical Priority. Unmatched and empty input map to PriorityUndefined.
func NormalizePriority(raw string) Priority {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return PriorityUndefined
	}
	for _, rule := range priorityRules {
		if rule.matches(s) {
			return rule.priority
		}
	}
	return PriorityUndefined
}

// IsHighPriority reports whether the raw priority normalizes to P1 or P2.
func IsHighPriority(raw string) bool {
	p := NormalizePriority(raw)
	return p == PriorityP1 || p == PriorityP2
}

// IsCancelled reports whether the raw state normalizes to Cancelado.
func IsCancelled(raw string) bool {
	return NormalizeState(raw) == StateCancelled
}

// IsActive reports whether the incident is neither closed nor cancelled.
func IsActive(raw string) bool {
	s := NormalizeState(raw)
	return s != StateClosed && s != StateCancelled
}

// holdTokens is deliberately narrower than the Em Espera rule in
// stateRules: the pending/on-hold/out-of-rule views classify holds by these
// three raw tokens only, and widening the set would move records between
// those views.
var holdTokens = []string{"hold", "pending", "aguardando"}

// IsOnHold reports whether the raw state text marks the incident as paused
// awaiting external input. All hold-sensitive views delegate to this one
// predicate so the token set cannot drift between them.
func IsOnHold(raw string) bool {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, tok := range holdTokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}
