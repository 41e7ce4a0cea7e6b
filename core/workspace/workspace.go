// Package workspace holds the per-process dashboard session: the current
// dataset, the active filter criteria and the open detail panel. There is
// exactly one workspace per server; loading a dataset replaces the previous
// one wholesale.
package workspace

import (
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"opsradar/core/incidents"
)

// Panel names the detail view currently open on the dashboard. At most one
// panel is open at a time.
type Panel string

const (
	PanelNone            Panel = ""
	PanelCategory        Panel = "category"
	PanelSoftware        Panel = "software"
	PanelHardware        Panel = "hardware"
	PanelGroup           Panel = "group"
	PanelSLA             Panel = "sla"
	PanelUsers           Panel = "users"
	PanelLocation        Panel = "location"
	PanelAnalyst         Panel = "analyst"
	PanelGroupHistory    Panel = "group_history"
	PanelCategoryHistory Panel = "category_history"
	PanelSLAHistory      Panel = "sla_history"
)

var knownPanels = map[Panel]struct{}{
	PanelNone: {}, PanelCategory: {}, PanelSoftware: {}, PanelHardware: {},
	PanelGroup: {}, PanelSLA: {}, PanelUsers: {}, PanelLocation: {},
	PanelAnalyst: {}, PanelGroupHistory: {}, PanelCategoryHistory: {}, PanelSLAHistory: {},
}

// ValidPanel reports whether p names a known panel (including none).
func ValidPanel(p Panel) bool {
	_, ok := knownPanels[p]
	return ok
}

// Snapshot is a consistent read of the workspace. Incidents is the shared
// loaded slice and must not be mutated.
type Snapshot struct {
	DatasetID   string             `json:"dataset_id"`
	DatasetName string             `json:"dataset_name"`
	Version     string             `json:"version"`
	LoadedAt    time.Time          `json:"loaded_at"`
	Criteria    incidents.Criteria `json:"criteria"`
	ActivePanel Panel              `json:"active_panel"`
	Incidents   []incidents.Incident
}

// Workspace is the mutable session state. The zero value is unusable; use
// New.
type Workspace struct {
	now func() time.Time

	mu          sync.RWMutex
	datasetID   string
	datasetName string
	version     string
	loadedAt    time.Time
	incidents   []incidents.Incident
	criteria    incidents.Criteria
	activePanel Panel
}

// New returns an empty workspace. now is injectable for tests; nil means
// time.Now.
func New(now func() time.Time) *Workspace {
	if now == nil {
		now = time.Now
	}
	return &Workspace{now: now}
}

// defaultCriteria is the range applied on every load: start of the current
// year through today.
func (w *Workspace) defaultCriteria() incidents.Criteria {
	today := w.now()
	return incidents.Criteria{
		From: fmt.Sprintf("%04d-01-01", today.Year()),
		To:   today.Format("2006-01-02"),
	}
}

// Load replaces the workspace content with a freshly loaded dataset. All
// filters reset to their defaults and the open panel closes. Returns the
// new content version.
func (w *Workspace) Load(datasetID, datasetName string, set []incidents.Incident) (string, error) {
	version, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("workspace version: %w", err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.datasetID = datasetID
	w.datasetName = datasetName
	w.version = version.String()
	w.loadedAt = w.now()
	w.incidents = set
	w.criteria = w.defaultCriteria()
	w.activePanel = PanelNone
	return w.version, nil
}

// Snapshot returns a consistent view of the current state.
func (w *Workspace) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Snapshot{
		DatasetID:   w.datasetID,
		DatasetName: w.datasetName,
		Version:     w.version,
		LoadedAt:    w.loadedAt,
		Criteria:    w.criteria,
		ActivePanel: w.activePanel,
		Incidents:   w.incidents,
	}
}

// Loaded reports whether a dataset is currently loaded.
func (w *Workspace) Loaded() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.version != ""
}

// SetCriteria replaces the active filter criteria.
func (w *Workspace) SetCriteria(c incidents.Criteria) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.criteria = c
}

// SetPanel opens one detail panel, implicitly closing the previous one.
func (w *Workspace) SetPanel(p Panel) error {
	if !ValidPanel(p) {
		return fmt.Errorf("unknown panel %q", p)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.activePanel = p
	return nil
}

// Reset clears the loaded dataset, criteria and panel.
func (w *Workspace) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.datasetID = ""
	w.datasetName = ""
	w.version = ""
	w.loadedAt = time.Time{}
	w.incidents = nil
	w.criteria = incidents.Criteria{}
	w.activePanel = PanelNone
}
