package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"opsradar/core/incidents"
	"opsradar/core/workspace"
)

type WorkspaceHandler struct {
	ws     *workspace.Workspace
	logger zerolog.Logger
}

func NewWorkspaceHandler(ws *workspace.Workspace, logger zerolog.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{ws: ws, logger: logger}
}

// viewState is the workspace snapshot without the incident payload.
type viewState struct {
	DatasetID   string             `json:"dataset_id"`
	DatasetName string             `json:"dataset_name"`
	Version     string             `json:"version"`
	LoadedAt    *time.Time         `json:"loaded_at,omitempty"`
	RowCount    int                `json:"row_count"`
	Criteria    incidents.Criteria `json:"criteria"`
	ActivePanel workspace.Panel    `json:"active_panel"`
}

func toViewState(snap workspace.Snapshot) viewState {
	vs := viewState{
		DatasetID:   snap.DatasetID,
		DatasetName: snap.DatasetName,
		Version:     snap.Version,
		RowCount:    len(snap.Incidents),
		Criteria:    snap.Criteria,
		ActivePanel: snap.ActivePanel,
	}
	if !snap.LoadedAt.IsZero() {
		vs.LoadedAt = &snap.LoadedAt
	}
	return vs
}

func (h *WorkspaceHandler) Reset(w http.ResponseWriter, _ *http.Request) {
	h.ws.Reset()
	h.logger.Info().Msg("workspace reset")
	writeJSON(w, http.StatusOK, toViewState(h.ws.Snapshot()))
}

func (h *WorkspaceHandler) GetView(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toViewState(h.ws.Snapshot()))
}

// PutView replaces the filter criteria and the open panel in one call.
func (h *WorkspaceHandler) PutView(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Criteria    incidents.Criteria `json:"criteria"`
		ActivePanel workspace.Panel    `json:"active_panel"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.ws.SetPanel(req.ActivePanel); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.ws.SetCriteria(req.Criteria)
	writeJSON(w, http.StatusOK, toViewState(h.ws.Snapshot()))
}
