package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"opsradar/config"
	"opsradar/core/ingest"
	"opsradar/core/store"
	"opsradar/core/workspace"
)

type DatasetsHandler struct {
	cfg      *config.AppConfig
	datasets store.DatasetsStore
	ws       *workspace.Workspace
	logger   zerolog.Logger
}

func NewDatasetsHandler(cfg *config.AppConfig, datasets store.DatasetsStore, ws *workspace.Workspace, logger zerolog.Logger) *DatasetsHandler {
	return &DatasetsHandler{cfg: cfg, datasets: datasets, ws: ws, logger: logger}
}

// Upload receives a spreadsheet as multipart form data ("file"), parses it,
// persists the dataset and makes it the current workspace content.
func (h *DatasetsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.cfg.Ingest.UploadMaxBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "upload too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	set, summary, err := ingest.Read(header.Filename, file, time.Now().UTC())
	if err != nil {
		h.logger.Warn().Err(err).Str("filename", header.Filename).Msg("upload rejected")
		http.Error(w, "unreadable spreadsheet: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = header.Filename
	}
	ds, err := h.datasets.SaveDataset(r.Context(), name, header.Filename, store.DatasetKindIncidents, set)
	if err != nil {
		h.logger.Error().Err(err).Msg("save dataset")
		http.Error(w, "could not store dataset", http.StatusInternalServerError)
		return
	}
	version, err := h.ws.Load(ds.ID, ds.Name, set)
	if err != nil {
		http.Error(w, "could not load workspace", http.StatusInternalServerError)
		return
	}
	h.logger.Info().Str("dataset", ds.ID).Int("rows", summary.Rows).Int("skipped", summary.Skipped).Msg("dataset uploaded")
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"dataset": ds,
		"summary": summary,
		"version": version,
	})
}

func (h *DatasetsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.datasets.ListDatasets(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("list datasets")
		http.Error(w, "could not list datasets", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"datasets": list})
}

// Activate loads a stored dataset back into the workspace.
func (h *DatasetsHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	ds, err := h.datasets.GetDataset(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "dataset not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "could not read dataset", http.StatusInternalServerError)
		return
	}
	set, err := h.datasets.LoadIncidents(r.Context(), id)
	if err != nil {
		http.Error(w, "could not load dataset", http.StatusInternalServerError)
		return
	}
	version, err := h.ws.Load(ds.ID, ds.Name, set)
	if err != nil {
		http.Error(w, "could not load workspace", http.StatusInternalServerError)
		return
	}
	h.logger.Info().Str("dataset", ds.ID).Int("rows", len(set)).Msg("dataset activated")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dataset": ds,
		"version": version,
	})
}

func (h *DatasetsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	err := h.datasets.DeleteDataset(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "dataset not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "could not delete dataset", http.StatusInternalServerError)
		return
	}
	// The in-memory workspace keeps serving a deleted dataset until the
	// next load or reset.
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": id})
}
