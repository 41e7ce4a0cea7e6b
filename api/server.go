// Package api exposes the dashboard over HTTP: dataset uploads, the
// workspace view state, the filtered incident list and the derived
// analytics.
package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"opsradar/config"
	"opsradar/core/incidents"
	"opsradar/core/store"
	"opsradar/core/workspace"
)

type Server struct {
	cfg      *config.AppConfig
	logger   zerolog.Logger
	ws       *workspace.Workspace
	datasets store.DatasetsStore
	cache    *incidents.ViewCache
}

func NewServer(cfg *config.AppConfig, logger zerolog.Logger, ws *workspace.Workspace, datasets store.DatasetsStore) *Server {
	return &Server{
		cfg:      cfg,
		logger:   logger,
		ws:       ws,
		datasets: datasets,
		cache:    incidents.NewViewCache(cfg.Dashboard.ViewCacheSize),
	}
}

func (s *Server) Handler() http.Handler {
	return s.routes()
}
