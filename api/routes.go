package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"opsradar/api/handlers"
)

type routeHandlers struct {
	datasets  *handlers.DatasetsHandler
	workspace *handlers.WorkspaceHandler
	incidents *handlers.IncidentsHandler
	dashboard *handlers.DashboardHandler
	analytics *handlers.AnalyticsHandler
}

func (s *Server) newRouteHandlers() routeHandlers {
	return routeHandlers{
		datasets:  handlers.NewDatasetsHandler(s.cfg, s.datasets, s.ws, s.logger),
		workspace: handlers.NewWorkspaceHandler(s.ws, s.logger),
		incidents: handlers.NewIncidentsHandler(s.ws, s.cache),
		dashboard: handlers.NewDashboardHandler(s.cfg, s.ws, s.cache),
		analytics: handlers.NewAnalyticsHandler(s.cfg, s.ws, s.cache),
	}
}

func (s *Server) routes() http.Handler {
	h := s.newRouteHandlers()

	r := chi.NewRouter()
	r.Use(s.recoverMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.jsonMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"status":"ok"}`))
		})

		r.Post("/datasets", h.datasets.Upload)
		r.Get("/datasets", h.datasets.List)
		r.Post("/datasets/{id}/activate", h.datasets.Activate)
		r.Delete("/datasets/{id}", h.datasets.Delete)

		r.Post("/workspace/reset", h.workspace.Reset)
		r.Get("/workspace/view", h.workspace.GetView)
		r.Put("/workspace/view", h.workspace.PutView)

		r.Get("/incidents", h.incidents.List)
		r.Get("/incidents/categories", h.incidents.Categories)

		r.Get("/dashboard/stats", h.dashboard.Stats)
		r.Get("/dashboard/critical", h.dashboard.Critical)
		r.Get("/dashboard/pending", h.dashboard.Pending)
		r.Get("/dashboard/onhold", h.dashboard.OnHold)
		r.Get("/dashboard/outofrule", h.dashboard.OutOfRule)

		r.Get("/analytics/sla", h.analytics.SLA)
		r.Get("/analytics/sla/incidents", h.analytics.SLAIncidents)
		r.Get("/analytics/groups", h.analytics.Groups)
		r.Get("/analytics/history", h.analytics.History)
	})
	return r
}
