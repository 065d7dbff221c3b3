package server

import (
	"net/http"

	"github.com/jrsteele09/go-inventory-dashboard/gateway"
	"github.com/jrsteele09/go-inventory-dashboard/session"
)

// MsgStatsFailed is shown when any of the dashboard counts fails to load
const MsgStatsFailed = "Error al cargar estadísticas"

type DashboardPageData struct {
	Page
	Greeting string
	Stats    gateway.Stats
}

// DashboardHandler renders the greeting and the stats (GET /dashboard)
func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := DashboardPageData{Page: s.page(r, "Dashboard", "dashboard")}
		data.Greeting = greeting(sessionFromContext(r.Context()))

		stats, err := s.client(r).Stats(r.Context())
		if err != nil {
			if handleUnauthorized(w, r, err) {
				return
			}
			data.Error = errorMessage(r, err, MsgStatsFailed)
		}
		data.Stats = stats
		s.render(w, r, http.StatusOK, "dashboard.html", data)
	}
}

func greeting(store *session.Store) string {
	if store == nil {
		return ""
	}
	return store.Snapshot().User.DisplayName()
}
