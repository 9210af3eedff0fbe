package http

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/ijlaln/footycount-app/internal/auth"
	"github.com/ijlaln/footycount-app/internal/config"
	"github.com/ijlaln/footycount-app/internal/fanout"
	"github.com/ijlaln/footycount-app/internal/matches"
	"github.com/ijlaln/footycount-app/internal/metrics"
	"github.com/ijlaln/footycount-app/internal/players"
)

func NewServer(
	playerStore players.PlayerStore,
	matchStore matches.MatchStore,
	tokens *auth.Tokens,
	broadcaster fanout.Broadcaster,
	metricsSvc metrics.Metrics,
	metricsHandler http.Handler,
	wsHandler http.Handler,
	cfg config.Config,
) *Server {
	server := &Server{
		Players:        playerStore,
		Matches:        matchStore,
		Tokens:         tokens,
		Broadcaster:    broadcaster,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes(wsHandler)

	// The cookie-based session requires credentialed CORS.
	server.handler = cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}).Handler(server.Router)

	return server
}

func (s *Server) routes(wsHandler http.Handler) {
	// All authenticated handlers are wrapped with middleware using the
	// Chain helper, so adding more middlewares later stays a one-liner.
	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", s.HealthCheckHandler())
	if wsHandler != nil {
		s.Router.Handle("GET /ws", wsHandler)
	}

	s.Router.Handle("POST /api/auth/register", Chain(s.RegisterHandler(), logRequest))
	s.Router.Handle("POST /api/auth/register-admin", Chain(s.RegisterAdminHandler(), logRequest))
	s.Router.Handle("POST /api/auth/login", Chain(s.LoginHandler(), logRequest))
	s.Router.Handle("GET /api/auth/me", Chain(s.MeHandler(), logRequest, s.requireAuth))
	s.Router.Handle("POST /api/auth/logout", Chain(s.LogoutHandler(), logRequest, s.requireAuth))
	s.Router.Handle("POST /api/auth/change-password", Chain(s.ChangePasswordHandler(), logRequest, s.requireAuth))

	s.Router.Handle("GET /api/matches/{$}", Chain(s.ListMatchesHandler(), logRequest, s.requireAuth))
	s.Router.Handle("GET /api/matches/upcoming", Chain(s.UpcomingMatchesHandler(), logRequest, s.requireAuth))
	s.Router.Handle("GET /api/matches/{id}", Chain(s.MatchDetailHandler(), logRequest, s.requireAuth))
	s.Router.Handle("POST /api/matches/{id}/attendance", Chain(s.MarkAttendanceHandler(), logRequest, s.requireAuth))
	s.Router.Handle("GET /api/matches/{id}/players", Chain(s.MatchRosterHandler(), logRequest, s.requireAuth))

	s.Router.Handle("GET /api/players/{$}", Chain(s.ListPlayersHandler(), logRequest, s.requireAuth))
	s.Router.Handle("GET /api/players/stats", Chain(s.PlayerSummaryHandler(), logRequest, s.requireAuth))
	s.Router.Handle("GET /api/players/activity", Chain(s.PlayerActivityHandler(), logRequest, s.requireAuth))
	s.Router.Handle("GET /api/players/{id}", Chain(s.PlayerProfileHandler(), logRequest, s.requireAuth))
	s.Router.Handle("PUT /api/players/profile", Chain(s.UpdateOwnProfileHandler(), logRequest, s.requireAuth))
	s.Router.Handle("PUT /api/players/{id}", Chain(s.UpdatePlayerHandler(), logRequest, s.requireAuth))

	s.Router.Handle("POST /api/admin/matches", Chain(s.CreateMatchHandler(), logRequest, s.requireAuth, s.requireAdmin))
	s.Router.Handle("PUT /api/admin/matches/{id}", Chain(s.UpdateMatchHandler(), logRequest, s.requireAuth, s.requireAdmin))
	s.Router.Handle("DELETE /api/admin/matches/{id}", Chain(s.DeleteMatchHandler(), logRequest, s.requireAuth, s.requireAdmin))
	s.Router.Handle("POST /api/admin/matches/{id}/stats", Chain(s.RecordStatsHandler(), logRequest, s.requireAuth, s.requireAdmin))
	s.Router.Handle("GET /api/admin/players", Chain(s.AdminListPlayersHandler(), logRequest, s.requireAuth, s.requireAdmin))
	s.Router.Handle("PUT /api/admin/players/{id}/admin", Chain(s.SetAdminFlagHandler(), logRequest, s.requireAuth, s.requireAdmin))
	s.Router.Handle("DELETE /api/admin/players/{id}", Chain(s.DeletePlayerHandler(), logRequest, s.requireAuth, s.requireAdmin))
	s.Router.Handle("GET /api/admin/dashboard", Chain(s.DashboardHandler(), logRequest, s.requireAuth, s.requireAdmin))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
