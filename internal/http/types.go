package http

import (
	"net/http"

	"github.com/ijlaln/footycount-app/internal/auth"
	"github.com/ijlaln/footycount-app/internal/config"
	"github.com/ijlaln/footycount-app/internal/fanout"
	"github.com/ijlaln/footycount-app/internal/matches"
	"github.com/ijlaln/footycount-app/internal/metrics"
	"github.com/ijlaln/footycount-app/internal/players"
)

// Server holds all dependencies for the HTTP layer.
type Server struct {
	Players        players.PlayerStore
	Matches        matches.MatchStore
	Tokens         *auth.Tokens
	Broadcaster    fanout.Broadcaster
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux

	handler http.Handler
}
