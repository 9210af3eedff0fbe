package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ReminderTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "footy_reminder_ticks_total",
			Help: "The total number of reminder scheduler ticks.",
		}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "footy_notifications_sent_total",
			Help: "The total number of match notifications successfully recorded and broadcast.",
		}),
		NotificationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "footy_notifications_failed_total",
			Help: "The total number of match notifications that failed to send.",
		}),
		AttendanceMarks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "footy_attendance_marks_total",
			Help: "The total number of attendance marks recorded.",
		}),
		MatchesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "footy_matches_created_total",
			Help: "The total number of matches created.",
		}),
		ConnectedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "footy_connected_websocket_clients",
			Help: "The current number of connected websocket clients.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "footy_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.ReminderTicks,
		s.NotificationsSent,
		s.NotificationsFailed,
		s.AttendanceMarks,
		s.MatchesCreated,
		s.ConnectedClients,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncReminderTicks() {
	s.ReminderTicks.Inc()
}

func (s *Service) IncNotificationsSent() {
	s.NotificationsSent.Inc()
}

func (s *Service) IncNotificationsFailed() {
	s.NotificationsFailed.Inc()
}

func (s *Service) IncAttendanceMarks() {
	s.AttendanceMarks.Inc()
}

func (s *Service) IncMatchesCreated() {
	s.MatchesCreated.Inc()
}

func (s *Service) SetConnectedClients(count float64) {
	s.ConnectedClients.Set(count)
}

func (s *Service) SetStartupTime(seconds float64) {
	s.StartupTimeSeconds.Set(seconds)
}
