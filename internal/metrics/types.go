package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service implements Metrics on top of Prometheus collectors.
type Service struct {
	ReminderTicks       prometheus.Counter
	NotificationsSent   prometheus.Counter
	NotificationsFailed prometheus.Counter
	AttendanceMarks     prometheus.Counter
	MatchesCreated      prometheus.Counter
	ConnectedClients    prometheus.Gauge
	StartupTimeSeconds  prometheus.Gauge
}
