package metrics

// Metrics defines the interface for recording application metrics.
type Metrics interface {
	IncReminderTicks()
	IncNotificationsSent()
	IncNotificationsFailed()
	IncAttendanceMarks()
	IncMatchesCreated()
	SetConnectedClients(count float64)
	SetStartupTime(seconds float64)
}
