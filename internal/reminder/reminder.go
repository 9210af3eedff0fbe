package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ijlaln/footycount-app/internal/fanout"
	"github.com/ijlaln/footycount-app/internal/metrics"
)

// Service is the periodic match-notification scheduler. Each tick it scans
// for matches crossing a threshold, records the notification and fans it
// out. Failures on one match never abort the rest of the tick.
type Service struct {
	store       Store
	broadcaster fanout.Broadcaster
	metrics     metrics.Metrics
	interval    time.Duration
	now         func() time.Time
}

// New creates a new reminder Service.
func New(store Store, broadcaster fanout.Broadcaster, metricsSvc metrics.Metrics, interval time.Duration) *Service {
	return &Service{
		store:       store,
		broadcaster: broadcaster,
		metrics:     metricsSvc,
		interval:    interval,
		now:         time.Now,
	}
}

// Run ticks on the configured interval until the context is cancelled.
func (s *Service) Run(ctx context.Context) {
	log.Info("Reminder scheduler started", "interval", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Reminder scheduler stopped")
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick runs one scheduler pass over both thresholds.
func (s *Service) Tick() {
	s.metrics.IncReminderTicks()
	now := s.now()

	s.process(TypeImminent, now, now.Add(imminentWindow))
	s.process(TypeAdvance, now.Add(advanceWindowStart), now.Add(advanceWindowEnd))
}

func (s *Service) process(notificationType string, windowStart, windowEnd time.Time) {
	due, err := s.store.DueMatches(notificationType, windowStart, windowEnd)
	if err != nil {
		log.Error("Failed to query due matches", "type", notificationType, "error", err)
		return
	}

	for _, match := range due {
		if err := s.notify(notificationType, match); err != nil {
			log.Error("Failed to send match notification", "matchID", match.ID, "type", notificationType, "error", err)
			s.metrics.IncNotificationsFailed()
		}
	}
}

func (s *Service) notify(notificationType string, match DueMatch) error {
	message := composeMessage(notificationType, match)

	inserted, err := s.store.RecordNotification(match.ID, notificationType, message)
	if err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}
	if !inserted {
		// Another scheduler run got there first.
		log.Debug("Notification already sent, skipping", "matchID", match.ID, "type", notificationType)
		return nil
	}

	notification := Notification{
		Type:    notificationType,
		Match:   match,
		Message: message,
	}
	notification.AttendanceCount.In = match.PlayersIn
	notification.AttendanceCount.Out = match.PlayersOut
	notification.AttendanceCount.Total = match.TotalResponses

	s.broadcaster.Broadcast(fanout.EventMatchNotification, notification)
	s.metrics.IncNotificationsSent()
	log.Info("Match notification sent", "matchID", match.ID, "type", notificationType, "title", match.Title)
	return nil
}

func composeMessage(notificationType string, match DueMatch) string {
	if notificationType == TypeImminent {
		return fmt.Sprintf("Match %q starts in 30 minutes! Status: %d In, %d Out",
			match.Title, match.PlayersIn, match.PlayersOut)
	}
	return fmt.Sprintf("Reminder: Match %q is tomorrow at %s. Please mark your attendance! Currently %d players confirmed.",
		match.Title, match.MatchDate.Format("15:04"), match.PlayersIn)
}
