package server

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tOgg1/parrot/internal/events"
	"github.com/tOgg1/parrot/internal/models"
)

const activitySubscriptionID = "parrotd.activity"

// Activity is what the daemon has seen on the event bus since it started.
type Activity struct {
	LastRotation     string `json:"last_rotation,omitempty"`
	LastTheme        string `json:"last_theme,omitempty"`
	ContactsReceived int    `json:"contacts_received"`
}

type activityTracker struct {
	mu     sync.Mutex
	cur    Activity
	logger zerolog.Logger
}

func (a *activityTracker) record(event *models.Event) {
	switch event.Type {
	case models.EventTypeThemeRotated:
		var payload models.ThemeRotatedPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			a.logger.Warn().Err(err).Str("event_id", event.ID).Msg("unreadable rotation payload")
			return
		}
		a.mu.Lock()
		a.cur.LastRotation = payload.Date
		a.cur.LastTheme = payload.NewTheme
		a.mu.Unlock()
	case models.EventTypeContactSubmitted:
		a.mu.Lock()
		a.cur.ContactsReceived++
		a.mu.Unlock()
	}
}

func (a *activityTracker) snapshot() Activity {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cur
}

// Observe subscribes the handler to rotation and contact events so /healthz
// can report them. The returned function removes the subscription.
func (h *Handler) Observe(pub events.Publisher) (func(), error) {
	filter := events.Filter{EventTypes: []models.EventType{
		models.EventTypeThemeRotated,
		models.EventTypeContactSubmitted,
	}}
	if err := pub.Subscribe(activitySubscriptionID, filter, h.activity.record); err != nil {
		return nil, err
	}
	return func() {
		if err := pub.Unsubscribe(activitySubscriptionID); err != nil {
			h.logger.Warn().Err(err).Msg("failed to unsubscribe activity tracker")
		}
	}, nil
}
