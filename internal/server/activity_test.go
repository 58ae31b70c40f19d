package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tOgg1/parrot/internal/config"
	"github.com/tOgg1/parrot/internal/contact"
	"github.com/tOgg1/parrot/internal/events"
	"github.com/tOgg1/parrot/internal/models"
	"github.com/tOgg1/parrot/internal/palette"
	"github.com/tOgg1/parrot/internal/rotation"
)

func TestHealthzReportsObservedActivity(t *testing.T) {
	ctx := context.Background()
	pub := events.NewInMemoryPublisher()

	rotator, err := rotation.NewRotator(palette.Default(), nil,
		rotation.WithClock(fixedClock{now: time.Date(2025, time.January, 3, 9, 0, 0, 0, time.UTC)}),
		rotation.WithLocation(time.UTC),
		rotation.WithLogger(zerolog.Nop()),
		rotation.WithPublisher(pub),
	)
	require.NoError(t, err)
	svc := contact.NewService(config.DefaultConfig().Contact,
		contact.WithPublisher(pub),
		contact.WithLogger(zerolog.Nop()),
	)

	h := NewHandler(rotator, svc, zerolog.Nop())
	stop, err := h.Observe(pub)
	require.NoError(t, err)
	assert.Equal(t, 1, pub.SubscriberCount())

	_, changed, err := rotator.Refresh(ctx)
	require.NoError(t, err)
	require.True(t, changed)
	_, err = svc.Submit(ctx, &models.ContactSubmission{Name: "Ana", Email: "ana@example.com", Message: "hi"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[healthResponse](t, rec)
	assert.Equal(t, Activity{LastRotation: "2025-01-03", LastTheme: "teal", ContactsReceived: 1}, body.Activity)

	stop()
	assert.Equal(t, 0, pub.SubscriberCount())
}

func TestObserveRejectsDuplicateSubscription(t *testing.T) {
	pub := events.NewInMemoryPublisher()
	h := NewHandler(newTestRotator(t, time.Now()), nil, zerolog.Nop())

	stop, err := h.Observe(pub)
	require.NoError(t, err)
	defer stop()

	_, err = h.Observe(pub)
	assert.ErrorIs(t, err, events.ErrSubscriptionExists)
}

func TestActivityIgnoresUnreadableRotation(t *testing.T) {
	a := &activityTracker{logger: zerolog.Nop()}
	a.record(&models.Event{Type: models.EventTypeThemeRotated, Payload: []byte("{")})
	assert.Equal(t, Activity{}, a.snapshot())
}
