package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tOgg1/parrot/internal/models"
)

func TestFilter_Matches(t *testing.T) {
	rotated := &models.Event{
		Type:       models.EventTypeThemeRotated,
		EntityType: models.EntityTypeTheme,
		EntityID:   "teal",
	}

	tests := []struct {
		name   string
		filter Filter
		event  *models.Event
		want   bool
	}{
		{name: "empty filter matches any event", filter: Filter{}, event: rotated, want: true},
		{name: "nil event returns false", filter: Filter{}, event: nil, want: false},
		{
			name:   "event type filter matches",
			filter: Filter{EventTypes: []models.EventType{models.EventTypeThemeRotated}},
			event:  rotated,
			want:   true,
		},
		{
			name:   "event type filter rejects non-matching",
			filter: Filter{EventTypes: []models.EventType{models.EventTypeContactSubmitted}},
			event:  rotated,
			want:   false,
		},
		{
			name:   "entity type filter rejects non-matching",
			filter: Filter{EntityTypes: []models.EntityType{models.EntityTypeContact}},
			event:  rotated,
			want:   false,
		},
		{
			name:   "entity id filter matches",
			filter: Filter{EntityID: "teal"},
			event:  rotated,
			want:   true,
		},
		{
			name:   "entity id filter rejects non-matching",
			filter: Filter{EntityID: "west-side"},
			event:  rotated,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(tt.event))
		})
	}
}

func TestInMemoryPublisher_SubscribeErrors(t *testing.T) {
	pub := NewInMemoryPublisher()
	noop := func(*models.Event) {}

	assert.Equal(t, ErrInvalidSubscriptionID, pub.Subscribe("", Filter{}, noop))
	assert.Equal(t, ErrNilHandler, pub.Subscribe("a", Filter{}, nil))
	require.NoError(t, pub.Subscribe("a", Filter{}, noop))
	assert.Equal(t, ErrSubscriptionExists, pub.Subscribe("a", Filter{}, noop))
	assert.Equal(t, 1, pub.SubscriberCount())

	require.NoError(t, pub.Unsubscribe("a"))
	assert.Equal(t, ErrSubscriptionNotFound, pub.Unsubscribe("a"))
	assert.Equal(t, 0, pub.SubscriberCount())
}

func TestInMemoryPublisher_PublishWithFilter(t *testing.T) {
	pub := NewInMemoryPublisher()

	var themes, all []*models.Event
	require.NoError(t, pub.Subscribe("themes", Filter{EventTypes: []models.EventType{models.EventTypeThemeRotated}}, func(e *models.Event) {
		themes = append(themes, e)
	}))
	require.NoError(t, pub.Subscribe("all", Filter{}, func(e *models.Event) {
		all = append(all, e)
	}))

	ctx := context.Background()
	pub.Publish(ctx, &models.Event{Type: models.EventTypeThemeRotated, EntityType: models.EntityTypeTheme, EntityID: "teal"})
	pub.Publish(ctx, &models.Event{Type: models.EventTypeContactSubmitted, EntityType: models.EntityTypeContact, EntityID: "c1"})
	pub.Publish(ctx, nil)

	assert.Len(t, themes, 1)
	assert.Len(t, all, 2)
	assert.False(t, all[0].Timestamp.IsZero())
}

type mockRepository struct {
	events []*models.Event
	err    error
}

func (m *mockRepository) Create(ctx context.Context, event *models.Event) error {
	m.events = append(m.events, event)
	return m.err
}

func TestInMemoryPublisher_WithRepository(t *testing.T) {
	repo := &mockRepository{}
	pub := NewInMemoryPublisher(WithRepository(repo))

	pub.Publish(context.Background(), &models.Event{Type: models.EventTypeThemeRotated, EntityType: models.EntityTypeTheme, EntityID: "teal"})
	assert.Len(t, repo.events, 1)
}

func TestInMemoryPublisher_RepositoryErrorStillDelivers(t *testing.T) {
	repo := &mockRepository{err: errors.New("disk full")}
	pub := NewInMemoryPublisher(WithRepository(repo))

	delivered := 0
	require.NoError(t, pub.Subscribe("s", Filter{}, func(*models.Event) { delivered++ }))

	pub.Publish(context.Background(), &models.Event{Type: models.EventTypeThemeRotated, EntityType: models.EntityTypeTheme, EntityID: "teal"})
	assert.Equal(t, 1, delivered)
}

func TestInMemoryPublisher_LogsRedactedPayload(t *testing.T) {
	var buf bytes.Buffer
	pub := NewInMemoryPublisher(WithLogger(zerolog.New(&buf)))

	pub.Publish(context.Background(), &models.Event{
		Type:       models.EventTypeContactSubmitted,
		EntityType: models.EntityTypeContact,
		EntityID:   "sub-1",
		Payload:    json.RawMessage(`{"submission_id":"sub-1","reply_to":"ana@example.com","phone":"+1 555 123 4567"}`),
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "event published", entry["message"])
	assert.Equal(t, "sub-1", entry["submission_id"])
	assert.Equal(t, "a***@example.com", entry["reply_to"])
	assert.Equal(t, "[REDACTED]", entry["phone"])
}

func TestEmit(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	pub := NewInMemoryPublisher()

	var got []*models.Event
	require.NoError(t, pub.Subscribe("s", Filter{}, func(e *models.Event) { got = append(got, e) }))

	Emit(context.Background(), pub, logger, models.EventTypeThemeRotated, models.EntityTypeTheme, "teal",
		models.ThemeRotatedPayload{Date: "2025-01-03", NewTheme: "teal"})
	require.Len(t, got, 1)
	assert.Equal(t, "teal", got[0].EntityID)
	assert.Empty(t, buf.String())

	Emit(context.Background(), pub, logger, models.EventTypeThemeRotated, models.EntityTypeTheme, "teal", make(chan int))
	assert.Len(t, got, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "failed to encode event", entry["message"])
	assert.Equal(t, "theme.rotated", entry["event_type"])

	assert.NotPanics(t, func() {
		Emit(context.Background(), nil, logger, models.EventTypeWarning, models.EntityTypeSystem, "system", nil)
	})
}

func TestNewEvent(t *testing.T) {
	event, err := NewEvent(models.EventTypeThemeRotated, models.EntityTypeTheme, "teal", models.ThemeRotatedPayload{
		Date:     "2025-01-03",
		NewTheme: "teal",
		Hex:      "#009485",
	})
	require.NoError(t, err)

	var payload models.ThemeRotatedPayload
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, "teal", payload.NewTheme)
	assert.Empty(t, payload.OldTheme)

	event, err = NewEvent(models.EventTypeWarning, models.EntityTypeSystem, "system", nil)
	require.NoError(t, err)
	assert.Nil(t, event.Payload)
}
