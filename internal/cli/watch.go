package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/tOgg1/parrot/internal/db"
	"github.com/tOgg1/parrot/internal/models"
)

// StreamConfig configures event following.
type StreamConfig struct {
	// PollInterval is how often to check for new events.
	PollInterval time.Duration

	// Type limits the stream to one event type.
	Type *models.EventType

	// Since streams events at or after this time. Nil means from now on.
	Since *time.Time

	// BatchSize is the max events per poll.
	BatchSize int
}

// DefaultStreamConfig returns the defaults used by events --follow.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		PollInterval: 500 * time.Millisecond,
		BatchSize:    100,
	}
}

// EventStreamer writes new events to out as JSON lines.
type EventStreamer struct {
	repo   *db.EventRepository
	out    io.Writer
	config StreamConfig
	now    func() time.Time
	logger zerolog.Logger
}

// NewEventStreamer creates a streamer over repo.
func NewEventStreamer(repo *db.EventRepository, out io.Writer, config StreamConfig, logger zerolog.Logger) *EventStreamer {
	if config.PollInterval <= 0 {
		config.PollInterval = 500 * time.Millisecond
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	return &EventStreamer{
		repo:   repo,
		out:    out,
		config: config,
		now:    nowFunc,
		logger: logger,
	}
}

// Stream polls until ctx is cancelled. Cancellation is a clean stop.
func (s *EventStreamer) Stream(ctx context.Context) error {
	since := s.config.Since
	if since == nil {
		now := s.now().UTC()
		since = &now
	}
	var cursor string

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	s.logger.Debug().Dur("poll_interval", s.config.PollInterval).Msg("following events")

	for {
		last, err := s.drain(ctx, cursor, since)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if last != "" {
			cursor = last
			since = nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// drain writes every pending event and returns the ID of the last one written.
func (s *EventStreamer) drain(ctx context.Context, cursor string, since *time.Time) (string, error) {
	var last string
	for {
		page, err := s.repo.Query(ctx, db.EventQuery{
			Type:   s.config.Type,
			Cursor: cursor,
			Since:  since,
			Limit:  s.config.BatchSize,
		})
		if err != nil {
			return last, fmt.Errorf("failed to poll events: %w", err)
		}
		for _, event := range page.Events {
			if err := s.writeEvent(event); err != nil {
				return last, fmt.Errorf("failed to write event: %w", err)
			}
			last = event.ID
		}
		if page.NextCursor == "" {
			return last, nil
		}
		cursor = page.NextCursor
		since = nil
	}
}

func (s *EventStreamer) writeEvent(event *models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(s.out, string(data))
	return err
}
