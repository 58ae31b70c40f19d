package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tOgg1/parrot/internal/config"
	"github.com/tOgg1/parrot/internal/events"
	"github.com/tOgg1/parrot/internal/logging"
	"github.com/tOgg1/parrot/internal/models"
	"github.com/tOgg1/parrot/internal/notify"
)

// ErrStoreFailed wraps persistence failures so callers can tell them apart
// from validation errors.
var ErrStoreFailed = errors.New("failed to record contact submission")

// Store persists submissions.
type Store interface {
	Create(ctx context.Context, sub *models.ContactSubmission) error
}

// Result is the outcome of a successful submission.
type Result struct {
	Submission   *models.ContactSubmission `json:"submission"`
	Links        Links                     `json:"links"`
	Notification notify.Notification       `json:"notification"`
}

// Service validates, records and announces contact submissions.
type Service struct {
	cfg       config.ContactConfig
	store     Store
	publisher events.Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithStore persists submissions through store.
func WithStore(store Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithPublisher announces submissions as contact.submitted events.
func WithPublisher(publisher events.Publisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// WithLogger overrides the component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a Service sending to the destinations in cfg.
func NewService(cfg config.ContactConfig, opts ...Option) *Service {
	s := &Service{
		cfg:    cfg,
		logger: logging.Component("contact"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit normalizes and validates sub, stores it and returns the links the
// client should open. Validation errors come from models.ContactSubmission.Validate.
func (s *Service) Submit(ctx context.Context, sub *models.ContactSubmission) (*Result, error) {
	if sub == nil {
		return nil, fmt.Errorf("submission is required")
	}
	sub.Normalize()

	links, err := BuildLinks(sub, s.cfg)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = now.UTC()
	}

	if s.store != nil {
		if err := s.store.Create(ctx, sub); err != nil {
			s.logger.Error().Err(err).Str("email", logging.MaskEmail(sub.Email)).Msg("contact submission not stored")
			return nil, fmt.Errorf("%w: %w", ErrStoreFailed, err)
		}
	}

	s.logger.Info().
		Fields(logging.RedactMap(map[string]any{
			"submission_id": sub.ID,
			"email":         sub.Email,
			"message_body":  sub.Message,
			"theme":         sub.Theme,
		})).
		Msg("contact submission received")

	events.Emit(ctx, s.publisher, s.logger, models.EventTypeContactSubmitted, models.EntityTypeContact, sub.ID,
		models.ContactSubmittedPayload{
			SubmissionID: sub.ID,
			Name:         sub.Name,
			Email:        logging.MaskEmail(sub.Email),
		})

	return &Result{
		Submission:   sub,
		Links:        links,
		Notification: notify.ContactSent(now),
	}, nil
}
