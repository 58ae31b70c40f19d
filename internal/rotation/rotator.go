package rotation

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tOgg1/parrot/internal/events"
	"github.com/tOgg1/parrot/internal/logging"
	"github.com/tOgg1/parrot/internal/models"
	"github.com/tOgg1/parrot/internal/palette"
)

// Clock abstracts time so the midnight loop can be driven by tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Rotator recomputes the theme whenever the local date changes.
type Rotator struct {
	table     palette.Table
	loc       *time.Location
	holder    *Holder
	clock     Clock
	publisher events.Publisher
	logger    zerolog.Logger
}

// Option configures a Rotator.
type Option func(*Rotator)

// WithClock overrides the wall clock.
func WithClock(clock Clock) Option {
	return func(r *Rotator) {
		r.clock = clock
	}
}

// WithLocation sets the zone whose midnight triggers rotation.
func WithLocation(loc *time.Location) Option {
	return func(r *Rotator) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// WithPublisher emits theme.rotated events on every change.
func WithPublisher(publisher events.Publisher) Option {
	return func(r *Rotator) {
		r.publisher = publisher
	}
}

// WithLogger overrides the component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Rotator) {
		r.logger = logger
	}
}

// NewRotator creates a Rotator publishing into holder. An empty table is
// rejected with palette.ErrInvalidConfiguration.
func NewRotator(table palette.Table, holder *Holder, opts ...Option) (*Rotator, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("rotator: %w", palette.ErrInvalidConfiguration)
	}
	if holder == nil {
		holder = &Holder{}
	}
	r := &Rotator{
		table:  table,
		loc:    time.Local,
		holder: holder,
		clock:  SystemClock,
		logger: logging.Component("rotation"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Holder returns the holder the rotator publishes into.
func (r *Rotator) Holder() *Holder {
	return r.holder
}

// Location returns the zone used for date selection.
func (r *Rotator) Location() *time.Location {
	return r.loc
}

// Select computes the theme for the calendar date of t in the rotator's zone.
func (r *Rotator) Select(t time.Time) (Current, error) {
	local := t.In(r.loc)
	idx, err := palette.IndexForDate(local, len(r.table))
	if err != nil {
		return Current{}, err
	}
	return Current{
		Date:      local.Format(DateLayout),
		DayOfYear: palette.DayOfYear(local),
		Index:     idx,
		Entry:     r.table[idx],
	}, nil
}

// Current returns the theme for today. It reads the holder when it already
// has today's date and computes the selection otherwise.
func (r *Rotator) Current() (Current, error) {
	now := r.clock.Now()
	if cur, ok := r.holder.Load(); ok && cur.Date == now.In(r.loc).Format(DateLayout) {
		return cur, nil
	}
	return r.Select(now)
}

// Today returns the calendar date of now in the rotator's zone, at midnight.
func (r *Rotator) Today() time.Time {
	y, m, d := r.clock.Now().In(r.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, r.loc)
}

// Refresh stores the theme for the current date. It reports whether the
// stored date changed.
func (r *Rotator) Refresh(ctx context.Context) (Current, bool, error) {
	cur, err := r.Select(r.clock.Now())
	if err != nil {
		return Current{}, false, err
	}

	prev, had := r.holder.Load()
	if had && prev.Date == cur.Date {
		return cur, false, nil
	}
	r.holder.Store(cur)

	logger := logging.WithTheme(r.logger, cur.Entry.Name)
	logger.Info().
		Str("date", cur.Date).
		Int("index", cur.Index).
		Msg("daily theme selected")

	if r.publisher != nil {
		payload := models.ThemeRotatedPayload{
			Date:     cur.Date,
			NewTheme: cur.Entry.Name,
			Hex:      cur.Entry.Hex,
		}
		if had {
			payload.OldTheme = prev.Entry.Name
		}
		events.Emit(ctx, r.publisher, r.logger, models.EventTypeThemeRotated, models.EntityTypeTheme, cur.Entry.Name, payload)
	}

	return cur, true, nil
}

// Restore seeds the holder with a selection recorded earlier, so a restart
// on the same day does not announce the theme again. It only accepts a
// record that still matches what the table selects for that date.
func (r *Rotator) Restore(date, name string) bool {
	day, err := time.ParseInLocation(DateLayout, date, r.loc)
	if err != nil {
		return false
	}
	cur, err := r.Select(day)
	if err != nil || cur.Entry.Name != name {
		return false
	}
	if _, had := r.holder.Load(); had {
		return false
	}
	r.holder.Store(cur)
	return true
}

// Run refreshes immediately, then again after every local midnight until
// ctx is cancelled.
func (r *Rotator) Run(ctx context.Context) error {
	if _, _, err := r.Refresh(ctx); err != nil {
		return err
	}

	for {
		now := r.clock.Now()
		wait := NextMidnight(now, r.loc).Sub(now)
		r.logger.Debug().Dur("wait", wait).Msg("waiting for next rotation")

		select {
		case <-ctx.Done():
			return nil
		case <-r.clock.After(wait):
			if _, _, err := r.Refresh(ctx); err != nil {
				return err
			}
		}
	}
}

// NextMidnight returns the start of the calendar day after t in loc.
func NextMidnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, loc)
}
