package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tOgg1/parrot/internal/config"
	"github.com/tOgg1/parrot/internal/contact"
	"github.com/tOgg1/parrot/internal/db"
	"github.com/tOgg1/parrot/internal/events"
	"github.com/tOgg1/parrot/internal/models"
	"github.com/tOgg1/parrot/internal/palette"
	"github.com/tOgg1/parrot/internal/rotation"
)

// Build wires a Daemon from cfg: the theme table, the database, the event
// publisher, the contact service and the rotator. The returned DB must be
// closed by the caller after Run returns.
func Build(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Daemon, *db.DB, error) {
	table, err := palette.LoadFile(cfg.Theme.TableFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load theme table: %w", err)
	}

	database, err := db.Open(db.Config{
		Path:           cfg.DatabasePath(),
		MaxConnections: cfg.Database.MaxConnections,
		BusyTimeoutMs:  cfg.Database.BusyTimeoutMs,
	})
	if err != nil {
		return nil, nil, err
	}
	applied, err := database.MigrateUp(ctx)
	if err != nil {
		_ = database.Close()
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if applied > 0 {
		logger.Info().Int("migrations", applied).Msg("database migrated")
	}

	eventRepo := db.NewEventRepository(database)
	publisher := events.NewInMemoryPublisher(
		events.WithRepository(eventRepo),
		events.WithLogger(logger),
	)

	rotator, err := rotation.NewRotator(table, nil,
		rotation.WithLocation(cfg.Location()),
		rotation.WithPublisher(publisher),
	)
	if err != nil {
		_ = database.Close()
		return nil, nil, err
	}

	restoreRotation(ctx, eventRepo, rotator, logger)

	contactSvc := contact.NewService(cfg.Contact,
		contact.WithStore(db.NewContactRepository(database)),
		contact.WithPublisher(publisher),
	)

	daemon, err := NewDaemon(cfg, rotator, contactSvc, logger, WithEvents(publisher))
	if err != nil {
		_ = database.Close()
		return nil, nil, err
	}
	return daemon, database, nil
}

// restoreRotation seeds the rotator from the last recorded rotation.
func restoreRotation(ctx context.Context, repo *db.EventRepository, rotator *rotation.Rotator, logger zerolog.Logger) {
	last, err := repo.LatestOfType(ctx, models.EventTypeThemeRotated)
	if err != nil {
		if !errors.Is(err, db.ErrEventNotFound) {
			logger.Warn().Err(err).Msg("failed to read last rotation")
		}
		return
	}

	var payload models.ThemeRotatedPayload
	if err := json.Unmarshal(last.Payload, &payload); err != nil {
		logger.Warn().Err(err).Str("event_id", last.ID).Msg("unreadable rotation payload")
		return
	}
	if rotator.Restore(payload.Date, payload.NewTheme) {
		logger.Debug().Str("date", payload.Date).Str("theme", payload.NewTheme).Msg("restored last rotation")
	}
}
