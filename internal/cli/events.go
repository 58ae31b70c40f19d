package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tOgg1/parrot/internal/db"
	"github.com/tOgg1/parrot/internal/logging"
	"github.com/tOgg1/parrot/internal/models"
)

var (
	eventsType   string
	eventsSince  string
	eventsLimit  int
	eventsFollow bool
)

func init() {
	rootCmd.AddCommand(eventsCmd)

	eventsCmd.Flags().StringVar(&eventsType, "type", "", "filter by event type (theme.rotated, contact.submitted)")
	eventsCmd.Flags().StringVar(&eventsSince, "since", "", "only events newer than this duration, e.g. 24h")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 50, "maximum events to show")
	eventsCmd.Flags().BoolVarP(&eventsFollow, "follow", "f", false, "stream new events as JSON lines until interrupted")
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List recorded theme rotations and contact submissions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		query := db.EventQuery{Limit: eventsLimit}
		if eventsType != "" {
			t := models.EventType(eventsType)
			query.Type = &t
		}
		if eventsSince != "" {
			d, err := time.ParseDuration(eventsSince)
			if err != nil {
				return &PreflightError{
					Message: fmt.Sprintf("invalid --since %q", eventsSince),
					Hint:    "Use a Go duration such as 30m or 48h",
					Err:     err,
				}
			}
			since := nowFunc().Add(-d)
			query.Since = &since
		}

		database, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		repo := db.NewEventRepository(database)
		if eventsFollow {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			streamCfg := DefaultStreamConfig()
			streamCfg.Type = query.Type
			streamCfg.Since = query.Since
			return NewEventStreamer(repo, cmd.OutOrStdout(), streamCfg, logging.Component("events")).Stream(ctx)
		}

		page, err := repo.Query(ctx, query)
		if err != nil {
			return err
		}

		if IsJSONOutput() {
			return WriteOutput(cmd.OutOrStdout(), page)
		}

		rows := make([][]string, 0, len(page.Events))
		for _, event := range page.Events {
			rows = append(rows, []string{
				event.Timestamp.In(GetConfig().Location()).Format(time.RFC3339),
				string(event.Type),
				event.EntityID,
			})
		}
		if err := writeTable(cmd.OutOrStdout(), []string{"TIME", "TYPE", "ENTITY"}, rows); err != nil {
			return err
		}

		total, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "\nshowing %d of %d events\n", len(page.Events), total)
		return err
	},
}
