package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tOgg1/parrot/internal/contact"
	"github.com/tOgg1/parrot/internal/db"
	"github.com/tOgg1/parrot/internal/events"
	"github.com/tOgg1/parrot/internal/logging"
	"github.com/tOgg1/parrot/internal/models"
	"github.com/tOgg1/parrot/internal/notify"
)

var (
	contactName    string
	contactEmail   string
	contactMessage string
	contactsLimit  int
)

func init() {
	rootCmd.AddCommand(contactCmd)
	contactCmd.AddCommand(contactListCmd)

	contactCmd.Flags().StringVar(&contactName, "name", "", "your name")
	contactCmd.Flags().StringVar(&contactEmail, "email", "", "your reply address")
	contactCmd.Flags().StringVar(&contactMessage, "message", "", "message text")
	contactListCmd.Flags().IntVar(&contactsLimit, "limit", 20, "maximum submissions to show")
}

// openDatabase opens and migrates the configured database.
func openDatabase(ctx context.Context) (*db.DB, error) {
	cfg := GetConfig()
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	database, err := db.Open(db.Config{
		Path:           cfg.DatabasePath(),
		MaxConnections: cfg.Database.MaxConnections,
		BusyTimeoutMs:  cfg.Database.BusyTimeoutMs,
	})
	if err != nil {
		return nil, err
	}
	if _, err := database.MigrateUp(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return database, nil
}

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Send a contact message",
	Long: `Record a contact message and print the mail and WhatsApp links that
deliver it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		database, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		logger := logging.Component("contact")
		publisher := events.NewInMemoryPublisher(
			events.WithRepository(db.NewEventRepository(database)),
			events.WithLogger(logger),
		)
		svc := contact.NewService(GetConfig().Contact,
			contact.WithStore(db.NewContactRepository(database)),
			contact.WithPublisher(publisher),
			contact.WithLogger(logger),
			contact.WithClock(nowFunc),
		)

		sub := &models.ContactSubmission{Name: contactName, Email: contactEmail, Message: contactMessage}
		if rotator, err := newRotator(logger); err == nil {
			if cur, err := rotator.Current(); err == nil {
				sub.Theme = cur.Entry.Name
			}
		}

		result, err := svc.Submit(ctx, sub)
		if err != nil {
			if !IsJSONOutput() {
				fmt.Fprintln(cmd.ErrOrStderr(), notify.Render(notify.ContactFailed(nowFunc())))
			}
			var validation *models.ValidationErrors
			if errors.As(err, &validation) {
				return &PreflightError{
					Message:  "invalid contact details",
					Hint:     validation.Error(),
					NextStep: "parrot contact --name <name> --email <address> --message <text>",
					Err:      err,
				}
			}
			return err
		}

		if IsJSONOutput() {
			return WriteOutput(cmd.OutOrStdout(), result)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, notify.Render(result.Notification))
		fmt.Fprintf(out, "Email:    %s\n", result.Links.Mailto)
		fmt.Fprintf(out, "WhatsApp: %s\n", result.Links.WhatsApp)
		return nil
	},
}

var contactListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent contact submissions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		database, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		subs, err := db.NewContactRepository(database).ListRecent(ctx, contactsLimit)
		if err != nil {
			return err
		}

		if IsJSONOutput() {
			return WriteOutput(cmd.OutOrStdout(), subs)
		}

		rows := make([][]string, 0, len(subs))
		for _, sub := range subs {
			rows = append(rows, []string{
				sub.CreatedAt.In(GetConfig().Location()).Format("2006-01-02 15:04"),
				sub.Name,
				logging.MaskEmail(sub.Email),
				sub.Theme,
			})
		}
		return writeTable(cmd.OutOrStdout(), []string{"RECEIVED", "NAME", "EMAIL", "THEME"}, rows)
	},
}
