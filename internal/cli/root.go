// Package cli implements the parrot command line interface.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tOgg1/parrot/internal/config"
	"github.com/tOgg1/parrot/internal/logging"
	"github.com/tOgg1/parrot/internal/palette"
	"github.com/tOgg1/parrot/internal/rotation"
)

var (
	cfgFile    string
	logLevel   string
	logFormat  string
	jsonOutput bool

	appConfig *config.Config
	appTable  palette.Table
	logFile   *os.File

	// nowFunc is the CLI's notion of "now"; tests replace it.
	nowFunc = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "parrot",
	Short: "Daily theme selector for the Parrot site",
	Long: `parrot picks the site theme for a date by cycling through the theme
table by day of the year, and renders it as CSS, JSON or a terminal swatch.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initApp,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			_ = logFile.Close()
			logFile = nil
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/parrot/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "override logging format (json, console)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
}

// Execute runs the root command.
func Execute(version, commit, date string) error {
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
	return rootCmd.Execute()
}

func initApp(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader()
	if cfgFile != "" {
		loader.SetConfigFile(cfgFile)
	}
	if logLevel != "" {
		loader.Set("logging.level", logLevel)
	}
	if logFormat != "" {
		loader.Set("logging.format", logFormat)
	}

	cfg, err := loader.Load()
	if err != nil {
		return &PreflightError{
			Message:  "could not load configuration",
			Hint:     err.Error(),
			NextStep: "parrot --config <file> today",
			Err:      err,
		}
	}

	var output io.Writer = cmd.ErrOrStderr()
	if cfg.Logging.File != "" {
		f, err := logging.OpenFile(cfg.Logging.File)
		if err != nil {
			return err
		}
		logFile = f
		output = f
	}
	logging.Init(logging.Config{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		Output:       output,
		EnableCaller: cfg.Logging.EnableCaller,
	})
	if used := loader.ConfigFileUsed(); used != "" {
		logger := logging.Component("cli")
		logger.Debug().Str("config_file", used).Msg("loaded config file")
	}

	table, err := palette.LoadFile(cfg.Theme.TableFile)
	if err != nil {
		return &PreflightError{
			Message: "theme table is invalid",
			Hint:    err.Error(),
			Err:     err,
		}
	}

	appConfig = cfg
	appTable = table
	return nil
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	return appConfig
}

// IsJSONOutput reports whether --json was given.
func IsJSONOutput() bool {
	return jsonOutput
}

// WriteOutput writes v as indented JSON.
func WriteOutput(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type cliClock struct{}

func (cliClock) Now() time.Time                         { return nowFunc() }
func (cliClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// newRotator builds a rotator over the configured table and zone.
func newRotator(logger zerolog.Logger) (*rotation.Rotator, error) {
	return rotation.NewRotator(appTable, nil,
		rotation.WithClock(cliClock{}),
		rotation.WithLocation(appConfig.Location()),
		rotation.WithLogger(logger),
	)
}

// parseDate reads YYYY-MM-DD in the configured zone.
func parseDate(raw string) (time.Time, error) {
	date, err := time.ParseInLocation(rotation.DateLayout, strings.TrimSpace(raw), appConfig.Location())
	if err != nil {
		return time.Time{}, &PreflightError{
			Message: fmt.Sprintf("invalid date %q", raw),
			Hint:    "Use the YYYY-MM-DD format, e.g. 2025-01-31",
		}
	}
	return date, nil
}

// PreflightError is a user-facing failure detected before any work ran.
type PreflightError struct {
	Message  string
	Hint     string
	NextStep string
	Err      error
}

func (e *PreflightError) Unwrap() error {
	return e.Err
}

func (e *PreflightError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Hint != "" {
		b.WriteString("\n  hint: ")
		b.WriteString(e.Hint)
	}
	if e.NextStep != "" {
		b.WriteString("\n  next: ")
		b.WriteString(e.NextStep)
	}
	return b.String()
}

// ExitCode maps an Execute error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var preflight *PreflightError
	if errors.As(err, &preflight) {
		return 2
	}
	return 1
}
