package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func init() {
	rootCmd.AddCommand(commandsCmd)
}

// CommandInfo describes one command of the CLI tree.
type CommandInfo struct {
	Name        string        `json:"name"`
	Path        string        `json:"path"`
	Short       string        `json:"short"`
	Flags       []FlagInfo    `json:"flags,omitempty"`
	Subcommands []CommandInfo `json:"subcommands,omitempty"`
}

// FlagInfo describes a command flag.
type FlagInfo struct {
	Long    string `json:"long"`
	Short   string `json:"short,omitempty"`
	Type    string `json:"type"`
	Default string `json:"default,omitempty"`
}

// CommandManifest is the machine-readable command surface.
type CommandManifest struct {
	CLI         string        `json:"cli"`
	GlobalFlags []FlagInfo    `json:"global_flags"`
	Commands    []CommandInfo `json:"commands"`
}

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List every command and flag",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		manifest := buildManifest(rootCmd)
		if IsJSONOutput() {
			return WriteOutput(cmd.OutOrStdout(), manifest)
		}

		var rows [][]string
		var walk func([]CommandInfo)
		walk = func(cmds []CommandInfo) {
			for _, c := range cmds {
				flags := make([]string, 0, len(c.Flags))
				for _, f := range c.Flags {
					flags = append(flags, "--"+f.Long)
				}
				rows = append(rows, []string{c.Path, c.Short, strings.Join(flags, " ")})
				walk(c.Subcommands)
			}
		}
		walk(manifest.Commands)
		return writeTable(cmd.OutOrStdout(), []string{"COMMAND", "DESCRIPTION", "FLAGS"}, rows)
	},
}

func buildManifest(root *cobra.Command) CommandManifest {
	return CommandManifest{
		CLI:         root.Name(),
		GlobalFlags: collectFlags(root.PersistentFlags()),
		Commands:    collectCommands(root),
	}
}

func collectCommands(cmd *cobra.Command) []CommandInfo {
	var cmds []CommandInfo
	for _, c := range cmd.Commands() {
		if c.Hidden || c.Name() == "help" || c.Name() == "completion" {
			continue
		}
		cmds = append(cmds, CommandInfo{
			Name:        c.Name(),
			Path:        c.CommandPath(),
			Short:       c.Short,
			Flags:       collectFlags(c.LocalNonPersistentFlags()),
			Subcommands: collectCommands(c),
		})
	}
	slices.SortFunc(cmds, func(a, b CommandInfo) int { return strings.Compare(a.Name, b.Name) })
	return cmds
}

func collectFlags(fs *pflag.FlagSet) []FlagInfo {
	var flags []FlagInfo
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "help" {
			return
		}
		flags = append(flags, FlagInfo{
			Long:    f.Name,
			Short:   f.Shorthand,
			Type:    f.Value.Type(),
			Default: f.DefValue,
		})
	})
	slices.SortFunc(flags, func(a, b FlagInfo) int { return strings.Compare(a.Long, b.Long) })
	return flags
}
