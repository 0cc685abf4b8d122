// Package cli implements the pds-crawler command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pdssp/pds-crawler/pkg/buildinfo"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "pds-crawler",
		Short:        "pds-crawler extracts PDS3 planetary data and builds a STAC catalog",
		Long:         `pds-crawler crawls the ODE search API and the PDS3 archive website, parses PDS3 catalog files, and builds a STAC catalog tree on local storage.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(newExtractCmd())
	root.AddCommand(newTransformCmd())
	root.AddCommand(newCheckExtractCmd())
	root.AddCommand(newCompletionCmd())

	return root
}
