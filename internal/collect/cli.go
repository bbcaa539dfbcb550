// Package collect gathers training text for embedding corpora by fetching
// and crawling web pages. Pages are reduced to their visible text and
// written one file per page, a layout the trainer consumes directly.
package collect

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// CLI encapsulates the wordvec-collect command-line interface.
type CLI struct {
	version string
	verbose bool
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given version string.
func New(version string) *CLI {
	c := &CLI{version: version}
	c.setupCommands()
	return c
}

func (c *CLI) setupCommands() {
	c.rootCmd = &cobra.Command{
		Use:     "wordvec-collect",
		Short:   "Collect web page text for embedding training corpora",
		Version: c.version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c.initLogging()
		},
	}

	c.rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Verbose output")

	c.rootCmd.AddCommand(c.newFetchCommand())
	c.rootCmd.AddCommand(c.newCrawlCommand())
}

// Run executes the CLI and returns any error.
func (c *CLI) Run() error {
	return c.rootCmd.Execute()
}

func (c *CLI) initLogging() {
	if c.verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
}
