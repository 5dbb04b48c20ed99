// cmd/tournament-cli/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"coffee-tournament/internal/app"
	"coffee-tournament/internal/common/config"
	"coffee-tournament/internal/common/logger"

	"github.com/spf13/cobra"
)

// cli holds the flags shared by every command.
type cli struct {
	configPath string
	judge      string
	logLevel   string
	timeout    time.Duration

	loadConfig func(path string) (*config.Config, error)
}

func defaultLoadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func newRootCmd(c *cli) *cobra.Command {
	if c.loadConfig == nil {
		c.loadConfig = defaultLoadConfig
	}

	root := &cobra.Command{
		Use:   "tournament-cli",
		Short: "Run coffee shop tournaments from the command line",
		Long: `Find the best-rated coffee shops near a location and settle which one
is best in an 8-shop single-elimination bracket.

Commands:
  locate   - Resolve a place name to coordinates
  discover - Find and seed the top eight coffee shops near coordinates
  battle   - Judge a single battle between two shops
  run      - Play a whole tournament for a location
  tools    - Print or export the operation registry`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Config file (default: configs/config.yaml)")
	root.PersistentFlags().StringVar(&c.judge, "judge", "", "Override judge provider: gemini, http or none")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "Log level")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 5*time.Minute, "Operation timeout")

	root.AddCommand(
		c.locateCmd(),
		c.discoverCmd(),
		c.battleCmd(),
		c.runCmd(),
		c.toolsCmd(),
	)
	return root
}

// build loads configuration and wires the components. Redis is never used
// from the CLI.
func (c *cli) build(ctx context.Context) (*app.App, error) {
	cfg, err := c.loadConfig(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.judge != "" {
		cfg.Judge.Provider = c.judge
	}
	log := logger.NewStructured(c.logLevel, "console")
	return app.New(ctx, cfg, nil, log), nil
}

func (c *cli) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), c.timeout)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := newRootCmd(&cli{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
