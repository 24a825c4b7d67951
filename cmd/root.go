// Package cmd provides the crudsql command-line interface. It reads request
// envelopes, compiles them with the postgres generator and prints the
// resulting {query, params} document.
package cmd

import (
	"errors"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/asaidimu/crudsql/internal/config"
	"github.com/asaidimu/crudsql/internal/logger"
	"github.com/asaidimu/crudsql/pkg/postgres"
)

// errReported marks failures whose details were already written as a
// structured error document.
var errReported = errors.New("compilation failed")

// app carries state shared by subcommands after the root pre-run.
type app struct {
	configFile string
	logLevel   string
	cfg        *config.Config
	generator  *postgres.Generator
}

// NewRootCmd builds the crudsql command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "crudsql",
		Short:         "Compile CRUD request envelopes into parameterized SQL",
		Long:          `crudsql turns a JSON request envelope (list, create, update, delete, count, aggregate, batch_create) into a single PostgreSQL statement with positional parameters.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configFile)
			if err != nil {
				return err
			}
			if a.logLevel != "" {
				cfg.LogLevel = a.logLevel
			}
			a.cfg = cfg

			logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
			if cfg.ConfigFile != "" {
				logger.Debug("loaded config", "file", cfg.ConfigFile)
			}

			a.generator = postgres.NewGenerator(
				postgres.WithMatchColumns(cfg.MatchColumns),
				postgres.WithAllowedTables(cfg.AllowedTables),
			)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default .crudsql.yaml in ., $HOME or $HOME/.config/crudsql)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newCompileCmd(a), newActionsCmd(), newVersionCmd())
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			pterm.Error.WithWriter(os.Stderr).Println(err)
		}
		os.Exit(1)
	}
}
