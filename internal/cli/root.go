// Package cli implements chefctl, the operator tool for the cooking
// backend.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cookingapp/internal/config"
	"cookingapp/internal/logger"
	"cookingapp/pkg/database"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Env     string
	DBPath  string
	Format  string // "text" | "json"
	Verbose bool
}

var ValidFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "chefctl",
		Short: "Operate the cooking backend from the terminal",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Env, "env", config.GetEnv(), "config environment (config/<env>.yaml)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "sqlite database path, overrides the configured database")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewImportMarketsCommand(opts))
	cmd.AddCommand(NewExportMarketsCommand(opts))
	cmd.AddCommand(NewImportListingsCommand(opts))
	cmd.AddCommand(NewDiscoverCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

// session is what every command needs: configuration, a migrated database and
// a logger carried in ctx.
type session struct {
	cfg config.Config
	db  *database.DB
	ctx context.Context
	log *zap.Logger
}

func (o *RootOptions) open(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(o.Env)
	if err != nil {
		return nil, err
	}
	if o.DBPath != "" {
		cfg.Database.Driver = database.DriverSQLite
		cfg.Database.DSN = o.DBPath
	}

	level := "warn"
	if o.Verbose {
		level = "debug"
	}
	log, err := logger.NewLogger(o.Env, level)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(database.Config{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN})
	if err != nil {
		return nil, err
	}
	ctx := logger.ContextWithLogger(cmd.Context(), log)
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &session{cfg: cfg, db: db, ctx: ctx, log: log}, nil
}

func (s *session) close() {
	_ = s.db.Close()
	_ = s.log.Sync()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
