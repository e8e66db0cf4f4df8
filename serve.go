package main

import (
	"context"
	"database/sql"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hamomel/queens/server/internal/config"
	"github.com/hamomel/queens/server/internal/database"
	"github.com/hamomel/queens/server/internal/httpserver"
	"github.com/hamomel/queens/server/internal/store"
)

// openDatabase opens the configured database (or a throwaway in-memory one)
// and applies migrations.
func openDatabase(ctx context.Context, cfg *config.Config, ephemeral bool) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	if ephemeral {
		db, err = database.OpenMemory()
	} else {
		db, err = database.Open(cfg.Database.Path)
	}
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ephemeral, _ := cmd.Flags().GetBool("ephemeral")

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			db, err := openDatabase(ctx, cfg, ephemeral)
			if err != nil {
				log.Error().Err(err).Msg("could not open database")
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					log.Warn().Err(err).Msg("could not close database")
				}
			}()

			srv := httpserver.New(cfg, store.NewMemoryStore(), db)
			log.Info().Str("port", cfg.HTTP.Port).Bool("ephemeral", ephemeral).Msg("starting queens server")
			if err := srv.Run(ctx, ":"+cfg.HTTP.Port); err != nil {
				log.Error().Err(err).Msg("server exited")
				return err
			}
			return nil
		},
	}
	cmd.Flags().Bool("ephemeral", false, "Use an in-memory database (results are lost on exit)")
	return cmd
}
