package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hamomel/queens/server/internal/config"
)

func migrateCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Applies pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(cmd.Context(), cfg, false)
			if err != nil {
				log.Error().Err(err).Str("path", cfg.Database.Path).Msg("migration failed")
				return err
			}
			return db.Close()
		},
	}
}
