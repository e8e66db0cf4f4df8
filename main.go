// main.go
//
// CLI entrypoint for the Queens server.
// Loads .env (if present), parses config, sets the log level, and runs a subcommand:
//   - serve   → HTTP API
//   - migrate → apply database migrations and exit

package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hamomel/queens/server/internal/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}
	setupLogger(cfg)

	rootCmd := &cobra.Command{
		Use:          "queens",
		Short:        "N-Queens game server",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(
		serveCommand(cfg),
		migrateCommand(cfg),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogger applies LOG_LEVEL and switches to console output outside production.
func setupLogger(cfg *config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Production() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
