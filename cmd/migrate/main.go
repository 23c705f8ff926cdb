package main

import (
	"flag"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/ogurasousui/seller-registry/internal/platform/config"
	"github.com/ogurasousui/seller-registry/internal/platform/db/migration"
	"github.com/ogurasousui/seller-registry/internal/platform/logger"
	"github.com/rs/zerolog"
)

func main() {
	var (
		configPath    = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		migrationsDir = flag.String("dir", "assets/migrations", "directory containing migration files")
		seedsDir      = flag.String("seeds", "assets/seeds", "directory containing seed files (used by the seed action)")
	)
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfgPath := effectiveConfigPath(*configPath)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		bootLog.Fatal().Err(err).Str("path", cfgPath).Msg("failed to load config")
	}

	log := logger.New(cfg.Log).With().Str("action", action).Logger()

	var result migration.Result
	if action == "seed" {
		result, err = migration.Seed(*seedsDir, cfg.Database.DSN())
	} else {
		result, err = migration.Run(migration.Action(action), *migrationsDir, cfg.Database.DSN())
	}
	if err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	if !result.Applied {
		log.Info().Msg("no migration applied")
		return
	}
	log.Info().Uint("version", result.Version).Bool("dirty", result.Dirty).Msg("migration completed")
}

func effectiveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "assets/local.yaml"
}
