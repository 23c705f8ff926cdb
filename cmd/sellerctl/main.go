// sellerctl は単一のデータベース接続で販売員リポジトリを直接操作するコマンドです。
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/ogurasousui/seller-registry/internal/adapters/repository/postgres"
	"github.com/ogurasousui/seller-registry/internal/platform/config"
	pg "github.com/ogurasousui/seller-registry/internal/platform/db/postgres"
	"github.com/ogurasousui/seller-registry/internal/platform/logger"
	"github.com/rs/zerolog"
)

const usage = `usage: sellerctl <command> [flags]

commands:
  list                          list all sellers ordered by name
  get <id>                      show a seller
  by-dept <department-id>       list sellers of a department
  insert -name -email -birth -salary -dept
  update -id -name -email -birth -salary -dept
  delete <id>                   delete a seller
  departments                   list departments
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		bootLog.Fatal().Err(err).Str("path", cfgPath).Msg("failed to load config")
	}

	log := logger.New(cfg.Log)

	var opts []pg.Option
	if cfg.Log.SQLTrace {
		opts = append(opts, pg.WithTracer(logger.NewQueryTracer(log)))
	}

	conn, err := pg.Connect(ctx, cfg.Database, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	defer conn.Close(context.Background())

	cli := &cli{
		sellers:     postgres.NewSellerRepository(conn),
		departments: postgres.NewDepartmentRepository(conn),
		out:         os.Stdout,
	}

	if err := cli.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		log.Error().Err(err).Str("command", os.Args[1]).Msg("command failed")
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")
