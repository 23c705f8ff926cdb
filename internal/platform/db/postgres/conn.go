package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/seller-registry/internal/platform/config"
)

// BuildConnConfig は単一接続用の pgx.ConnConfig を構築します。
// プール関連の設定は無視されます。
func BuildConnConfig(cfg config.DatabaseConfig, opts ...Option) (*pgx.ConnConfig, error) {
	connCfg, err := pgx.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}

	for _, opt := range opts {
		opt(connCfg)
	}

	return connCfg, nil
}

// Connect は単一の接続を確立します。
//
// 返される *pgx.Conn は並行利用に対応しないため、CLI など逐次処理での利用を想定しています。
func Connect(ctx context.Context, cfg config.DatabaseConfig, opts ...Option) (*pgx.Conn, error) {
	connCfg, err := BuildConnConfig(cfg, opts...)
	if err != nil {
		return nil, err
	}

	conn, err := pgx.ConnectConfig(ctx, connCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := conn.Ping(pingCtx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return conn, nil
}
