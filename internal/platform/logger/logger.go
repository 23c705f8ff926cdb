// Package logger は zerolog ベースのアプリケーションロガーを構築します。
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/jackc/pgx/v5/tracelog"
	pgxzerolog "github.com/jackc/pgx-zerolog"
	"github.com/ogurasousui/seller-registry/internal/platform/config"
	"github.com/rs/zerolog"
)

const serviceName = "seller-registry"

// New は設定に従ってロガーを生成します。出力先は標準エラーです。
func New(cfg config.LogConfig) zerolog.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter は出力先を指定してロガーを生成します。
func NewWithWriter(cfg config.LogConfig, w io.Writer) zerolog.Logger {
	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// ParseLevel はレベル文字列を zerolog のレベルに変換します。不明な値は info です。
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// NewQueryTracer は pgx のクエリを logger に出力するトレーサーを返します。
// 出力レベルは logger のレベルに揃えます。
func NewQueryTracer(logger zerolog.Logger) *tracelog.TraceLog {
	return &tracelog.TraceLog{
		Logger:   pgxzerolog.NewLogger(logger),
		LogLevel: traceLevel(logger.GetLevel()),
	}
}

func traceLevel(level zerolog.Level) tracelog.LogLevel {
	switch {
	case level <= zerolog.TraceLevel:
		return tracelog.LogLevelTrace
	case level == zerolog.DebugLevel:
		return tracelog.LogLevelDebug
	case level == zerolog.InfoLevel:
		return tracelog.LogLevelInfo
	case level == zerolog.WarnLevel:
		return tracelog.LogLevelWarn
	default:
		return tracelog.LogLevelError
	}
}

// FromContext はコンテキストに紐付いたロガーを返します。無い場合は fallback です。
func FromContext(ctx context.Context, fallback zerolog.Logger) zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return *l
	}
	return fallback
}
