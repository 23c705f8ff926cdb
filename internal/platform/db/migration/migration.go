// Package migration は golang-migrate を用いたスキーマとシードの適用を扱います。
package migration

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// SeedsTable はシード適用履歴を保持するテーブル名です。スキーマの履歴とは分けて管理します。
const SeedsTable = "seed_migrations"

// Action は実行する操作です。
type Action string

const (
	ActionUp      Action = "up"
	ActionDown    Action = "down"
	ActionDrop    Action = "drop"
	ActionVersion Action = "version"
)

// Result は実行後のバージョン情報です。
type Result struct {
	Version uint
	Dirty   bool
	Applied bool
}

// Run は dir のマイグレーションに対して action を実行します。
func Run(action Action, dir, dsn string) (Result, error) {
	switch action {
	case ActionUp, ActionDown, ActionDrop, ActionVersion:
	default:
		return Result{}, fmt.Errorf("unsupported action %q", action)
	}

	m, err := open(dir, dsn)
	if err != nil {
		return Result{}, err
	}
	defer m.Close()

	switch action {
	case ActionUp:
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return Result{}, err
		}
	case ActionDown:
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return Result{}, err
		}
	case ActionDrop:
		if err := m.Drop(); err != nil {
			return Result{}, err
		}
		return Result{}, nil
	}

	return version(m)
}

// Seed は dir のシードを SeedsTable の履歴で適用します。
func Seed(dir, dsn string) (Result, error) {
	seedDSN, err := withMigrationsTable(dsn, SeedsTable)
	if err != nil {
		return Result{}, err
	}
	return Run(ActionUp, dir, seedDSN)
}

func open(dir, dsn string) (*migrate.Migrate, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve path for %s: %w", dir, err)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(absDir), dsn)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}

func version(m *migrate.Migrate) (Result, error) {
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Result{}, nil
	}
	if err != nil {
		return Result{}, err
	}
	return Result{Version: v, Dirty: dirty, Applied: true}, nil
}

func withMigrationsTable(dsn, table string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse dsn: %w", err)
	}
	q := u.Query()
	q.Set("x-migrations-table", table)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
