package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/seller-registry/internal/core/dberr"
)

const foreignKeyViolationCode = "23503"

// translateDeleteError は削除失敗を IntegrityViolation に変換します。
// 外部キー違反の場合は dberr.ErrReferenced を原因に加えます。
func translateDeleteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode {
		return dberr.Integrity(op, fmt.Errorf("%w: %w", dberr.ErrReferenced, err))
	}
	return dberr.Integrity(op, err)
}
