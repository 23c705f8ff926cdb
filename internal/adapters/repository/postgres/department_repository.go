package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/seller-registry/internal/core/dberr"
	"github.com/ogurasousui/seller-registry/internal/core/department"
	pgdb "github.com/ogurasousui/seller-registry/internal/platform/db/postgres"
)

// DepartmentRepository は PostgreSQL を利用した部署永続化の実装です。
type DepartmentRepository struct {
	db pgdb.Queryer
}

// NewDepartmentRepository は DepartmentRepository を生成します。
func NewDepartmentRepository(db pgdb.Queryer) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// Insert は部署を登録し、採番された ID を d に設定します。
func (r *DepartmentRepository) Insert(ctx context.Context, d *department.Department) error {
	if d == nil || d.Name == "" {
		return dberr.MissingField("department", "name")
	}

	exec := pgdb.QueryerFromContext(ctx, r.db)
	var id int64
	if err := exec.QueryRow(ctx, `
        INSERT INTO department (name)
        VALUES ($1)
        RETURNING id
    `, d.Name).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dberr.Database("department: insert", dberr.ErrNoRowsAffected)
		}
		return dberr.Database("department: insert", err)
	}

	d.ID = id
	return nil
}

// Update は部署名を更新します。
func (r *DepartmentRepository) Update(ctx context.Context, d *department.Department) error {
	if d == nil || d.ID == 0 {
		return dberr.MissingField("department", "id")
	}
	if d.Name == "" {
		return dberr.MissingField("department", "name")
	}

	exec := pgdb.QueryerFromContext(ctx, r.db)
	if _, err := exec.Exec(ctx, `UPDATE department SET name = $1 WHERE id = $2`, d.Name, d.ID); err != nil {
		return dberr.Database("department: update", err)
	}
	return nil
}

// DeleteByID は部署を削除します。販売員から参照されている場合や存在しない場合は
// dberr.ErrIntegrityViolation を返します。
func (r *DepartmentRepository) DeleteByID(ctx context.Context, id int64) error {
	exec := pgdb.QueryerFromContext(ctx, r.db)
	tag, err := exec.Exec(ctx, `DELETE FROM department WHERE id = $1`, id)
	if err != nil {
		return translateDeleteError("department: delete", err)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Integrity("department: delete", dberr.ErrNoRowsAffected)
	}
	return nil
}

// FindByID は ID で部署を取得します。
func (r *DepartmentRepository) FindByID(ctx context.Context, id int64) (*department.Department, bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.db)
	row := exec.QueryRow(ctx, `
        SELECT id, name
          FROM department
         WHERE id = $1
    `, id)

	found, err := scanDepartment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, dberr.Database("department: find by id", err)
	}
	return found, true, nil
}

// FindAll は部署を名前順で取得します。
func (r *DepartmentRepository) FindAll(ctx context.Context) ([]*department.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.db)
	rows, err := exec.Query(ctx, `
        SELECT id, name
          FROM department
         ORDER BY name
    `)
	if err != nil {
		return nil, dberr.Database("department: find all", err)
	}
	defer rows.Close()

	departments := make([]*department.Department, 0)
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, dberr.Database("department: find all", err)
		}
		departments = append(departments, d)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Database("department: find all", err)
	}

	return departments, nil
}

func scanDepartment(row pgx.Row) (*department.Department, error) {
	var (
		id   int64
		name string
	)
	if err := row.Scan(&id, &name); err != nil {
		return nil, err
	}
	return &department.Department{ID: id, Name: name}, nil
}
