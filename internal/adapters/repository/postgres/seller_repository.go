package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/seller-registry/internal/core/dberr"
	"github.com/ogurasousui/seller-registry/internal/core/department"
	"github.com/ogurasousui/seller-registry/internal/core/seller"
	pgdb "github.com/ogurasousui/seller-registry/internal/platform/db/postgres"
)

const sellerJoinQuery = `
        SELECT s.id, s.name, s.email, s.birth_date, s.base_salary, s.department_id, d.name AS dep_name
          FROM seller s
         INNER JOIN department d ON s.department_id = d.id`

// SellerRepository は PostgreSQL を利用した販売員永続化の実装です。
//
// db に *pgx.Conn を渡した場合、同時に複数の呼び出し元から利用してはいけません。
type SellerRepository struct {
	db pgdb.Queryer
}

// NewSellerRepository は SellerRepository を生成します。
func NewSellerRepository(db pgdb.Queryer) *SellerRepository {
	return &SellerRepository{db: db}
}

// Insert は販売員を登録し、採番された ID を s に設定します。
func (r *SellerRepository) Insert(ctx context.Context, s *seller.Seller) error {
	if err := seller.CheckRequired(s); err != nil {
		return err
	}

	exec := pgdb.QueryerFromContext(ctx, r.db)
	var id int64
	if err := exec.QueryRow(ctx, `
        INSERT INTO seller (name, email, birth_date, base_salary, department_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `,
		s.Name,
		s.Email,
		dateOnly(s.BirthDate),
		*s.BaseSalary,
		s.Department.ID,
	).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dberr.Database("seller: insert", dberr.ErrNoRowsAffected)
		}
		return dberr.Database("seller: insert", err)
	}

	s.ID = id
	return nil
}

// Update は ID を条件に全項目を上書きします。該当行が無い場合も成功として扱います。
func (r *SellerRepository) Update(ctx context.Context, s *seller.Seller) error {
	if err := seller.CheckRequiredForUpdate(s); err != nil {
		return err
	}

	exec := pgdb.QueryerFromContext(ctx, r.db)
	if _, err := exec.Exec(ctx, `
        UPDATE seller
           SET name = $1,
               email = $2,
               birth_date = $3,
               base_salary = $4,
               department_id = $5
         WHERE id = $6
    `,
		s.Name,
		s.Email,
		dateOnly(s.BirthDate),
		*s.BaseSalary,
		s.Department.ID,
		s.ID,
	); err != nil {
		return dberr.Database("seller: update", err)
	}
	return nil
}

// DeleteByID は販売員を削除します。
func (r *SellerRepository) DeleteByID(ctx context.Context, id int64) error {
	exec := pgdb.QueryerFromContext(ctx, r.db)
	tag, err := exec.Exec(ctx, `DELETE FROM seller WHERE id = $1`, id)
	if err != nil {
		return translateDeleteError("seller: delete", err)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Integrity("seller: delete", dberr.ErrNoRowsAffected)
	}
	return nil
}

// FindByID は ID で販売員を所属部署付きで取得します。該当しない場合は (nil, false, nil) です。
func (r *SellerRepository) FindByID(ctx context.Context, id int64) (*seller.Seller, bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.db)
	row := exec.QueryRow(ctx, sellerJoinQuery+`
         WHERE s.id = $1
    `, id)

	found, err := scanSeller(row, make(map[int64]*department.Department, 1))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, dberr.Database("seller: find by id", err)
	}
	return found, true, nil
}

// FindAll は全販売員を名前の昇順で取得します。
func (r *SellerRepository) FindAll(ctx context.Context) ([]*seller.Seller, error) {
	return r.findMany(ctx, "seller: find all", sellerJoinQuery+`
         ORDER BY s.name
    `)
}

// FindByDepartment は指定部署に所属する販売員を名前の昇順で取得します。
func (r *SellerRepository) FindByDepartment(ctx context.Context, dep *department.Department) ([]*seller.Seller, error) {
	if dep == nil {
		return nil, dberr.MissingField("seller", "department")
	}

	return r.findMany(ctx, "seller: find by department", sellerJoinQuery+`
         WHERE s.department_id = $1
         ORDER BY s.name
    `, dep.ID)
}

func (r *SellerRepository) findMany(ctx context.Context, op, query string, args ...any) ([]*seller.Seller, error) {
	exec := pgdb.QueryerFromContext(ctx, r.db)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Database(op, err)
	}
	defer rows.Close()

	// 部署は呼び出し単位でのみ共有します。
	departments := make(map[int64]*department.Department)
	sellers := make([]*seller.Seller, 0)
	for rows.Next() {
		s, err := scanSeller(rows, departments)
		if err != nil {
			return nil, dberr.Database(op, err)
		}
		sellers = append(sellers, s)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Database(op, err)
	}

	return sellers, nil
}

// scanSeller は結合結果の 1 行を販売員に変換します。部署は departments から引き当て、
// 無ければ生成して登録します。
func scanSeller(row pgx.Row, departments map[int64]*department.Department) (*seller.Seller, error) {
	var (
		id           int64
		name         string
		email        string
		birthDate    time.Time
		baseSalary   float64
		departmentID int64
		depName      string
	)

	if err := row.Scan(&id, &name, &email, &birthDate, &baseSalary, &departmentID, &depName); err != nil {
		return nil, err
	}

	dep, ok := departments[departmentID]
	if !ok {
		dep = &department.Department{ID: departmentID, Name: depName}
		departments[departmentID] = dep
	}

	return &seller.Seller{
		ID:         id,
		Name:       name,
		Email:      email,
		BirthDate:  dateOnly(birthDate),
		BaseSalary: &baseSalary,
		Department: dep,
	}, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
