package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/seller-registry/internal/core/dberr"
	"github.com/ogurasousui/seller-registry/internal/core/department"
	"github.com/ogurasousui/seller-registry/internal/core/seller"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sellerColumns = []string{"id", "name", "email", "birth_date", "base_salary", "department_id", "dep_name"}

func newSellerMock(t *testing.T) (pgxmock.PgxPoolIface, *SellerRepository) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, NewSellerRepository(mock)
}

func newSeller() *seller.Seller {
	salary := 3000.0
	return &seller.Seller{
		Name:       "Bob Brown",
		Email:      "bob@example.com",
		BirthDate:  time.Date(1998, 4, 21, 0, 0, 0, 0, time.UTC),
		BaseSalary: &salary,
		Department: &department.Department{ID: 2, Name: "Electronics"},
	}
}

func TestSellerRepository_Insert_AssignsID(t *testing.T) {
	t.Parallel()

	mock, repo := newSellerMock(t)
	s := newSeller()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO seller (name, email, birth_date, base_salary, department_id)`)).
		WithArgs("Bob Brown", "bob@example.com", time.Date(1998, 4, 21, 0, 0, 0, 0, time.UTC), 3000.0, int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	require.NoError(t, repo.Insert(context.Background(), s))
	assert.Equal(t, int64(7), s.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSellerRepository_Insert_MissingFieldBeforeIO(t *testing.T) {
	t.Parallel()

	cases := map[string]func(s *seller.Seller){
		"name":        func(s *seller.Seller) { s.Name = "" },
		"email":       func(s *seller.Seller) { s.Email = "" },
		"department":  func(s *seller.Seller) { s.Department = nil },
		"birth date":  func(s *seller.Seller) { s.BirthDate = time.Time{} },
		"base salary": func(s *seller.Seller) { s.BaseSalary = nil },
	}

	for field, mutate := range cases {
		field, mutate := field, mutate
		t.Run(field, func(t *testing.T) {
			t.Parallel()

			mock, repo := newSellerMock(t)
			s := newSeller()
			mutate(s)

			err := repo.Insert(context.Background(), s)

			var mfErr *dberr.MissingFieldError
			require.ErrorAs(t, err, &mfErr)
			assert.Equal(t, field, mfErr.Field)
			assert.ErrorIs(t, err, dberr.ErrMissingField)
			assert.Zero(t, s.ID)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSellerRepository_Insert_NoRowsAffected(t *testing.T) {
	t.Parallel()

	mock, repo := newSellerMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO seller`)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	err := repo.Insert(context.Background(), newSeller())
	assert.ErrorIs(t, err, dberr.ErrDatabase)
	assert.ErrorIs(t, err, dberr.ErrNoRowsAffected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSellerRepository_Insert_DriverError(t *testing.T) {
	t.Parallel()

	mock, repo := newSellerMock(t)
	pgErr := &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "seller_department_id_fkey"}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO seller`)).WillReturnError(pgErr)

	err := repo.Insert(context.Background(), newSeller())
	assert.ErrorIs(t, err, dberr.ErrDatabase)
	assert.NotErrorIs(t, err, dberr.ErrIntegrityViolation)

	var target *pgconn.PgError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "seller_department_id_fkey", target.ConstraintName)
}

func TestSellerRepository_Update(t *testing.T) {
	t.Parallel()

	mock, repo := newSellerMock(t)
	s := newSeller()
	s.ID = 7

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE seller`)).
		WithArgs("Bob Brown", "bob@example.com", time.Date(1998, 4, 21, 0, 0, 0, 0, time.UTC), 3000.0, int64(2), int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.Update(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSellerRepository_Update_UnknownIDIsSilent(t *testing.T) {
	t.Parallel()

	mock, repo := newSellerMock(t)
	s := newSeller()
	s.ID = 404

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE seller`)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.NoError(t, repo.Update(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSellerRepository_Update_MissingID(t *testing.T) {
	t.Parallel()

	mock, repo := newSellerMock(t)

	err := repo.Update(context.Background(), newSeller())

	var mfErr *dberr.MissingFieldError
	require.ErrorAs(t, err, &mfErr)
	assert.Equal(t, "id", mfErr.Field)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSellerRepository_Update_DriverError(t *testing.T) {
	t.Parallel()

	mock, repo := newSellerMock(t)
	s := newSeller()
	s.ID = 1

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE seller`)).WillReturnError(errors.New("conn closed"))

	assert.ErrorIs(t, repo.Update(context.Background(), s), dberr.ErrDatabase)
}

func TestSellerRepository_DeleteByID(t *testing.T) {
	t.Parallel()

	mock, repo := newSellerMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM seller WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.DeleteByID(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSellerRepository_DeleteByID_NotFound(t *testing.T) {
	t.Parallel()

	mock, repo := newSellerMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM seller WHERE id = $1`)).
		WithArgs(int64(99)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.DeleteByID(context.Background(), 99)
	assert.ErrorIs(t, err, dberr.ErrIntegrityViolation)
	assert.ErrorIs(t, err, dberr.ErrNoRowsAffected)
	assert.NotErrorIs(t, err, dberr.ErrDatabase)
}

func TestSellerRepository_DeleteByID_Referenced(t *testing.T) {
	t.Parallel()

	mock, repo := newSellerMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM seller WHERE id = $1`)).
		WithArgs(int64(5)).
		WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode})

	err := repo.DeleteByID(context.Background(), 5)
	assert.ErrorIs(t, err, dberr.ErrIntegrityViolation)
	assert.ErrorIs(t, err, dberr.ErrReferenced)
}

func TestSellerRepository_DeleteByID_OtherDriverError(t *testing.T) {
	t.Parallel()

	mock, repo := newSellerMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM seller`)).WillReturnError(errors.New("timeout"))

	err := repo.DeleteByID(context.Background(), 5)
	assert.ErrorIs(t, err, dberr.ErrIntegrityViolation)
	assert.NotErrorIs(t, err, dberr.ErrReferenced)
}

func TestSellerRepository_FindByID(t *testing.T) {
	t.Parallel()

	mock, repo := newSellerMock(t)
	birth := time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INNER JOIN department d ON s.department_id = d.id`)).
		WithArgs(int64(4)).
		WillReturnRows(pgxmock.NewRows(sellerColumns).
			AddRow(int64(4), "Carol", "carol@example.com", birth, 2500.5, int64(1), "Computers"))

	found, ok, err := repo.FindByID(context.Background(), 4)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, int64(4), found.ID)
	assert.Equal(t, "Carol", found.Name)
	assert.Equal(t, "carol@example.com", found.Email)
	assert.True(t, found.BirthDate.Equal(birth))
	require.NotNil(t, found.BaseSalary)
	assert.Equal(t, 2500.5, *found.BaseSalary)
	assert.Equal(t, &department.Department{ID: 1, Name: "Computers"}, found.Department)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSellerRepository_FindByID_NotFound(t *testing.T) {
	t.Parallel()

	mock, repo := newSellerMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE s.id = $1`)).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows(sellerColumns))

	found, ok, err := repo.FindByID(context.Background(), 42)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, found)
}

func TestSellerRepository_FindByID_DriverError(t *testing.T) {
	t.Parallel()

	mock, repo := newSellerMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE s.id = $1`)).WillReturnError(errors.New("broken pipe"))

	_, ok, err := repo.FindByID(context.Background(), 1)
	assert.False(t, ok)
	assert.ErrorIs(t, err, dberr.ErrDatabase)
}

func TestSellerRepository_FindAll_OrderedAndDeduplicated(t *testing.T) {
	t.Parallel()

	mock, repo := newSellerMock(t)
	birth := time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC)

	// ORDER BY はデータベース側で評価されるため、結果はそのままの順序で返る前提です。
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY s.name`)).
		WillReturnRows(pgxmock.NewRows(sellerColumns).
			AddRow(int64(2), "Alice", "alice@example.com", birth, 1000.0, int64(1), "Computers").
			AddRow(int64(1), "Bob", "bob@example.com", birth, 2000.0, int64(2), "Electronics").
			AddRow(int64(3), "Carol", "carol@example.com", birth, 3000.0, int64(1), "Computers"))

	sellers, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, sellers, 3)

	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, []string{sellers[0].Name, sellers[1].Name, sellers[2].Name})
	assert.Same(t, sellers[0].Department, sellers[2].Department)
	assert.NotSame(t, sellers[0].Department, sellers[1].Department)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSellerRepository_FindAll_NoCrossCallSharing(t *testing.T) {
	t.Parallel()

	mock, repo := newSellerMock(t)
	birth := time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY s.name`)).
			WillReturnRows(pgxmock.NewRows(sellerColumns).
				AddRow(int64(1), "Alice", "alice@example.com", birth, 1000.0, int64(1), "Computers"))
	}

	first, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	second, err := repo.FindAll(context.Background())
	require.NoError(t, err)

	assert.NotSame(t, first[0].Department, second[0].Department)
	assert.Equal(t, first[0].Department, second[0].Department)
}

func TestSellerRepository_FindAll_Empty(t *testing.T) {
	t.Parallel()

	mock, repo := newSellerMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY s.name`)).
		WillReturnRows(pgxmock.NewRows(sellerColumns))

	sellers, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, sellers)
	assert.Empty(t, sellers)
}

func TestSellerRepository_FindAll_RowError(t *testing.T) {
	t.Parallel()

	mock, repo := newSellerMock(t)
	birth := time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY s.name`)).
		WillReturnRows(pgxmock.NewRows(sellerColumns).
			AddRow(int64(1), "Alice", "alice@example.com", birth, 1000.0, int64(1), "Computers").
			RowError(0, errors.New("row decode failed")))

	_, err := repo.FindAll(context.Background())
	assert.ErrorIs(t, err, dberr.ErrDatabase)
}

func TestSellerRepository_FindByDepartment(t *testing.T) {
	t.Parallel()

	mock, repo := newSellerMock(t)
	birth := time.Date(1985, 6, 30, 0, 0, 0, 0, time.UTC)
	dep := &department.Department{ID: 1, Name: "Computers"}

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE s.department_id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(sellerColumns).
			AddRow(int64(2), "Alice", "alice@example.com", birth, 1000.0, int64(1), "Computers").
			AddRow(int64(3), "Carol", "carol@example.com", birth, 3000.0, int64(1), "Computers"))

	sellers, err := repo.FindByDepartment(context.Background(), dep)
	require.NoError(t, err)
	require.Len(t, sellers, 2)
	assert.Same(t, sellers[0].Department, sellers[1].Department)
	assert.Equal(t, "Computers", sellers[1].Department.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSellerRepository_FindByDepartment_NilDepartment(t *testing.T) {
	t.Parallel()

	mock, repo := newSellerMock(t)

	_, err := repo.FindByDepartment(context.Background(), nil)
	assert.ErrorIs(t, err, dberr.ErrMissingField)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSellerRepository_WithSingleConnection(t *testing.T) {
	t.Parallel()

	conn, err := pgxmock.NewConn()
	require.NoError(t, err)
	defer conn.Close(context.Background())

	repo := NewSellerRepository(conn)

	conn.ExpectExec(regexp.QuoteMeta(`DELETE FROM seller WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.DeleteByID(context.Background(), 1))
	assert.NoError(t, conn.ExpectationsWereMet())
}
