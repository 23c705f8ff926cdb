package seller

import (
	"context"
	"math"
	"net/mail"
	"strings"
	"time"

	"github.com/ogurasousui/seller-registry/internal/core/dberr"
	"github.com/ogurasousui/seller-registry/internal/core/department"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// DepartmentFinder は販売員の所属部署を解決します。department.Repository が満たします。
type DepartmentFinder interface {
	FindByID(ctx context.Context, id int64) (*department.Department, bool, error)
}

// UseCase は販売員ユースケースの公開インターフェースです。
type UseCase interface {
	CreateSeller(ctx context.Context, in CreateSellerInput) (*Seller, error)
	GetSeller(ctx context.Context, in GetSellerInput) (*Seller, error)
	ListSellers(ctx context.Context, in ListSellersInput) ([]*Seller, error)
	UpdateSeller(ctx context.Context, in UpdateSellerInput) (*Seller, error)
	DeleteSeller(ctx context.Context, in DeleteSellerInput) error
}

// Service は販売員に関するユースケースをまとめます。
type Service struct {
	repo        Repository
	departments DepartmentFinder
	clock       Clock
	tx          TransactionManager
}

// NewService は Service を生成します。
func NewService(repo Repository, departments DepartmentFinder, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, departments: departments, clock: clock, tx: tx}
}

// CreateSellerInput は販売員作成時の入力です。
type CreateSellerInput struct {
	Name         string
	Email        string
	BirthDate    time.Time
	BaseSalary   *float64
	DepartmentID int64
}

// UpdateSellerInput は販売員更新時の入力です。全項目を置き換えます。
type UpdateSellerInput struct {
	ID           int64
	Name         string
	Email        string
	BirthDate    time.Time
	BaseSalary   *float64
	DepartmentID int64
}

// GetSellerInput は販売員取得時の入力です。
type GetSellerInput struct {
	ID int64
}

// ListSellersInput は一覧取得時の入力です。DepartmentID が 0 の場合は全件を返します。
type ListSellersInput struct {
	DepartmentID int64
}

// DeleteSellerInput は販売員削除時の入力です。
type DeleteSellerInput struct {
	ID int64
}

// CreateSeller は販売員を登録します。
//
// 空の項目はそのままリポジトリへ渡し、dberr.ErrMissingField として返却されます。
func (s *Service) CreateSeller(ctx context.Context, in CreateSellerInput) (*Seller, error) {
	fields, err := s.normalizeFields(in.Name, in.Email, in.BirthDate, in.BaseSalary)
	if err != nil {
		return nil, err
	}

	var created *Seller
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		dep, err := s.resolveDepartment(txCtx, in.DepartmentID)
		if err != nil {
			return err
		}

		seller := fields.toSeller(0, dep)
		if err := s.repo.Insert(txCtx, seller); err != nil {
			return err
		}
		created = seller
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateSeller は販売員情報を置き換えます。存在しない ID は ErrSellerNotFound になります。
func (s *Service) UpdateSeller(ctx context.Context, in UpdateSellerInput) (*Seller, error) {
	if in.ID < 0 {
		return nil, ErrInvalidID
	}
	if in.ID == 0 {
		return nil, dberr.MissingField(entityName, "id")
	}

	fields, err := s.normalizeFields(in.Name, in.Email, in.BirthDate, in.BaseSalary)
	if err != nil {
		return nil, err
	}

	var updated *Seller
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		dep, err := s.resolveDepartment(txCtx, in.DepartmentID)
		if err != nil {
			return err
		}

		seller := fields.toSeller(in.ID, dep)
		if err := CheckRequiredForUpdate(seller); err != nil {
			return err
		}

		// リポジトリは 0 件更新を成功扱いにするため、ここで存在確認を行います。
		if _, ok, err := s.repo.FindByID(txCtx, in.ID); err != nil {
			return err
		} else if !ok {
			return ErrSellerNotFound
		}

		if err := s.repo.Update(txCtx, seller); err != nil {
			return err
		}
		updated = seller
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteSeller は販売員を削除します。
func (s *Service) DeleteSeller(ctx context.Context, in DeleteSellerInput) error {
	if in.ID <= 0 {
		return ErrInvalidID
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.DeleteByID(txCtx, in.ID)
	})
}

// GetSeller は販売員を所属部署付きで取得します。
func (s *Service) GetSeller(ctx context.Context, in GetSellerInput) (*Seller, error) {
	if in.ID <= 0 {
		return nil, ErrInvalidID
	}

	var result *Seller
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, ok, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrSellerNotFound
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ListSellers は販売員を名前の昇順で取得します。
func (s *Service) ListSellers(ctx context.Context, in ListSellersInput) ([]*Seller, error) {
	if in.DepartmentID < 0 {
		return nil, ErrDepartmentNotFound
	}

	var result []*Seller
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		if in.DepartmentID == 0 {
			found, err := s.repo.FindAll(txCtx)
			if err != nil {
				return err
			}
			result = found
			return nil
		}

		dep, err := s.resolveDepartment(txCtx, in.DepartmentID)
		if err != nil {
			return err
		}
		found, err := s.repo.FindByDepartment(txCtx, dep)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// resolveDepartment は ID 0 を未設定として nil を返します。
func (s *Service) resolveDepartment(ctx context.Context, id int64) (*department.Department, error) {
	if id == 0 {
		return nil, nil
	}
	if id < 0 || s.departments == nil {
		return nil, ErrDepartmentNotFound
	}

	dep, ok, err := s.departments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDepartmentNotFound
	}
	return dep, nil
}

type sellerFields struct {
	name       string
	email      string
	birthDate  time.Time
	baseSalary *float64
}

func (f sellerFields) toSeller(id int64, dep *department.Department) *Seller {
	return &Seller{
		ID:         id,
		Name:       f.name,
		Email:      f.email,
		BirthDate:  f.birthDate,
		BaseSalary: f.baseSalary,
		Department: dep,
	}
}

func (s *Service) normalizeFields(name, email string, birthDate time.Time, baseSalary *float64) (sellerFields, error) {
	normalizedEmail, err := normalizeEmail(email)
	if err != nil {
		return sellerFields{}, err
	}

	date := normalizeDate(birthDate)
	if !date.IsZero() && date.After(s.clock.Now()) {
		return sellerFields{}, ErrInvalidBirthDate
	}

	var salary *float64
	if baseSalary != nil {
		if *baseSalary < 0 || math.IsNaN(*baseSalary) || math.IsInf(*baseSalary, 0) {
			return sellerFields{}, ErrInvalidBaseSalary
		}
		value := *baseSalary
		salary = &value
	}

	return sellerFields{
		name:       strings.TrimSpace(name),
		email:      normalizedEmail,
		birthDate:  date,
		baseSalary: salary,
	}, nil
}

// normalizeEmail は空文字をそのまま返し、欠落の判定をリポジトリに委ねます。
func normalizeEmail(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}

	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return "", ErrInvalidEmail
	}

	return strings.ToLower(addr.Address), nil
}

func normalizeDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
