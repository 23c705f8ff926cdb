package seller

import (
	"context"

	"github.com/ogurasousui/seller-registry/internal/core/dberr"
	"github.com/ogurasousui/seller-registry/internal/core/department"
)

const entityName = "seller"

// Repository は販売員永続化の抽象です。
//
// 読み取り系は部署を内部結合で同時に取得し、同一呼び出し内で同じ部署 ID を持つ販売員には
// 同じ *department.Department を割り当てます。呼び出しをまたいだキャッシュは行いません。
type Repository interface {
	// Insert は採番された ID を s に設定します。
	Insert(ctx context.Context, s *Seller) error
	// Update は ID 以外の全項目を上書きします。対象が存在しなくてもエラーにはなりません。
	Update(ctx context.Context, s *Seller) error
	// DeleteByID は制約違反・対象不在のいずれも dberr.ErrIntegrityViolation として返します。
	DeleteByID(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Seller, bool, error)
	FindAll(ctx context.Context) ([]*Seller, error)
	FindByDepartment(ctx context.Context, dep *department.Department) ([]*Seller, error)
}

// CheckRequired は永続化前の必須項目を検査し、最初に欠落していた項目を
// dberr.MissingFieldError として返します。
func CheckRequired(s *Seller) error {
	switch {
	case s == nil:
		return dberr.MissingField(entityName, "seller")
	case s.Name == "":
		return dberr.MissingField(entityName, "name")
	case s.Email == "":
		return dberr.MissingField(entityName, "email")
	case s.Department == nil:
		return dberr.MissingField(entityName, "department")
	case s.BirthDate.IsZero():
		return dberr.MissingField(entityName, "birth date")
	case s.BaseSalary == nil:
		return dberr.MissingField(entityName, "base salary")
	}
	return nil
}

// CheckRequiredForUpdate は CheckRequired に加えて ID の設定を検査します。
func CheckRequiredForUpdate(s *Seller) error {
	if s != nil && s.ID == 0 {
		return dberr.MissingField(entityName, "id")
	}
	return CheckRequired(s)
}
