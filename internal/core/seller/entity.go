package seller

import (
	"time"

	"github.com/ogurasousui/seller-registry/internal/core/department"
)

// Seller は販売員エンティティです。
//
// ID が 0 の場合は未永続化を表します。BaseSalary と Department は nil で未設定を表します。
type Seller struct {
	ID         int64
	Name       string
	Email      string
	BirthDate  time.Time
	BaseSalary *float64
	Department *department.Department
}
