package department

import "context"

// Repository は部署永続化の抽象です。
//
// FindByID は該当行が無い場合に (nil, false, nil) を返します。
type Repository interface {
	Insert(ctx context.Context, d *Department) error
	Update(ctx context.Context, d *Department) error
	DeleteByID(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Department, bool, error)
	FindAll(ctx context.Context) ([]*Department, error)
}
