package department

// Department は部署エンティティです。
type Department struct {
	ID   int64
	Name string
}
