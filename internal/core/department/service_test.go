package department

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/ogurasousui/seller-registry/internal/core/dberr"
)

type fakeRepo struct {
	departments map[int64]*Department
	referenced  map[int64]bool
	seq         int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{departments: make(map[int64]*Department), referenced: make(map[int64]bool)}
}

func (r *fakeRepo) Insert(_ context.Context, d *Department) error {
	if d.Name == "" {
		return dberr.MissingField("department", "name")
	}
	r.seq++
	d.ID = r.seq
	clone := *d
	r.departments[d.ID] = &clone
	return nil
}

func (r *fakeRepo) Update(_ context.Context, d *Department) error {
	if _, ok := r.departments[d.ID]; ok {
		clone := *d
		r.departments[d.ID] = &clone
	}
	return nil
}

func (r *fakeRepo) DeleteByID(_ context.Context, id int64) error {
	if r.referenced[id] {
		return dberr.Integrity("department: delete", errors.New("still referenced"))
	}
	if _, ok := r.departments[id]; !ok {
		return dberr.Integrity("department: delete", errors.New("no rows affected"))
	}
	delete(r.departments, id)
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id int64) (*Department, bool, error) {
	d, ok := r.departments[id]
	if !ok {
		return nil, false, nil
	}
	clone := *d
	return &clone, true, nil
}

func (r *fakeRepo) FindAll(_ context.Context) ([]*Department, error) {
	all := make([]*Department, 0, len(r.departments))
	for _, d := range r.departments {
		clone := *d
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

type recordingTx struct {
	readOnly  int
	readWrite int
}

func (r *recordingTx) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	r.readOnly++
	return fn(ctx)
}

func (r *recordingTx) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	r.readWrite++
	return fn(ctx)
}

func TestService_CreateDepartment(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	tx := &recordingTx{}
	svc := NewService(repo, tx)

	created, err := svc.CreateDepartment(context.Background(), CreateDepartmentInput{Name: "  Computers "})
	if err != nil {
		t.Fatalf("CreateDepartment returned error: %v", err)
	}
	if created.ID != 1 || created.Name != "Computers" {
		t.Fatalf("unexpected department %+v", created)
	}
	if tx.readWrite != 1 {
		t.Fatalf("expected one read-write transaction, got %d", tx.readWrite)
	}
}

func TestService_CreateDepartment_InvalidName(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), nil)

	if _, err := svc.CreateDepartment(context.Background(), CreateDepartmentInput{Name: "   "}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}

	long := make([]rune, maxNameLength+1)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := svc.CreateDepartment(context.Background(), CreateDepartmentInput{Name: string(long)}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName for long name, got %v", err)
	}
}

func TestService_GetDepartment(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, nil)
	created, err := svc.CreateDepartment(context.Background(), CreateDepartmentInput{Name: "Books"})
	if err != nil {
		t.Fatalf("CreateDepartment returned error: %v", err)
	}

	found, err := svc.GetDepartment(context.Background(), GetDepartmentInput{ID: created.ID})
	if err != nil {
		t.Fatalf("GetDepartment returned error: %v", err)
	}
	if found.Name != "Books" {
		t.Fatalf("expected Books, got %s", found.Name)
	}

	if _, err := svc.GetDepartment(context.Background(), GetDepartmentInput{ID: 99}); !errors.Is(err, ErrDepartmentNotFound) {
		t.Fatalf("expected ErrDepartmentNotFound, got %v", err)
	}

	if _, err := svc.GetDepartment(context.Background(), GetDepartmentInput{}); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestService_ListDepartments(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), nil)
	for _, name := range []string{"Fashion", "Books", "Electronics"} {
		if _, err := svc.CreateDepartment(context.Background(), CreateDepartmentInput{Name: name}); err != nil {
			t.Fatalf("CreateDepartment(%s) returned error: %v", name, err)
		}
	}

	all, err := svc.ListDepartments(context.Background())
	if err != nil {
		t.Fatalf("ListDepartments returned error: %v", err)
	}
	if len(all) != 3 || all[0].Name != "Books" || all[2].Name != "Fashion" {
		t.Fatalf("unexpected order: %+v", all)
	}
}

func TestService_UpdateDepartment(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, nil)
	created, _ := svc.CreateDepartment(context.Background(), CreateDepartmentInput{Name: "Books"})

	updated, err := svc.UpdateDepartment(context.Background(), UpdateDepartmentInput{ID: created.ID, Name: "Comics"})
	if err != nil {
		t.Fatalf("UpdateDepartment returned error: %v", err)
	}
	if updated.Name != "Comics" || repo.departments[created.ID].Name != "Comics" {
		t.Fatalf("update not applied: %+v", updated)
	}

	if _, err := svc.UpdateDepartment(context.Background(), UpdateDepartmentInput{ID: 42, Name: "X"}); !errors.Is(err, ErrDepartmentNotFound) {
		t.Fatalf("expected ErrDepartmentNotFound, got %v", err)
	}
}

func TestService_DeleteDepartment(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, nil)
	books, _ := svc.CreateDepartment(context.Background(), CreateDepartmentInput{Name: "Books"})
	music, _ := svc.CreateDepartment(context.Background(), CreateDepartmentInput{Name: "Music"})
	repo.referenced[music.ID] = true

	if err := svc.DeleteDepartment(context.Background(), DeleteDepartmentInput{ID: books.ID}); err != nil {
		t.Fatalf("DeleteDepartment returned error: %v", err)
	}

	if err := svc.DeleteDepartment(context.Background(), DeleteDepartmentInput{ID: music.ID}); !errors.Is(err, dberr.ErrIntegrityViolation) {
		t.Fatalf("expected ErrIntegrityViolation, got %v", err)
	}

	if err := svc.DeleteDepartment(context.Background(), DeleteDepartmentInput{ID: books.ID}); !errors.Is(err, dberr.ErrIntegrityViolation) {
		t.Fatalf("expected ErrIntegrityViolation for missing id, got %v", err)
	}
}
