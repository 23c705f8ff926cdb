package handler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ogurasousui/seller-registry/internal/core/dberr"
	"github.com/ogurasousui/seller-registry/internal/core/department"
	"github.com/ogurasousui/seller-registry/internal/core/seller"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToStatusError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{name: "missing field", err: dberr.MissingField("seller", "name"), want: codes.InvalidArgument},
		{name: "malformed request", err: fmt.Errorf("%w: id must be a number", errInvalidRequest), want: codes.InvalidArgument},
		{name: "invalid email", err: seller.ErrInvalidEmail, want: codes.InvalidArgument},
		{name: "invalid department name", err: department.ErrInvalidName, want: codes.InvalidArgument},
		{name: "seller not found", err: seller.ErrSellerNotFound, want: codes.NotFound},
		{name: "unknown department", err: seller.ErrDepartmentNotFound, want: codes.NotFound},
		{name: "delete without rows", err: dberr.Integrity("seller: delete", dberr.ErrNoRowsAffected), want: codes.NotFound},
		{name: "delete referenced", err: dberr.Integrity("department: delete", dberr.ErrReferenced), want: codes.FailedPrecondition},
		{name: "database", err: dberr.Database("seller: find all", errors.New("conn refused")), want: codes.Internal},
		{name: "unknown", err: errors.New("boom"), want: codes.Internal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := status.Code(toStatusError(tt.err)); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}

	if toStatusError(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}
