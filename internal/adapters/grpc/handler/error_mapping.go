package handler

import (
	"errors"

	"github.com/ogurasousui/seller-registry/internal/core/dberr"
	"github.com/ogurasousui/seller-registry/internal/core/department"
	"github.com/ogurasousui/seller-registry/internal/core/seller"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// errInvalidRequest はリクエストメッセージの形式不正を表します。
var errInvalidRequest = errors.New("invalid request")

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, dberr.ErrMissingField),
		errors.Is(err, seller.ErrInvalidID),
		errors.Is(err, seller.ErrInvalidEmail),
		errors.Is(err, seller.ErrInvalidBirthDate),
		errors.Is(err, seller.ErrInvalidBaseSalary),
		errors.Is(err, department.ErrInvalidID),
		errors.Is(err, department.ErrInvalidName):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, seller.ErrSellerNotFound),
		errors.Is(err, seller.ErrDepartmentNotFound),
		errors.Is(err, department.ErrDepartmentNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, dberr.ErrIntegrityViolation) && errors.Is(err, dberr.ErrNoRowsAffected):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, dberr.ErrIntegrityViolation):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
