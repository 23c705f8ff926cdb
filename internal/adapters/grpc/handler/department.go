package handler

import (
	"context"

	"github.com/ogurasousui/seller-registry/internal/core/department"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// DepartmentGrpcHandler は DepartmentService の gRPC 実装です。
type DepartmentGrpcHandler struct {
	svc department.UseCase
}

var _ DepartmentServiceServer = (*DepartmentGrpcHandler)(nil)

// NewDepartmentGrpcHandler は DepartmentGrpcHandler を生成します。
func NewDepartmentGrpcHandler(svc department.UseCase) *DepartmentGrpcHandler {
	return &DepartmentGrpcHandler{svc: svc}
}

// CreateDepartment は部署を作成します。
func (h *DepartmentGrpcHandler) CreateDepartment(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	created, err := h.svc.CreateDepartment(ctx, department.CreateDepartmentInput{Name: req.GetValue()})
	if err != nil {
		return nil, toStatusError(err)
	}

	return toStructDepartment(created).GetStructValue(), nil
}

// GetDepartment は部署を取得します。
func (h *DepartmentGrpcHandler) GetDepartment(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	found, err := h.svc.GetDepartment(ctx, department.GetDepartmentInput{ID: req.GetValue()})
	if err != nil {
		return nil, toStatusError(err)
	}

	return toStructDepartment(found).GetStructValue(), nil
}

// ListDepartments は部署の一覧を取得します。
func (h *DepartmentGrpcHandler) ListDepartments(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	deps, err := h.svc.ListDepartments(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	values := make([]*structpb.Value, 0, len(deps))
	for _, d := range deps {
		values = append(values, toStructDepartment(d))
	}

	return &structpb.ListValue{Values: values}, nil
}

// UpdateDepartment は部署名を更新します。
func (h *DepartmentGrpcHandler) UpdateDepartment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, err := int64Field(req, "id")
	if err != nil {
		return nil, toStatusError(err)
	}
	name, err := stringField(req, "name")
	if err != nil {
		return nil, toStatusError(err)
	}

	updated, err := h.svc.UpdateDepartment(ctx, department.UpdateDepartmentInput{ID: id, Name: name})
	if err != nil {
		return nil, toStatusError(err)
	}

	return toStructDepartment(updated).GetStructValue(), nil
}

// DeleteDepartment は部署を削除します。
func (h *DepartmentGrpcHandler) DeleteDepartment(ctx context.Context, req *wrapperspb.Int64Value) (*emptypb.Empty, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	if err := h.svc.DeleteDepartment(ctx, department.DeleteDepartmentInput{ID: req.GetValue()}); err != nil {
		return nil, toStatusError(err)
	}

	return &emptypb.Empty{}, nil
}
