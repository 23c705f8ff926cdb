package handler

import (
	"context"

	"github.com/ogurasousui/seller-registry/internal/core/seller"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// SellerGrpcHandler は SellerService の gRPC 実装です。
type SellerGrpcHandler struct {
	svc seller.UseCase
}

var _ SellerServiceServer = (*SellerGrpcHandler)(nil)

// NewSellerGrpcHandler は SellerGrpcHandler を生成します。
func NewSellerGrpcHandler(svc seller.UseCase) *SellerGrpcHandler {
	return &SellerGrpcHandler{svc: svc}
}

// CreateSeller は販売員を登録します。
func (h *SellerGrpcHandler) CreateSeller(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	msg, err := parseSellerMessage(req)
	if err != nil {
		return nil, toStatusError(err)
	}

	created, err := h.svc.CreateSeller(ctx, seller.CreateSellerInput{
		Name:         msg.name,
		Email:        msg.email,
		BirthDate:    msg.birthDate,
		BaseSalary:   msg.baseSalary,
		DepartmentID: msg.departmentID,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return toStructSeller(created), nil
}

// GetSeller は販売員を取得します。
func (h *SellerGrpcHandler) GetSeller(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	found, err := h.svc.GetSeller(ctx, seller.GetSellerInput{ID: req.GetValue()})
	if err != nil {
		return nil, toStatusError(err)
	}

	return toStructSeller(found), nil
}

// ListSellers は販売員の一覧を取得します。
func (h *SellerGrpcHandler) ListSellers(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.ListValue, error) {
	sellers, err := h.svc.ListSellers(ctx, seller.ListSellersInput{DepartmentID: req.GetValue()})
	if err != nil {
		return nil, toStatusError(err)
	}

	values := make([]*structpb.Value, 0, len(sellers))
	for _, s := range sellers {
		values = append(values, structpb.NewStructValue(toStructSeller(s)))
	}

	return &structpb.ListValue{Values: values}, nil
}

// UpdateSeller は販売員情報を置き換えます。
func (h *SellerGrpcHandler) UpdateSeller(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	msg, err := parseSellerMessage(req)
	if err != nil {
		return nil, toStatusError(err)
	}

	updated, err := h.svc.UpdateSeller(ctx, seller.UpdateSellerInput{
		ID:           msg.id,
		Name:         msg.name,
		Email:        msg.email,
		BirthDate:    msg.birthDate,
		BaseSalary:   msg.baseSalary,
		DepartmentID: msg.departmentID,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return toStructSeller(updated), nil
}

// DeleteSeller は販売員を削除します。
func (h *SellerGrpcHandler) DeleteSeller(ctx context.Context, req *wrapperspb.Int64Value) (*emptypb.Empty, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	if err := h.svc.DeleteSeller(ctx, seller.DeleteSellerInput{ID: req.GetValue()}); err != nil {
		return nil, toStatusError(err)
	}

	return &emptypb.Empty{}, nil
}
