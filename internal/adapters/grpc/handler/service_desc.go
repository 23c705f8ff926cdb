package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	SellerServiceName     = "seller.v1.SellerService"
	DepartmentServiceName = "seller.v1.DepartmentService"
)

// SellerServiceServer は SellerService のサーバー側インターフェースです。
//
// メッセージは well-known types で表現します。販売員は structpb.Struct で
// {id, name, email, birth_date, base_salary, department{id, name}} の形を取ります。
type SellerServiceServer interface {
	CreateSeller(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSeller(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	// ListSellers は部署 ID で絞り込みます。0 の場合は全件です。
	ListSellers(context.Context, *wrapperspb.Int64Value) (*structpb.ListValue, error)
	UpdateSeller(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteSeller(context.Context, *wrapperspb.Int64Value) (*emptypb.Empty, error)
}

// DepartmentServiceServer は DepartmentService のサーバー側インターフェースです。
type DepartmentServiceServer interface {
	CreateDepartment(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetDepartment(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	ListDepartments(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	UpdateDepartment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteDepartment(context.Context, *wrapperspb.Int64Value) (*emptypb.Empty, error)
}

// SellerServiceDesc は SellerService の grpc.ServiceDesc です。
var SellerServiceDesc = grpc.ServiceDesc{
	ServiceName: SellerServiceName,
	HandlerType: (*SellerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(SellerServiceName, "CreateSeller", SellerServiceServer.CreateSeller),
		unaryMethod(SellerServiceName, "GetSeller", SellerServiceServer.GetSeller),
		unaryMethod(SellerServiceName, "ListSellers", SellerServiceServer.ListSellers),
		unaryMethod(SellerServiceName, "UpdateSeller", SellerServiceServer.UpdateSeller),
		unaryMethod(SellerServiceName, "DeleteSeller", SellerServiceServer.DeleteSeller),
	},
	Streams: []grpc.StreamDesc{},
}

// DepartmentServiceDesc は DepartmentService の grpc.ServiceDesc です。
var DepartmentServiceDesc = grpc.ServiceDesc{
	ServiceName: DepartmentServiceName,
	HandlerType: (*DepartmentServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(DepartmentServiceName, "CreateDepartment", DepartmentServiceServer.CreateDepartment),
		unaryMethod(DepartmentServiceName, "GetDepartment", DepartmentServiceServer.GetDepartment),
		unaryMethod(DepartmentServiceName, "ListDepartments", DepartmentServiceServer.ListDepartments),
		unaryMethod(DepartmentServiceName, "UpdateDepartment", DepartmentServiceServer.UpdateDepartment),
		unaryMethod(DepartmentServiceName, "DeleteDepartment", DepartmentServiceServer.DeleteDepartment),
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterSellerServiceServer は SellerService を登録します。
func RegisterSellerServiceServer(s grpc.ServiceRegistrar, srv SellerServiceServer) {
	s.RegisterService(&SellerServiceDesc, srv)
}

// RegisterDepartmentServiceServer は DepartmentService を登録します。
func RegisterDepartmentServiceServer(s grpc.ServiceRegistrar, srv DepartmentServiceServer) {
	s.RegisterService(&DepartmentServiceDesc, srv)
}

// FullMethod は "/service/method" 形式のメソッド名を返します。
func FullMethod(service, method string) string {
	return "/" + service + "/" + method
}

func unaryMethod[S, Req, Resp any](service, name string, call func(S, context.Context, *Req) (Resp, error)) grpc.MethodDesc {
	fullMethod := FullMethod(service, name)

	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}

			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*Req))
			})
		},
	}
}
