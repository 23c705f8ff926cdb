package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/ogurasousui/seller-registry/internal/adapters/grpc/handler"
	"github.com/ogurasousui/seller-registry/internal/core/department"
	"github.com/ogurasousui/seller-registry/internal/core/seller"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
)

// Server は gRPC サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr string
	grpcServer *grpc.Server
	log        zerolog.Logger
}

// Services はサーバーに登録するユースケースの集合です。
type Services struct {
	Sellers     seller.UseCase
	Departments department.UseCase
}

// New は指定されたアドレスで待ち受ける gRPC サーバーを構築します。
// interceptors はリクエスト ID とアクセスログの後に連結されます。
func New(listenAddr string, log zerolog.Logger, svcs Services, interceptors []grpc.UnaryServerInterceptor, opts ...grpc.ServerOption) *Server {
	chain := append([]grpc.UnaryServerInterceptor{
		RequestIDInterceptor(log),
		LoggingInterceptor(log),
	}, interceptors...)
	opts = append(opts, grpc.ChainUnaryInterceptor(chain...))

	srv := grpc.NewServer(opts...)
	handler.RegisterSellerServiceServer(srv, handler.NewSellerGrpcHandler(svcs.Sellers))
	handler.RegisterDepartmentServiceServer(srv, handler.NewDepartmentGrpcHandler(svcs.Departments))

	return &Server{
		listenAddr: listenAddr,
		grpcServer: srv,
		log:        log,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}

	return s.Serve(ctx, lis)
}

// Serve は lis で待ち受けます。テストでは bufconn のリスナーを渡します。
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down gRPC server")
		s.grpcServer.GracefulStop()
	}()

	s.log.Info().Str("addr", lis.Addr().String()).Msg("gRPC server listening")

	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	return nil
}

// GracefulStop はサーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.grpcServer.GracefulStop()
}
