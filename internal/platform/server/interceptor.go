package server

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/seller-registry/internal/platform/logger"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// RequestIDHeader はリクエスト ID を受け渡すメタデータキーです。
const RequestIDHeader = "x-request-id"

// RequestIDInterceptor はリクエスト ID を採番し、ID 付きのロガーをコンテキストに格納します。
// クライアントが x-request-id を送信した場合はその値を引き継ぎます。
func RequestIDInterceptor(base zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		requestID := incomingRequestID(ctx)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		log := base.With().Str("request_id", requestID).Logger()
		ctx = log.WithContext(ctx)
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, requestID))

		return handler(ctx, req)
	}
}

// LoggingInterceptor はメソッド名、ステータスコード、所要時間を記録します。
// コンテキストにロガーが無い場合は base を使用します。
func LoggingInterceptor(base zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		log := logger.FromContext(ctx, base)
		code := status.Code(err)
		event := log.Info()
		switch {
		case code == codes.Internal || code == codes.Unknown:
			event = log.Error().Err(err)
		case err != nil:
			event = log.Warn().Err(err)
		}
		event.
			Str("method", info.FullMethod).
			Str("code", code.String()).
			Dur("duration", time.Since(start)).
			Msg("handled request")

		return resp, err
	}
}

func incomingRequestID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(RequestIDHeader); len(values) > 0 {
		return values[0]
	}
	return ""
}
