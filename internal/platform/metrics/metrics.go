// Package metrics は gRPC 呼び出しの Prometheus メトリクスを提供します。
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

const (
	labelMethod = "method"
	labelCode   = "code"
)

// Metrics は RPC 単位のカウンタとレイテンシを保持します。
type Metrics struct {
	gatherer prometheus.Gatherer
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// New は reg にメトリクスを登録します。
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: reg,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seller_registry_grpc_requests_total",
				Help: "Total number of gRPC requests by method and status code.",
			},
			[]string{labelMethod, labelCode},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "seller_registry_grpc_request_duration_seconds",
				Help:    "gRPC request latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{labelMethod},
		),
	}
}

// UnaryServerInterceptor は呼び出し結果をメトリクスに記録します。
func (m *Metrics) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		m.requests.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
		m.latency.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())

		return resp, err
	}
}

// Requests は method と code に対応するリクエストカウンタを返します。
func (m *Metrics) Requests(method, code string) (prometheus.Counter, error) {
	return m.requests.GetMetricWithLabelValues(method, code)
}

// Handler は /metrics 用の HTTP ハンドラを返します。
func (m *Metrics) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
	return mux
}
