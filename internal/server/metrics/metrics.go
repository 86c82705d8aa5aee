// Package metrics exposes Prometheus counters for the sync server.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/kodex/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics interface {
	ObserveRPC(method, code string, d time.Duration)
	IncPushedRecords(n int)
	CacheHit()
	CacheMiss()
	Handler() http.Handler
}

type PrometheusMetrics struct {
	reg          *prometheus.Registry
	rpcTotal     *prometheus.CounterVec
	rpcDuration  *prometheus.HistogramVec
	pushed       prometheus.Counter
	urlCacheHits prometheus.Counter
	urlCacheMiss prometheus.Counter
}

// New returns Prometheus-backed metrics, or a no-op set when disabled.
func New(enabled bool) Metrics {
	if !enabled {
		return noopMetrics{}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &PrometheusMetrics{
		reg: reg,
		rpcTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kodex_rpc_requests_total",
			Help: "Total number of gRPC requests",
		}, []string{"method", "code"}),

		rpcDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kodex_rpc_duration_seconds",
			Help:    "gRPC request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),

		pushed: f.NewCounter(prometheus.CounterOpts{
			Name: "kodex_pushed_records_total",
			Help: "Total number of records accepted by Push",
		}),

		urlCacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "kodex_url_cache_hits_total",
			Help: "Download URLs served from cache",
		}),

		urlCacheMiss: f.NewCounter(prometheus.CounterOpts{
			Name: "kodex_url_cache_misses_total",
			Help: "Download URLs that had to be presigned",
		}),
	}
}

func (m *PrometheusMetrics) ObserveRPC(method, code string, d time.Duration) {
	m.rpcTotal.WithLabelValues(method, code).Inc()
	m.rpcDuration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *PrometheusMetrics) IncPushedRecords(n int) {
	m.pushed.Add(float64(n))
}

func (m *PrometheusMetrics) CacheHit()  { m.urlCacheHits.Inc() }
func (m *PrometheusMetrics) CacheMiss() { m.urlCacheMiss.Inc() }

func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

type noopMetrics struct{}

func (noopMetrics) ObserveRPC(string, string, time.Duration) {}
func (noopMetrics) IncPushedRecords(int)                     {}
func (noopMetrics) CacheHit()                                {}
func (noopMetrics) CacheMiss()                               {}
func (noopMetrics) Handler() http.Handler                    { return http.NotFoundHandler() }

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, m Metrics, l logging.Logger) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return serve(ctx, lis, m, l)
}

func serve(ctx context.Context, lis net.Listener, m Metrics, l logging.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	l.Info(ctx, "Starting metrics listener", "address", lis.Addr().String())
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
