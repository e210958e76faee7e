// Package metrics はPrometheus形式のメトリクスを提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics はサービスのメトリクス一式。
// レジストリをインスタンスごとに持つため、テストで複数生成しても衝突しない。
type Metrics struct {
	registry     *prometheus.Registry
	authOutcomes *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
}

// New は新しい Metrics を生成し、プロセス・Goランタイムのコレクタも登録する。
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		authOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "board",
			Name:      "auth_outcomes_total",
			Help:      "認証ゲートウェイの判定結果の件数。",
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "board",
			Name:      "http_requests_total",
			Help:      "HTTPリクエストの件数。",
		}, []string{"method", "route", "status"}),
	}
	m.registry.MustRegister(
		m.authOutcomes,
		m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveAuth は認証結果を1件記録する。
func (m *Metrics) ObserveAuth(outcome string) {
	m.authOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveRequest はHTTPリクエストを1件記録する。
// route にはパスパラメータを含まないルート定義（例: /api/posts/:postId）を渡す。
func (m *Metrics) ObserveRequest(method, route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler は /metrics 用のHTTPハンドラを返す。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry は内部のレジストリを返す。
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
