// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder はドメインイベントのメトリクス記録インターフェース。
// ハンドラー層から利用する。
type Recorder interface {
	RecordUserRegistered()
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordTodoCreated()
	RecordTodoDeleted()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	userRegistered  prometheus.Counter
	loginSuccess    prometheus.Counter
	loginFailure    prometheus.Counter
	todoCreated     prometheus.Counter
	todoDeleted     prometheus.Counter
	httpStatus      *prometheus.CounterVec
	requestDuration prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		userRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todoman_user_registered_total",
			Help: "ユーザー登録成功の合計数",
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todoman_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todoman_login_failure_total",
			Help: "ログイン失敗の合計数",
		}),
		todoCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todoman_todo_created_total",
			Help: "作成されたToDo項目の合計数",
		}),
		todoDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todoman_todo_deleted_total",
			Help: "削除されたToDo項目の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todoman_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "todoman_http_request_duration_seconds",
			Help:    "HTTPリクエスト処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.userRegistered,
		c.loginSuccess,
		c.loginFailure,
		c.todoCreated,
		c.todoDeleted,
		c.httpStatus,
		c.requestDuration,
	)

	return c
}

// RecordUserRegistered はユーザー登録成功を記録する。
func (c *Collector) RecordUserRegistered() {
	c.userRegistered.Inc()
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFailure.Inc()
}

// RecordTodoCreated はToDo項目の作成を記録する。
func (c *Collector) RecordTodoCreated() {
	c.todoCreated.Inc()
}

// RecordTodoDeleted はToDo項目の削除を記録する。
func (c *Collector) RecordTodoDeleted() {
	c.todoDeleted.Inc()
}

// recordHTTP はレスポンスのステータスコードと処理時間を記録する。
func (c *Collector) recordHTTP(statusCode int, duration time.Duration) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.requestDuration.Observe(duration.Seconds())
}

// statusWriter はhttp.ResponseWriterをラップし、ステータスコードを捕捉する。
type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (sw *statusWriter) WriteHeader(code int) {
	if sw.statusCode == 0 {
		sw.statusCode = code
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if sw.statusCode == 0 {
		sw.statusCode = http.StatusOK
	}
	return sw.ResponseWriter.Write(b)
}

// NewHTTPMiddleware は全リクエストのステータスコードと処理時間を記録する
// ミドルウェアを返す。
func NewHTTPMiddleware(c *Collector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)
			if sw.statusCode == 0 {
				sw.statusCode = http.StatusOK
			}
			c.recordHTTP(sw.statusCode, time.Since(start))
		})
	}
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// NopRecorder は何も記録しないRecorder実装。
// メトリクスを無効にした構成やテストで使用する。
type NopRecorder struct{}

func (NopRecorder) RecordUserRegistered() {}
func (NopRecorder) RecordLoginSuccess()   {}
func (NopRecorder) RecordLoginFailure()   {}
func (NopRecorder) RecordTodoCreated()    {}
func (NopRecorder) RecordTodoDeleted()    {}

// compile-time interface check
var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = NopRecorder{}
)
