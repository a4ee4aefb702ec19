package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "aidocs"

// Metrics 는 서버 상태를 나타내는 Prometheus 지표 모음이다.
// 프로세스 전역 레지스트리 대신 인스턴스별 Registry 를 사용한다 (테스트에서 여러 개 생성 가능).
type Metrics struct {
	registry *prometheus.Registry

	// ======================
	// HTTP 레벨 지표
	// ======================

	// HTTPRequestsTotal
	// - route / status code 별 요청 수.
	HTTPRequestsTotal *prometheus.CounterVec

	// ======================
	// Ingestion 지표
	// ======================

	// TrackOutcomesTotal
	// - /track 처리 결과별 카운트.
	//   accepted : 분류 + 두 데이터셋 쓰기 시도까지 진행
	//   skipped  : page view 가 아니어서 쓰기 없이 종료
	//   failed   : 하나 이상의 데이터셋 쓰기 실패
	TrackOutcomesTotal *prometheus.CounterVec

	// ClassificationsTotal
	// - category / agent 별 분류 결과 수. (/track, /detect 모두 포함)
	ClassificationsTotal *prometheus.CounterVec

	// DatasetWritesTotal / DatasetWriteErrorsTotal
	// - 데이터셋별 쓰기 시도 / 실패 수.
	// - raw 와 visits 는 독립적으로 쓰므로 둘의 차이가 곧 부분 실패 규모.
	DatasetWritesTotal      *prometheus.CounterVec
	DatasetWriteErrorsTotal *prometheus.CounterVec

	// ======================
	// Query Gateway 지표
	// ======================

	// QueryRequestsTotal
	// - query 이름 / 결과(ok, invalid, unconfigured, upstream_error) 별 요청 수.
	QueryRequestsTotal *prometheus.CounterVec

	// QueryDuration
	// - 원격 SQL API 호출 소요 시간 (초).
	QueryDuration prometheus.Histogram
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		TrackOutcomesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "track_outcomes_total",
			Help:      "Track submissions by outcome.",
		}, []string{"outcome"}),
		ClassificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Visitor classifications by category and agent.",
		}, []string{"category", "agent"}),
		DatasetWritesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_writes_total",
			Help:      "Data point writes attempted per dataset.",
		}, []string{"dataset"}),
		DatasetWriteErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_write_errors_total",
			Help:      "Data point writes that failed per dataset.",
		}, []string{"dataset"}),
		QueryRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_requests_total",
			Help:      "Query gateway requests by query name and result.",
		}, []string{"query", "result"}),
		QueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Latency of remote analytics SQL calls.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.TrackOutcomesTotal,
		m.ClassificationsTotal,
		m.DatasetWritesTotal,
		m.DatasetWriteErrorsTotal,
		m.QueryRequestsTotal,
		m.QueryDuration,
	)

	return m
}

// Registry 는 테스트에서 지표 값을 읽기 위해 노출한다.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler 는 /metrics 엔드포인트 핸들러.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
