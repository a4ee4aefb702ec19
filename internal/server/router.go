package server

import (
	"net/http"

	"aidocs-ingest/internal/metrics"
)

// NewRouter
//
// 엔드포인트:
//   - /track   : 텔레메트리 수집 (POST)
//   - /detect  : 요청 헤더 분류 결과 확인 (GET)
//   - /query   : 이름 붙은 분석 쿼리 실행 (GET)
//   - /health  : 로드밸런서 health check
//   - /metrics : Prometheus scrape
//
// 모든 라우트에 RequestID → CORS 순서로 적용된다.
func NewRouter(h *Handler, m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/track", instrument("/track", m, h.HandleTrack))
	mux.Handle("/detect", instrument("/detect", m, h.HandleDetect))
	mux.Handle("/query", instrument("/query", m, h.HandleQuery))
	mux.Handle("/health", instrument("/health", m, h.HandleHealth))
	mux.Handle("/metrics", m.Handler())

	return RequestID(CORS(h.cfg.CORSAllowedOrigins)(mux))
}
