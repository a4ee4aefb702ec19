package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"aidocs-ingest/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RequestIDHeader 는 요청 ID 를 주고받는 헤더.
const RequestIDHeader = "X-Request-ID"

type ctxKey struct{}

// RequestID
//
// 들어온 X-Request-ID 를 그대로 쓰거나, 없으면 UUID 를 새로 만든다.
// 응답 헤더와 request context 양쪽에 싣는다.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// RequestIDFrom 은 context 의 요청 ID. 없으면 "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// ------------------------------------------------------------
// CORS
//
// 추적 스니펫은 임의의 문서 사이트에서 호출되므로 기본값은 모든 origin 허용("*").
// "*.example.com" 형태의 wildcard 도 지원한다.
// preflight(OPTIONS) 는 라우트와 무관하게 여기서 204 로 끝낸다.
// ------------------------------------------------------------

const (
	corsAllowMethods = "GET, HEAD, POST, OPTIONS"
	corsMaxAge       = "86400"
)

func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAll := false
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hdr := w.Header()

			if allowAll {
				hdr.Set("Access-Control-Allow-Origin", "*")
			} else if origin := r.Header.Get("Origin"); origin != "" && originAllowed(origin, allowedOrigins) {
				hdr.Set("Access-Control-Allow-Origin", origin)
				hdr.Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				hdr.Set("Access-Control-Allow-Methods", corsAllowMethods)
				if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
					hdr.Set("Access-Control-Allow-Headers", reqHeaders)
				}
				hdr.Set("Access-Control-Max-Age", corsMaxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed []string) bool {
	for _, a := range allowed {
		if strings.HasPrefix(a, "*.") {
			if strings.HasSuffix(origin, a[1:]) {
				return true
			}
			continue
		}
		if origin == a {
			return true
		}
	}
	return false
}

// statusRecorder 는 핸들러가 쓴 상태코드를 기록한다.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// instrument
//
// 라우트 하나를 감싸서 route/status 지표를 올리고 access log 를 남긴다.
// route 라벨은 고정 문자열만 쓴다 (요청 경로를 그대로 라벨로 쓰지 않는다).
func instrument(route string, m *metrics.Metrics, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()

		ev := log.Info()
		if rec.status >= http.StatusInternalServerError {
			ev = log.Warn()
		}
		ev.
			Str("request_id", RequestIDFrom(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Str("client_ip", clientIP(r)).
			Msg("http request")
	})
}
