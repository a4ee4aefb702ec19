package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"aidocs-ingest/internal/classifier"
	"aidocs-ingest/internal/config"
	"aidocs-ingest/internal/ingest"
	"aidocs-ingest/internal/metrics"
	"aidocs-ingest/internal/model"
	"aidocs-ingest/internal/pool"
	"aidocs-ingest/internal/query"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Tracker 는 /track 한 건을 처리한다 (ingest.Pipeline).
type Tracker interface {
	Track(ctx context.Context, req *model.TrackRequest) (ingest.Outcome, error)
}

// Querier 는 이름 붙은 쿼리를 실행한다 (query.Gateway).
type Querier interface {
	Run(ctx context.Context, name, host string) (*query.Response, error)
}

type Handler struct {
	cfg     config.Config
	metrics *metrics.Metrics
	tracker Tracker
	querier Querier
}

func NewHandler(cfg config.Config, m *metrics.Metrics, t Tracker, q Querier) *Handler {
	return &Handler{
		cfg:     cfg,
		metrics: m,
		tracker: t,
		querier: q,
	}
}

type trackResponse struct {
	OK       bool                `json:"ok"`
	Skipped  string              `json:"skipped,omitempty"`
	Category classifier.Category `json:"category,omitempty"`
	Agent    string              `json:"agent,omitempty"`
	Filtered bool                `json:"filtered,omitempty"`
}

type detectHeaders struct {
	UserAgent string `json:"user_agent"`
	Accept    string `json:"accept"`
}

type detectResponse struct {
	classifier.Classification
	Headers detectHeaders `json:"headers"`
}

// HandleTrack
//
// POST /track : 텔레메트리 1건 수집.
//
//  1. body 크기 제한 (MaxBodySize 초과 → 413)
//  2. BodyPool 버퍼로 읽고 JSON 디코딩 (실패 → 400)
//  3. Pipeline 에 위임 (page view 게이트 → 분류 → 두 데이터셋 쓰기)
//
// 데이터셋 쓰기가 하나라도 실패하면 502. 성공한 쪽 쓰기는 되돌리지 않는다.
func (h *Handler) HandleTrack(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxBodySize)
	defer r.Body.Close()

	buf := pool.GetBody()
	defer pool.PutBody(buf, h.cfg.MaxBodySize*2)

	if _, err := io.Copy(buf, r.Body); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var req model.TrackRequest
	if err := json.Unmarshal(buf.Bytes(), &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	out, err := h.tracker.Track(r.Context(), &req)
	if err != nil {
		log.Error().
			Err(err).
			Str("request_id", RequestIDFrom(r.Context())).
			Str("host", req.Host()).
			Msg("dataset write failed")
		writeError(w, http.StatusBadGateway, "failed to record visit")
		return
	}

	if out.Skip != "" {
		writeJSON(w, http.StatusOK, trackResponse{OK: true, Skipped: out.Skip})
		return
	}

	writeJSON(w, http.StatusOK, trackResponse{
		OK:       true,
		Category: out.Classification.Category,
		Agent:    out.Classification.Agent,
		Filtered: out.Classification.Filtered,
	})
}

// HandleDetect
//
// GET /detect : 요청 자신의 헤더로 분류 결과만 돌려준다. 쓰기 없음.
// Host 헤더가 없으면 "unknown".
func (h *Handler) HandleDetect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	ua := r.Header.Get("User-Agent")
	accept := r.Header.Get("Accept")

	// net/http 는 Host 헤더를 r.Host 로 옮긴다
	host := r.Host
	if host == "" {
		host = model.DefaultHost
	}

	c := classifier.Classify(ua, accept, host)
	h.metrics.ClassificationsTotal.WithLabelValues(string(c.Category), c.Agent).Inc()

	writeJSON(w, http.StatusOK, detectResponse{
		Classification: c,
		Headers:        detectHeaders{UserAgent: ua, Accept: accept},
	})
}

// HandleQuery
//
// GET /query?q=<name>&host=<optional>
//
// 원격 엔진 응답은 상태코드 / Content-Type / body 를 가공 없이 그대로 전달한다.
// 에러 매핑:
//   - 자격증명 없음   → 500
//   - 모르는 쿼리 이름 → 400 (+ allowed)
//   - 원격 호출 실패   → 502
func (h *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	params := r.URL.Query()
	resp, err := h.querier.Run(r.Context(), params.Get("q"), params.Get("host"))
	if err != nil {
		var uqe *query.UnknownQueryError
		switch {
		case errors.Is(err, query.ErrMissingCredentials):
			writeError(w, http.StatusInternalServerError, err.Error())
		case errors.As(err, &uqe):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid query", Allowed: uqe.Allowed})
		default:
			log.Error().
				Err(err).
				Str("request_id", RequestIDFrom(r.Context())).
				Str("query", params.Get("q")).
				Msg("query failed")
			writeError(w, http.StatusBadGateway, "query request failed")
		}
		return
	}

	ct := resp.ContentType
	if ct == "" {
		ct = "application/json"
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}

// HandleHealth
//
// 로드밸런서 health check 용. 의존성을 확인하지 않고 항상 200.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		OK bool `json:"ok"`
	}{OK: true})
}
