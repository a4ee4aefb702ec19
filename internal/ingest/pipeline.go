// internal/ingest/pipeline.go
package ingest

import (
	"context"
	"errors"
	"fmt"

	"aidocs-ingest/internal/classifier"
	"aidocs-ingest/internal/dataset"
	"aidocs-ingest/internal/metrics"
	"aidocs-ingest/internal/model"
)

// SkipNotPageView 는 page view 게이트에서 걸러졌을 때의 skip 사유.
const SkipNotPageView = "not-page-view"

// outcome 라벨 (metrics)
const (
	outcomeAccepted = "accepted"
	outcomeSkipped  = "skipped"
	outcomeFailed   = "failed"
)

// Stream 이름
const (
	StreamRaw    = "raw"
	StreamVisits = "visits"
)

// Outcome 은 /track 한 건의 처리 결과.
// Skip 이 비어 있지 않으면 쓰기 없이 종료된 것이며 Classification 은 zero value.
type Outcome struct {
	Skip           string
	Classification classifier.Classification
}

// StreamError 는 한 데이터셋 쓰기 실패. 다른 stream 의 성공/실패와 무관하다.
type StreamError struct {
	Stream  string
	Dataset string
	Err     error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("%s stream (%s): %v", e.Stream, e.Dataset, e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }

// Pipeline
// ------------------------------------------------------------
// 텔레메트리 1건을 받아
//  1. page view 게이트
//  2. 분류
//  3. RAW 데이터셋 쓰기 (무조건)
//  4. VISITS 데이터셋 쓰기
//
// 를 수행한다. 요청 간 공유 상태가 없으므로 동시 호출에 lock 이 필요 없다.
//
// 두 쓰기는 트랜잭션으로 묶이지 않는다. 한쪽만 성공하는 경우도 정상적인 상태이며,
// 이때 실패한 쪽의 StreamError 만 반환된다. retry / rollback 은 하지 않는다.
type Pipeline struct {
	raw     dataset.Dataset
	visits  dataset.Dataset
	metrics *metrics.Metrics
}

func NewPipeline(raw, visits dataset.Dataset, m *metrics.Metrics) *Pipeline {
	return &Pipeline{raw: raw, visits: visits, metrics: m}
}

// Track 은 요청 1건을 처리한다.
// 반환 error 는 데이터셋 쓰기 실패(StreamError 들을 errors.Join)뿐이며,
// 이 경우에도 Outcome.Classification 은 채워져 있다.
func (p *Pipeline) Track(ctx context.Context, req *model.TrackRequest) (Outcome, error) {
	accept := req.Accept()

	// --- 1) page view 게이트 ---
	if !classifier.IsPageView(accept) {
		p.metrics.TrackOutcomesTotal.WithLabelValues(outcomeSkipped).Inc()
		return Outcome{Skip: SkipNotPageView}, nil
	}

	userAgent := req.UserAgent()
	host := req.Host()
	path := req.Path()
	country := req.Country()

	// --- 2) 분류 ---
	c := classifier.Classify(userAgent, accept, host)
	p.metrics.ClassificationsTotal.WithLabelValues(string(c.Category), c.Agent).Inc()

	// --- 3) RAW: 가공 전 관측값 ---
	raw := model.RawEventRecord{
		Host:         host,
		Path:         path,
		UserAgent:    model.Truncate(userAgent, model.MaxHeaderLen),
		AcceptHeader: model.Truncate(accept, model.MaxHeaderLen),
		Country:      country,
	}

	// --- 4) VISITS: 분류 결과 ---
	visit := model.ProcessedVisitRecord{
		Host:       host,
		Path:       path,
		Category:   string(c.Category),
		Agent:      c.Agent,
		Country:    country,
		IsFiltered: boolToInt(c.Filtered),
	}

	// 한쪽 실패가 다른 쪽 쓰기를 막지 않는다
	err := errors.Join(
		p.write(ctx, StreamRaw, p.raw, raw.DataPoint()),
		p.write(ctx, StreamVisits, p.visits, visit.DataPoint()),
	)

	if err != nil {
		p.metrics.TrackOutcomesTotal.WithLabelValues(outcomeFailed).Inc()
	} else {
		p.metrics.TrackOutcomesTotal.WithLabelValues(outcomeAccepted).Inc()
	}

	return Outcome{Classification: c}, err
}

func (p *Pipeline) write(ctx context.Context, stream string, d dataset.Dataset, dp model.DataPoint) error {
	p.metrics.DatasetWritesTotal.WithLabelValues(d.Name()).Inc()

	if err := d.WriteDataPoint(ctx, dp); err != nil {
		p.metrics.DatasetWriteErrorsTotal.WithLabelValues(d.Name()).Inc()
		return &StreamError{Stream: stream, Dataset: d.Name(), Err: err}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
