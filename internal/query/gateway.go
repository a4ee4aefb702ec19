// internal/query/gateway.go
package query

import (
	"context"
	"errors"
	"time"

	"aidocs-ingest/internal/metrics"
)

// result 라벨 (metrics)
const (
	resultOK           = "ok"
	resultInvalid      = "invalid"
	resultUnconfigured = "unconfigured"
	resultUpstream     = "upstream_error"
)

// Gateway
// ------------------------------------------------------------
// 이름 → 템플릿 조회 → host 조건 바인딩 → 원격 실행 → 응답 그대로 반환.
// 상태를 갖지 않으므로 동시 호출에 lock 이 필요 없다.
type Gateway struct {
	catalog *Catalog
	client  *Client
	metrics *metrics.Metrics
}

func NewGateway(catalog *Catalog, client *Client, m *metrics.Metrics) *Gateway {
	return &Gateway{catalog: catalog, client: client, metrics: m}
}

// Catalog 는 게이트웨이가 사용하는 쿼리 카탈로그.
func (g *Gateway) Catalog() *Catalog {
	return g.catalog
}

// Run 은 name 쿼리를 host 조건과 함께 실행한다. name 이 비어 있으면 "default".
//
// 검사 순서:
//  1. 자격증명 없음 → ErrMissingCredentials (원격 호출 없음)
//  2. 모르는 이름   → *UnknownQueryError
//  3. 원격 호출 실패 → *UpstreamError
func (g *Gateway) Run(ctx context.Context, name, host string) (*Response, error) {
	if name == "" {
		name = DefaultQuery
	}

	if g.client == nil || !g.client.Configured() {
		g.observe(g.label(name), resultUnconfigured)
		return nil, ErrMissingCredentials
	}

	sql, err := g.catalog.Render(name, host)
	if err != nil {
		g.observe(g.label(name), resultInvalid)
		return nil, err
	}

	start := time.Now()
	resp, err := g.client.Execute(ctx, sql)
	g.metrics.QueryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, ErrMissingCredentials) {
			g.observe(name, resultUnconfigured)
		} else {
			g.observe(name, resultUpstream)
		}
		return nil, err
	}

	g.observe(name, resultOK)
	return resp, nil
}

// label 은 카탈로그에 없는 이름을 하나로 묶는다 (사용자 입력이 라벨 값이 되지 않도록).
func (g *Gateway) label(name string) string {
	if _, ok := g.catalog.Lookup(name); ok {
		return name
	}
	return "unknown"
}

func (g *Gateway) observe(name, result string) {
	g.metrics.QueryRequestsTotal.WithLabelValues(name, result).Inc()
}
