// internal/query/client.go
package query

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxResponseSize 는 원격 응답 body 최대 크기. 초과분은 읽지 않는다.
const maxResponseSize = 16 << 20

// Response 는 원격 엔진 응답. 상태코드 / body 를 가공하지 않고 그대로 담는다.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Client
// ------------------------------------------------------------
// 원격 분석 엔진 SQL API 클라이언트.
//
//	POST {baseURL}/accounts/{accountID}/analytics_engine/sql
//	Authorization: Bearer {token}
//	Content-Type: text/plain
//	body: 쿼리 텍스트
//
// retry 하지 않는다. timeout 은 http.Client 에 설정된 값만 적용된다.
type Client struct {
	baseURL    string
	accountID  string
	token      string
	httpClient *http.Client
}

// Option configures Client behavior.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func NewClient(baseURL, accountID, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		accountID:  accountID,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured 는 두 자격증명이 모두 있는지 반환한다.
func (c *Client) Configured() bool {
	return c.accountID != "" && c.token != ""
}

// Endpoint 는 SQL API URL.
func (c *Client) Endpoint() string {
	return fmt.Sprintf("%s/accounts/%s/analytics_engine/sql", c.baseURL, url.PathEscape(c.accountID))
}

// Execute 는 쿼리 텍스트를 보내고 응답을 그대로 반환한다.
// 자격증명이 없으면 요청을 만들지 않고 ErrMissingCredentials.
func (c *Client) Execute(ctx context.Context, sql string) (*Response, error) {
	if !c.Configured() {
		return nil, ErrMissingCredentials
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), strings.NewReader(sql))
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
