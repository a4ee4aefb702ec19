package query

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingCredentials 는 계정 ID 또는 API 토큰이 설정되지 않았을 때.
// 이 경우 원격 엔진으로 어떤 요청도 보내지 않는다.
var ErrMissingCredentials = errors.New("missing CF_ACCOUNT_ID or CF_API_TOKEN")

// UnknownQueryError 는 카탈로그에 없는 쿼리 이름 (클라이언트 입력 오류).
type UnknownQueryError struct {
	Name    string
	Allowed []string
}

func (e *UnknownQueryError) Error() string {
	return fmt.Sprintf("invalid query %q (allowed: %s)", e.Name, strings.Join(e.Allowed, ", "))
}

// UpstreamError 는 원격 엔진 호출 자체가 실패한 경우 (연결 실패, 응답 읽기 실패 등).
// 원격 엔진이 4xx/5xx 로 응답한 경우는 에러가 아니라 그대로 전달한다.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return "analytics engine request failed: " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error { return e.Err }
