// internal/query/template.go
package query

import (
	"strconv"
	"strings"
)

// hostColumn 은 RAW / VISITS 두 데이터셋 모두에서 host 가 들어있는 컬럼 (blob1).
const hostColumn = "blob1"

// Template
// ------------------------------------------------------------
// 이름이 붙은 고정 집계 쿼리.
// 문자열 템플릿이 아니라 구조화된 절(clause) 목록으로 보관하고,
// Render 시점에만 쿼리 텍스트로 만든다.
//
// 사용자 입력이 들어갈 수 있는 곳은 host 조건 하나뿐이며,
// 그 조건은 hostPredicate() 만 만들 수 있다 (항상 QuoteLiteral 로 escape).
type Template struct {
	Name    string
	Select  []string
	From    string
	Where   []string // AND 로 연결되는 기본 조건 (상수만)
	GroupBy []string
	OrderBy string
	Limit   int
}

// Render 는 쿼리 텍스트를 만든다.
// host 가 비어 있지 않으면 WHERE 바로 뒤에 host 동등 조건을 넣고
// 기존 조건들과 AND 로 연결한다.
//
//	WHERE blob1 = '<escaped host>' AND <기본 조건...>
func (t Template) Render(host string) string {
	preds := make([]string, 0, len(t.Where)+1)
	if host != "" {
		preds = append(preds, hostPredicate(host))
	}
	preds = append(preds, t.Where...)

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(t.Select, ", "))
	sb.WriteString("\nFROM ")
	sb.WriteString(t.From)
	if len(preds) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(preds, " AND "))
	}
	if len(t.GroupBy) > 0 {
		sb.WriteString("\nGROUP BY ")
		sb.WriteString(strings.Join(t.GroupBy, ", "))
	}
	if t.OrderBy != "" {
		sb.WriteString("\nORDER BY ")
		sb.WriteString(t.OrderBy)
	}
	if t.Limit > 0 {
		sb.WriteString("\nLIMIT ")
		sb.WriteString(strconv.Itoa(t.Limit))
	}
	return sb.String()
}

func hostPredicate(host string) string {
	return hostColumn + " = " + QuoteLiteral(host)
}

// literalEscaper 는 작은따옴표와 backslash 를 한 번에 치환한다.
// 원격 엔진(ClickHouse 계열)은 literal 안의 \ 를 escape 문자로 해석하므로
// `\'` 가 literal 을 닫지 못하도록 backslash 도 두 개로 바꾼다.
var literalEscaper = strings.NewReplacer(`\`, `\\`, `'`, `''`)

// QuoteLiteral 은 s 를 SQL 문자열 literal 로 감싼다.
// 모든 작은따옴표를 두 개로 바꾸므로 연속된 따옴표("'''")도 각각 escape 된다.
func QuoteLiteral(s string) string {
	return "'" + literalEscaper.Replace(s) + "'"
}
