// internal/classifier/classifier.go
package classifier

import "strings"

// Category 는 방문자 분류 결과 카테고리.
type Category string

const (
	CategoryBot           Category = "bot"
	CategoryBrowsingAgent Category = "browsing-agent"
	CategoryCodingAgent   Category = "coding-agent"
	CategoryHuman         Category = "human"
)

// agent 라벨
const (
	AgentClaudeCode         = "claude-code"
	AgentCodex              = "codex"
	AgentOpenCode           = "opencode"
	AgentClaudeComputerUse  = "claude-computer-use"
	AgentPerplexityComet    = "perplexity-comet"
	AgentUnknownCodingAgent = "unknown-coding-agent"
	AgentUnknownBot         = "unknown-bot"
	AgentBrowser            = "browser"
)

// Classification
// ------------------------------------------------------------
// 분류기의 출력값. 한 번 만들어지면 변경하지 않는다.
//
// Filtered 는 "주요 방문 집계에서 제외하지만 데이터는 보존한다"는
// 품질 표시일 뿐, 삭제 신호가 아니다.
type Classification struct {
	Category Category `json:"category"`
	Agent    string   `json:"agent"`
	Filtered bool     `json:"filtered,omitempty"`
}

// Input
// ------------------------------------------------------------
// 요청 단위로 생성되는 분류 입력값.
// 원본 문자열을 그대로 받고, 비교용 소문자 값은 normalize() 에서 만든다.
type Input struct {
	UserAgent    string
	AcceptHeader string
	Host         string
}

// normalized 는 소문자 변환이 끝난 비교용 입력값.
// 규칙 predicate 는 이 값만 본다.
type normalized struct {
	ua     string
	accept string
	host   string
}

func (in Input) normalize() normalized {
	return normalized{
		ua:     strings.ToLower(in.UserAgent),
		accept: strings.ToLower(in.AcceptHeader),
		host:   strings.ToLower(in.Host),
	}
}

func (n normalized) wantsMarkdown() bool {
	return strings.Contains(n.accept, mimeMarkdown)
}

func (n normalized) hasQualityWeights() bool {
	return strings.Contains(n.accept, qualityParam)
}

// Classify 는 (UA, Accept, Host) 를 받아 분류 결과를 반환한다.
//
// 순수 함수이며 실패하지 않는다. 빈 문자열을 포함한 어떤 입력이든
// Rules 를 순서대로 평가해 처음 매칭된 규칙의 결과를 돌려준다.
// 아무 규칙도 매칭되지 않으면 human / browser / filtered=false.
func Classify(userAgent, acceptHeader, host string) Classification {
	return ClassifyInput(Input{UserAgent: userAgent, AcceptHeader: acceptHeader, Host: host})
}

// ClassifyInput 은 Classify 의 Input 버전.
func ClassifyInput(in Input) Classification {
	c, _ := Evaluate(in)
	return c
}

// Evaluate 는 분류 결과와 함께 매칭된 규칙 이름을 반환한다.
// 기본값(default)으로 떨어진 경우 rule 이름은 "default".
func Evaluate(in Input) (Classification, string) {
	n := in.normalize()
	for _, r := range Rules {
		if r.match(n) {
			return r.outcome(n), r.Name
		}
	}
	return defaultClassification, ruleDefault
}

// DetectBotName
// ------------------------------------------------------------
// botPatterns 를 카탈로그 순서대로 검사해 UA 에 처음 포함된 패턴을 반환한다.
// 없으면 "unknown-bot".
//
// bot 규칙의 membership 검사(firstContained(ua, botPatterns))와 같은 카탈로그, 같은 순서를
// 사용하므로, bot 규칙을 거쳐 들어온 경우 fallback 은 도달하지 않는다.
// 그래도 fallback 은 제거하지 않고 유지한다.
func DetectBotName(userAgent string) string {
	return detectBotName(strings.ToLower(userAgent))
}

func detectBotName(ua string) string {
	if p, ok := firstContained(ua, botPatterns); ok {
		return p
	}
	return AgentUnknownBot
}

// IsPageView
// ------------------------------------------------------------
// Accept header 에 text/html, text/markdown, text/plain 중 하나라도
// 포함되어 있으면 page view 로 판정한다 (대소문자 무시).
// 빈 문자열은 false.
func IsPageView(accept string) bool {
	_, ok := firstContained(strings.ToLower(accept), pageViewTypes)
	return ok
}

// firstContained 는 patterns 중 s 에 포함된 첫 항목을 반환한다.
func firstContained(s string, patterns []string) (string, bool) {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return p, true
		}
	}
	return "", false
}
