// internal/classifier/catalog.go
package classifier

// catalog.go
// ------------------------------------------------------------
// 분류기에서 사용하는 고정 패턴 목록.
// 프로세스 시작 시점에 확정되는 read-only 상수들이며,
// 런타임 중 수정하지 않는다 (동시 접근 시 lock 불필요).
// 패키지 밖에는 BotPatterns() / PreviewHostPatterns() 복사본만 노출한다.
//
// 모든 패턴은 소문자로 작성한다.
// 비교 대상(UA / Accept / Host)을 소문자로 바꾼 뒤 substring 비교하기 때문.
// ------------------------------------------------------------

// botPatterns
//
// 크롤러 / 모니터링 / HTTP 라이브러리 시그니처.
// 순서 자체가 tie-break 규칙이다: 여러 개가 매칭되면 앞에 있는 항목이 agent 라벨이 된다.
// (예: "Googlebot ... curl" → "googlebot")
var botPatterns = []string{
	// 검색엔진 / 소셜 크롤러
	"googlebot", "bingbot", "yandexbot", "baiduspider", "duckduckbot", "slurp",
	"facebookexternalhit", "linkedinbot", "twitterbot",
	"applebot", "semrushbot", "ahrefsbot", "mj12bot", "dotbot", "petalbot", "bytespider",

	// AI 학습용 크롤러
	"gptbot", "claudebot", "anthropic-ai", "ccbot", "cohere-ai", "perplexitybot",

	// 업타임 / APM 모니터링
	"pingdom", "uptimerobot", "statuscake", "site24x7", "newrelic", "datadog", "checkly", "freshping",
	"vercel-healthcheck", "vercel-edge-functions",

	// CLI / HTTP 클라이언트 라이브러리
	"wget", "curl", "httpie", "python-requests", "go-http-client",
	"scrapy", "httpclient", "java/", "okhttp", "axios", "node-fetch", "undici",
}

// previewHostPatterns
//
// 개발/프리뷰 환경 host 패턴 (substring 매칭).
// 이 host 로 들어온 트래픽은 human 으로 집계하되 filtered=true 로 표시한다.
var previewHostPatterns = []string{
	".vercel.app",
	".netlify.app",
	".pages.dev",
	"localhost",
	"127.0.0.1",
}

// codingAgentMarkers
//
// UA 에 포함되면 무조건 coding-agent 로 판정되는 제품 시그니처.
// 순서대로 검사하며, 한 라벨에 여러 시그니처가 매핑될 수 있다.
var codingAgentMarkers = []struct {
	substrings []string
	agent      string
}{
	{substrings: []string{"claude-code", "claudecode"}, agent: AgentClaudeCode},
	{substrings: []string{"codex"}, agent: AgentCodex},
	{substrings: []string{"opencode"}, agent: AgentOpenCode},
	{substrings: []string{"chatgpt-user"}, agent: AgentCodex},
}

const (
	mimeMarkdown = "text/markdown"
	mimePlain    = "text/plain"
	mimeHTML     = "text/html"

	// Accept header 의 quality weight 파라미터
	qualityParam = "q="

	// Claude Code WebFetch 가 사용하는 HTTP 라이브러리
	fetchLibraryAxios = "axios"
)

// pageViewTypes
// 이 중 하나라도 Accept 에 포함돼야 page view 로 본다.
var pageViewTypes = []string{mimeHTML, mimeMarkdown, mimePlain}

// BotPatterns 는 bot 카탈로그의 복사본 (카탈로그 순서 유지).
func BotPatterns() []string {
	return append([]string(nil), botPatterns...)
}

// PreviewHostPatterns 는 프리뷰 host 카탈로그의 복사본.
func PreviewHostPatterns() []string {
	return append([]string(nil), previewHostPatterns...)
}
