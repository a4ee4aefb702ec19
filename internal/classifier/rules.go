// internal/classifier/rules.go
package classifier

import "strings"

// Rule
// ------------------------------------------------------------
// (predicate, outcome) 한 쌍.
// Rules 슬라이스의 순서가 곧 우선순위이며, 처음 매칭된 규칙이 이긴다.
//
// 카테고리들은 단순 substring 비교로는 서로 배타적이지 않다.
// (예: coding-agent UA 안에 "axios" 같은 bot 시그니처가 같이 들어있을 수 있음)
// 그래서 순서를 바꾸면 분류 결과가 바뀐다.
type Rule struct {
	Name    string
	match   func(n normalized) bool
	outcome func(n normalized) Classification
}

const (
	ruleDefault = "default"
)

var defaultClassification = Classification{Category: CategoryHuman, Agent: AgentBrowser}

// fixed 는 입력과 무관한 고정 결과를 반환하는 outcome.
func fixed(c Classification) func(normalized) Classification {
	return func(normalized) Classification { return c }
}

// Rules 는 평가 순서대로 나열된 분류 규칙 목록.
var Rules = buildRules()

func buildRules() []Rule {
	rules := make([]Rule, 0, len(codingAgentMarkers)+8)

	// ------------------------------------------------------------------
	// 1) 제품 시그니처 → coding-agent
	// ------------------------------------------------------------------
	for _, m := range codingAgentMarkers {
		subs := m.substrings
		rules = append(rules, Rule{
			Name: "coding-agent-ua:" + m.agent,
			match: func(n normalized) bool {
				_, ok := firstContained(n.ua, subs)
				return ok
			},
			outcome: fixed(Classification{Category: CategoryCodingAgent, Agent: m.agent}),
		})
	}

	rules = append(rules,
		// ------------------------------------------------------------------
		// 2) Claude Code WebFetch: axios + text/markdown, q= 가중치 없음
		// ------------------------------------------------------------------
		Rule{
			Name: "claude-code-fetch",
			match: func(n normalized) bool {
				return strings.Contains(n.ua, fetchLibraryAxios) && n.wantsMarkdown() && !n.hasQualityWeights()
			},
			outcome: fixed(Classification{Category: CategoryCodingAgent, Agent: AgentClaudeCode}),
		},

		// ------------------------------------------------------------------
		// 3) OpenCode: text/plain + text/markdown, q= 가중치 있음
		// ------------------------------------------------------------------
		Rule{
			Name: "opencode-fetch",
			match: func(n normalized) bool {
				return strings.Contains(n.accept, mimePlain) && n.wantsMarkdown() && n.hasQualityWeights()
			},
			outcome: fixed(Classification{Category: CategoryCodingAgent, Agent: AgentOpenCode}),
		},

		// ------------------------------------------------------------------
		// 4) Claude computer use: "claude/1.0" 또는 "claude" + "compatible"
		// ------------------------------------------------------------------
		Rule{
			Name: "claude-browsing",
			match: func(n normalized) bool {
				return strings.Contains(n.ua, "claude/1.0") ||
					(strings.Contains(n.ua, "claude") && strings.Contains(n.ua, "compatible"))
			},
			outcome: fixed(Classification{Category: CategoryBrowsingAgent, Agent: AgentClaudeComputerUse, Filtered: true}),
		},

		// ------------------------------------------------------------------
		// 5) Perplexity Comet
		// ------------------------------------------------------------------
		Rule{
			Name: "perplexity-browsing",
			match: func(n normalized) bool {
				return strings.Contains(n.ua, "perplexity-user")
			},
			outcome: fixed(Classification{Category: CategoryBrowsingAgent, Agent: AgentPerplexityComet, Filtered: true}),
		},

		// ------------------------------------------------------------------
		// 6) 식별 안 된 markdown 요청 클라이언트 → 알 수 없는 coding-agent
		// ------------------------------------------------------------------
		Rule{
			Name:    "markdown-fallback",
			match:   normalized.wantsMarkdown,
			outcome: fixed(Classification{Category: CategoryCodingAgent, Agent: AgentUnknownCodingAgent}),
		},

		// ------------------------------------------------------------------
		// 7) bot 카탈로그. agent 는 카탈로그 순서상 첫 매칭 항목
		// ------------------------------------------------------------------
		Rule{
			Name: "bot-catalog",
			match: func(n normalized) bool {
				_, ok := firstContained(n.ua, botPatterns)
				return ok
			},
			outcome: func(n normalized) Classification {
				return Classification{Category: CategoryBot, Agent: detectBotName(n.ua), Filtered: true}
			},
		},

		// ------------------------------------------------------------------
		// 8) 프리뷰/개발 host → human 이지만 filtered
		// ------------------------------------------------------------------
		Rule{
			Name: "preview-host",
			match: func(n normalized) bool {
				_, ok := firstContained(n.host, previewHostPatterns)
				return ok
			},
			outcome: fixed(Classification{Category: CategoryHuman, Agent: AgentBrowser, Filtered: true}),
		},
	)

	return rules
}
