package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		ua     string
		accept string
		host   string
		want   Classification
	}{
		{
			name:   "claude code webfetch via axios",
			ua:     "Mozilla/5.0 ... axios/1.0",
			accept: "text/markdown",
			host:   "example.com",
			want:   Classification{Category: CategoryCodingAgent, Agent: AgentClaudeCode},
		},
		{
			name:   "opencode weighted accept",
			ua:     "Mozilla/5.0 ... axios/1.0",
			accept: "text/plain;q=0.9,text/markdown;q=0.8",
			host:   "example.com",
			want:   Classification{Category: CategoryCodingAgent, Agent: AgentOpenCode},
		},
		{
			name:   "googlebot",
			ua:     "Mozilla/5.0 (compatible; Googlebot/2.1)",
			accept: "text/html",
			host:   "example.com",
			want:   Classification{Category: CategoryBot, Agent: "googlebot", Filtered: true},
		},
		{
			name:   "preview host",
			ua:     "Mozilla/5.0",
			accept: "text/html",
			host:   "myapp.vercel.app",
			want:   Classification{Category: CategoryHuman, Agent: AgentBrowser, Filtered: true},
		},
		{
			name:   "plain human",
			ua:     "Mozilla/5.0",
			accept: "text/html",
			host:   "example.com",
			want:   Classification{Category: CategoryHuman, Agent: AgentBrowser},
		},
		{
			name: "empty input falls through to default",
			want: Classification{Category: CategoryHuman, Agent: AgentBrowser},
		},
		{
			name:   "claude code ua",
			ua:     "claude-code/1.0.3",
			accept: "application/json",
			want:   Classification{Category: CategoryCodingAgent, Agent: AgentClaudeCode},
		},
		{
			name: "claudecode ua without dash",
			ua:   "ClaudeCode",
			want: Classification{Category: CategoryCodingAgent, Agent: AgentClaudeCode},
		},
		{
			name: "codex ua",
			ua:   "Codex-CLI/0.2",
			want: Classification{Category: CategoryCodingAgent, Agent: AgentCodex},
		},
		{
			name: "opencode ua",
			ua:   "opencode/0.5",
			want: Classification{Category: CategoryCodingAgent, Agent: AgentOpenCode},
		},
		{
			name: "chatgpt-user maps to codex",
			ua:   "Mozilla/5.0 AppleWebKit/537.36; compatible; ChatGPT-User/1.0",
			want: Classification{Category: CategoryCodingAgent, Agent: AgentCodex},
		},
		{
			name:   "claude computer use version token",
			ua:     "Claude/1.0",
			accept: "text/html",
			want:   Classification{Category: CategoryBrowsingAgent, Agent: AgentClaudeComputerUse, Filtered: true},
		},
		{
			name:   "claude compatible",
			ua:     "Mozilla/5.0 (compatible; Claude-User)",
			accept: "text/html",
			want:   Classification{Category: CategoryBrowsingAgent, Agent: AgentClaudeComputerUse, Filtered: true},
		},
		{
			name:   "perplexity comet",
			ua:     "Mozilla/5.0 Perplexity-User/1.0",
			accept: "text/html",
			want:   Classification{Category: CategoryBrowsingAgent, Agent: AgentPerplexityComet, Filtered: true},
		},
		{
			name:   "unknown markdown client",
			ua:     "SomeTool/2.0",
			accept: "text/markdown, text/html",
			want:   Classification{Category: CategoryCodingAgent, Agent: AgentUnknownCodingAgent},
		},
		{
			name:   "markdown wins over bot catalog",
			ua:     "curl/8.4.0",
			accept: "text/markdown;q=1.0",
			want:   Classification{Category: CategoryCodingAgent, Agent: AgentUnknownCodingAgent},
		},
		{
			name:   "axios with html is a bot",
			ua:     "axios/1.6.0",
			accept: "text/html",
			want:   Classification{Category: CategoryBot, Agent: "axios", Filtered: true},
		},
		{
			name:   "bot wins over preview host",
			ua:     "curl/8.4.0",
			accept: "text/html",
			host:   "localhost:3000",
			want:   Classification{Category: CategoryBot, Agent: "curl", Filtered: true},
		},
		{
			name:   "preview host is case insensitive",
			ua:     "Mozilla/5.0",
			accept: "text/html",
			host:   "Feature-X.Pages.Dev",
			want:   Classification{Category: CategoryHuman, Agent: AgentBrowser, Filtered: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.ua, tt.accept, tt.host))
		})
	}
}

func TestClassify_CodingAgentUADominates(t *testing.T) {
	uas := []string{"claude-code/2.0", "claudecode", "codex", "OpenCode/1", "ChatGPT-User"}
	accepts := []string{"", "text/html", "application/json", "text/plain;q=0.9,text/markdown;q=0.8"}
	hosts := []string{"", "example.com", "localhost", "x.vercel.app"}

	for _, ua := range uas {
		// bot 시그니처를 같이 붙여도 결과는 동일해야 한다
		for _, suffix := range []string{"", " curl/8.0 googlebot", " Claude/1.0 compatible"} {
			for _, accept := range accepts {
				for _, host := range hosts {
					got := Classify(ua+suffix, accept, host)
					assert.Equal(t, CategoryCodingAgent, got.Category, "ua=%q accept=%q host=%q", ua+suffix, accept, host)
					assert.False(t, got.Filtered)
				}
			}
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	in := Input{UserAgent: "Mozilla/5.0 (compatible; bingbot/2.0)", AcceptHeader: "text/html", Host: "example.com"}
	first := ClassifyInput(in)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, ClassifyInput(in))
	}
}

func TestEvaluate_RuleNames(t *testing.T) {
	tests := []struct {
		in   Input
		rule string
	}{
		{Input{UserAgent: "codex"}, "coding-agent-ua:codex"},
		{Input{UserAgent: "axios/1.0", AcceptHeader: "text/markdown"}, "claude-code-fetch"},
		{Input{AcceptHeader: "text/plain;q=0.5, text/markdown"}, "opencode-fetch"},
		{Input{UserAgent: "Claude/1.0"}, "claude-browsing"},
		{Input{UserAgent: "perplexity-user"}, "perplexity-browsing"},
		{Input{AcceptHeader: "text/markdown"}, "markdown-fallback"},
		{Input{UserAgent: "wget/1.21"}, "bot-catalog"},
		{Input{UserAgent: "Mozilla/5.0", Host: "127.0.0.1:8080"}, "preview-host"},
		{Input{UserAgent: "Mozilla/5.0", Host: "docs.example.com"}, ruleDefault},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			_, rule := Evaluate(tt.in)
			assert.Equal(t, tt.rule, rule)
		})
	}
}

func TestRules_OrderIsStable(t *testing.T) {
	var names []string
	for _, r := range Rules {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{
		"coding-agent-ua:claude-code",
		"coding-agent-ua:codex",
		"coding-agent-ua:opencode",
		"coding-agent-ua:codex",
		"claude-code-fetch",
		"opencode-fetch",
		"claude-browsing",
		"perplexity-browsing",
		"markdown-fallback",
		"bot-catalog",
		"preview-host",
	}, names)
}

func TestDetectBotName(t *testing.T) {
	assert.Equal(t, "googlebot", DetectBotName("Mozilla/5.0 (compatible; Googlebot/2.1) curl"))
	assert.Equal(t, "curl", DetectBotName("curl/8.4.0 python-requests"))
	assert.Equal(t, "java/", DetectBotName("Java/17.0.2"))
	assert.Equal(t, AgentUnknownBot, DetectBotName("Mozilla/5.0"))
	assert.Equal(t, AgentUnknownBot, DetectBotName(""))
}

func TestDetectBotName_AgreesWithBotRule(t *testing.T) {
	// 카탈로그의 모든 패턴에 대해 bot 규칙이 unknown-bot 을 내지 않아야 한다
	for _, p := range botPatterns {
		ua := "Agent " + strings.ToUpper(p) + " test"
		got := Classify(ua, "text/html", "example.com")
		if got.Category != CategoryBot {
			// "claude"+"compatible" 같은 상위 규칙에 먼저 걸리는 경우는 제외
			continue
		}
		assert.NotEqual(t, AgentUnknownBot, got.Agent, "pattern %q", p)
	}
}

func TestIsPageView(t *testing.T) {
	tests := []struct {
		accept string
		want   bool
	}{
		{"text/html", true},
		{"TEXT/HTML,application/xhtml+xml", true},
		{"text/markdown", true},
		{"Text/Plain", true},
		{"text/markdown, text/plain;q=0.9", true},
		{"application/json", false},
		{"*/*", false},
		{"image/webp,image/apng", false},
		{"text/css", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPageView(tt.accept))
		})
	}
}

func TestCatalogAccessors_ReturnCopies(t *testing.T) {
	bots := BotPatterns()
	require.Equal(t, botPatterns, bots)
	bots[0] = "mutated"
	assert.Equal(t, "googlebot", botPatterns[0])
	assert.Equal(t, "googlebot", DetectBotName("Googlebot/2.1"))

	hosts := PreviewHostPatterns()
	require.Equal(t, previewHostPatterns, hosts)
	hosts[0] = "example.com"
	assert.Equal(t, ".vercel.app", previewHostPatterns[0])
	assert.False(t, Classify("Mozilla/5.0", "text/html", "example.com").Filtered)
}
