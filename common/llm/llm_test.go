package llm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xrsl/cvx-agent/common/llm"
)

var _ = Describe("Resolve", func() {
	DescribeTable("routes model names to provider families",
		func(model string, family llm.Family) {
			Expect(llm.Resolve(model).Family).To(Equal(family))
		},
		Entry("gemini goes to google", "gemini-2.5-flash", llm.FamilyGoogle),
		Entry("flash goes to google", "flash-lite-8b", llm.FamilyGoogle),
		Entry("pro goes to google", "gemini-2.5-pro", llm.FamilyGoogle),
		Entry("claude goes to anthropic", "claude-sonnet-4-5", llm.FamilyAnthropic),
		Entry("haiku goes to anthropic", "haiku-4-5-latest", llm.FamilyAnthropic),
		Entry("opus goes to anthropic", "opus-4-1", llm.FamilyAnthropic),
		Entry("openai/ prefix goes to groq", "openai/gpt-oss-20b", llm.FamilyGroq),
		Entry("qwen/ prefix goes to groq", "qwen/qwen3-32b", llm.FamilyGroq),
		Entry("llama goes to groq", "llama-3.3-70b-versatile", llm.FamilyGroq),
		Entry("mixtral goes to groq", "mixtral-8x7b-32768", llm.FamilyGroq),
		Entry("groq goes to groq", "groq/compound", llm.FamilyGroq),
		Entry("unmatched name falls through to openai", "gpt-4o-mini", llm.FamilyOpenAI),
		Entry("o3 falls through to openai", "o3-mini", llm.FamilyOpenAI),
		Entry("matching is case-insensitive", "Claude-Opus-4", llm.FamilyAnthropic),
		Entry("uppercase gemini still routes", "GEMINI-2.5-FLASH", llm.FamilyGoogle),
	)

	DescribeTable("overlapping keywords resolve by rule order, first match wins",
		func(model string, family llm.Family) {
			Expect(llm.Resolve(model).Family).To(Equal(family))
		},
		// "llama" (groq rule) is declared before "gemini" (google rule)
		Entry("llama beats gemini", "llama-gemini-hybrid", llm.FamilyGroq),
		// "flash" (google rule) is declared before "claude" (anthropic rule)
		Entry("flash beats claude", "claude-flash-experimental", llm.FamilyGoogle),
		// "pro" is a google keyword even in non-google names
		Entry("pro captures unrelated names", "prometheus-7b", llm.FamilyGoogle),
	)

	It("preserves the literal model name on the handle", func() {
		h := llm.Resolve("Claude-Sonnet-4-5")
		Expect(h.Model).To(Equal("Claude-Sonnet-4-5"))
		Expect(h.Family).To(Equal(llm.FamilyAnthropic))
	})
})

var _ = Describe("NewClient", func() {
	var cfg llm.Config

	BeforeEach(func() {
		cfg = llm.Config{
			OpenAI:    llm.ProviderConfig{APIKey: "sk-test"},
			Anthropic: llm.ProviderConfig{APIKey: "sk-ant-test"},
			Google:    llm.ProviderConfig{APIKey: "AIza-test"},
			Groq:      llm.ProviderConfig{APIKey: "gsk-test"},
		}
	})

	It("binds the client to the handle's literal model name", func() {
		for _, model := range []string{"gpt-4o-mini", "claude-sonnet-4-5", "gemini-2.5-flash", "llama-3.3-70b-versatile"} {
			client, err := llm.NewClient(llm.Resolve(model), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(client.Model()).To(Equal(model))
		}
	})

	It("fails without an API key for the resolved family", func() {
		cfg.Anthropic.APIKey = ""
		_, err := llm.NewClient(llm.Resolve("claude-sonnet-4-5"), cfg)
		Expect(err).To(MatchError(ContainSubstring("API key is required")))
	})

	It("fails on an empty model name", func() {
		_, err := llm.NewClient(llm.Handle{Family: llm.FamilyOpenAI}, cfg)
		Expect(err).To(MatchError(ContainSubstring("model name is required")))
	})
})
