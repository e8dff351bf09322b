package llmservice

import (
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"librarychat/internal/config"
)

const dashscopeCompatibleBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"

// NewOpenAIChat builds a chat model against an OpenAI-compatible endpoint.
func NewOpenAIChat(llmConfig *config.LLMConfig) (llms.Model, error) {
	return openai.New(
		openai.WithBaseURL(llmConfig.BaseURL),
		openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
		openai.WithModel(llmConfig.Model),
	)
}

// NewDashscopeChat builds a chat model against DashScope's OpenAI-compatible
// endpoint.
func NewDashscopeChat(llmConfig *config.LLMConfig) (llms.Model, error) {
	baseURL := llmConfig.BaseURL
	if baseURL == "" {
		baseURL = dashscopeCompatibleBaseURL
	}
	return openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
		openai.WithModel(llmConfig.Model),
	)
}

// NewOllamaChat builds a chat model against a local ollama server.
func NewOllamaChat(llmConfig *config.LLMConfig) (llms.Model, error) {
	return ollama.New(
		ollama.WithServerURL(llmConfig.BaseURL),
		ollama.WithModel(llmConfig.Model),
	)
}
