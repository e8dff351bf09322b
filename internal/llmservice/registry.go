package llmservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"

	"librarychat/internal/config"
)

// ErrUnknownLLM is returned when a dialogue names a chat-model provider
// that was never registered.
var ErrUnknownLLM = errors.New("unknown llm provider")

// Factory builds a chat model at the given sampling temperature.
type Factory func(temperature float64) (llms.Model, error)

type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

func NewDefaultRegistry(cfg *config.LLMProviders) *Registry {
	r := NewRegistry()
	r.Register("dashscope", func(temperature float64) (llms.Model, error) {
		return withTemperature(NewDashscopeChat(&cfg.Dashscope))(temperature)
	})
	r.Register("openai", func(temperature float64) (llms.Model, error) {
		return withTemperature(NewOpenAIChat(&cfg.OpenAI))(temperature)
	})
	r.Register("ollama", func(temperature float64) (llms.Model, error) {
		return withTemperature(NewOllamaChat(&cfg.Ollama))(temperature)
	})
	return r
}

// boundModel pins a sampling temperature on every call. langchaingo treats
// temperature as a call option, but our provider contract fixes it at
// construction time.
type boundModel struct {
	llms.Model
	temperature float64
}

func (m boundModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	return m.Model.GenerateContent(ctx, messages, append(options, llms.WithTemperature(m.temperature))...)
}

func (m boundModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return m.Model.Call(ctx, prompt, append(options, llms.WithTemperature(m.temperature))...)
}

func withTemperature(model llms.Model, err error) func(float64) (llms.Model, error) {
	return func(temperature float64) (llms.Model, error) {
		if err != nil {
			return nil, err
		}
		return boundModel{Model: model, temperature: temperature}, nil
	}
}

func (r *Registry) Register(name string, f Factory) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

func (r *Registry) Get(name string, temperature float64) (llms.Model, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLLM, name)
	}
	return f(temperature)
}
