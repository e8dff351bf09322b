package llmservice

import (
	"context"
	"errors"
	"testing"

	"github.com/tmc/langchaingo/llms"
)

type echoModel struct{}

func (echoModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "ok"}}}, nil
}

func (echoModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "ok", nil
}

func TestRegistryUnknownLLM(t *testing.T) {
	r := NewRegistry()
	r.Register("dashscope", func(temperature float64) (llms.Model, error) {
		return echoModel{}, nil
	})

	if _, err := r.Get("gpt-7", 0); !errors.Is(err, ErrUnknownLLM) {
		t.Fatalf("expected ErrUnknownLLM, got %v", err)
	}
}

func TestRegistryReturnsModel(t *testing.T) {
	r := NewRegistry()
	r.Register("dashscope", func(temperature float64) (llms.Model, error) {
		return echoModel{}, nil
	})

	model, err := r.Get("dashscope", 0.3)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp, err := model.GenerateContent(context.Background(), nil)
	if err != nil || resp.Choices[0].Content != "ok" {
		t.Fatalf("unexpected response %v, err %v", resp, err)
	}
}
