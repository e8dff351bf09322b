package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// scriptedModel returns canned answers in order and records every prompt
// it was asked to generate against.
type scriptedModel struct {
	replies []string
	calls   [][]llms.MessageContent
	err     error
}

func (m *scriptedModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls = append(m.calls, messages)
	if m.err != nil {
		return nil, m.err
	}
	reply := m.replies[len(m.calls)-1]
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: reply}}}, nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)})
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

type stubRetriever struct {
	docs    []schema.Document
	queries []string
	err     error
}

func (r *stubRetriever) GetRelevantDocuments(ctx context.Context, query string) ([]schema.Document, error) {
	r.queries = append(r.queries, query)
	if r.err != nil {
		return nil, r.err
	}
	return r.docs, nil
}

func textOf(m llms.MessageContent) string {
	var sb strings.Builder
	for _, part := range m.Parts {
		if t, ok := part.(llms.TextContent); ok {
			sb.WriteString(t.Text)
		}
	}
	return sb.String()
}

func TestInvokeEmptyHistorySkipsCondensation(t *testing.T) {
	model := &scriptedModel{replies: []string{"the answer"}}
	retriever := &stubRetriever{docs: []schema.Document{{PageContent: "relevant chunk"}}}
	chain := NewChain(model, retriever)

	answer, err := chain.Invoke(context.Background(), "What is a library?", nil)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if answer != "the answer" {
		t.Errorf("got answer %q", answer)
	}
	if len(model.calls) != 1 {
		t.Fatalf("expected a single model call with empty history, got %d", len(model.calls))
	}
	if len(retriever.queries) != 1 || retriever.queries[0] != "What is a library?" {
		t.Errorf("retrieval must use the question verbatim, got %v", retriever.queries)
	}
}

func TestInvokeCondensesWithHistory(t *testing.T) {
	model := &scriptedModel{replies: []string{"What is chunk overlap?", "the answer"}}
	retriever := &stubRetriever{docs: []schema.Document{{PageContent: "overlap chunk"}}}
	chain := NewChain(model, retriever)

	history := []llms.ChatMessage{
		llms.HumanChatMessage{Content: "Tell me about chunking."},
		llms.AIChatMessage{Content: "Documents are split into windows."},
	}
	answer, err := chain.Invoke(context.Background(), "What about its overlap?", history)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if answer != "the answer" {
		t.Errorf("got answer %q", answer)
	}
	if len(model.calls) != 2 {
		t.Fatalf("expected condense then answer, got %d calls", len(model.calls))
	}
	if retriever.queries[0] != "What is chunk overlap?" {
		t.Errorf("retrieval must use the condensed question, got %q", retriever.queries[0])
	}

	// The answer prompt carries the original history and question.
	final := model.calls[1]
	if got := textOf(final[len(final)-1]); got != "What about its overlap?" {
		t.Errorf("answer step must see the original question, got %q", got)
	}
	if got := textOf(final[1]); got != "Tell me about chunking." {
		t.Errorf("answer step must see the original history, got %q", got)
	}
}

func TestInvokeContextJoinsRetrievedOrder(t *testing.T) {
	model := &scriptedModel{replies: []string{"ok"}}
	retriever := &stubRetriever{docs: []schema.Document{
		{PageContent: "first chunk"},
		{PageContent: "second chunk"},
	}}
	chain := NewChain(model, retriever)

	if _, err := chain.Invoke(context.Background(), "q", nil); err != nil {
		t.Fatal(err)
	}
	system := textOf(model.calls[0][0])
	if !strings.Contains(system, "first chunk\n\nsecond chunk") {
		t.Errorf("context chunks not joined in retrieval order:\n%s", system)
	}
}

func TestInvokeRetrievalError(t *testing.T) {
	model := &scriptedModel{replies: []string{"unused"}}
	retriever := &stubRetriever{err: errors.New("connection refused")}
	chain := NewChain(model, retriever)

	_, err := chain.Invoke(context.Background(), "q", nil)
	if !errors.Is(err, ErrRetrieval) {
		t.Fatalf("expected ErrRetrieval, got %v", err)
	}
}

func TestInvokeModelError(t *testing.T) {
	model := &scriptedModel{err: errors.New("rate limited")}
	retriever := &stubRetriever{docs: []schema.Document{{PageContent: "chunk"}}}
	chain := NewChain(model, retriever)

	_, err := chain.Invoke(context.Background(), "q", nil)
	if !errors.Is(err, ErrModelInvocation) {
		t.Fatalf("expected ErrModelInvocation, got %v", err)
	}
}
