// Package rag implements the conversational retrieval chain: an incoming
// question is made standalone against the chat history, relevant chunks are
// retrieved from the library's collection, and a grounded answer is produced.
package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

const condenseSystemPrompt = `Given a chat history and the latest user question ` +
	`which might reference the chat history, formulate a standalone question ` +
	`which can be understood without the chat history. Do NOT answer the question, ` +
	`just reformulate it if needed and otherwise return it as is.`

const answerSystemPrompt = `You are an assistant for question-answering tasks. ` +
	`Use the following pieces of retrieved context to answer the question. ` +
	`If you don't know the answer, just say that you don't know. ` +
	`Use three sentences maximum and keep the answer concise.

%s`

var (
	// ErrModelInvocation tags chat-model failures. A failed condensation or
	// answer aborts the invocation; answering against a mis-retrieved
	// context would be worse than failing loudly.
	ErrModelInvocation = errors.New("chat model invocation failed")
	// ErrRetrieval tags vector-store query failures.
	ErrRetrieval = errors.New("retrieval failed")
)

type Chain struct {
	llm       llms.Model
	retriever schema.Retriever
}

func NewChain(llm llms.Model, retriever schema.Retriever) *Chain {
	return &Chain{llm: llm, retriever: retriever}
}

// Invoke answers one question. With a non-empty history the question is
// first condensed into a standalone one, since a pronoun-laden follow-up
// embeds poorly on its own; with empty history the question is used
// verbatim and no condensation call is made. The answer step always sees
// the full original history and the original question.
func (c *Chain) Invoke(ctx context.Context, question string, chatHistory []llms.ChatMessage) (string, error) {
	standalone := question
	if len(chatHistory) > 0 {
		condensed, err := c.condense(ctx, question, chatHistory)
		if err != nil {
			return "", err
		}
		standalone = condensed
	}

	docs, err := c.retriever.GetRelevantDocuments(ctx, standalone)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRetrieval, err)
	}

	return c.answer(ctx, question, chatHistory, formatDocs(docs))
}

func (c *Chain) condense(ctx context.Context, question string, chatHistory []llms.ChatMessage) (string, error) {
	messages := make([]llms.MessageContent, 0, len(chatHistory)+2)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, condenseSystemPrompt))
	messages = append(messages, historyParts(chatHistory)...)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, question))

	return c.generate(ctx, messages)
}

func (c *Chain) answer(ctx context.Context, question string, chatHistory []llms.ChatMessage, contextBlock string) (string, error) {
	messages := make([]llms.MessageContent, 0, len(chatHistory)+2)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, fmt.Sprintf(answerSystemPrompt, contextBlock)))
	messages = append(messages, historyParts(chatHistory)...)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, question))

	return c.generate(ctx, messages)
}

func (c *Chain) generate(ctx context.Context, messages []llms.MessageContent) (string, error) {
	resp, err := c.llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelInvocation, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrModelInvocation)
	}
	return resp.Choices[0].Content, nil
}

// formatDocs joins retrieved chunk texts with blank lines, preserving
// retrieval order: most similar first.
func formatDocs(docs []schema.Document) string {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.PageContent
	}
	return strings.Join(texts, "\n\n")
}

func historyParts(chatHistory []llms.ChatMessage) []llms.MessageContent {
	parts := make([]llms.MessageContent, len(chatHistory))
	for i, m := range chatHistory {
		parts[i] = llms.TextParts(m.GetType(), m.GetContent())
	}
	return parts
}
