package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/embeddings"

	"librarychat/internal/config"
)

const defaultCohereBaseURL = "https://api.cohere.ai"

// CohereClient calls the Cohere embed API. It implements
// embeddings.EmbedderClient so it can be wrapped by embeddings.NewEmbedder.
type CohereClient struct {
	baseURL    string
	key        string
	model      string
	maxRetries int
	client     *http.Client
}

type cohereEmbedReq struct {
	Model     string   `json:"model"`
	Texts     []string `json:"texts"`
	InputType string   `json:"input_type"`
	Truncate  string   `json:"truncate"`
}

type cohereEmbedResp struct {
	Embeddings [][]float32 `json:"embeddings"`
	Message    string      `json:"message,omitempty"`
}

func NewCohereClient(baseURL, key, model string, maxRetries int) *CohereClient {
	if baseURL == "" {
		baseURL = defaultCohereBaseURL
	}
	if model == "" {
		model = "embed-english-v3.0"
	}
	if maxRetries <= 0 {
		maxRetries = 5
	}
	return &CohereClient{
		baseURL:    baseURL,
		key:        key,
		model:      model,
		maxRetries: maxRetries,
		client:     &http.Client{Timeout: 20 * time.Second},
	}
}

// CreateEmbedding embeds texts, retrying transient failures up to the
// configured attempt count. Retrying here is provider client behavior;
// callers above this layer never retry.
func (c *CohereClient) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(cohereEmbedReq{
		Model:     c.model,
		Texts:     texts,
		InputType: "search_document",
		Truncate:  "END",
	})
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		vectors, err := c.embedOnce(ctx, body)
		if err == nil {
			return vectors, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("cohere embed after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *CohereClient) embedOnce(ctx context.Context, body []byte) ([][]float32, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/embed", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.key)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("cohere embed: status %d: %s", resp.StatusCode, msg)
	}

	var decoded cohereEmbedResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	return decoded.Embeddings, nil
}

// NewCohereEmbedder wraps the client in langchaingo's batching embedder.
func NewCohereEmbedder(llmConfig *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	client := NewCohereClient(llmConfig.BaseURL, llmConfig.Key, llmConfig.Model, llmConfig.MaxRetries)
	return embeddings.NewEmbedder(client)
}
