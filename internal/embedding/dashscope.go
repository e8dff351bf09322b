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

const defaultDashscopeBaseURL = "https://dashscope.aliyuncs.com"

// DashscopeClient calls the DashScope text-embedding API. Implements
// embeddings.EmbedderClient.
type DashscopeClient struct {
	baseURL string
	key     string
	model   string
	client  *http.Client
}

type dashscopeEmbedReq struct {
	Model string `json:"model"`
	Input struct {
		Texts []string `json:"texts"`
	} `json:"input"`
	Parameters struct {
		TextType string `json:"text_type"`
	} `json:"parameters"`
}

type dashscopeEmbedResp struct {
	Output struct {
		Embeddings []struct {
			TextIndex int       `json:"text_index"`
			Embedding []float32 `json:"embedding"`
		} `json:"embeddings"`
	} `json:"output"`
	Message string `json:"message,omitempty"`
}

func NewDashscopeClient(baseURL, key, model string) *DashscopeClient {
	if baseURL == "" {
		baseURL = defaultDashscopeBaseURL
	}
	if model == "" {
		model = "text-embedding-v2"
	}
	return &DashscopeClient{
		baseURL: baseURL,
		key:     key,
		model:   model,
		client:  &http.Client{Timeout: 20 * time.Second},
	}
}

func (c *DashscopeClient) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	reqBody := dashscopeEmbedReq{Model: c.model}
	reqBody.Input.Texts = texts
	reqBody.Parameters.TextType = "document"

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := c.baseURL + "/api/v1/services/embeddings/text-embedding/text-embedding"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
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
		return nil, fmt.Errorf("dashscope embed: status %d: %s", resp.StatusCode, msg)
	}

	var decoded dashscopeEmbedResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}

	vectors := make([][]float32, len(texts))
	for _, e := range decoded.Output.Embeddings {
		if e.TextIndex < 0 || e.TextIndex >= len(vectors) {
			return nil, fmt.Errorf("dashscope embed: text_index %d out of range", e.TextIndex)
		}
		vectors[e.TextIndex] = e.Embedding
	}
	return vectors, nil
}

func NewDashscopeEmbedder(llmConfig *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	client := NewDashscopeClient(llmConfig.BaseURL, llmConfig.Key, llmConfig.Model)
	return embeddings.NewEmbedder(client)
}
