package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/smartadvisor/backend/pkg/llm"
)

// Client talks to the OpenAI chat completions API or any server exposing the
// same wire format (LocalAI, Ollama's /v1, vLLM and similar).
type Client struct {
	APIKey  string
	BaseURL string
	Model   string

	// Azure mode: api-key header and deployments-style URL with api-version.
	azure           bool
	azureDeployment string
	azureAPIVersion string

	name   string
	httpDo *http.Client
}

// New builds a client for the standard OpenAI API or a compatible endpoint.
func New(apiKey, baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &Client{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		name:    "openai",
		httpDo:  &http.Client{Timeout: 60 * time.Second},
	}
}

// NewAzure builds a client for an Azure OpenAI deployment.
func NewAzure(endpoint, apiKey, deployment, apiVersion string) *Client {
	return &Client{
		APIKey:          apiKey,
		BaseURL:         strings.TrimRight(endpoint, "/"),
		Model:           deployment,
		azure:           true,
		azureDeployment: deployment,
		azureAPIVersion: apiVersion,
		name:            "azure",
		httpDo:          &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) Name() string { return c.name }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	Temperature float32       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) endpoint() string {
	if c.azure {
		return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
			c.BaseURL, c.azureDeployment, c.azureAPIVersion)
	}
	return c.BaseURL + "/chat/completions"
}

// Generate sends the message list and returns only the reply text.
func (c *Client) Generate(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.Model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", c.wrap(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", c.wrap(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.azure {
		req.Header.Set("api-key", c.APIKey)
	} else if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.httpDo.Do(req)
	if err != nil {
		return "", c.wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errMap map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errMap)
		return "", c.wrap(fmt.Errorf("http %d: %v", resp.StatusCode, errMap))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", c.wrap(err)
	}
	if len(out.Choices) == 0 {
		return "", c.wrap(errors.New("no choices returned by model"))
	}
	return out.Choices[0].Message.Content, nil
}

func (c *Client) wrap(err error) error {
	return &llm.Error{Provider: c.name, Err: err}
}
