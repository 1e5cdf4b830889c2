package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/smartadvisor/backend/pkg/llm"
)

// Client talks to Ollama's native /api/generate endpoint. That endpoint takes
// a single prompt, so the message list is flattened into role-tagged text.
type Client struct {
	BaseURL string
	Model   string
	httpDo  *http.Client
}

func New(baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		httpDo:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *Client) Name() string { return "ollama" }

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options,omitempty"`
}

type generateOptions struct {
	Temperature float32 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate flattens the messages into one prompt and returns the reply text.
func (c *Client) Generate(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.Model,
		Prompt: flatten(messages),
		Stream: false,
		Options: generateOptions{
			Temperature: opts.Temperature,
			NumPredict:  opts.MaxTokens,
		},
	})
	if err != nil {
		return "", c.wrap(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", c.wrap(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpDo.Do(req)
	if err != nil {
		return "", c.wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.wrap(fmt.Errorf("http %d", resp.StatusCode))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", c.wrap(err)
	}
	return out.Response, nil
}

// flatten renders system content first, then the dialog turns, and leaves the
// model positioned to continue as the assistant.
func flatten(messages []llm.Message) string {
	var b strings.Builder
	for _, m := range messages {
		switch m.Role {
		case "system":
			b.WriteString(m.Content)
			b.WriteString("\n\n")
		case "assistant":
			b.WriteString("Assistant: ")
			b.WriteString(m.Content)
			b.WriteString("\n")
		default:
			b.WriteString("User: ")
			b.WriteString(m.Content)
			b.WriteString("\n")
		}
	}
	b.WriteString("Assistant:")
	return b.String()
}

func (c *Client) wrap(err error) error {
	return &llm.Error{Provider: c.Name(), Err: err}
}
