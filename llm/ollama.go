package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	OllamaEndpoint = "http://127.0.0.1:11434"
	OllamaModel    = "llama3.1:8b"
)

// Ollama calls the /api/generate endpoint of a local Ollama server.
type Ollama struct {
	endpoint string
	model    string
	client   *http.Client
}

var _ Generator = (*Ollama)(nil)

func NewOllama(cfg Config) *Ollama {
	o := &Ollama{
		endpoint: OllamaEndpoint,
		model:    OllamaModel,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.Endpoint != "" {
		o.endpoint = strings.TrimRight(strings.TrimSuffix(strings.TrimRight(cfg.Endpoint, "/"), "/api/generate"), "/")
	}
	if cfg.Model != "" {
		o.model = cfg.Model
	}
	if cfg.Timeout <= 0 {
		o.client.Timeout = DefaultConfig().Timeout
	}
	return o
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

func (o *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model":  o.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature": 0,
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint+"/api/generate", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ollama response: %w", err)
	}

	var out ollamaResponse
	jsonErr := json.Unmarshal(body, &out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if jsonErr == nil && out.Error != "" {
			return "", fmt.Errorf("ollama status %d: %s", resp.StatusCode, out.Error)
		}
		return "", fmt.Errorf("ollama status %d", resp.StatusCode)
	}
	if jsonErr != nil {
		return "", fmt.Errorf("ollama response: JSON decoding error: %w", jsonErr)
	}

	text := strings.TrimSpace(out.Response)
	if text == "" {
		return "", fmt.Errorf("empty model response")
	}
	return text, nil
}
