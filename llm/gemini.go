package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	GeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	GeminiModel    = "gemini-2.5-flash"
)

// Gemini calls the generateContent REST method of the Gemini API.
type Gemini struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
}

var _ Generator = (*Gemini)(nil)

func NewGemini(cfg Config) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key not configured")
	}

	g := &Gemini{
		endpoint: GeminiEndpoint,
		model:    GeminiModel,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.Endpoint != "" {
		g.endpoint = strings.TrimRight(cfg.Endpoint, "/")
	}
	if cfg.Model != "" {
		g.model = cfg.Model
	}
	if cfg.Timeout <= 0 {
		g.client.Timeout = DefaultConfig().Timeout
	}

	return g, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	u := fmt.Sprintf("%s/models/%s:generateContent", g.endpoint, url.PathEscape(g.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini response: %w", err)
	}

	var out geminiResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return "", fmt.Errorf("gemini status %d: %q", resp.StatusCode, snippet(string(raw)))
		}
		return "", fmt.Errorf("gemini response: JSON decoding error: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if out.Error != nil {
			return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode, out.Error.Message)
		}
		return "", fmt.Errorf("gemini status %d", resp.StatusCode)
	}

	var text strings.Builder
	for _, c := range out.Candidates {
		for _, p := range c.Content.Parts {
			text.WriteString(p.Text)
		}
		if text.Len() > 0 {
			break
		}
	}

	if text.Len() == 0 {
		return "", errors.New("gemini returned no candidates")
	}

	return text.String(), nil
}
