package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/revelaction/stylo/prompt"
	sent "github.com/revelaction/stylo/sentence"
)

// Config configures the HTTP parser client.
type Config struct {
	// Endpoint is the base URL of the spaCy service, f.ex.
	// http://localhost:8090
	Endpoint string

	Models Models

	Timeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Models:  DefaultModels(),
		Timeout: 60 * time.Second,
	}
}

// Client calls an external spaCy service:
//
//	POST {endpoint}/parse {"text": "...", "model": "en_core_web_md"}
//
// The service answers with an annotated document in the doc JSON format, each
// sentence a list of tokens carrying pos, dep, tag, lemma, text and morph.
type Client struct {
	endpoint string
	models   Models
	http     *http.Client
}

var _ Parser = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("nlp endpoint not configured")
	}

	models := DefaultModels()
	for l, m := range cfg.Models {
		models[l] = m
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}

	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		models:   models,
		http:     &http.Client{Timeout: timeout},
	}, nil
}

type parseRequest struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

// parseResponse accepts both the sentence list format and the legacy
// tokens: [][]Token format.
type parseResponse struct {
	Sentences []sent.Sentence `json:"sentences"`
	Tokens    [][]sent.Token  `json:"tokens"`
	Error     string          `json:"error"`
}

func (c *Client) Parse(ctx context.Context, text string, lang prompt.Lang) (sent.Doc, error) {
	if IsBlank(text) {
		return sent.Doc{}, ErrNoContent
	}

	body, err := json.Marshal(parseRequest{Text: text, Model: c.models[lang]})
	if err != nil {
		return sent.Doc{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/parse", bytes.NewReader(body))
	if err != nil {
		return sent.Doc{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("nlp request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("nlp response: %w", err)
	}

	var out parseResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return sent.Doc{}, fmt.Errorf("nlp response: JSON decoding error: %w", err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if out.Error != "" {
			return sent.Doc{}, fmt.Errorf("nlp service status %d: %s", resp.StatusCode, out.Error)
		}
		return sent.Doc{}, fmt.Errorf("nlp service status %d", resp.StatusCode)
	}

	doc := sent.Doc{
		Lang:      lang.String(),
		Text:      text,
		Sentences: out.Sentences,
	}

	if len(doc.Sentences) == 0 {
		for i, tokens := range out.Tokens {
			doc.Sentences = append(doc.Sentences, sent.Sentence{Id: i, Tokens: tokens})
		}
	}

	return doc, nil
}
