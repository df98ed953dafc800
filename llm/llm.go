// Package llm sends rendered prompts to a generative model.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Generator produces a completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// Config selects and configures a Generator.
type Config struct {
	Provider string

	// Endpoint overrides the provider base URL.
	Endpoint string
	Model    string
	APIKey   string

	Timeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Provider: ProviderGemini,
		Timeout:  120 * time.Second,
	}
}

// New returns the Generator of cfg.Provider.
func New(cfg Config) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderGemini, "":
		return NewGemini(cfg)
	case ProviderOllama:
		return NewOllama(cfg), nil
	}

	return nil, fmt.Errorf("unknown llm provider %q (supported: %s, %s)", cfg.Provider, ProviderGemini, ProviderOllama)
}

// Providers returns the supported provider names.
func Providers() []string {
	return []string{ProviderGemini, ProviderOllama}
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 220 {
		s = s[:220] + "..."
	}
	return s
}
