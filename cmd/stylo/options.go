package main

import (
	"time"

	"github.com/revelaction/stylo/llm"
	"github.com/revelaction/stylo/nlp"
)

// Option structs for subcommands that have flags
type StatOptions struct {
	DocPath string
	JSON    bool
	Raw     bool
	Color   bool
}

type PromptOptions struct {
	DocPath string
	Lang    string
}

type ServiceOptions struct {
	NLP nlp.Config
	LLM llm.Config

	RedisAddr string
	RedisDB   int
	CacheTTL  time.Duration

	// DocPath is the sqlite file of the docs and the analysis records.
	DocPath string

	// User owns the stored analyses, empty means do not store.
	User string
}

type AnalyzeOptions struct {
	Service    ServiceOptions
	Lang       string
	PromptOnly bool
	Stats      bool
	JSON       bool
	Raw        bool
	Color      bool
}

type BatchOptions struct {
	DocPath string
	Label   string
	OutDir  string
	Workers int
}

type ImportDocOptions struct {
	From   string
	To     string
	Labels []string
}

type ExportDocOptions struct {
	From string
	To   string
}

type LsDocOptions struct {
	Label string
}

type LsLabelsOptions struct {
	Match string
}

type DocOptions struct {
	DocPath string
	Start   int
	Count   int
}

type SentenceOptions struct {
	DocPath string
}

type ServeOptions struct {
	Service    ServiceOptions
	Port       uint
	Prefork    bool
	PromptOnly bool
	Quiet      bool
}

type ShellOptions struct {
	Service    ServiceOptions
	Lang       string
	PromptOnly bool
	Color      bool
}
