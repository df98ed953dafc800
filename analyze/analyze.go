// Package analyze runs the whole pipeline for a raw text: language
// selection, annotation, aggregation, prompt rendering, generation and
// optional persistence of the result for its owner.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/revelaction/stylo/llm"
	"github.com/revelaction/stylo/nlp"
	"github.com/revelaction/stylo/prompt"
	"github.com/revelaction/stylo/stat"
	"github.com/revelaction/stylo/storage"
)

// ErrNoContent is returned for empty input, and for input the parser finds
// no sentence in.
var ErrNoContent = nlp.ErrNoContent

type Request struct {
	Text string

	// Lang is a language code; empty means detect it from Text.
	Lang string

	// User owns the stored record. Empty means do not store.
	User string
}

type Result struct {
	Language string     `json:"language"`
	Prompt   string     `json:"prompt"`
	Analysis string     `json:"analysis"`
	Stats    stat.Stats `json:"stats"`
	RecordId int        `json:"record_id,omitempty"`
}

// Service wires a parser, a generator and a record store. A nil Generator
// stops after the prompt is rendered, a nil Records skips persistence.
type Service struct {
	Parser    nlp.Parser
	Generator llm.Generator
	Records   storage.AnalysisRepository

	Logger *slog.Logger
}

func NewService(p nlp.Parser, g llm.Generator, records storage.AnalysisRepository) *Service {
	return &Service{Parser: p, Generator: g, Records: records, Logger: slog.Default()}
}

// Language returns the language of the request: the explicit one if set,
// otherwise the detected one.
func Language(req Request) (prompt.Lang, error) {
	if req.Lang == "" {
		return nlp.Detect(req.Text), nil
	}
	return prompt.ParseLang(req.Lang)
}

func (s *Service) Analyze(ctx context.Context, req Request) (Result, error) {
	if nlp.IsBlank(req.Text) {
		return Result{}, ErrNoContent
	}

	lang, err := Language(req)
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	doc, err := s.Parser.Parse(ctx, req.Text, lang)
	if err != nil {
		return Result{}, fmt.Errorf("parse: %w", err)
	}
	if doc.Text == "" {
		doc.Text = req.Text
	}

	st, err := stat.Reduce(doc)
	if err != nil {
		if errors.Is(err, stat.ErrNoContent) {
			return Result{}, ErrNoContent
		}
		return Result{}, err
	}

	p, err := prompt.Render(lang, st)
	if err != nil {
		return Result{}, fmt.Errorf("prompt: %w", err)
	}

	res := Result{Language: lang.String(), Prompt: p, Stats: st}
	s.logger().Debug("text reduced", "lang", res.Language, "sentences", st.NumSentences, "tokens", st.NumTokens, "elapsed", time.Since(start))

	if s.Generator != nil {
		res.Analysis, err = s.Generator.Generate(ctx, p)
		if err != nil {
			return Result{}, fmt.Errorf("generate: %w", err)
		}
	}

	if s.Records == nil || req.User == "" {
		return res, nil
	}

	user, err := s.Records.User(req.User)
	if err != nil {
		return Result{}, fmt.Errorf("user %q: %w", req.User, err)
	}

	res.RecordId, err = s.Records.WriteAnalysis(storage.Analysis{
		OwnerId: user.Id,
		Lang:    res.Language,
		Input:   req.Text,
		Prompt:  p,
		Output:  res.Analysis,
		Stats:   st,
	})
	if err != nil {
		return Result{}, fmt.Errorf("store analysis: %w", err)
	}

	s.logger().Info("analysis stored", "user", req.User, "record", res.RecordId)
	return res, nil
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
