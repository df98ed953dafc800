// Package nlp defines the annotation contract consumed by the aggregator and
// the clients that fulfill it. stylo does not tokenize, tag or parse: an
// external spaCy service does, and returns the annotated document as JSON.
package nlp

import (
	"context"
	"errors"
	"strings"

	"github.com/revelaction/stylo/prompt"
	sent "github.com/revelaction/stylo/sentence"
)

// ErrNoContent is returned for empty or whitespace only input. Such text is
// never sent to a parser.
var ErrNoContent = errors.New("no content")

// Parser turns raw text into an annotated document.
type Parser interface {
	Parse(ctx context.Context, text string, lang prompt.Lang) (sent.Doc, error)
}

// Default spaCy pipelines per language.
const (
	ModelEnglish = "en_core_web_md"
	ModelChinese = "zh_core_web_sm"
)

// Models maps each language to its pipeline name.
type Models map[prompt.Lang]string

func DefaultModels() Models {
	return Models{
		prompt.English: ModelEnglish,
		prompt.Chinese: ModelChinese,
	}
}

// IsBlank reports whether text has no content to analyze.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
