package stat

import (
	"errors"

	sent "github.com/revelaction/stylo/sentence"
)

const (
	// ExcerptLen is the number of characters of the raw text kept in the
	// report.
	ExcerptLen = 500

	// TopLemmas is the number of most common lemmas exposed separately.
	TopLemmas = 5

	// MorphSentences is the number of leading sentences sampled for
	// morphological features.
	MorphSentences = 2
)

// ErrNoContent is returned when a document has nothing to measure.
var ErrNoContent = errors.New("no analyzable content")

type Handler struct {
	stats Stats
}

// Stats is the reduction of an annotated document.
type Stats struct {
	NumSentences         int         `json:"num_sentences"`
	NumTokens            int         `json:"num_tokens"`
	TokensPerSentenceDis map[int]int `json:"tokens_per_sentence_dis"`

	// per sentence token counts, punctuation included
	SentenceLengths []int `json:"sentence_lengths"`
	// character length of every non punctuation token
	TokenLengths []int `json:"token_lengths"`
	// 1 (main clause) + clause dependents, per sentence
	ClauseCounts  []int    `json:"clause_counts"`
	ContentLemmas []string `json:"content_lemmas"`

	PosFreq       *Table  `json:"pos_freq"`
	DepFreq       *Table  `json:"dep_freq"`
	VerbTenseFreq *Table  `json:"verb_tense_freq"`
	LemmaFreq     *Table  `json:"lemma_freq"`
	TopLemmas     []Count `json:"top_lemmas"`

	// MorphSample holds, for each of the first sentences, the feature
	// lists of its tokens that have any.
	MorphSample [][][]string `json:"morph_sample"`

	SentenceLength Summary `json:"sentence_length"`
	TokenLength    Summary `json:"token_length"`
	Clauses        Summary `json:"clauses"`

	TextExcerpt string `json:"text_excerpt"`
}

func (h *Handler) Get() Stats {
	return h.stats
}

func NewHandler() *Handler {
	return &Handler{stats: newStats()}
}

func newStats() Stats {
	return Stats{
		TokensPerSentenceDis: map[int]int{},
		SentenceLengths:      []int{},
		TokenLengths:         []int{},
		ClauseCounts:         []int{},
		ContentLemmas:        []string{},
		PosFreq:              NewTable(),
		DepFreq:              NewTable(),
		VerbTenseFreq:        NewTable(),
		LemmaFreq:            NewTable(),
		MorphSample:          [][][]string{},
	}
}

// Aggregate reduces doc into the handler stats. It returns ErrNoContent if
// the doc has no sentences. Aggregate replaces any previous stats.
func (h *Handler) Aggregate(doc sent.Doc) error {
	if len(doc.Sentences) == 0 {
		return ErrNoContent
	}

	s := newStats()
	s.NumSentences = len(doc.Sentences)

	for i, sentence := range doc.Sentences {
		s.NumTokens += len(sentence.Tokens)
		s.TokensPerSentenceDis[len(sentence.Tokens)]++
		s.SentenceLengths = append(s.SentenceLengths, len(sentence.Tokens))

		clauses := 1
		var morphs [][]string
		for _, token := range sentence.Tokens {
			s.PosFreq.Add(token.PosLabel())
			s.DepFreq.Add(token.DepLabel())

			if token.IsVerbTag() {
				s.VerbTenseFreq.Add(token.Tag)
			}

			if !token.IsPunct() {
				s.TokenLengths = append(s.TokenLengths, token.Len())
			}

			if token.IsContent() {
				s.ContentLemmas = append(s.ContentLemmas, token.Lemma)
				s.LemmaFreq.Add(token.Lemma)
			}

			if token.IsClause() {
				clauses++
			}

			if len(token.Morph) > 0 {
				morphs = append(morphs, append([]string(nil), token.Morph...))
			}
		}

		s.ClauseCounts = append(s.ClauseCounts, clauses)

		if i < MorphSentences {
			if morphs == nil {
				morphs = [][]string{}
			}
			s.MorphSample = append(s.MorphSample, morphs)
		}
	}

	s.TopLemmas = s.LemmaFreq.MostCommon(TopLemmas)
	s.SentenceLength = Measure(s.SentenceLengths)
	s.TokenLength = Measure(s.TokenLengths)
	s.Clauses = Measure(s.ClauseCounts)
	s.TextExcerpt = Excerpt(doc.Text, ExcerptLen)

	h.stats = s
	return nil
}

// TokensPerSentenceMean returns the integer mean of tokens per sentence.
func (s Stats) TokensPerSentenceMean() int {
	if s.NumSentences == 0 {
		return 0
	}
	return s.NumTokens / s.NumSentences
}

// Reduce aggregates doc with a fresh Handler.
func Reduce(doc sent.Doc) (Stats, error) {
	h := NewHandler()
	if err := h.Aggregate(doc); err != nil {
		return Stats{}, err
	}
	return h.Get(), nil
}

// Excerpt returns the first n characters of text.
func Excerpt(text string, n int) string {
	i := 0
	for pos := range text {
		if i == n {
			return text[:pos]
		}
		i++
	}
	return text
}
