// Package prompt renders aggregated text statistics into the instruction
// prompt sent to a generative model.
//
// The field set and its rounding are a contract with the prompt consumers:
// averages and standard deviations are rounded to 2 decimals, ranges are
// integers, oscillation ratios are raw, and only the 5 most common lemmas
// are listed. Frequency tables are rendered as mapping literals in first seen
// order, f.ex. {'NOUN': 12, 'VERB': 7}.
package prompt

import (
	"embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/revelaction/stylo/stat"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

var templates = map[Lang]*template.Template{
	English: mustParse("en.tmpl"),
	Chinese: mustParse("zh.tmpl"),
}

var funcs = template.FuncMap{"num": Float}

func mustParse(name string) *template.Template {
	return template.Must(template.New(name).Funcs(funcs).ParseFS(templateFiles, "templates/"+name))
}

// Fields is the flattened data substituted into a template.
type Fields struct {
	TextExcerpt string

	AvgSentenceLength   float64
	StdSentenceLength   float64
	RangeSentenceLength int
	OscSentenceLength   float64

	AvgTokenLength   float64
	StdTokenLength   float64
	RangeTokenLength int
	OscTokenLength   float64

	AvgClausesPerSentence   float64
	StdClausesPerSentence   float64
	RangeClausesPerSentence int
	OscClausesPerSentence   float64

	PosFreq       string
	DepFreq       string
	VerbTenseFreq string
	LemmaFreq     string
	MorphsSample  string
}

// NewFields flattens st into the template fields.
func NewFields(st stat.Stats) Fields {
	return Fields{
		TextExcerpt: st.TextExcerpt,

		AvgSentenceLength:   Round2(st.SentenceLength.Average),
		StdSentenceLength:   Round2(st.SentenceLength.Stdev),
		RangeSentenceLength: st.SentenceLength.Range,
		OscSentenceLength:   st.SentenceLength.Oscillation,

		AvgTokenLength:   Round2(st.TokenLength.Average),
		StdTokenLength:   Round2(st.TokenLength.Stdev),
		RangeTokenLength: st.TokenLength.Range,
		OscTokenLength:   st.TokenLength.Oscillation,

		AvgClausesPerSentence:   Round2(st.Clauses.Average),
		StdClausesPerSentence:   Round2(st.Clauses.Stdev),
		RangeClausesPerSentence: st.Clauses.Range,
		OscClausesPerSentence:   st.Clauses.Oscillation,

		PosFreq:       Mapping(st.PosFreq),
		DepFreq:       Mapping(st.DepFreq),
		VerbTenseFreq: Mapping(st.VerbTenseFreq),
		LemmaFreq:     Pairs(st.TopLemmas),
		MorphsSample:  Morphs(st.MorphSample),
	}
}

// Render fills the template of lang with the statistics in st.
func Render(lang Lang, st stat.Stats) (string, error) {
	tmpl, ok := templates[lang]
	if !ok {
		return "", fmt.Errorf("no template for language %s", lang)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, NewFields(st)); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", lang, err)
	}

	return b.String(), nil
}

// Round2 rounds the exact value of f to 2 decimal places, ties to even
// (4.125 -> 4.12, 1.115 -> 1.11).
func Round2(f float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(f, 'f', 2, 64), 64)
	return v
}

// Float formats f with the shortest exact representation, always keeping a
// decimal part (6 -> "6.0", 0.5 -> "0.5").
func Float(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// Mapping renders a frequency table as {'label': count, ...}.
func Mapping(t *stat.Table) string {
	if t == nil {
		return "{}"
	}

	items := make([]string, 0, t.Len())
	for _, c := range t.Counts() {
		items = append(items, quote(c.Label)+": "+strconv.Itoa(c.N))
	}
	return "{" + strings.Join(items, ", ") + "}"
}

// Pairs renders counts as [('label', count), ...].
func Pairs(cs []stat.Count) string {
	items := make([]string, 0, len(cs))
	for _, c := range cs {
		items = append(items, "("+quote(c.Label)+", "+strconv.Itoa(c.N)+")")
	}
	return "[" + strings.Join(items, ", ") + "]"
}

// Morphs renders the nested morphological feature sample.
func Morphs(sample [][][]string) string {
	sents := make([]string, 0, len(sample))
	for _, tokens := range sample {
		toks := make([]string, 0, len(tokens))
		for _, feats := range tokens {
			fs := make([]string, 0, len(feats))
			for _, f := range feats {
				fs = append(fs, quote(f))
			}
			toks = append(toks, "["+strings.Join(fs, ", ")+"]")
		}
		sents = append(sents, "["+strings.Join(toks, ", ")+"]")
	}
	return "[" + strings.Join(sents, ", ") + "]"
}

// quote single quotes s, switching to double quotes when s holds a single
// quote and no double quote.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
