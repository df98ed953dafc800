package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	sent "github.com/revelaction/stylo/sentence"
	"github.com/revelaction/stylo/stat"
)

var (
	Black   = "\033[1;30m"
	Red     = "\033[1;31m"
	Green   = "\033[1;32m"
	Yellow  = "\033[0;33m"
	Purple  = "\033[1;34m"
	Magenta = "\033[1;35m"
	Teal    = "\033[1;36m"
	Gray    = "\033[0;37m"
	White   = "\033[1;37m"
	Off     = "\033[0m"
	//Yellow256  = "\033[1;38;5;202m"
	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
	Green256  = "\033[1;38;5;70m"
	ClearLine = "\033[K"
)

// Measure names, as printed above each grid.
const (
	SentenceLengthTitle = "Sentence length 句长"
	TokenLengthTitle    = "Token length 词长"
	ClausesTitle        = "Clauses per sentence 从句数"
)

type Renderer struct {
	Out io.Writer

	HasColor bool

	// Raw also prints the per sentence and per token sequences.
	Raw bool
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{Out: w}
}

// Stats prints the three distributions as grid tables followed by the
// frequency tables.
func (r *Renderer) Stats(st stat.Stats) {
	fmt.Fprintf(r.Out, "%s %d, %s %d\n\n", r.title("Sentences"), st.NumSentences, r.title("tokens per sentence"), st.TokensPerSentenceMean())

	r.Summary(SentenceLengthTitle, st.SentenceLength)
	r.Summary(TokenLengthTitle, st.TokenLength)
	r.Summary(ClausesTitle, st.Clauses)

	r.Table("POS", st.PosFreq.Counts())
	r.Table("Dependency", st.DepFreq.Counts())
	r.Table("Verb tense", st.VerbTenseFreq.Counts())
	r.Table("Top lemmas", st.TopLemmas)

	if !r.Raw {
		return
	}

	fmt.Fprintf(r.Out, "%s %v\n", r.title("sentence lengths"), st.SentenceLengths)
	fmt.Fprintf(r.Out, "%s %v\n", r.title("token lengths"), st.TokenLengths)
	fmt.Fprintf(r.Out, "%s %v\n", r.title("clauses"), st.ClauseCounts)
	fmt.Fprintf(r.Out, "%s %v\n", r.title("content lemmas"), st.ContentLemmas)
	fmt.Fprintf(r.Out, "%s %v\n", r.title("morph sample"), st.MorphSample)
}

// Summary prints a Summary as a two column grid: Average and S.d. with
// three decimals, the Range, and the oscillation as a percentage.
func (r *Renderer) Summary(name string, s stat.Summary) {
	rows := [][]string{
		{"Average均值", formatFloat(s.Average, 3)},
		{"S.d.标准差", formatFloat(s.Stdev, 3)},
		{"Range范围", strconv.Itoa(s.Range)},
		{"Osc % 波动", fmt.Sprintf("%.1f%%", s.Oscillation*100)},
	}

	fmt.Fprintln(r.Out, r.title(name))
	fmt.Fprintln(r.Out, Grid(rows))
}

// Table prints label counts as a grid, in the given order.
func (r *Renderer) Table(name string, counts []stat.Count) {
	if len(counts) == 0 {
		return
	}

	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Label, strconv.Itoa(c.N)})
	}

	fmt.Fprintln(r.Out, r.title(name))
	fmt.Fprintln(r.Out, Grid(rows))
}

// Sentence prints the text of the sentence followed by one line per token.
func (r *Renderer) Sentence(s sent.Sentence, prefix string) {
	fmt.Fprintf(r.Out, "%s%s\n\n", prefix, strings.ReplaceAll(Text(s.Tokens), "\n", " "))

	for _, token := range s.Tokens {
		fmt.Fprintf(r.Out, "%20q %15q %8s %6d %6d %8s %6s %s\n", token.Text, token.Lemma, token.PosLabel(), token.Id, token.Head, token.DepLabel(), token.Tag, strings.Join(token.Morph, "|"))
	}
}

// Text rebuilds the source text of the tokens from their character
// offsets. Tokens sharing an offset (multi token words) are written once.
func Text(tokens []sent.Token) string {
	var str strings.Builder
	var lastIdx, lastLen int
	for i, token := range tokens {
		l := token.Len()
		if i == 0 {
			str.WriteString(token.Text)
			lastIdx = token.Idx
			lastLen = l
			continue
		}

		diff := token.Idx - lastIdx
		if diff > 0 {
			if gap := diff - lastLen; gap > 0 {
				str.WriteString(strings.Repeat(" ", gap))
			}
			str.WriteString(token.Text)
		}

		lastIdx = token.Idx
		lastLen = l
	}

	return str.String()
}

// Grid draws rows as a bordered table. Column widths are display widths,
// so that wide (CJK) characters line up.
func Grid(rows [][]string) string {
	widths := []int{}
	for _, row := range rows {
		for i, cell := range row {
			if i == len(widths) {
				widths = append(widths, 0)
			}
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sep strings.Builder
	sep.WriteString("+")
	for _, w := range widths {
		sep.WriteString(strings.Repeat("-", w+2))
		sep.WriteString("+")
	}

	var str strings.Builder
	str.WriteString(sep.String())
	for _, row := range rows {
		str.WriteString("\n|")
		for i, w := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			str.WriteString(" ")
			if isNumber(cell) {
				str.WriteString(runewidth.FillLeft(cell, w))
			} else {
				str.WriteString(runewidth.FillRight(cell, w))
			}
			str.WriteString(" |")
		}
		str.WriteString("\n")
		str.WriteString(sep.String())
	}

	return str.String()
}

func (r *Renderer) title(s string) string {
	if !r.HasColor {
		return s
	}
	return Yellow256 + s + Off
}

// formatFloat rounds the exact value of f, ties to even, and drops trailing
// zeros.
func formatFloat(f float64, decimals int) string {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(f, 'f', decimals, 64), 64)
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	return err == nil
}
