package render

import (
	"bytes"
	"encoding/json"
	"testing"

	sent "github.com/revelaction/stylo/sentence"
	"github.com/revelaction/stylo/stat"
)

func testStats(t *testing.T) stat.Stats {
	t.Helper()
	doc := sent.Doc{
		Text: "Dogs bark. Cats sleep quietly.",
		Sentences: []sent.Sentence{
			{Tokens: []sent.Token{
				{Text: "Dogs", Lemma: "dog", Pos: "NOUN", Dep: "nsubj", Tag: "NNS", Idx: 0},
				{Text: "bark", Lemma: "bark", Pos: "VERB", Dep: "ROOT", Tag: "VBP", Idx: 5},
				{Text: ".", Lemma: ".", Pos: "PUNCT", Dep: "punct", Tag: ".", Idx: 9},
			}},
			{Tokens: []sent.Token{
				{Text: "Cats", Lemma: "cat", Pos: "NOUN", Dep: "nsubj", Tag: "NNS", Idx: 11},
				{Text: "sleep", Lemma: "sleep", Pos: "VERB", Dep: "ROOT", Tag: "VBP", Idx: 16},
				{Text: "quietly", Lemma: "quietly", Pos: "ADV", Dep: "advmod", Tag: "RB", Idx: 22},
				{Text: ".", Lemma: ".", Pos: "PUNCT", Dep: "punct", Tag: ".", Idx: 29},
			}},
		},
	}

	st, err := stat.Reduce(doc)
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func TestJSONRendererStats(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)
	if err := r.Stats(testStats(t)); err != nil {
		t.Fatal(err)
	}

	var got stat.Stats
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if got.NumSentences != 2 || got.NumTokens != 7 {
		t.Errorf("unexpected counts %d %d", got.NumSentences, got.NumTokens)
	}

	if got.SentenceLength.Range != 1 {
		t.Errorf("expected sentence length range 1, got %d", got.SentenceLength.Range)
	}

	labels := got.PosFreq.Labels()
	want := []string{"NOUN", "VERB", "PUNCT", "ADV"}
	if len(labels) != len(want) {
		t.Fatalf("pos labels: got %v, want %v", labels, want)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("pos label order: got %v, want %v", labels, want)
			break
		}
	}
}

func TestJSONRendererZeroStats(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONRenderer(&buf).Stats(stat.Stats{}); err != nil {
		t.Fatal(err)
	}

	if !bytes.Contains(buf.Bytes(), []byte(`"pos_freq":null`)) {
		t.Errorf("expected null table, got %s", buf.String())
	}
}
