package shell

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	goprompt "github.com/c-bata/go-prompt"

	"github.com/revelaction/stylo/analyze"
	"github.com/revelaction/stylo/prompt"
	"github.com/revelaction/stylo/render"
	sent "github.com/revelaction/stylo/sentence"
	"github.com/revelaction/stylo/storage"
)

func oneSentence(text string) sent.Doc {
	return sent.Doc{Id: 0, Title: "birds.json", Text: text, Sentences: []sent.Sentence{
		{Tokens: []sent.Token{
			{Text: "Birds", Lemma: "bird", Pos: "NOUN", Dep: "nsubj", Tag: "NNS"},
			{Text: "sing", Lemma: "sing", Pos: "VERB", Dep: "ROOT", Tag: "VBP"},
			{Text: ".", Lemma: ".", Pos: "PUNCT", Dep: "punct", Tag: "."},
		}},
	}}
}

type stubParser struct {
	lang prompt.Lang
}

func (p *stubParser) Parse(_ context.Context, text string, lang prompt.Lang) (sent.Doc, error) {
	p.lang = lang
	return oneSentence(text), nil
}

type memRepo struct {
	docs []sent.Doc
}

func (m *memRepo) List(string) ([]sent.Doc, error) { return m.docs, nil }

func (m *memRepo) Read(id int) (sent.Doc, error) {
	if id < 0 || id >= len(m.docs) {
		return sent.Doc{}, storage.ErrNotFound
	}
	return m.docs[id], nil
}

func (m *memRepo) Labels(string) ([]string, error) { return nil, nil }

func newTestHandler() (*Handler, *stubParser, *bytes.Buffer) {
	var buf bytes.Buffer
	p := &stubParser{}
	svc := analyze.NewService(p, nil, nil)
	repo := &memRepo{docs: []sent.Doc{oneSentence("Birds sing.")}}
	return NewHandler(repo, svc, render.NewRenderer(&buf)), p, &buf
}

func TestEvalText(t *testing.T) {
	h, _, buf := newTestHandler()

	if err := h.Eval(context.Background(), "Birds sing."); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), render.SentenceLengthTitle) {
		t.Errorf("expected stats, got %s", buf.String())
	}
	if strings.Contains(buf.String(), "TEXT EXCERPT") {
		t.Error("prompt printed without :prompt")
	}

	buf.Reset()
	if err := h.Eval(context.Background(), ":prompt"); err != nil {
		t.Fatal(err)
	}
	if err := h.Eval(context.Background(), "Birds sing."); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "TEXT EXCERPT") {
		t.Errorf("expected prompt, got %s", buf.String())
	}
}

func TestEvalDoc(t *testing.T) {
	h, _, buf := newTestHandler()

	if err := h.Eval(context.Background(), ":doc 0"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "📖 0 birds.json") {
		t.Errorf("unexpected output %s", buf.String())
	}

	if err := h.Eval(context.Background(), ":doc 3"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	for _, in := range []string{":doc", ":doc x", ":nope"} {
		if err := h.Eval(context.Background(), in); err == nil {
			t.Errorf("%s: expected error", in)
		}
	}
}

func TestEvalLang(t *testing.T) {
	h, p, _ := newTestHandler()

	if err := h.Eval(context.Background(), ":lang zh"); err != nil {
		t.Fatal(err)
	}
	if err := h.Eval(context.Background(), "Birds sing."); err != nil {
		t.Fatal(err)
	}
	if p.lang != prompt.Chinese {
		t.Errorf("expected chinese, got %s", p.lang)
	}

	if err := h.Eval(context.Background(), ":lang auto"); err != nil {
		t.Fatal(err)
	}
	if h.Lang != "" {
		t.Errorf("expected auto, got %q", h.Lang)
	}

	if err := h.Eval(context.Background(), ":lang fr"); err == nil {
		t.Error("expected unsupported language error")
	}
}

func TestEvalEmpty(t *testing.T) {
	h, _, _ := newTestHandler()
	if err := h.Eval(context.Background(), "   "); !errors.Is(err, analyze.ErrNoContent) {
		t.Errorf("expected ErrNoContent, got %v", err)
	}
}

func TestCompleter(t *testing.T) {
	h, _, _ := newTestHandler()
	complete := h.completer()

	doc := func(s string) goprompt.Document {
		buf := goprompt.NewBuffer()
		buf.InsertText(s, false, true)
		return *buf.Document()
	}

	got := complete(doc(":d"))
	if len(got) != 1 || got[0].Text != ":doc" {
		t.Errorf("commands: got %v", got)
	}

	got = complete(doc(":doc "))
	if len(got) != 1 || got[0].Text != "0" {
		t.Errorf("doc ids: got %v", got)
	}

	got = complete(doc(":lang z"))
	if len(got) != 1 || got[0].Text != "zh" {
		t.Errorf("langs: got %v", got)
	}
}
