package nlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/revelaction/stylo/prompt"
	sent "github.com/revelaction/stylo/sentence"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{Endpoint: srv.URL + "/"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestClientParse(t *testing.T) {
	var got parseRequest
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/parse" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sentences":[{"id":0,"tokens":[
			{"text":"他","pos":"PRON","dep":"nsubj","tag":"PN","lemma":"他"},
			{"text":"跑","pos":"VERB","dep":"ROOT","tag":"VV","lemma":"跑","morph":["Aspect=Perf"]}
		]}]}`))
	})

	doc, err := c.Parse(context.Background(), "他跑了。", prompt.Chinese)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if got.Model != ModelChinese || got.Text != "他跑了。" {
		t.Errorf("unexpected request %+v", got)
	}

	if doc.Lang != "zh" || doc.Text != "他跑了。" {
		t.Errorf("expected lang and text set, got %q %q", doc.Lang, doc.Text)
	}
	if len(doc.Sentences) != 1 || len(doc.Sentences[0].Tokens) != 2 {
		t.Fatalf("unexpected doc %+v", doc)
	}
	if m := doc.Sentences[0].Tokens[1].Morph; len(m) != 1 || m[0] != "Aspect=Perf" {
		t.Errorf("expected morph features, got %v", m)
	}
}

func TestClientParseLegacyTokens(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tokens":[[{"text":"Hi","pos":"INTJ"}],[{"text":"Go","pos":"VERB"},{"text":".","pos":"PUNCT"}]]}`))
	})

	doc, err := c.Parse(context.Background(), "Hi. Go.", prompt.English)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(doc.Sentences) != 2 || doc.Sentences[1].Id != 1 || len(doc.Sentences[1].Tokens) != 2 {
		t.Fatalf("unexpected sentences %+v", doc.Sentences)
	}
}

func TestClientParseErrors(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"model not loaded"}`))
	})

	if _, err := c.Parse(context.Background(), "text", prompt.English); err == nil {
		t.Fatal("expected error on 503")
	}

	if _, err := c.Parse(context.Background(), " \n\t", prompt.English); !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}

	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error without endpoint")
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		in   string
		want prompt.Lang
	}{
		{"The quick brown fox.", prompt.English},
		{"今天天气很好，我们去公园散步吧。", prompt.Chinese},
		{"我喜欢 Go 语言", prompt.Chinese},
		{"1234 !!", prompt.English},
		{"", prompt.English},
	}

	for _, tt := range tests {
		if got := Detect(tt.in); got != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

type countingParser struct {
	calls atomic.Int32
	delay time.Duration
}

func (p *countingParser) Parse(ctx context.Context, text string, lang prompt.Lang) (sent.Doc, error) {
	p.calls.Add(1)
	time.Sleep(p.delay)
	return sent.Doc{Text: text, Lang: lang.String(), Sentences: []sent.Sentence{{Tokens: []sent.Token{{Text: text}}}}}, nil
}

func TestCachedParse(t *testing.T) {
	p := &countingParser{}
	cache := NewMemoryCache()
	c := NewCached(p, cache)

	for i := 0; i < 3; i++ {
		doc, err := c.Parse(context.Background(), "same text", prompt.English)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if doc.Text != "same text" {
			t.Fatalf("unexpected doc %+v", doc)
		}
	}

	if n := p.calls.Load(); n != 1 {
		t.Fatalf("expected 1 parser call, got %d", n)
	}

	// same text, different language is a different parse
	if _, err := c.Parse(context.Background(), "same text", prompt.Chinese); err != nil {
		t.Fatal(err)
	}
	if n := p.calls.Load(); n != 2 {
		t.Fatalf("expected 2 parser calls, got %d", n)
	}
	if cache.Len() != 2 {
		t.Fatalf("expected 2 cached docs, got %d", cache.Len())
	}

	if _, err := c.Parse(context.Background(), "  ", prompt.English); !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
}

func TestCachedParseConcurrent(t *testing.T) {
	p := &countingParser{delay: 50 * time.Millisecond}
	c := NewCached(p, NewMemoryCache())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Parse(context.Background(), "shared", prompt.English); err != nil {
				t.Errorf("parse: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := p.calls.Load(); n != 1 {
		t.Fatalf("expected concurrent parses to share 1 call, got %d", n)
	}
}

type blockingParser struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (p *blockingParser) Parse(ctx context.Context, text string, lang prompt.Lang) (sent.Doc, error) {
	p.once.Do(func() { close(p.started) })
	select {
	case <-ctx.Done():
		return sent.Doc{}, ctx.Err()
	case <-p.release:
	}
	return sent.Doc{Text: text, Sentences: []sent.Sentence{{Tokens: []sent.Token{{Text: text}}}}}, nil
}

func TestCachedParseCallerCancel(t *testing.T) {
	p := &blockingParser{started: make(chan struct{}), release: make(chan struct{})}
	c := NewCached(p, NewMemoryCache())

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := c.Parse(ctx, "hello", prompt.English)
		first <- err
	}()
	<-p.started

	second := make(chan error, 1)
	go func() {
		doc, err := c.Parse(context.Background(), "hello", prompt.English)
		if err == nil && doc.Text != "hello" {
			err = fmt.Errorf("unexpected doc %+v", doc)
		}
		second <- err
	}()

	cancel()
	select {
	case err := <-first:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected cancelled caller to get context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(p.release)
	select {
	case err := <-second:
		if err != nil {
			t.Fatalf("caller with live context failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("caller with live context did not return")
	}
}

func TestKey(t *testing.T) {
	if Key("a", prompt.English) == Key("b", prompt.English) {
		t.Fatal("expected different keys for different text")
	}
	if Key("a", prompt.English) != Key("a", prompt.English) {
		t.Fatal("expected stable keys")
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("STYLO_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("STYLO_TEST_REDIS_ADDR not set")
	}

	pool := NewRedisPool(addr, 0, "")
	defer pool.Close()
	rc := NewRedisCache(pool, time.Minute)

	ctx := context.Background()
	key := Key(t.Name(), prompt.English)

	doc := sent.Doc{Text: "cached", Sentences: []sent.Sentence{{Tokens: []sent.Token{{Text: "cached", Pos: "VERB"}}}}}
	if err := rc.Set(ctx, key, doc); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := rc.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Text != "cached" || got.Sentences[0].Tokens[0].Pos != "VERB" {
		t.Fatalf("unexpected doc %+v", got)
	}

	if _, err := rc.Get(ctx, key+":missing"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}
