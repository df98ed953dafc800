package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/revelaction/stylo/analyze"
	"github.com/revelaction/stylo/prompt"
	sent "github.com/revelaction/stylo/sentence"
	"github.com/revelaction/stylo/storage"
	"github.com/revelaction/stylo/storage/sqlite/zombiezen"
)

type stubParser struct{}

func (stubParser) Parse(_ context.Context, text string, lang prompt.Lang) (sent.Doc, error) {
	return sent.Doc{Text: text, Sentences: []sent.Sentence{
		{Tokens: []sent.Token{
			{Text: "Birds", Lemma: "bird", Pos: "NOUN", Dep: "nsubj", Tag: "NNS"},
			{Text: "sing", Lemma: "sing", Pos: "VERB", Dep: "ROOT", Tag: "VBP"},
			{Text: ".", Lemma: ".", Pos: "PUNCT", Dep: "punct", Tag: "."},
		}},
	}}, nil
}

type stubGenerator struct{}

func (stubGenerator) Generate(_ context.Context, p string) (string, error) {
	return "Short and bright.", nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app, _ := newTestAppStore(t)
	return app
}

func newTestAppStore(t *testing.T) (*fiber.App, *zombiezen.AnalysisStore) {
	t.Helper()
	pool, err := zombiezen.Open(filepath.Join(t.TempDir(), "stylo.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { pool.Close() })

	records := zombiezen.NewAnalysisStore(pool)
	svc := analyze.NewService(stubParser{}, stubGenerator{}, records)
	return New(svc, records, Config{Quiet: true}), records
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()

	out := map[string]any{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("%s %s: decode: %v", method, target, err)
	}
	return resp.StatusCode, out
}

func TestRoot(t *testing.T) {
	app := newTestApp(t)
	status, out := do(t, app, http.MethodGet, "/", "")
	if status != http.StatusOK || out["message"] != Message {
		t.Errorf("unexpected response %d %v", status, out)
	}
}

func TestAnalyzeEmptyText(t *testing.T) {
	app := newTestApp(t)

	for _, body := range []string{`{"text":""}`, `{"text":"   "}`, `{}`} {
		status, out := do(t, app, http.MethodPost, "/analyze", body)
		if status != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, status)
		}
		if out["ok"] != false || out["error"] != ErrNoText {
			t.Errorf("%s: unexpected body %v", body, out)
		}
	}
}

func TestAnalyzeBadLang(t *testing.T) {
	app := newTestApp(t)
	status, out := do(t, app, http.MethodPost, "/analyze", `{"text":"Birds sing.","lang":"fr"}`)
	if status != http.StatusBadRequest || out["ok"] != false {
		t.Errorf("unexpected response %d %v", status, out)
	}
}

func TestAnalyzeAndRecords(t *testing.T) {
	app := newTestApp(t)

	status, out := do(t, app, http.MethodPost, "/analyze", `{"text":"Birds sing.","user":"alice"}`)
	if status != http.StatusOK {
		t.Fatalf("analyze: %d %v", status, out)
	}
	if out["ok"] != true || out["language"] != "en" || out["analysis"] != "Short and bright." {
		t.Errorf("unexpected analyze body %v", out)
	}
	if p, _ := out["prompt"].(string); !strings.Contains(p, "Birds sing.") {
		t.Errorf("prompt missing excerpt: %q", p)
	}

	id, ok := out["record_id"].(float64)
	if !ok || id == 0 {
		t.Fatalf("missing record id: %v", out)
	}
	target := "/records/" + strconv.Itoa(int(id))

	status, out = do(t, app, http.MethodGet, target+"?user=alice", "")
	if status != http.StatusOK {
		t.Fatalf("record: %d %v", status, out)
	}
	rec, _ := out["record"].(map[string]any)
	if rec["input"] != "Birds sing." || rec["output"] != "Short and bright." {
		t.Errorf("unexpected record %v", rec)
	}

	status, _ = do(t, app, http.MethodGet, target+"?user=bob", "")
	if status != http.StatusForbidden {
		t.Errorf("expected 403 for another user, got %d", status)
	}

	status, _ = do(t, app, http.MethodGet, "/records/999?user=alice", "")
	if status != http.StatusNotFound {
		t.Errorf("expected 404, got %d", status)
	}

	status, _ = do(t, app, http.MethodGet, target, "")
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 without user, got %d", status)
	}

	status, out = do(t, app, http.MethodGet, "/users/alice/records", "")
	if status != http.StatusOK {
		t.Fatalf("user records: %d %v", status, out)
	}
	if list, _ := out["records"].([]any); len(list) != 1 {
		t.Errorf("expected one record, got %v", out["records"])
	}
}

func TestRecordReadsDoNotCreateUsers(t *testing.T) {
	app, records := newTestAppStore(t)

	status, out := do(t, app, http.MethodPost, "/analyze", `{"text":"Birds sing.","user":"alice"}`)
	if status != http.StatusOK {
		t.Fatalf("analyze: %d %v", status, out)
	}
	target := "/records/" + strconv.Itoa(int(out["record_id"].(float64)))

	status, _ = do(t, app, http.MethodGet, target+"?user=mallory", "")
	if status != http.StatusForbidden {
		t.Errorf("expected 403 for unknown user, got %d", status)
	}

	status, _ = do(t, app, http.MethodGet, "/records/999?user=mallory", "")
	if status != http.StatusNotFound {
		t.Errorf("expected 404 for unknown user and record, got %d", status)
	}

	status, out = do(t, app, http.MethodGet, "/users/mallory/records", "")
	if status != http.StatusOK {
		t.Fatalf("user records: %d %v", status, out)
	}
	if list, _ := out["records"].([]any); len(list) != 0 {
		t.Errorf("expected no records, got %v", out["records"])
	}

	if _, err := records.LookupUser("mallory"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("read routes must not create users, lookup got %v", err)
	}
}
