package filesystem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sent "github.com/revelaction/stylo/sentence"
	"github.com/revelaction/stylo/storage"
)

// DocStore is a read-only document repository over a directory of doc JSON
// files. Ids are the positions of the files in name order.
type DocStore struct {
	docDir string

	// In-memory cache
	docs   []sent.Doc
	loaded []bool
}

var _ storage.DocReader = (*DocStore)(nil)
var _ storage.DocRepository = (*DocStore)(nil)
var _ storage.Preloader = (*DocStore)(nil)

// NewDocStore creates a filesystem document store.
func NewDocStore(docDir string) (*DocStore, error) {
	files, err := os.ReadDir(docDir)
	if err != nil {
		return nil, err
	}

	docs := make([]sent.Doc, 0, len(files))

	idx := 0
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".json" {
			continue
		}
		docs = append(docs, sent.Doc{
			Id:    idx,
			Title: file.Name(),
		})
		idx++
	}

	return &DocStore{
		docDir: docDir,
		docs:   docs,
		loaded: make([]bool, len(docs)),
	}, nil
}

// Preload reads the docs whose labels match any of labels (all docs if
// labels is empty) into memory.
func (h *DocStore) Preload(labels []string, cb func(current, total int, name string)) error {
	total := len(h.docs)
	for i := range h.docs {
		if cb != nil {
			cb(i+1, total, h.docs[i].Title)
		}

		if err := h.load(i); err != nil {
			return err
		}
	}

	if len(labels) == 0 {
		return nil
	}

	// unload the docs nobody asked for
	for i := range h.docs {
		if !matchAny(h.docs[i].Labels, labels) {
			h.docs[i].Sentences = nil
			h.docs[i].Text = ""
			h.loaded[i] = false
		}
	}

	return nil
}

func (h *DocStore) load(i int) error {
	if h.loaded[i] {
		return nil
	}

	fullDoc, err := ReadDoc(filepath.Join(h.docDir, h.docs[i].Title))
	if err != nil {
		return err
	}

	doc := &h.docs[i]
	doc.Labels = fullDoc.Labels
	doc.Lang = fullDoc.Lang
	doc.Text = fullDoc.Text
	doc.Sentences = fullDoc.Sentences
	for j := range doc.Sentences {
		doc.Sentences[j].DocId = doc.Id
	}
	// Title and Id are already set

	h.loaded[i] = true
	return nil
}

// List returns doc metadata. Labels are only known for loaded docs, so a
// label filter loads every doc first.
func (h *DocStore) List(labelMatch string) ([]sent.Doc, error) {
	docs := make([]sent.Doc, 0, len(h.docs))
	for i := range h.docs {
		if labelMatch != "" {
			if err := h.load(i); err != nil {
				return nil, err
			}
			if !matchAny(h.docs[i].Labels, []string{labelMatch}) {
				continue
			}
		}

		d := h.docs[i]
		docs = append(docs, sent.Doc{Id: d.Id, Title: d.Title, Labels: d.Labels, Lang: d.Lang})
	}

	return docs, nil
}

func (h *DocStore) Read(id int) (sent.Doc, error) {
	if id < 0 || id >= len(h.docs) {
		return sent.Doc{}, fmt.Errorf("doc %d: %w", id, storage.ErrNotFound)
	}

	if err := h.load(id); err != nil {
		return sent.Doc{}, err
	}

	return h.docs[id], nil
}

func (h *DocStore) Labels(pattern string) ([]string, error) {
	seen := map[string]bool{}
	labels := []string{}
	for i := range h.docs {
		if err := h.load(i); err != nil {
			return nil, err
		}
		for _, l := range h.docs[i].Labels {
			if seen[l] || !strings.Contains(l, pattern) {
				continue
			}
			seen[l] = true
			labels = append(labels, l)
		}
	}

	sort.Strings(labels)
	return labels, nil
}

func (h *DocStore) Write(doc sent.Doc) (int, error) {
	return 0, storage.ErrReadOnly
}

// docFile accepts both the sentence list format and the legacy
// tokens: [][]Token format.
type docFile struct {
	sent.Doc
	Tokens [][]sent.Token `json:"tokens"`
}

// ReadDoc reads a Doc JSON from the given path and unmarshals it.
func ReadDoc(path string) (sent.Doc, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("IO error: %w", err)
	}

	var df docFile
	err = json.Unmarshal(f, &df)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("JSON decoding error: %w", err)
	}

	doc := df.Doc
	if len(doc.Sentences) == 0 {
		for i, tokens := range df.Tokens {
			doc.Sentences = append(doc.Sentences, sent.Sentence{Id: i, Tokens: tokens})
		}
	}

	return doc, nil
}

func matchAny(labels, matches []string) bool {
	for _, l := range labels {
		for _, m := range matches {
			if strings.Contains(l, m) {
				return true
			}
		}
	}
	return false
}
