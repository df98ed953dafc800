package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	sent "github.com/revelaction/stylo/sentence"
	"github.com/revelaction/stylo/storage"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

type DocStore struct {
	pool *sqlitex.Pool
}

var _ storage.DocRepository = (*DocStore)(nil)

func NewDocStore(pool *sqlitex.Pool) *DocStore {
	return &DocStore{pool: pool}
}

func (h *DocStore) List(labelMatch string) ([]sent.Doc, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	var docs []sent.Doc
	err = sqlitex.Execute(conn, "SELECT id, title, labels, lang FROM docs ORDER BY id", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			doc := sent.Doc{
				Id:    stmt.ColumnInt(0),
				Title: stmt.ColumnText(1),
				Lang:  stmt.ColumnText(3),
			}
			labelsStr := stmt.ColumnText(2)
			if labelsStr != "" {
				doc.Labels = strings.Split(labelsStr, ",")
			}

			if labelMatch != "" && !hasLabel(doc.Labels, labelMatch) {
				return nil
			}

			docs = append(docs, doc)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (h *DocStore) Read(id int) (sent.Doc, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return sent.Doc{}, err
	}
	defer h.pool.Put(conn)

	doc := sent.Doc{Id: id}
	found := false

	err = sqlitex.Execute(conn, "SELECT title, labels, lang, text FROM docs WHERE id = ?", &sqlitex.ExecOptions{
		Args: []interface{}{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			doc.Title = stmt.ColumnText(0)
			if labels := stmt.ColumnText(1); labels != "" {
				doc.Labels = strings.Split(labels, ",")
			}
			doc.Lang = stmt.ColumnText(2)
			doc.Text = stmt.ColumnText(3)
			return nil
		},
	})
	if err != nil {
		return sent.Doc{}, err
	}
	if !found {
		return sent.Doc{}, fmt.Errorf("doc %d: %w", id, storage.ErrNotFound)
	}

	err = sqlitex.Execute(conn, "SELECT data FROM sentences WHERE doc_id = ? ORDER BY rowid", &sqlitex.ExecOptions{
		Args: []interface{}{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			var tokens []sent.Token
			if err := json.Unmarshal([]byte(stmt.ColumnText(0)), &tokens); err != nil {
				return err
			}
			doc.Sentences = append(doc.Sentences, sent.Sentence{
				Id:     len(doc.Sentences),
				DocId:  id,
				Tokens: tokens,
			})
			return nil
		},
	})
	if err != nil {
		return sent.Doc{}, err
	}

	return doc, nil
}

func (h *DocStore) Labels(pattern string) ([]string, error) {
	docs, err := h.List("")
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	labels := []string{}
	for _, d := range docs {
		for _, l := range d.Labels {
			if seen[l] || (pattern != "" && !strings.Contains(l, pattern)) {
				continue
			}
			seen[l] = true
			labels = append(labels, l)
		}
	}

	sort.Strings(labels)
	return labels, nil
}

func (h *DocStore) Write(doc sent.Doc) (id int, err error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return 0, err
	}
	defer h.pool.Put(conn)

	// Start Transaction
	defer sqlitex.Save(conn)(&err)

	labels := strings.Join(doc.Labels, ",")
	err = sqlitex.Execute(conn, "INSERT INTO docs (title, labels, lang, text) VALUES (?, ?, ?, ?)", &sqlitex.ExecOptions{
		Args: []interface{}{doc.Title, labels, doc.Lang, doc.Text},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert doc: %w", err)
	}
	docID := conn.LastInsertRowID()

	for _, sentence := range doc.Sentences {
		data, marshalErr := json.Marshal(sentence.Tokens)
		if marshalErr != nil {
			err = marshalErr
			return 0, err
		}

		err = sqlitex.Execute(conn, "INSERT INTO sentences (doc_id, data) VALUES (?, ?)", &sqlitex.ExecOptions{
			Args: []interface{}{docID, string(data)},
		})
		if err != nil {
			return 0, fmt.Errorf("failed to insert sentence: %w", err)
		}
	}

	return int(docID), nil
}

func hasLabel(labels []string, match string) bool {
	for _, l := range labels {
		if strings.Contains(l, match) {
			return true
		}
	}
	return false
}
