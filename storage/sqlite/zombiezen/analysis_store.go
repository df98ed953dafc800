package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/revelaction/stylo/storage"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

type AnalysisStore struct {
	pool *sqlitex.Pool
}

var _ storage.AnalysisRepository = (*AnalysisStore)(nil)

func NewAnalysisStore(pool *sqlitex.Pool) *AnalysisStore {
	return &AnalysisStore{pool: pool}
}

func (s *AnalysisStore) User(name string) (user storage.User, err error) {
	conn, err := s.pool.Take(context.TODO())
	if err != nil {
		return storage.User{}, err
	}
	defer s.pool.Put(conn)

	defer sqlitex.Save(conn)(&err)

	err = sqlitex.Execute(conn, "INSERT OR IGNORE INTO users (username) VALUES (?)", &sqlitex.ExecOptions{
		Args: []interface{}{name},
	})
	if err != nil {
		return storage.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	err = sqlitex.Execute(conn, "SELECT id, username FROM users WHERE username = ?", &sqlitex.ExecOptions{
		Args: []interface{}{name},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			user.Id = stmt.ColumnInt(0)
			user.Name = stmt.ColumnText(1)
			return nil
		},
	})
	if err != nil {
		return storage.User{}, err
	}

	return user, nil
}

func (s *AnalysisStore) LookupUser(name string) (storage.User, error) {
	conn, err := s.pool.Take(context.TODO())
	if err != nil {
		return storage.User{}, err
	}
	defer s.pool.Put(conn)

	var (
		user  storage.User
		found bool
	)
	err = sqlitex.Execute(conn, "SELECT id, username FROM users WHERE username = ?", &sqlitex.ExecOptions{
		Args: []interface{}{name},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			user.Id = stmt.ColumnInt(0)
			user.Name = stmt.ColumnText(1)
			return nil
		},
	})
	if err != nil {
		return storage.User{}, err
	}

	if !found {
		return storage.User{}, fmt.Errorf("user %q: %w", name, storage.ErrNotFound)
	}

	return user, nil
}

func (s *AnalysisStore) WriteAnalysis(a storage.Analysis) (int, error) {
	conn, err := s.pool.Take(context.TODO())
	if err != nil {
		return 0, err
	}
	defer s.pool.Put(conn)

	stats, err := json.Marshal(a.Stats)
	if err != nil {
		return 0, err
	}

	created := a.Created
	if created.IsZero() {
		created = time.Now()
	}

	err = sqlitex.Execute(conn, "INSERT INTO analyses (owner_id, lang, input, prompt, output, stats, created) VALUES (?, ?, ?, ?, ?, ?, ?)", &sqlitex.ExecOptions{
		Args: []interface{}{a.OwnerId, a.Lang, a.Input, a.Prompt, a.Output, string(stats), created.UTC().Format(time.RFC3339Nano)},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis: %w", err)
	}

	return int(conn.LastInsertRowID()), nil
}

func (s *AnalysisStore) Analysis(id, ownerId int) (storage.Analysis, error) {
	conn, err := s.pool.Take(context.TODO())
	if err != nil {
		return storage.Analysis{}, err
	}
	defer s.pool.Put(conn)

	var (
		a     storage.Analysis
		found bool
		data  string
	)
	err = sqlitex.Execute(conn, "SELECT id, owner_id, lang, input, prompt, output, stats, created FROM analyses WHERE id = ?", &sqlitex.ExecOptions{
		Args: []interface{}{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			var err error
			found = true
			a, err = scanAnalysis(stmt)
			data = stmt.ColumnText(6)
			return err
		},
	})
	if err != nil {
		return storage.Analysis{}, err
	}

	if !found {
		return storage.Analysis{}, fmt.Errorf("analysis %d: %w", id, storage.ErrNotFound)
	}

	if a.OwnerId != ownerId {
		return storage.Analysis{}, fmt.Errorf("analysis %d: %w", id, storage.ErrNotOwner)
	}

	if err := json.Unmarshal([]byte(data), &a.Stats); err != nil {
		return storage.Analysis{}, fmt.Errorf("analysis %d: corrupt stats: %w", id, err)
	}

	return a, nil
}

func (s *AnalysisStore) Analyses(ownerId int) ([]storage.Analysis, error) {
	conn, err := s.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer s.pool.Put(conn)

	analyses := []storage.Analysis{}
	err = sqlitex.Execute(conn, "SELECT id, owner_id, lang, input, prompt, output, '', created FROM analyses WHERE owner_id = ? ORDER BY id DESC", &sqlitex.ExecOptions{
		Args: []interface{}{ownerId},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			a, err := scanAnalysis(stmt)
			if err != nil {
				return err
			}
			analyses = append(analyses, a)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return analyses, nil
}

// scanAnalysis reads every column but the stats one.
func scanAnalysis(stmt *sqlite.Stmt) (storage.Analysis, error) {
	created, err := time.Parse(time.RFC3339Nano, stmt.ColumnText(7))
	if err != nil {
		return storage.Analysis{}, fmt.Errorf("invalid created time: %w", err)
	}

	return storage.Analysis{
		Id:      stmt.ColumnInt(0),
		OwnerId: stmt.ColumnInt(1),
		Lang:    stmt.ColumnText(2),
		Input:   stmt.ColumnText(3),
		Prompt:  stmt.ColumnText(4),
		Output:  stmt.ColumnText(5),
		Created: created,
	}, nil
}
