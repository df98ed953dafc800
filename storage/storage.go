package storage

import (
	"errors"
	"time"

	sent "github.com/revelaction/stylo/sentence"
	"github.com/revelaction/stylo/stat"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrNotOwner is returned when a record is read on behalf of a user
	// that does not own it.
	ErrNotOwner = errors.New("record belongs to another user")

	ErrReadOnly = errors.New("read-only storage")
)

// DocReader defines read operations for document storage
type DocReader interface {
	// List returns the metadata (Id, Title, Labels, Lang) of documents.
	// If labelMatch is not empty, only documents with at least one label containing the string are returned.
	// Content (Sentences, Text) is not loaded.
	List(labelMatch string) ([]sent.Doc, error)

	// Read returns a document by ID
	Read(id int) (sent.Doc, error)

	// Labels returns all unique labels found across all documents, sorted alphabetically.
	// If pattern is not empty, it returns labels that contain the pattern.
	Labels(pattern string) ([]string, error)
}

// DocWriter defines write operations for document storage
type DocWriter interface {
	// Write persists a document and its sentences, returning its ID
	Write(doc sent.Doc) (int, error)
}

// DocRepository combines read and write operations
type DocRepository interface {
	DocReader
	DocWriter
}

type User struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

// Analysis is a stored analysis of an input text.
type Analysis struct {
	Id      int    `json:"id"`
	OwnerId int    `json:"owner_id"`
	Lang    string `json:"lang"`
	Input   string `json:"input"`
	Prompt  string `json:"prompt"`

	// Output is the model response, empty in prompt only mode.
	Output string `json:"output"`

	Stats   stat.Stats `json:"stats"`
	Created time.Time  `json:"created"`
}

// AnalysisRepository stores users and the analyses they own.
type AnalysisRepository interface {
	// User returns the user with name, creating it if needed.
	User(name string) (User, error)

	// LookupUser returns the user with name, ErrNotFound if there is none.
	LookupUser(name string) (User, error)

	// WriteAnalysis persists a and returns its ID.
	WriteAnalysis(a Analysis) (int, error)

	// Analysis returns the analysis id if ownerId owns it. ErrNotFound if
	// it does not exist, ErrNotOwner if it belongs to another user.
	Analysis(id, ownerId int) (Analysis, error)

	// Analyses returns the analyses of ownerId, newest first, without
	// stats.
	Analyses(ownerId int) ([]Analysis, error)
}

// Preloader defines an optional capability for repositories that require
// or support eager loading of data into memory.
type Preloader interface {
	Preload(labels []string, cb func(current, total int, name string)) error
}
