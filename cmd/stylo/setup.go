package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/revelaction/stylo/analyze"
	"github.com/revelaction/stylo/llm"
	"github.com/revelaction/stylo/nlp"
	sent "github.com/revelaction/stylo/sentence"
	"github.com/revelaction/stylo/storage"
	"github.com/revelaction/stylo/storage/filesystem"
	"github.com/revelaction/stylo/storage/sqlite/zombiezen"
)

// NewDocRepository returns a read-only filesystem store if path is a
// directory, a sqlite store otherwise.
func NewDocRepository(p *Pool, path string) (storage.DocRepository, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("repository not found: %s", path)
	}

	if info.IsDir() {
		return filesystem.NewDocStore(path)
	}

	pool, err := p.Open(path)
	if err != nil {
		return nil, err
	}
	return zombiezen.NewDocStore(pool), nil
}

func openDocRepository(path string) (storage.DocRepository, func(), error) {
	p := &Pool{}
	repo, err := NewDocRepository(p, path)
	if err != nil {
		return nil, nil, err
	}
	return repo, func() { p.Close() }, nil
}

// readSource reads a doc from a doc JSON file, or, if source is not a file,
// from the repository at docPath by id.
func readSource(source, docPath string) (sent.Doc, error) {
	if info, err := os.Stat(source); err == nil && !info.IsDir() {
		doc, err := filesystem.ReadDoc(source)
		if err != nil {
			absPath, _ := filepath.Abs(source)
			return sent.Doc{}, fmt.Errorf("filesystem document %q: %w", absPath, err)
		}
		if doc.Title == "" {
			doc.Title = filepath.Base(source)
		}
		return doc, nil
	}

	id, err := strconv.Atoi(source)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("source %q is neither a file nor a doc id", source)
	}

	repo, closeFn, err := openDocRepository(docPath)
	if err != nil {
		return sent.Doc{}, err
	}
	defer closeFn()

	return repo.Read(id)
}

// newParser returns the annotation client behind a parse cache: redis when
// an address is configured, in-process otherwise.
func newParser(opts ServiceOptions) (nlp.Parser, func(), error) {
	client, err := nlp.NewClient(opts.NLP)
	if err != nil {
		return nil, nil, err
	}

	if opts.RedisAddr == "" {
		return nlp.NewCached(client, nlp.NewMemoryCache()), func() {}, nil
	}

	pool := nlp.NewRedisPool(opts.RedisAddr, opts.RedisDB, os.Getenv("STYLO_REDIS_PASSWORD"))
	cached := nlp.NewCached(client, nlp.NewRedisCache(pool, opts.CacheTTL))
	return cached, func() { pool.Close() }, nil
}

// newService wires the analysis service. promptOnly leaves the generator
// out, withRecords opens the record store at opts.DocPath.
func newService(opts ServiceOptions, promptOnly, withRecords bool, p *Pool) (*analyze.Service, func(), error) {
	parser, closeParser, err := newParser(opts)
	if err != nil {
		return nil, nil, err
	}

	var gen llm.Generator
	if !promptOnly {
		gen, err = llm.New(opts.LLM)
		if err != nil {
			closeParser()
			return nil, nil, err
		}
	}

	svc := analyze.NewService(parser, gen, nil)

	if withRecords {
		pool, err := p.Open(opts.DocPath)
		if err != nil {
			closeParser()
			return nil, nil, err
		}
		svc.Records = zombiezen.NewAnalysisStore(pool)
	}

	return svc, closeParser, nil
}
