package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/revelaction/stylo/render"
	"github.com/revelaction/stylo/stat"
	"github.com/revelaction/stylo/storage"
)

type batchResult struct {
	id    int
	title string
	stats stat.Stats
	empty bool
}

func batchCommand(opts BatchOptions, ui UI) error {
	repo, closeFn, err := openDocRepository(opts.DocPath)
	if err != nil {
		return err
	}
	defer closeFn()

	docs, err := repo.List(opts.Label)
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		fmt.Fprintln(ui.Out, "no docs")
		return nil
	}

	// filesystem docs are read into memory before the workers share them
	if pl, ok := repo.(storage.Preloader); ok {
		var labels []string
		if opts.Label != "" {
			labels = []string{opts.Label}
		}
		if err := pl.Preload(labels, nil); err != nil {
			return err
		}
	}

	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
			return fmt.Errorf("failed to create target directory: %w", err)
		}
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	progress, bar := newProgress(ui, len(docs))

	results := make([]batchResult, len(docs))

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)

	for i, meta := range docs {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			defer bar.Incr()

			doc, err := repo.Read(meta.Id)
			if err != nil {
				return fmt.Errorf("failed to read doc %s (id %d): %w", meta.Title, meta.Id, err)
			}

			res := batchResult{id: meta.Id, title: meta.Title}
			res.stats, err = stat.Reduce(doc)
			if errors.Is(err, stat.ErrNoContent) {
				res.empty = true
				results[i] = res
				return nil
			}
			if err != nil {
				return err
			}

			results[i] = res

			if opts.OutDir == "" {
				return nil
			}

			return writeStats(filepath.Join(opts.OutDir, strconv.Itoa(meta.Id)+".json"), res.stats)
		})
	}

	err = g.Wait()
	progress.Stop()
	if err != nil {
		return err
	}

	rows := [][]string{{"id", "title", "sentences", "avg sent len", "avg token len", "avg clauses"}}
	for _, res := range results {
		if res.empty {
			rows = append(rows, []string{strconv.Itoa(res.id), res.title, "0", "-", "-", "-"})
			continue
		}
		rows = append(rows, []string{
			strconv.Itoa(res.id),
			res.title,
			strconv.Itoa(res.stats.NumSentences),
			strconv.FormatFloat(res.stats.SentenceLength.Average, 'f', 2, 64),
			strconv.FormatFloat(res.stats.TokenLength.Average, 'f', 2, 64),
			strconv.FormatFloat(res.stats.Clauses.Average, 'f', 2, 64),
		})
	}

	fmt.Fprintln(ui.Out, render.Grid(rows))
	return nil
}

func writeStats(path string, st stat.Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	defer f.Close()

	jr := render.NewJSONRenderer(f)
	jr.Indent = true
	if err := jr.Stats(st); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}
