package main

import (
	"fmt"
	"strings"

	"github.com/revelaction/stylo/storage/filesystem"
	"github.com/revelaction/stylo/storage/sqlite/zombiezen"
)

func importDocCommand(opts ImportDocOptions, ui UI) error {
	src, err := filesystem.NewDocStore(opts.From)
	if err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "Reading docs from %s...\n", opts.From)
	docs, err := src.List("")
	if err != nil {
		return err
	}

	progress, bar := newProgress(ui, len(docs))

	err = src.Preload(opts.Labels, func(current, total int, name string) {
		_ = bar.Set(current)
	})
	progress.Stop()
	if err != nil {
		return err
	}

	pool, err := zombiezen.Open(opts.To)
	if err != nil {
		return err
	}
	defer pool.Close()

	dst := zombiezen.NewDocStore(pool)

	// labels are known once the docs are loaded
	docs, err = src.List("")
	if err != nil {
		return err
	}

	count := 0
	for _, docMeta := range docs {
		if len(opts.Labels) > 0 && !hasLabels(docMeta.Labels, opts.Labels) {
			continue
		}

		doc, err := src.Read(docMeta.Id)
		if err != nil {
			return fmt.Errorf("failed to read doc %s: %w", docMeta.Title, err)
		}

		if _, err := dst.Write(doc); err != nil {
			return fmt.Errorf("failed to write doc %s: %w", docMeta.Title, err)
		}
		count++
	}

	fmt.Fprintf(ui.Out, "Successfully imported %d docs from %s to %s\n", count, opts.From, opts.To)
	return nil
}

// hasLabels reports whether any of fileLabels contains any of cmdLabels.
func hasLabels(fileLabels, cmdLabels []string) bool {
	for _, label := range cmdLabels {
		for _, l := range fileLabels {
			if strings.Contains(l, label) {
				return true
			}
		}
	}

	return false
}
