package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/revelaction/stylo/storage/sqlite/zombiezen"
)

func exportDocCommand(opts ExportDocOptions, ui UI) error {
	pool, err := zombiezen.Open(opts.From)
	if err != nil {
		return err
	}
	defer pool.Close()
	src := zombiezen.NewDocStore(pool)

	// Ensure target directory exists
	if err := os.MkdirAll(opts.To, 0755); err != nil {
		return fmt.Errorf("failed to create target directory: %w", err)
	}

	docs, err := src.List("")
	if err != nil {
		return err
	}

	progress, bar := newProgress(ui, len(docs))

	count := 0
	for _, docMeta := range docs {
		doc, err := src.Read(docMeta.Id)
		if err != nil {
			progress.Stop()
			return fmt.Errorf("failed to read doc %s (id %d): %w", docMeta.Title, docMeta.Id, err)
		}

		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			progress.Stop()
			return err
		}

		targetPath := filepath.Join(opts.To, exportName(docMeta.Title, docMeta.Id))
		if err := os.WriteFile(targetPath, data, 0644); err != nil {
			progress.Stop()
			return fmt.Errorf("failed to write file %s: %w", targetPath, err)
		}
		count++
		bar.Incr()
	}
	progress.Stop()

	fmt.Fprintf(ui.Out, "Successfully exported %d docs from %s to %s\n", count, opts.From, opts.To)
	return nil
}

// exportName returns the file name of an exported doc. Titles imported from
// files keep their name.
func exportName(title string, id int) string {
	name := filepath.Base(title)
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = fmt.Sprintf("doc_%d", id)
	}
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	return name
}
