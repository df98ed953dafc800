package main

import (
	"fmt"
	"strings"

	"github.com/revelaction/stylo/storage"
)

func lsDocCommand(repo storage.DocReader, opts LsDocOptions, ui UI) error {
	docs, err := repo.List(opts.Label)
	if err != nil {
		return err
	}

	for _, doc := range docs {
		fmt.Fprintf(ui.Out, "📖 %d %s %s %s\n", doc.Id, doc.Title, doc.Lang, strings.Join(doc.Labels, ","))
	}

	return nil
}
