package main

import (
	"fmt"

	"github.com/revelaction/stylo/render"
)

func sentenceCommand(opts SentenceOptions, source string, sentId int, ui UI) error {
	doc, err := readSource(source, opts.DocPath)
	if err != nil {
		return err
	}

	if sentId < 0 || sentId >= len(doc.Sentences) {
		return fmt.Errorf("sentence index %d out of bounds (0-%d)", sentId, len(doc.Sentences)-1)
	}

	r := render.NewRenderer(ui.Out)
	prefix := fmt.Sprintf("✍  %d ", sentId)
	r.Sentence(doc.Sentences[sentId], prefix)

	return nil
}
