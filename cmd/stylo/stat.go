package main

import (
	"fmt"

	"github.com/revelaction/stylo/render"
	sent "github.com/revelaction/stylo/sentence"
	"github.com/revelaction/stylo/stat"
)

func statCommand(opts StatOptions, source string, sentId *int, ui UI) error {
	doc, err := readSource(source, opts.DocPath)
	if err != nil {
		return err
	}

	if sentId != nil {
		if *sentId < 0 || *sentId >= len(doc.Sentences) {
			return fmt.Errorf("sentence index %d out of bounds (doc has %d sentences)", *sentId, len(doc.Sentences))
		}
		doc = sent.Doc{Text: doc.Text, Sentences: []sent.Sentence{doc.Sentences[*sentId]}}
	}

	hdl := stat.NewHandler()
	if err := hdl.Aggregate(doc); err != nil {
		return err
	}

	stats := hdl.Get()

	if opts.JSON {
		jr := render.NewJSONRenderer(ui.Out)
		jr.Indent = true
		return jr.Stats(stats)
	}

	r := render.NewRenderer(ui.Out)
	r.HasColor = opts.Color
	r.Raw = opts.Raw
	r.Stats(stats)

	return nil
}
