package main

import (
	"fmt"

	"github.com/revelaction/stylo/render"
	sent "github.com/revelaction/stylo/sentence"
)

func docCommand(opts DocOptions, source string, ui UI) error {
	doc, err := readSource(source, opts.DocPath)
	if err != nil {
		return err
	}

	renderDoc(doc, opts, ui)
	return nil
}

func renderDoc(doc sent.Doc, opts DocOptions, ui UI) {
	start := opts.Start
	if start < 0 {
		start = 0
	}
	if start >= len(doc.Sentences) {
		return
	}

	sentences := doc.Sentences[start:]
	if opts.Count >= 0 && opts.Count < len(sentences) {
		sentences = sentences[:opts.Count]
	}

	for i, sentence := range sentences {
		fmt.Fprintf(ui.Out, "✍  %d %s\n", start+i, render.Text(sentence.Tokens))
	}
}
