package main

import (
	"fmt"

	"github.com/revelaction/stylo/nlp"
	"github.com/revelaction/stylo/prompt"
	"github.com/revelaction/stylo/stat"
)

func promptCommand(opts PromptOptions, source string, ui UI) error {
	doc, err := readSource(source, opts.DocPath)
	if err != nil {
		return err
	}

	code := opts.Lang
	if code == "" {
		code = doc.Lang
	}

	lang := nlp.Detect(doc.Text)
	if code != "" {
		lang, err = prompt.ParseLang(code)
		if err != nil {
			return err
		}
	}

	stats, err := stat.Reduce(doc)
	if err != nil {
		return err
	}

	p, err := prompt.Render(lang, stats)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(ui.Out, p)
	return err
}
