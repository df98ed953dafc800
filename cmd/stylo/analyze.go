package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/revelaction/stylo/analyze"
	"github.com/revelaction/stylo/render"
)

func analyzeCommand(opts AnalyzeOptions, path string, ui UI) error {
	text, err := readText(path)
	if err != nil {
		return err
	}

	p := &Pool{}
	defer p.Close()

	svc, closeFn, err := newService(opts.Service, opts.PromptOnly, opts.Service.User != "", p)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := svc.Analyze(context.Background(), analyze.Request{
		Text: text,
		Lang: opts.Lang,
		User: opts.Service.User,
	})
	if err != nil {
		return err
	}

	if opts.JSON {
		jr := render.NewJSONRenderer(ui.Out)
		jr.Indent = true
		return jr.Stats(res.Stats)
	}

	if opts.Stats {
		r := render.NewRenderer(ui.Out)
		r.HasColor = opts.Color
		r.Raw = opts.Raw
		r.Stats(res.Stats)
	}

	if opts.PromptOnly {
		fmt.Fprintln(ui.Out, res.Prompt)
		return nil
	}

	fmt.Fprintln(ui.Out, res.Analysis)
	if res.RecordId > 0 {
		fmt.Fprintf(ui.Err, "✍  stored record %d for %s\n", res.RecordId, opts.Service.User)
	}

	return nil
}

// readText reads the file at path, or stdin if path is "-".
func readText(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("IO error: %w", err)
		}
		return string(b), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("IO error: %w", err)
	}
	return string(b), nil
}
