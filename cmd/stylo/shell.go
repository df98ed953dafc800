package main

import (
	"context"
	"os"

	"github.com/revelaction/stylo/render"
	"github.com/revelaction/stylo/shell"
	"github.com/revelaction/stylo/storage"
)

func shellCommand(opts ShellOptions, ui UI) error {
	p := &Pool{}
	defer p.Close()

	svc, closeFn, err := newService(opts.Service, opts.PromptOnly, false, p)
	if err != nil {
		return err
	}
	defer closeFn()

	// :doc is only available with an existing repository
	var repo storage.DocReader
	if _, err := os.Stat(opts.Service.DocPath); err == nil {
		repo, err = NewDocRepository(p, opts.Service.DocPath)
		if err != nil {
			return err
		}
	}

	r := render.NewRenderer(ui.Out)
	r.HasColor = opts.Color

	h := shell.NewHandler(repo, svc, r)
	h.Lang = opts.Lang
	return h.Run(context.Background())
}
