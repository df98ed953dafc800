package main

import (
	"fmt"
	"log/slog"

	"github.com/revelaction/stylo/server"
)

func serveCommand(opts ServeOptions, ui UI) error {
	p := &Pool{}
	defer p.Close()

	svc, closeFn, err := newService(opts.Service, opts.PromptOnly, true, p)
	if err != nil {
		return err
	}
	defer closeFn()

	app := server.New(svc, svc.Records, server.Config{
		Prefork: opts.Prefork,
		Quiet:   opts.Quiet,
	})

	slog.Info("listening", "port", opts.Port, "db", opts.Service.DocPath, "prompt_only", opts.PromptOnly)
	return app.Listen(fmt.Sprintf(":%d", opts.Port))
}
