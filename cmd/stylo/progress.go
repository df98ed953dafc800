package main

import (
	"github.com/gosuri/uiprogress"
)

// newProgress returns a started progress writing to ui.Err, with one bar of
// total steps. Each command gets its own, so that a command can run more
// than once per process.
func newProgress(ui UI, total int) (*uiprogress.Progress, *uiprogress.Bar) {
	p := uiprogress.New()
	p.SetOut(ui.Err)

	bar := p.AddBar(total)
	bar.AppendCompleted()
	bar.PrependElapsed()

	p.Start()
	return p, bar
}
