// Package shell is the interactive prompt of stylo. A line is either a
// command (":doc 3", ":lang zh", ":help") or a text to analyze.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/c-bata/go-prompt"

	"github.com/revelaction/stylo/analyze"
	"github.com/revelaction/stylo/render"
	"github.com/revelaction/stylo/stat"
	"github.com/revelaction/stylo/storage"
)

const (
	// cmdPrefix is the Character in the prompt that prefixes the commands
	cmdPrefix = ":"

	quit = "quit"
)

var commands = []prompt.Suggest{
	{Text: ":doc", Description: "aggregate a stored doc by id"},
	{Text: ":lang", Description: "set the language (en, zh, auto)"},
	{Text: ":prompt", Description: "toggle printing the prompt"},
	{Text: ":help", Description: "show the commands"},
	{Text: quit, Description: "leave the shell"},
}

type Handler struct {
	// DocRepo may be nil, then :doc is not available.
	DocRepo  storage.DocReader
	Service  *analyze.Service
	Renderer *render.Renderer

	Out io.Writer

	// Lang is the language code of the analyzed texts, empty to detect it.
	Lang string

	// ShowPrompt prints the rendered prompt after the statistics.
	ShowPrompt bool
}

func NewHandler(dr storage.DocReader, svc *analyze.Service, r *render.Renderer) *Handler {
	return &Handler{
		DocRepo:  dr,
		Service:  svc,
		Renderer: r,
		Out:      r.Out,
	}
}

func (h *Handler) Run(ctx context.Context) error {

	fmt.Fprintln(h.Out, "🔑 Ctrl+X: Toggle raw sequences, Ctrl+P: toggle prompt, 🔧 quit")

	// initialize prompt history
	history := []string{}

	for {

		in := prompt.Input("      ✍  ", h.completer(),
			prompt.OptionTitle("stylo shell"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlX,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.Raw = !h.Renderer.Raw
					fmt.Fprintln(h.Out, "Raw sequences set to "+fmt.Sprintf("%t", h.Renderer.Raw))
				}}),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlP,
				Fn: func(buf *prompt.Buffer) {
					h.ShowPrompt = !h.ShowPrompt
					fmt.Fprintln(h.Out, "Prompt set to "+fmt.Sprintf("%t", h.ShowPrompt))
				}}),
		)

		in = strings.TrimSpace(in)
		if in == quit {
			return nil
		}

		if in == "" {
			continue
		}

		history = append(history, in)

		if err := h.Eval(ctx, in); err != nil {
			fmt.Fprintf(h.Out, "✍  %v\n", err)
		}
	}
}

// Eval runs one line of input.
func (h *Handler) Eval(ctx context.Context, in string) error {
	if !strings.HasPrefix(in, cmdPrefix) {
		return h.analyze(ctx, in)
	}

	fields := strings.Fields(in)
	args := fields[1:]

	switch fields[0] {
	case ":doc":
		if len(args) != 1 {
			return errors.New("usage: :doc <id>")
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid doc id %q", args[0])
		}
		return h.doc(id)

	case ":lang":
		if len(args) != 1 {
			return errors.New("usage: :lang en|zh|auto")
		}
		return h.setLang(args[0])

	case ":prompt":
		h.ShowPrompt = !h.ShowPrompt
		fmt.Fprintf(h.Out, "Prompt set to %t\n", h.ShowPrompt)
		return nil

	case ":help":
		for _, c := range commands {
			fmt.Fprintf(h.Out, "%-8s %s\n", c.Text, c.Description)
		}
		return nil
	}

	return fmt.Errorf("unknown command %s", fields[0])
}

func (h *Handler) analyze(ctx context.Context, text string) error {
	res, err := h.Service.Analyze(ctx, analyze.Request{Text: text, Lang: h.Lang})
	if err != nil {
		return err
	}

	h.Renderer.Stats(res.Stats)

	if h.ShowPrompt {
		fmt.Fprintln(h.Out, res.Prompt)
	}

	if res.Analysis != "" {
		fmt.Fprintln(h.Out, res.Analysis)
	}

	return nil
}

func (h *Handler) doc(id int) error {
	if h.DocRepo == nil {
		return errors.New("no doc repository")
	}

	doc, err := h.DocRepo.Read(id)
	if err != nil {
		return err
	}

	st, err := stat.Reduce(doc)
	if err != nil {
		return fmt.Errorf("doc %d: %w", id, err)
	}

	fmt.Fprintf(h.Out, "📖 %d %s\n", doc.Id, doc.Title)
	h.Renderer.Stats(st)
	return nil
}

func (h *Handler) setLang(code string) error {
	if code == "auto" {
		h.Lang = ""
		fmt.Fprintln(h.Out, "Language set to auto")
		return nil
	}

	lang, err := analyze.Language(analyze.Request{Lang: code})
	if err != nil {
		return err
	}

	h.Lang = lang.String()
	fmt.Fprintln(h.Out, "Language set to "+h.Lang)
	return nil
}

func (h *Handler) completer() func(in prompt.Document) []prompt.Suggest {
	return func(in prompt.Document) []prompt.Suggest {
		befCursor := in.TextBeforeCursor()

		// Only one character in line
		if "" == befCursor {
			return []prompt.Suggest{}
		}

		tokens := strings.Split(befCursor, " ")
		if len(tokens) == 1 {
			return prompt.FilterHasPrefix(commands, tokens[0], true)
		}

		if len(tokens) == 2 && tokens[0] == ":lang" {
			langs := []prompt.Suggest{{Text: "en"}, {Text: "zh"}, {Text: "auto"}}
			return prompt.FilterHasPrefix(langs, tokens[1], true)
		}

		if len(tokens) == 2 && tokens[0] == ":doc" {
			return h.completeDoc(tokens[1])
		}

		return []prompt.Suggest{}
	}
}

func (h *Handler) completeDoc(token string) (s []prompt.Suggest) {
	if h.DocRepo == nil {
		return s
	}

	docs, err := h.DocRepo.List("")
	if err != nil {
		return s
	}

	for _, d := range docs {
		id := strconv.Itoa(d.Id)
		if strings.HasPrefix(id, token) {
			s = append(s, prompt.Suggest{Text: id, Description: "📖 " + d.Title})
		}
	}

	return s
}
