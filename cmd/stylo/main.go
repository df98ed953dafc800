package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/stylo/llm"
	"github.com/revelaction/stylo/nlp"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{Out: os.Stdout, Err: os.Stderr}

	if err := newApp(ui).Run(os.Args); err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "stylo: %v\n", err)
}

// Flag names shared by several commands.
const (
	flagDB       = "db"
	flagNLPURL   = "nlp-url"
	flagRedis    = "redis"
	flagRedisDB  = "redis-db"
	flagCacheTTL = "cache-ttl"
	flagProvider = "provider"
	flagModel    = "model"
	flagLLMURL   = "llm-url"
	flagAPIKey   = "api-key"
	flagLang     = "lang"
	flagJSON     = "json"
	flagRaw      = "raw"
	flagNoColor  = "no-color"
	flagUser     = "user"
)

var dbFlag = &cli.StringFlag{
	Name:    flagDB,
	Usage:   "sqlite database file, or a directory of doc JSON files",
	Value:   "stylo.db",
	EnvVars: []string{"STYLO_DB"},
}

var nlpFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    flagNLPURL,
		Usage:   "base URL of the spaCy annotation service",
		Value:   "http://127.0.0.1:8000",
		EnvVars: []string{"STYLO_NLP_URL"},
	},
	&cli.StringFlag{
		Name:    flagRedis,
		Usage:   "redis address of the parse cache (host:port); empty uses an in-process cache",
		EnvVars: []string{"STYLO_REDIS_ADDR"},
	},
	&cli.IntFlag{
		Name:    flagRedisDB,
		Usage:   "redis database of the parse cache",
		EnvVars: []string{"STYLO_REDIS_DB"},
	},
	&cli.DurationFlag{
		Name:    flagCacheTTL,
		Usage:   "expiry of cached parses in redis",
		Value:   24 * time.Hour,
		EnvVars: []string{"STYLO_CACHE_TTL"},
	},
}

var llmFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    flagProvider,
		Usage:   "generative model provider: gemini, ollama",
		Value:   llm.ProviderGemini,
		EnvVars: []string{"STYLO_LLM_PROVIDER"},
	},
	&cli.StringFlag{
		Name:    flagModel,
		Usage:   "model name (provider default when empty)",
		EnvVars: []string{"STYLO_LLM_MODEL", "OLLAMA_MODEL"},
	},
	&cli.StringFlag{
		Name:    flagLLMURL,
		Usage:   "provider base URL (provider default when empty)",
		EnvVars: []string{"STYLO_LLM_URL", "OLLAMA_URL"},
	},
	&cli.StringFlag{
		Name:    flagAPIKey,
		Usage:   "gemini API key",
		EnvVars: []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	},
}

var langFlag = &cli.StringFlag{
	Name:  flagLang,
	Usage: "language of the text: en, zh (detected when empty)",
}

var outputFlags = []cli.Flag{
	&cli.BoolFlag{Name: flagJSON, Usage: "print the statistics as JSON"},
	&cli.BoolFlag{Name: flagRaw, Usage: "also print the raw sequences"},
	&cli.BoolFlag{Name: flagNoColor, Usage: "do not color the output", EnvVars: []string{"NO_COLOR"}},
}

func flags(groups ...[]cli.Flag) []cli.Flag {
	var fs []cli.Flag
	for _, g := range groups {
		fs = append(fs, g...)
	}
	return fs
}

func newApp(ui UI) *cli.App {
	return &cli.App{
		Name:                 "stylo",
		Usage:                "stylistic statistics of English and Chinese texts, and the prompts to analyze them",
		Version:              BuildTag,
		Writer:               ui.Out,
		ErrWriter:            ui.Err,
		EnableBashCompletion: true,
		HideVersion:          true,
		Commands: []*cli.Command{
			{
				Name:        "stat",
				Usage:       "Show statistics for a parsed document or one of its sentences",
				ArgsUsage:   "<source> [sentenceId]",
				Description: "<source> can be a doc JSON file or a doc id of the --db repository.",
				Flags:       flags([]cli.Flag{dbFlag}, outputFlags),
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return usageError(c)
					}
					sentId, err := optionalIntArg(c, 1, "sentenceId")
					if err != nil {
						return err
					}
					return statCommand(StatOptions{
						DocPath: c.String(flagDB),
						JSON:    c.Bool(flagJSON),
						Raw:     c.Bool(flagRaw),
						Color:   colorEnabled(c, ui),
					}, c.Args().Get(0), sentId, ui)
				},
			},
			{
				Name:      "prompt",
				Usage:     "Print the prompt of a parsed document",
				ArgsUsage: "<source>",
				Flags:     []cli.Flag{dbFlag, langFlag},
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return usageError(c)
					}
					return promptCommand(PromptOptions{
						DocPath: c.String(flagDB),
						Lang:    c.String(flagLang),
					}, c.Args().Get(0), ui)
				},
			},
			{
				Name:      "analyze",
				Usage:     "Annotate a raw text, render its prompt and ask the model for the analysis",
				ArgsUsage: "<file|->",
				Flags: flags(nlpFlags, llmFlags, outputFlags, []cli.Flag{
					langFlag,
					dbFlag,
					&cli.BoolFlag{Name: "prompt-only", Usage: "stop after printing the prompt"},
					&cli.BoolFlag{Name: "stats", Usage: "print the statistics before the analysis"},
					&cli.StringFlag{Name: flagUser, Usage: "store the analysis for this user in --db", EnvVars: []string{"STYLO_USER"}},
				}),
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return usageError(c)
					}
					return analyzeCommand(AnalyzeOptions{
						Service:    serviceOptions(c),
						Lang:       c.String(flagLang),
						PromptOnly: c.Bool("prompt-only"),
						Stats:      c.Bool("stats"),
						JSON:       c.Bool(flagJSON),
						Raw:        c.Bool(flagRaw),
						Color:      colorEnabled(c, ui),
					}, c.Args().Get(0), ui)
				},
			},
			{
				Name:  "batch",
				Usage: "Compute the statistics of every doc of the repository",
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{Name: "label", Aliases: []string{"l"}, Usage: "only docs with a label containing this string"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write one <id>.json statistics file per doc in this directory"},
					&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "number of concurrent workers", Value: 4},
				},
				Action: func(c *cli.Context) error {
					return batchCommand(BatchOptions{
						DocPath: c.String(flagDB),
						Label:   c.String("label"),
						OutDir:  c.String("out"),
						Workers: c.Int("workers"),
					}, ui)
				},
			},
			{
				Name:  "import-doc",
				Usage: "Import docs from a directory of doc JSON files to SQLite",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "source directory", Required: true},
					&cli.StringFlag{Name: "to", Usage: "target sqlite file", Value: "stylo.db", EnvVars: []string{"STYLO_DB"}},
					&cli.StringSliceFlag{Name: "label", Aliases: []string{"l"}, Usage: "only docs with a label containing this string"},
				},
				Action: func(c *cli.Context) error {
					return importDocCommand(ImportDocOptions{
						From:   c.String("from"),
						To:     c.String("to"),
						Labels: c.StringSlice("label"),
					}, ui)
				},
			},
			{
				Name:  "export-doc",
				Usage: "Export docs from SQLite to a directory of doc JSON files",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "source sqlite file", Value: "stylo.db", EnvVars: []string{"STYLO_DB"}},
					&cli.StringFlag{Name: "to", Usage: "target directory", Required: true},
				},
				Action: func(c *cli.Context) error {
					return exportDocCommand(ExportDocOptions{
						From: c.String("from"),
						To:   c.String("to"),
					}, ui)
				},
			},
			{
				Name:  "ls-doc",
				Usage: "List the docs of the repository",
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{Name: "label", Aliases: []string{"l"}, Usage: "only docs with a label containing this string"},
				},
				Action: func(c *cli.Context) error {
					repo, closeFn, err := openDocRepository(c.String(flagDB))
					if err != nil {
						return err
					}
					defer closeFn()
					return lsDocCommand(repo, LsDocOptions{Label: c.String("label")}, ui)
				},
			},
			{
				Name:      "ls-labels",
				Usage:     "List the labels of the docs of the repository",
				ArgsUsage: "[match]",
				Flags:     []cli.Flag{dbFlag},
				Action: func(c *cli.Context) error {
					repo, closeFn, err := openDocRepository(c.String(flagDB))
					if err != nil {
						return err
					}
					defer closeFn()
					return lsLabelsCommand(repo, LsLabelsOptions{Match: c.Args().Get(0)}, ui)
				},
			},
			{
				Name:      "doc",
				Usage:     "Print the sentences of a doc",
				ArgsUsage: "<source>",
				Flags: []cli.Flag{
					dbFlag,
					&cli.IntFlag{Name: "start", Aliases: []string{"s"}, Usage: "first sentence"},
					&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Usage: "number of sentences (all when negative)", Value: -1},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return usageError(c)
					}
					return docCommand(DocOptions{
						DocPath: c.String(flagDB),
						Start:   c.Int("start"),
						Count:   c.Int("count"),
					}, c.Args().Get(0), ui)
				},
			},
			{
				Name:      "sentence",
				Usage:     "Show the tokens of a sentence",
				ArgsUsage: "<source> <sentenceId>",
				Flags:     []cli.Flag{dbFlag},
				Action: func(c *cli.Context) error {
					if c.NArg() < 2 {
						return usageError(c)
					}
					sentId, err := strconv.Atoi(c.Args().Get(1))
					if err != nil {
						return fmt.Errorf("invalid sentenceId: %v", err)
					}
					return sentenceCommand(SentenceOptions{DocPath: c.String(flagDB)}, c.Args().Get(0), sentId, ui)
				},
			},
			{
				Name:  "serve",
				Usage: "Serve the analysis HTTP API",
				Flags: flags(nlpFlags, llmFlags, []cli.Flag{
					dbFlag,
					&cli.UintFlag{Name: "port", Aliases: []string{"p"}, Usage: "port number", Value: 7898, EnvVars: []string{"STYLO_PORT", "PORT"}},
					&cli.BoolFlag{Name: "prefork", Usage: "prefork"},
					&cli.BoolFlag{Name: "prompt-only", Usage: "do not call the model"},
					&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "do not log requests"},
				}),
				Action: func(c *cli.Context) error {
					return serveCommand(ServeOptions{
						Service:    serviceOptions(c),
						Port:       c.Uint("port"),
						Prefork:    c.Bool("prefork"),
						PromptOnly: c.Bool("prompt-only"),
						Quiet:      c.Bool("quiet"),
					}, ui)
				},
			},
			{
				Name:  "shell",
				Usage: "Enter the interactive mode: paste a text or use :doc <id>",
				Flags: flags(nlpFlags, llmFlags, []cli.Flag{
					dbFlag,
					langFlag,
					&cli.BoolFlag{Name: "prompt-only", Usage: "do not call the model"},
					&cli.BoolFlag{Name: flagNoColor, Usage: "do not color the output", EnvVars: []string{"NO_COLOR"}},
				}),
				Action: func(c *cli.Context) error {
					return shellCommand(ShellOptions{
						Service:    serviceOptions(c),
						Lang:       c.String(flagLang),
						PromptOnly: c.Bool("prompt-only"),
						Color:      colorEnabled(c, ui),
					}, ui)
				},
			},
			{
				Name:  "bash",
				Usage: "Output bash completion script",
				Action: func(c *cli.Context) error {
					return bashCommand(ui)
				},
			},
			{
				Name:  "version",
				Usage: "Print the version",
				Action: func(c *cli.Context) error {
					return versionCommand(ui)
				},
			},
		},
	}
}

// serviceOptions collects the flags that configure the annotation service,
// the parse cache, the generative model and the record store.
func serviceOptions(c *cli.Context) ServiceOptions {
	nlpCfg := nlp.DefaultConfig()
	nlpCfg.Endpoint = c.String(flagNLPURL)

	llmCfg := llm.DefaultConfig()
	llmCfg.Provider = c.String(flagProvider)
	llmCfg.Model = c.String(flagModel)
	llmCfg.Endpoint = c.String(flagLLMURL)
	llmCfg.APIKey = c.String(flagAPIKey)

	opts := ServiceOptions{
		NLP:       nlpCfg,
		LLM:       llmCfg,
		RedisAddr: c.String(flagRedis),
		RedisDB:   c.Int(flagRedisDB),
		CacheTTL:  c.Duration(flagCacheTTL),
		DocPath:   c.String(flagDB),
	}
	if c.IsSet(flagUser) {
		opts.User = c.String(flagUser)
	}
	return opts
}

func usageError(c *cli.Context) error {
	return fmt.Errorf("usage: stylo %s %s", c.Command.Name, c.Command.ArgsUsage)
}

func optionalIntArg(c *cli.Context, i int, name string) (*int, error) {
	if c.NArg() <= i {
		return nil, nil
	}
	v, err := strconv.Atoi(c.Args().Get(i))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %v", name, err)
	}
	return &v, nil
}

// colorEnabled reports whether the output goes to a terminal and color was
// not disabled.
func colorEnabled(c *cli.Context, ui UI) bool {
	if c.Bool(flagNoColor) {
		return false
	}
	f, ok := ui.Out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
