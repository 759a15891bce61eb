package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jeanpaul/tvyn/internal/assistant"
	"github.com/jeanpaul/tvyn/internal/catalog"
	"github.com/jeanpaul/tvyn/internal/config"
	"github.com/jeanpaul/tvyn/internal/dislikes"
	"github.com/jeanpaul/tvyn/internal/logger"
	"github.com/jeanpaul/tvyn/internal/provider"
	"github.com/jeanpaul/tvyn/internal/session"
	"github.com/jeanpaul/tvyn/internal/transcript"
	"github.com/jeanpaul/tvyn/internal/tui"
	"github.com/jeanpaul/tvyn/pkg/version"
)

type globalFlags struct {
	config   string
	provider string
	model    string
	llm      bool
}

func main() {
	var gf globalFlags
	flag.StringVar(&gf.config, "config", "", "Path to config.yaml")
	flag.StringVar(&gf.provider, "provider", "", "Provider name for LLM fallback (ollama, vllm, openai)")
	flag.StringVar(&gf.model, "model", "", "Model name for LLM fallback")
	flag.BoolVar(&gf.llm, "llm", false, "Answer unrecognised questions with the language model")
	versionFlag := flag.Bool("version", false, "Print version")
	helpFlag := flag.Bool("help", false, "Show help")
	flag.BoolVar(helpFlag, "h", false, "Show help")

	flag.Usage = showHelp
	flag.Parse()

	if *helpFlag {
		showHelp()
		return
	}
	if *versionFlag {
		fmt.Printf("tvyn %s (%s)\n", version.Version, version.Commit)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	args := flag.Args()
	cmd := ""
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "":
		err = cmdChat(gf)
	case "ask":
		err = cmdAsk(ctx, gf, args)
	case "keywords":
		err = cmdKeywords(gf, args)
	case "export":
		err = cmdExport(gf, args)
	case "serve":
		err = cmdServe(ctx, gf, args)
	case "doctor":
		err = cmdDoctor(ctx, gf)
	case "config":
		err = cmdConfig(gf)
	case "init":
		err = cmdInit(gf, args)
	case "help":
		showHelp()
	default:
		fatal("unknown command %q (run tvyn help)", cmd)
	}
	if err != nil {
		if errors.Is(err, dislikes.ErrMalformed) {
			fatal("%s\nfix or remove the dislike file and try again", err)
		}
		fatal("%s", err)
	}
}

// app holds everything a command needs, built from the effective config.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	closeLog func() error
	sess     *session.Session
	provName string
	model    string
	prov     provider.Provider
}

// newApp wires the session. logTo receives logs when no log file is set;
// the TUI passes nil so nothing is written to the screen.
func newApp(gf globalFlags, logTo io.Writer) (*app, error) {
	cfg, err := config.LoadFile(gf.config)
	if err != nil {
		return nil, err
	}
	if gf.llm {
		cfg.Assistant.LLMFallback = true
	}

	log, closeLog, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	}, logTo)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		closeLog: closeLog,
		provName: firstNonEmpty(gf.provider, cfg.DefaultProvider),
	}
	a.model = resolveModel(cfg, a.provName, gf.model)

	store := dislikes.NewFileStore(cfg.Data.DislikesFile)
	// A broken dislike file stops the program before the first turn.
	if _, err := store.Load(); err != nil {
		a.close()
		return nil, err
	}

	deps := session.Deps{
		Catalog:    catalog.NewLoader(cfg.Data.ProductsFile, log),
		Dislikes:   store,
		Transcript: transcript.NewLogger(cfg.Data.TranscriptFile),
		Engine:     assistant.NewEngine(cfg.Assistant.Name, store),
		Log:        log,
	}
	if cfg.Assistant.LLMFallback {
		prov, err := makeProvider(cfg, a.provName, a.model)
		if err != nil {
			a.close()
			return nil, err
		}
		a.prov = provider.WithRetry(prov, cfg.LLM.MaxRetries)
		deps.Responder = a.prov
	}

	a.sess = session.New(deps, session.Options{
		SystemPrompt: cfg.LLM.SystemPrompt,
		LLMFallback:  cfg.Assistant.LLMFallback,
		LLMTimeout:   cfg.LLM.Timeout,
		Keywords:     cfg.Assistant.Keywords,
	})
	log.Debug("session ready",
		logger.Module("main"),
		slog.String("session_id", a.sess.ID()),
		slog.Bool("llm_fallback", cfg.Assistant.LLMFallback),
	)
	return a, nil
}

func (a *app) close() {
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

// resolveModel picks the --model flag, then the provider's own model, then
// default_model.
func resolveModel(cfg *config.Config, name, flagModel string) string {
	pcfg, _ := cfg.ProviderFor(name)
	return firstNonEmpty(flagModel, pcfg.Model, cfg.DefaultModel)
}

// makeProvider builds the named provider. An empty modelName resolves via
// resolveModel.
func makeProvider(cfg *config.Config, name, modelName string) (provider.Provider, error) {
	model := resolveModel(cfg, name, modelName)
	if baseURL := os.Getenv("TVYN_BASE_URL"); baseURL != "" {
		return provider.NewOpenAI(name, baseURL, os.Getenv("TVYN_API_KEY"), model), nil
	}

	pcfg, ok := cfg.ProviderFor(name)
	if !ok {
		return nil, fmt.Errorf("unknown provider %q, configure it in ~/.config/tvyn/config.yaml", name)
	}

	switch pcfg.Type {
	case "openai":
		return provider.NewOpenAI(name, pcfg.BaseURL, pcfg.APIKey, model), nil
	default:
		return nil, fmt.Errorf("unknown provider type %q", pcfg.Type)
	}
}

func cmdChat(gf globalFlags) error {
	a, err := newApp(gf, nil)
	if err != nil {
		return err
	}
	defer a.close()

	return tui.Run(a.sess, tui.Options{
		Name:     a.cfg.Assistant.Name,
		Provider: a.provName,
		Model:    a.model,
		LLM:      a.cfg.Assistant.LLMFallback,
		Theme:    a.cfg.Theme,
		Keywords: a.cfg.Assistant.Keywords,
		Log:      a.log,
	})
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func fatal(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render("error: "+msg))
	os.Exit(1)
}

func showHelp() {
	help := `
` + tui.BannerStyle.Render("TVYN") + ` - supermarket assistant for your terminal

` + tui.UserLabelStyle.Render("USAGE:") + `
  tvyn [flags]                Start interactive chat
  tvyn [flags] <command>      Run a command

` + tui.UserLabelStyle.Render("COMMANDS:") + `
  ask <question>              Answer one question and exit (reads stdin lines if none given)
  keywords [-n N]             Show the most frequent shopper words
  export [-o file]            Write the chat transcript to a file or stdout
  serve [-addr host:port]     Serve the HTTP API
  doctor                      Check data files and the language model endpoint
  config                      Print the effective configuration
  init [-force]               Write a sample products workbook
  help                        Show this help

` + tui.UserLabelStyle.Render("FLAGS:") + `
  --config <path>             Use a specific config.yaml
  --llm                       Answer unrecognised questions with the language model
  --provider <name>           Provider for --llm (ollama, vllm, openai)
  --model <name>              Model for --llm
  --version                   Show version
  --help, -h                  Show this help

` + tui.UserLabelStyle.Render("EXAMPLES:") + `
  tvyn ask "what products are available?"
  tvyn ask "I don't like milk, eggs"
  echo "how many products" | tvyn ask
  tvyn keywords -n 10
  tvyn --llm --provider openai    Use OpenAI for small talk (requires OPENAI_API_KEY)

` + tui.UserLabelStyle.Render("CHAT COMMANDS:") + `
  ` + strings.Join([]string{"/help", "/keywords [n]", "/dislikes", "/export [path]", "/clear", "/quit"}, "  ") + `
`
	fmt.Println(help)
}
