package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/parley-cli/parley/internal/alias"
	"github.com/parley-cli/parley/internal/cache"
	"github.com/parley-cli/parley/internal/config"
	"github.com/parley-cli/parley/internal/conversation"
	"github.com/parley-cli/parley/internal/history"
	"github.com/parley-cli/parley/internal/intercept"
	"github.com/parley-cli/parley/internal/provider"
	"github.com/parley-cli/parley/internal/render"
	"github.com/parley-cli/parley/pkg/version"
)

func main() {
	modelFlag := flag.String("model", "", "Override the configured model")
	markdownFlag := flag.Bool("markdown", false, "Render the response as markdown")
	debugFlag := flag.Bool("debug", false, "Log component timings to stderr")
	versionFlag := flag.Bool("version", false, "Print version")
	helpFlag := flag.Bool("help", false, "Show help")
	flag.BoolVar(helpFlag, "h", false, "Show help")

	flag.Usage = showHelp
	flag.Parse()

	if *helpFlag {
		showHelp()
		os.Exit(0)
	}
	if *versionFlag {
		fmt.Printf("parley %s (%s)\n", version.Version, version.Commit)
		os.Exit(0)
	}

	// The whole argument list, joined by single spaces, is the query.
	query := strings.Join(flag.Args(), " ")
	if query == "" {
		showHelp()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		// Configuration errors are user-facing, not crashes.
		fmt.Print(err.Error())
		os.Exit(0)
	}
	if *modelFlag != "" {
		cfg.Model = *modelFlag
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().Level(zerolog.WarnLevel)
	if *debugFlag || os.Getenv("PARLEY_DEBUG") != "" {
		logger = logger.Level(zerolog.DebugLevel)
	}

	store := history.NewStore(cfg.DataDir, cfg.HistoryLength)
	statusCache := cache.New(cfg.DataDir)

	aliases, err := alias.LoadFile(config.AliasesPath())
	if err != nil {
		logger.Warn().Err(err).Msg("ignoring unreadable aliases file")
		aliases = alias.NewResolver(nil)
	}

	var completer provider.Completer = provider.NewOpenAI(cfg.BaseURL, cfg.APIKey, cfg.Model)
	if cfg.MaxRetries > 0 {
		completer = provider.WithRetry(completer, cfg.MaxRetries)
	}

	interceptor := intercept.New(store, statusCache, cfg.ErrorPrompts, cfg.ClearPrompts)
	builder := conversation.NewBuilder(store, cfg.TransformPrompt, cfg.JailbreakPrompt, cfg.Unlocked)

	orch := conversation.NewOrchestrator(
		completer, builder, interceptor, aliases, store, statusCache,
		conversation.OrchestratorOptions{
			Params: provider.Params{
				Temperature:      cfg.Temperature,
				MaxTokens:        cfg.MaxTokens,
				TopP:             cfg.TopP,
				FrequencyPenalty: cfg.FrequencyPenalty,
				PresencePenalty:  cfg.PresencePenalty,
			},
			SeedPrompt: cfg.JailbreakPrompt,
			Unlocked:   cfg.Unlocked,
			Logger:     logger,
		},
	)

	response, err := orch.Run(context.Background(), query)
	if err != nil {
		fmt.Fprintln(os.Stderr, render.Errorf(err.Error()))
		os.Exit(1)
	}
	fmt.Print(render.Output(response, *markdownFlag || cfg.Markdown))
}

func showHelp() {
	fmt.Println(`parley - a one-shot conversational assistant for your terminal

USAGE:
  parley [flags] <query...>     Send a query; the reply is printed to stdout

FLAGS:
  --model <name>                Override the configured model
  --markdown                    Render the response as markdown
  --debug                       Log component timings to stderr
  --version                     Show version
  --help, -h                    Show this help

RESERVED PHRASES:
  "What's wrong?"               Show the raw error of the last failed request
  "Forget me"                   Erase the conversation history

CONFIGURATION:
  ~/.config/parley/config.yaml  or PARLEY_* environment variables
  ~/.config/parley/aliases.yaml optional prompt aliases

EXAMPLES:
  parley "How tall is the Eiffel Tower?"
  PARLEY_TEMPERATURE=1.2 parley tell me a story`)
}
