package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/tailored-agentic-units/assistant/observability"
	"github.com/tailored-agentic-units/assistant/ollama"
	"github.com/tailored-agentic-units/assistant/orchestrator"
	"github.com/tailored-agentic-units/assistant/prompt"
)

func main() {
	// Optional .env next to the binary; flags still win over environment.
	_ = godotenv.Load()

	var (
		configFile  = flag.String("config", "", "Path to config JSON file")
		serverURL   = flag.String("url", os.Getenv("ASSISTANT_SERVER_URL"), "Inference server base URL")
		model       = flag.String("model", os.Getenv("ASSISTANT_MODEL"), "Model identifier (overrides config)")
		promptText  = flag.String("prompt", "", "One-shot prompt; omit for interactive mode")
		contextFile = flag.String("context-file", "", "File attached as active-file context")
		listModels  = flag.Bool("list-models", false, "List the server's models and exit")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfg := orchestrator.DefaultConfig()
	if *configFile != "" {
		loaded, err := orchestrator.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}
	if *serverURL != "" {
		cfg.Server.BaseURL = *serverURL
	}
	if *model != "" {
		cfg.Model = *model
	}

	if cfg.Server.BaseURL == "" {
		fmt.Fprintln(os.Stderr, "Usage: assistant -url <server> [flags]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *listModels {
		if err := printModels(&cfg); err != nil {
			log.Fatalf("Failed to list models: %v", err)
		}
		return
	}

	if *promptText != "" {
		if err := runOnce(&cfg, *promptText, *contextFile); err != nil {
			log.Fatalf("Request failed: %v", err)
		}
		return
	}

	if err := runInteractive(&cfg, *contextFile); err != nil {
		log.Fatalf("Interactive session failed: %v", err)
	}
}

func printModels(cfg *orchestrator.Config) error {
	client, err := ollama.NewClient(&cfg.Server)
	if err != nil {
		return err
	}

	models, err := client.Models(context.Background())
	if err != nil {
		return err
	}
	if len(models) == 0 {
		fmt.Println("(no models installed)")
		return nil
	}

	selected, _ := ollama.ResolveDefault(models, cfg.Model)
	for _, m := range models {
		if m == selected {
			fmt.Printf("* %s\n", m)
		} else {
			fmt.Printf("  %s\n", m)
		}
	}
	return nil
}

// cliSubscriber streams deltas straight to stdout for one-shot mode.
type cliSubscriber struct {
	done chan error
}

func (s *cliSubscriber) OnDelta(_, text string) {
	fmt.Print(text)
}

func (s *cliSubscriber) OnError(_, message string) {
	s.done <- fmt.Errorf("%s", message)
}

func (s *cliSubscriber) OnDiagnostic(_, message string) {
	slog.Warn("dropped a response frame", "error", message)
}

func (s *cliSubscriber) OnComplete(string) {
	s.done <- nil
}

// fileSources attaches one file's contents as the active document.
type fileSources struct {
	path string
}

func (f fileSources) Selection(context.Context) (string, bool) { return "", false }

func (f fileSources) ActiveFile(context.Context) (string, bool) {
	if f.path == "" {
		return "", false
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		slog.Warn("could not read context file", "path", f.path, "error", err)
		return "", false
	}
	return string(data), true
}

func (f fileSources) OpenFiles(context.Context) []prompt.File { return nil }

func runOnce(cfg *orchestrator.Config, promptText, contextFile string) error {
	sub := &cliSubscriber{done: make(chan error, 1)}

	o, err := orchestrator.New(cfg,
		orchestrator.WithSubscriber(sub),
		orchestrator.WithSources(fileSources{path: contextFile}),
		orchestrator.WithObserver(observability.NewSlogObserver(slog.Default())),
	)
	if err != nil {
		return err
	}
	defer o.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	models, err := o.Models(ctx)
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	selected, ok := ollama.ResolveDefault(models, o.Model())
	if !ok {
		return fmt.Errorf("server at %s hosts no models", cfg.Server.BaseURL)
	}
	o.SetModel(selected)

	flags := prompt.Flags{ActiveFile: contextFile != ""}
	if err := o.Submit(promptText, flags); err != nil {
		return err
	}

	select {
	case err := <-sub.done:
		fmt.Println()
		return err
	case <-ctx.Done():
		o.CancelCurrentRequest()
		fmt.Println()
		return nil
	}
}
