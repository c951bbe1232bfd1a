package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/manifoldco/promptui"

	"github.com/fpt/go-toolbench/internal/config"
	"github.com/fpt/go-toolbench/internal/dataset"
	"github.com/fpt/go-toolbench/internal/report"
	"github.com/fpt/go-toolbench/internal/tool"
	"github.com/fpt/go-toolbench/pkg/bench"
	"github.com/fpt/go-toolbench/pkg/bench/run"
	"github.com/fpt/go-toolbench/pkg/bench/score"
	"github.com/fpt/go-toolbench/pkg/bench/solve"
	"github.com/fpt/go-toolbench/pkg/client"
	pkgLogger "github.com/fpt/go-toolbench/pkg/logger"
)

// modelNamesFlag implements flag.Value for repeated -model flags
type modelNamesFlag []string

func (m *modelNamesFlag) String() string {
	return strings.Join(*m, ",")
}

func (m *modelNamesFlag) Set(value string) error {
	*m = append(*m, value)
	return nil
}

func printUsage() {
	fmt.Println("toolbench - evaluate tool-calling models against an expected-observation dataset")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  toolbench -settings bench.json                   # run every configured model")
	fmt.Println("  toolbench -settings bench.json -model claude     # run a single model by name")
	fmt.Println("  toolbench -settings bench.json -select           # pick models interactively")
	fmt.Println("  toolbench -settings bench.json -epochs 3         # override epoch count")
	fmt.Println("  toolbench -settings bench.json -dataset ./alt    # override dataset directory")
	fmt.Println("  toolbench -list-tools                            # show builtin tool factories")
	fmt.Println()
}

func main() {
	var settingsPath = flag.String("settings", "toolbench.json", "Path to settings file")
	var datasetDir = flag.String("dataset", "", "Dataset directory (overrides settings)")
	var epochs = flag.Int("epochs", 0, "Number of epochs (overrides settings)")
	var selectModels = flag.Bool("select", false, "Pick models to run interactively")
	var listTools = flag.Bool("list-tools", false, "List builtin tool factories and exit")
	var verbose = flag.Bool("v", false, "Enable verbose logging (debug level)")
	var help = flag.Bool("h", false, "Show this help message")
	var modelNames modelNamesFlag
	flag.Var(&modelNames, "model", "Model name to run (can be used multiple times; default: all)")

	flag.Usage = func() {
		printUsage()
		fmt.Println("Flags:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	registry := tool.NewRegistry()
	tool.RegisterBuiltins(registry)

	if *listTools {
		for _, name := range registry.Factories() {
			fmt.Println(name)
		}
		return
	}

	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load settings: %v\n", err)
		os.Exit(1)
	}
	if *datasetDir != "" {
		settings.Dataset.Dir = *datasetDir
	}
	if *epochs > 0 {
		settings.Epochs = *epochs
	}

	logLevel := settings.LogLevel
	if *verbose {
		logLevel = "debug"
	}
	pkgLogger.SetGlobalLogLevel(pkgLogger.LogLevel(logLevel))
	logger := pkgLogger.NewLogger(pkgLogger.LogLevel(logLevel))

	selected, err := selectModelSettings(settings.Models, modelNames, *selectModels)
	if err != nil {
		logger.Error("Model selection failed", "error", err)
		os.Exit(1)
	}

	samples, err := dataset.Load(settings.Dataset.Dir, dataset.Options{
		FieldMap: settings.Dataset.FieldMap,
		Required: settings.Dataset.Required,
	})
	if err != nil {
		logger.Error("Failed to load dataset", "dir", settings.Dataset.Dir, "error", err)
		os.Exit(1)
	}
	if len(samples) == 0 {
		logger.Error("Dataset is empty", "dir", settings.Dataset.Dir)
		os.Exit(1)
	}

	// Cancel the run cleanly on Ctrl+C; completed rows are still reported
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handles := make(map[string]*bench.Handle, len(selected))
	for _, m := range selected {
		llm, err := client.NewClient(ctx, m.Backend, m.Model, m.MaxTokens)
		if err != nil {
			logger.Error("Failed to create model client", "model", m.Name, "backend", m.Backend, "error", err)
			os.Exit(1)
		}
		handles[m.Name] = bench.NewHandle(llm)
	}

	judgeLLM, err := client.NewClient(ctx, settings.Judge.Backend, settings.Judge.Model, settings.Judge.MaxTokens)
	if err != nil {
		logger.Error("Failed to create judge client", "backend", settings.Judge.Backend, "error", err)
		os.Exit(1)
	}
	judge := bench.NewHandle(judgeLLM)

	levels := make([]score.Level, len(settings.Grades))
	for i, g := range settings.Grades {
		levels[i] = score.Level(g)
	}
	scale, err := score.NewScale(levels...)
	if err != nil {
		logger.Error("Invalid grade scale", "error", err)
		os.Exit(1)
	}

	solver := solve.NewSolver(registry, time.Duration(settings.DelayMs)*time.Millisecond)
	scorer := score.NewScorer(judge, settings.Judge.Instructions, scale).
		WithConcurrency(settings.Judge.Concurrency).
		WithTimeout(time.Duration(settings.Judge.TimeoutSecs) * time.Second)

	orchestrator := run.NewOrchestrator(run.Config{
		Task:         settings.Task,
		Name:         settings.Name,
		Epochs:       settings.Epochs,
		SystemPrompt: settings.SystemPrompt,
	}, solver, scorer)

	table, runErr := orchestrator.Run(ctx, samples, handles)
	if table != nil {
		if err := report.Write(os.Stdout, table, samples, scale); err != nil {
			logger.Error("Failed to write report", "error", err)
			os.Exit(1)
		}
	}
	if runErr != nil {
		logger.Error("Run aborted", "error", runErr)
		os.Exit(1)
	}
}

// selectModelSettings narrows the configured models to the ones requested by
// flag, or by an interactive picker when -select is given
func selectModelSettings(configured []config.ModelSettings, names []string, interactive bool) ([]config.ModelSettings, error) {
	if len(names) > 0 {
		byName := make(map[string]config.ModelSettings, len(configured))
		for _, m := range configured {
			byName[m.Name] = m
		}
		selected := make([]config.ModelSettings, 0, len(names))
		for _, name := range names {
			m, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("model '%s' is not configured", name)
			}
			selected = append(selected, m)
		}
		return selected, nil
	}

	if interactive {
		return pickModelsInteractively(configured)
	}
	return configured, nil
}

// pickModelsInteractively asks, per configured model, whether to include it
func pickModelsInteractively(configured []config.ModelSettings) ([]config.ModelSettings, error) {
	var selected []config.ModelSettings
	for _, m := range configured {
		prompt := promptui.Select{
			Label: fmt.Sprintf("Run %s (%s/%s)", m.Name, m.Backend, m.Model),
			Items: []string{"yes", "no"},
			Size:  2,
		}
		_, answer, err := prompt.Run()
		if err != nil {
			if err == promptui.ErrInterrupt {
				return nil, fmt.Errorf("selection cancelled")
			}
			return nil, err
		}
		if answer == "yes" {
			selected = append(selected, m)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no models selected")
	}
	return selected, nil
}
