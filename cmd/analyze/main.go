package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/OFFIS-RIT/contingency/backend/internal/config"
	"github.com/OFFIS-RIT/contingency/backend/internal/storage"
	"github.com/OFFIS-RIT/contingency/backend/internal/util"
	"github.com/OFFIS-RIT/contingency/backend/pkg/ai"
	"github.com/OFFIS-RIT/contingency/backend/pkg/graph"
	"github.com/OFFIS-RIT/contingency/backend/pkg/loader"
	"github.com/OFFIS-RIT/contingency/backend/pkg/loader/io"
	s3loader "github.com/OFFIS-RIT/contingency/backend/pkg/loader/s3"
	"github.com/OFFIS-RIT/contingency/backend/pkg/loader/web"
	"github.com/OFFIS-RIT/contingency/backend/pkg/logger"
	"github.com/OFFIS-RIT/contingency/backend/pkg/logger/console"
	"github.com/OFFIS-RIT/contingency/backend/pkg/progress"
	"github.com/OFFIS-RIT/contingency/backend/pkg/store"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"
)

type runner struct {
	graph    *graph.GraphClient
	ai       ai.GraphAIClient
	files    loader.NarrativeLoader
	web      loader.NarrativeLoader
	objects  loader.NarrativeLoader
	sink     progress.Sink
	store    store.AnalysisStorage
	outDir   string
	toStdout bool
}

func main() {
	outDir := flag.String("out", "", "directory for <name>.json results (default: stdout for one input, else the working directory)")
	save := flag.Bool("save", false, "also save every result to the configured store")
	parallel := flag.Int("parallel", 2, "number of narratives analyzed at once")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: analyze [-out dir] [-save] [-parallel n] <file|url|s3://bucket/key>...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	util.LoadEnv()

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: util.GetEnvBool("DEBUG", false),
		JSON:  util.GetEnvString("LOG_FORMAT", "text") == "json",
	})
	logger.Init(consoleLogger)

	inputs := flag.Args()
	if len(inputs) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatal("Failed to load config", "err", err)
	}

	aiClient, err := cfg.NewAIClient(ctx)
	if err != nil {
		logger.Fatal("Generation client unavailable", "adapter", cfg.AI.Adapter, "err", err)
	}

	graphClient, err := graph.NewGraphClient(cfg.GraphParams())
	if err != nil {
		logger.Fatal("Failed to create graph client", "err", err)
	}

	r := &runner{
		graph:    graphClient,
		ai:       aiClient,
		files:    io.NewIONarrativeLoader(),
		web:      web.NewWebNarrativeLoader(),
		sink:     progress.NewMemoryLog(),
		outDir:   *outDir,
		toStdout: *outDir == "" && len(inputs) == 1,
	}
	if r.outDir == "" && !r.toStdout {
		r.outDir = "."
	}
	if client := storage.NewS3Client(ctx); client != nil {
		r.objects = s3loader.NewS3NarrativeLoaderWithClient(client)
	}

	if *save {
		st, closeStore, err := cfg.OpenStore(ctx)
		if err != nil {
			logger.Fatal("Failed to open store", "err", err)
		}
		defer closeStore()
		r.store = st
		r.sink = st
	}

	if err := r.runAll(ctx, inputs, *parallel); err != nil {
		logger.Error("Some analyses failed", "err", err)
		stop()
		os.Exit(1)
	}

	metrics := aiClient.GetMetrics()
	logger.Info(
		"AI Metrics",
		"requests", metrics.Requests,
		"input_tokens", metrics.InputTokens,
		"output_tokens", metrics.OutputTokens,
		"total_tokens", metrics.TotalTokens,
	)
}

// runAll analyzes every input with at most parallel running at once. A
// failing input does not stop the others; all failures are joined.
func (r *runner) runAll(ctx context.Context, inputs []string, parallel int) error {
	if parallel < 1 {
		parallel = 1
	}
	errs := make([]error, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, input := range inputs {
		g.Go(func() error {
			if err := r.run(gctx, input); err != nil {
				logger.Error("Analysis failed", "input", input, "err", err)
				errs[i] = fmt.Errorf("%s: %w", input, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return errors.Join(errs...)
}

func (r *runner) run(ctx context.Context, input string) error {
	taskID, err := gonanoid.New()
	if err != nil {
		return err
	}
	name := loader.NameFromLocation(input)

	var src loader.Source
	switch {
	case loader.IsObjectLocation(input):
		src = loader.NewURLSource(taskID, input, r.objects)
	case loader.IsURL(input):
		src = loader.NewURLSource(taskID, input, r.web)
	default:
		src = loader.NewFileSource(taskID, input, r.files)
	}
	text, err := src.GetText(ctx)
	if err != nil {
		return fmt.Errorf("failed to load narrative: %w", err)
	}

	logger.Info("Analyzing", "input", input, "task_id", taskID)
	network, err := r.graph.Analyze(ctx, taskID, text, r.ai, r.sink)
	if err != nil {
		return err
	}

	data, err := store.EncodeDocument(network, text)
	if err != nil {
		return err
	}

	if r.store != nil {
		uuid, err := r.store.SaveAnalysis(ctx, name, data)
		if err != nil {
			return fmt.Errorf("failed to save analysis: %w", err)
		}
		if err := progress.NewReporter(r.sink, taskID).Complete(ctx, "Analysis complete", uuid); err != nil {
			logger.Warn("Failed to record completion", "task_id", taskID, "err", err)
		}
		logger.Info("Analysis saved", "name", name, "uuid", uuid)
	}

	if r.toStdout {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	return writeResult(r.outDir, name, data)
}

func writeResult(dir string, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Info("Result written", "path", path)
	return nil
}
