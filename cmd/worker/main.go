package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OFFIS-RIT/contingency/backend/internal/config"
	"github.com/OFFIS-RIT/contingency/backend/internal/queue"
	"github.com/OFFIS-RIT/contingency/backend/internal/storage"
	"github.com/OFFIS-RIT/contingency/backend/internal/util"
	"github.com/OFFIS-RIT/contingency/backend/pkg/ai"
	"github.com/OFFIS-RIT/contingency/backend/pkg/graph"
	s3loader "github.com/OFFIS-RIT/contingency/backend/pkg/loader/s3"
	"github.com/OFFIS-RIT/contingency/backend/pkg/loader/web"
	"github.com/OFFIS-RIT/contingency/backend/pkg/logger"
	"github.com/OFFIS-RIT/contingency/backend/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: util.GetEnvBool("DEBUG", false),
		JSON:  util.GetEnvString("LOG_FORMAT", "text") == "json",
	})
	logger.Init(consoleLogger)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatal("Failed to load config", "err", err)
	}

	// Missing credentials are not fatal here: jobs fail with a
	// non-retryable error and land in the dead-letter queue.
	aiClient, err := cfg.NewAIClient(ctx)
	if err != nil {
		logger.Error("Generation client unavailable", "adapter", cfg.AI.Adapter, "err", err)
	}

	graphClient, err := graph.NewGraphClient(cfg.GraphParams())
	if err != nil {
		logger.Fatal("Failed to create graph client", "err", err)
	}

	st, closeStore, err := cfg.OpenStore(ctx)
	if err != nil {
		logger.Fatal("Failed to open store", "err", err)
	}
	defer closeStore()

	processor := &queue.AnalysisProcessor{
		Graph: graphClient,
		AI:    aiClient,
		Store: st,
		Web:   web.NewWebNarrativeLoader(),
	}
	if exporter := storage.NewAnalysisExporterFromEnv(ctx); exporter != nil {
		processor.Export = exporter
	}
	if client := storage.NewS3Client(ctx); client != nil {
		processor.Objects = s3loader.NewS3NarrativeLoaderWithClient(client)
	}

	hostname, _ := os.Hostname()
	leases, closeLeases, err := cfg.OpenLeases(ctx, hostname+"-")
	if err != nil {
		logger.Fatal("Failed to open task leases", "err", err)
	}
	defer closeLeases()
	if leases != nil {
		processor.Locks = leases
	}

	// Init rabbitmq
	conn := queue.Init()
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch, queue.Queues); err != nil {
		logger.Fatal("Failed to declare queues", "err", err)
	}
	pub := queue.ChannelPublisher{Ch: ch}

	// prefetch=1 keeps one analysis in flight per worker
	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()

	if err := consumerCh.Qos(1, 0, true); err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	msgs, err := consumerCh.Consume(
		queue.AnalysisQueue,
		queue.AnalysisQueue+"_consumer",
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		logger.Fatal("Failed to start consuming", "queue", queue.AnalysisQueue, "err", err)
	}

	logger.Info("Listening for messages", "queue", queue.AnalysisQueue)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutdown signal received, exiting...")
			return
		case msg, ok := <-msgs:
			if !ok {
				logger.Info("Message channel closed", "queue", queue.AnalysisQueue)
				return
			}
			startTime := time.Now()
			logger.Info("Received message", "queue", queue.AnalysisQueue)

			if err := processor.ProcessAnalysisMessage(ctx, msg.Body); err != nil {
				logger.Error("Error processing message", "queue", queue.AnalysisQueue, "err", err)
				queue.HandleProcessingError(ctx, pub, msg, queue.AnalysisQueue, err)
			} else {
				if err := msg.Ack(false); err != nil {
					logger.Error("Failed to ack message", "err", err)
				}
				logger.Info("Message processed successfully", "queue", queue.AnalysisQueue)
			}

			logMetrics(aiClient)
			logger.Info("Processing time", "duration", formatDuration(time.Since(startTime)))
			logger.Info("Waiting for next message")
		}
	}
}

func logMetrics(client ai.GraphAIClient) {
	if client == nil {
		return
	}
	metrics := client.GetMetrics()
	logger.Info(
		"AI Metrics",
		"input_tokens", metrics.InputTokens,
		"output_tokens", metrics.OutputTokens,
		"total_tokens", metrics.TotalTokens,
		"duration", formatDuration(time.Duration(metrics.DurationMs)*time.Millisecond),
	)
	client.ResetMetrics()
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
}
