// Package main provides the ragmark binary.
// ragmark evaluates a RAG question-answering pipeline against a fixed
// physics dataset and reports retrieval and generation quality metrics.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/edurag/ragmark/internal/bus"
	"github.com/edurag/ragmark/internal/config"
	"github.com/edurag/ragmark/internal/dataset"
	"github.com/edurag/ragmark/internal/evaluation"
	"github.com/edurag/ragmark/internal/history"
	"github.com/edurag/ragmark/internal/pkg/logger"
	"github.com/edurag/ragmark/internal/rag"
	"github.com/edurag/ragmark/internal/scorer"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ragmark",
		Short: "ragmark - RAG evaluation harness",
		Long: `ragmark runs a question-answering evaluation against a live RAG stack
(Qdrant for retrieval, Ollama for generation) and reports retrieval and
generation quality metrics.

Run 'ragmark run' to evaluate the built-in dataset.
Run 'ragmark serve' to expose the evaluation over HTTP.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		runCmd(),
		serveCmd(),
		watchCmd(),
		queriesCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate the dataset and print the result tables",
		Long: `Evaluate every dataset query against the configured RAG stack:
retrieve, generate, score, aggregate. Results are printed as fixed-width
tables followed by a statistics summary.

With --advanced the external scoring service is probed at startup and
BERTScore, ROUGE-L and BLEU are added for queries with reference answers.`,
		RunE: runEvaluation,
	}

	cmd.Flags().Bool("advanced", false, "enable NLG scoring via the external scorer service")
	cmd.Flags().StringSlice("query", nil, "evaluate only these query IDs (repeatable)")

	return cmd
}

func runEvaluation(cmd *cobra.Command, _ []string) error {
	advanced, _ := cmd.Flags().GetBool("advanced")
	queryIDs, _ := cmd.Flags().GetStringSlice("query")

	app, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queries := dataset.Queries()
	if len(queryIDs) > 0 {
		queries = queries[:0]
		for _, id := range queryIDs {
			q, ok := dataset.QueryByID(id)
			if !ok {
				return fmt.Errorf("unknown query id: %s", id)
			}
			queries = append(queries, q)
		}
	}

	if advanced {
		app.log.Info("Probing external scorers", "url", app.cfg.Scorer.BaseURL)
		app.scorers.Probe(ctx)
	}

	result, err := app.evaluator.Run(ctx, queries, advanced)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			app.log.Warn("Evaluation interrupted")
			return nil
		}
		return fmt.Errorf("evaluation run failed: %w", err)
	}

	evaluation.WriteEvaluationTable(os.Stdout, result.Records, result.QueryIDs)
	if advanced {
		evaluation.WriteAdvancedTable(os.Stdout, result.Records, result.QueryIDs)
	}
	evaluation.WriteSummary(os.Stdout, result.Aggregates, result.Evaluated, advanced)

	if result.Failed > 0 {
		app.log.Warn("Some queries failed", "failed", result.Failed, "evaluated", result.Evaluated)
	}

	return nil
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the evaluation harness over HTTP",
		Long: `Start an HTTP server exposing:
  POST /v1/evaluation/run               trigger an evaluation run
  GET  /v1/evaluation/queries           list the dataset queries
  GET  /v1/evaluation/history/{metric}  per-run aggregate history
  GET  /healthz                         liveness probe`,
		RunE: runServer,
	}

	cmd.Flags().IntP("port", "p", 0, "HTTP server port (overrides config)")

	return cmd
}

func runServer(cmd *cobra.Command, _ []string) error {
	app, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		app.cfg.Port = port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Probe once at startup so the serve-mode registry reflects what the
	// scoring service can actually do.
	app.scorers.Probe(ctx)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /v1/version", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"version":    version,
			"git_commit": commit,
			"build_time": date,
		})
	})

	handler := evaluation.NewHandler(app.evaluator, app.runs)
	handler.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         app.cfg.Address(),
		Handler:      loggingMiddleware(mux, app.log),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // evaluation runs are slow
	}

	errCh := make(chan error, 1)
	go func() {
		app.log.Info("Starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.log.Info("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.log.Error("HTTP shutdown error", "error", err)
	}

	app.log.Info("Server stopped")
	return nil
}

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream evaluation events from the bus",
		Long: `Subscribe to the evaluation lifecycle topics on the configured event
bus and print each event as a JSON line. Useful with the kafka bus to follow
runs triggered elsewhere (for example by another host calling the HTTP API).`,
		RunE: runWatch,
	}

	cmd.Flags().StringSlice("topic", nil, "subscribe only to these topics (default: all evaluation topics)")

	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	topics, _ := cmd.Flags().GetStringSlice("topic")
	if len(topics) == 0 {
		topics = []string{
			bus.TopicRunStarted,
			bus.TopicQueryScored,
			bus.TopicQueryFailed,
			bus.TopicRunCompleted,
		}
	}

	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logLevel := cfg.Log.Level
	if verbose {
		logLevel = "debug"
	}
	log := logger.New(logLevel, cfg.Log.Format)

	if cfg.Bus.Type != "kafka" {
		log.Warn("Memory bus only carries events published by this process; configure the kafka bus to watch remote runs")
	}

	events, err := bus.New(bus.Config{
		Type:          cfg.Bus.Type,
		KafkaBrokers:  cfg.Bus.KafkaBrokers,
		ConsumerGroup: cfg.Bus.ConsumerGroup,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to create event bus: %w", err)
	}
	defer func() {
		if err := events.Close(); err != nil {
			log.Warn("Error closing event bus", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := streamEvents(ctx, events, os.Stdout, topics); err != nil {
		return err
	}

	log.Info("Watching evaluation events", "bus", cfg.Bus.Type, "topics", topics)
	<-ctx.Done()
	return nil
}

// streamEvents subscribes to the given topics and writes every received event
// to w as one JSON line. Handlers may run concurrently, so encoding is
// serialized.
func streamEvents(ctx context.Context, events bus.Bus, w io.Writer, topics []string) error {
	var mu sync.Mutex
	enc := json.NewEncoder(w)

	for _, topic := range topics {
		if err := events.Subscribe(ctx, topic, func(_ context.Context, e bus.Event) error {
			mu.Lock()
			defer mu.Unlock()
			return enc.Encode(e)
		}); err != nil {
			return fmt.Errorf("subscribe to %s: %w", topic, err)
		}
	}

	return nil
}

func queriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "queries",
		Short: "List the dataset queries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, q := range dataset.Queries() {
				marker := " "
				if dataset.HasReferenceAnswer(q.ID) {
					marker = "*"
				}
				fmt.Printf("%-4s %s [%s] %s\n", q.ID, marker, q.Category, q.Text)
			}
			fmt.Println("\n* has a reference answer for advanced scoring")
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ragmark %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
		},
	}
}

// app bundles the wired services behind the CLI commands.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	scorers   *scorer.Registry
	evaluator *evaluation.Evaluator
	runs      history.Store
	events    bus.Bus
	retriever *rag.QdrantRetriever
}

func buildApp(cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logLevel := cfg.Log.Level
	if verbose {
		logLevel = "debug"
	}
	log := logger.New(logLevel, cfg.Log.Format)

	log.Info("Starting ragmark",
		"version", version,
		"qdrant", fmt.Sprintf("%s:%d", cfg.Qdrant.Host, cfg.Qdrant.Port),
		"ollama", cfg.Ollama.BaseURL,
	)

	runs, err := history.New(history.Config{
		Type:     cfg.History.Type,
		RedisURL: cfg.History.RedisURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create history store: %w", err)
	}

	innerBus, err := bus.New(bus.Config{
		Type:          cfg.Bus.Type,
		KafkaBrokers:  cfg.Bus.KafkaBrokers,
		ConsumerGroup: cfg.Bus.ConsumerGroup,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	var events bus.Bus = innerBus
	if recorder, ok := runs.(bus.PublishRecorder); ok {
		events = bus.NewInstrumentedBus(innerBus, recorder)
	}

	embedder := rag.NewOllamaEmbedder(rag.OllamaEmbedderConfig{
		BaseURL: cfg.Ollama.BaseURL,
		Model:   cfg.Ollama.EmbedModel,
	})

	retriever, err := rag.NewQdrantRetriever(rag.QdrantRetrieverConfig{
		Host:              cfg.Qdrant.Host,
		Port:              cfg.Qdrant.Port,
		APIKey:            cfg.Qdrant.APIKey,
		UseTLS:            cfg.Qdrant.UseTLS,
		Collection:        cfg.Qdrant.Collection,
		RequestsPerSecond: cfg.Evaluation.RequestsPerSecond,
	}, embedder)
	if err != nil {
		return nil, fmt.Errorf("failed to create retriever: %w", err)
	}

	generator := rag.NewOllamaGenerator(rag.OllamaGeneratorConfig{
		BaseURL:           cfg.Ollama.BaseURL,
		Model:             cfg.Ollama.LLMModel,
		RequestsPerSecond: cfg.Evaluation.RequestsPerSecond,
	})

	scorerClient := scorer.NewClient(cfg.Scorer.BaseURL)
	scorers := scorer.NewRegistry(log, scorer.NewDefaultScorers(scorerClient)...)

	evaluator := evaluation.NewEvaluator(
		retriever,
		generator,
		scorers,
		events,
		runs,
		log,
		evaluation.Options{
			TopK:         cfg.Evaluation.TopK,
			ContextSize:  cfg.Evaluation.ContextSize,
			RelevantTopN: cfg.Evaluation.RelevantTopN,
		},
	)

	return &app{
		cfg:       cfg,
		log:       log,
		scorers:   scorers,
		evaluator: evaluator,
		runs:      runs,
		events:    events,
		retriever: retriever,
	}, nil
}

// Close releases collaborator connections. Errors are logged, not returned;
// shutdown proceeds regardless.
func (a *app) Close() {
	if err := a.events.Close(); err != nil {
		a.log.Warn("Error closing event bus", "error", err)
	}
	if err := a.runs.Close(); err != nil {
		a.log.Warn("Error closing history store", "error", err)
	}
	if err := a.retriever.Close(); err != nil {
		a.log.Warn("Error closing retriever", "error", err)
	}
}

// loggingMiddleware logs HTTP requests.
func loggingMiddleware(next http.Handler, log *logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		log.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration", time.Since(start),
		)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
