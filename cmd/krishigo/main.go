package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"krishigo/internal/api"
	"krishigo/pkg/artifact"
	"krishigo/pkg/cache"
	"krishigo/pkg/config"
	"krishigo/pkg/db"
	"krishigo/pkg/detect"
	"krishigo/pkg/kb"
	"krishigo/pkg/llm"
	"krishigo/pkg/llm/gemini"
	"krishigo/pkg/logging"
	"krishigo/pkg/pipeline"
	"krishigo/pkg/request"
	"krishigo/pkg/resolver"
	"krishigo/pkg/tracker"
	"krishigo/pkg/translate"
	"krishigo/pkg/tts"
	"krishigo/pkg/tts/edge"
	"krishigo/pkg/tts/mock"
	"krishigo/pkg/version"
	"krishigo/pkg/weather"
)

var (
	initConfig = flag.Bool("init-config", false, "Generate default config file and exit")
	configPath = flag.String("config", "configs/krishi.yaml", "Path to config file")
)

func main() {
	flag.Parse()

	// Handle --init-config flag
	if *initConfig {
		if err := config.GenerateDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated:", *configPath)
		return
	}

	if err := run(context.Background(), *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Credentials live in .env during development; absence is fine.
	_ = godotenv.Load()

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	tts.SetLogPath(appCfg.Log.TTS.Path)

	slog.Info("KrishiGo Started", "version", version.Version)

	kbStore, err := kb.Load(appCfg.KB.Path)
	if err != nil {
		return fmt.Errorf("failed to load knowledge base: %w", err)
	}
	slog.Info("Knowledge base loaded", "diseases", len(kbStore.DiseaseNames()))

	dbConn, err := db.Init(appCfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbConn.Close()

	if err := dbConn.PruneCache(appCfg.DB.CacheTTL.Std()); err != nil {
		slog.Warn("Cache pruning failed", "error", err)
	}

	tr := tracker.New()
	reqClient := request.New(cache.NewSQLiteCache(dbConn), tr, request.Options{
		Retries:   appCfg.Request.Retries,
		Timeout:   appCfg.Request.Timeout.Std(),
		BaseDelay: appCfg.Request.Backoff.BaseDelay.Std(),
		MaxDelay:  appCfg.Request.Backoff.MaxDelay.Std(),
	})

	llmProv, closeLLM, err := initLLM(appCfg, tr)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	defer closeLLM()

	artifacts, err := artifact.NewStore(appCfg.Artifacts.Dir)
	if err != nil {
		return fmt.Errorf("failed to initialize audio store: %w", err)
	}
	defer artifacts.Close()

	pl := &pipeline.Pipeline{
		Translate: initTranslator(appCfg, llmProv, tr),
		Resolver: &resolver.Resolver{
			KB:      kbStore,
			Weather: weather.NewClient(appCfg.Weather, reqClient),
			LLM:     llmProv,
		},
		TTS:              initTTS(appCfg, tr),
		TTSConfig:        appCfg.TTS,
		Artifacts:        artifacts,
		Tracker:          tr,
		TranslateTimeout: appCfg.Translate.Timeout.Std(),
		ResolveTimeout:   appCfg.LLM.Timeout.Std(),
	}

	var detectH *api.DetectHandler
	if appCfg.Detect.Endpoint != "" {
		classifier := &detect.HTTP{
			Endpoint: appCfg.Detect.Endpoint,
			Timeout:  appCfg.Detect.Timeout.Std(),
			Client:   reqClient,
			Tracker:  tr,
		}
		detectH = api.NewDetectHandler(&detect.Adapter{KB: kbStore, Classifier: classifier, Pipeline: pl})
		slog.Info("Disease detection enabled", "endpoint", appCfg.Detect.Endpoint)
	} else {
		slog.Info("Disease detection disabled, no classifier endpoint configured")
	}

	return runServer(ctx, appCfg, pl, detectH, artifacts, tr)
}

func initLLM(cfg *config.Config, tr *tracker.Tracker) (llm.Provider, func(), error) {
	if cfg.LLM.Provider != "gemini" || cfg.LLM.Key == "" {
		slog.Info("LLM disabled", "provider", cfg.LLM.Provider)
		return llm.Disabled{}, func() {}, nil
	}
	client, err := gemini.NewClient(cfg.LLM, cfg.Log.LLM.Path, tr)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}

func initTranslator(cfg *config.Config, llmProv llm.Provider, tr *tracker.Tracker) translate.Provider {
	if cfg.Translate.Provider == "gemini" && llmProv.HasProfile("translate") {
		return &translate.Gemini{LLM: llmProv, Tracker: tr}
	}
	slog.Warn("Translation degraded to passthrough", "provider", cfg.Translate.Provider)
	return translate.Passthrough{}
}

func initTTS(cfg *config.Config, tr *tracker.Tracker) tts.Provider {
	switch cfg.TTS.Engine {
	case "edge-tts":
		return edge.NewProvider(tr)
	case "mock":
		return mock.NewProvider()
	default:
		slog.Warn("Unknown TTS engine, synthesis disabled", "engine", cfg.TTS.Engine)
		return nil
	}
}

func runServer(ctx context.Context, cfg *config.Config, pl *pipeline.Pipeline, detectH *api.DetectHandler, artifacts *artifact.Store, tr *tracker.Tracker) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	shutdownFunc := func() { quit <- syscall.SIGTERM }

	srv := api.NewServer(cfg.Server.Address,
		api.NewQueryHandler(pl),
		detectH,
		api.NewAudioHandler(artifacts),
		api.NewStatsHandler(tr),
		shutdownFunc,
	)

	srv.Handler = loggingMiddleware(srv.Handler)
	return runServerLifecycle(ctx, srv, quit)
}

func runServerLifecycle(ctx context.Context, srv *http.Server, quit chan os.Signal) error {
	slog.Info("Starting server", "addr", srv.Addr)
	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()
	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case <-ctx.Done():
		slog.Info("Context cancelled, shutting down...")
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.RequestLogger.Info("Request Processed", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
