// Command krishivoice is the voice front door: it recognizes a spoken WAV
// query, runs it through the assistant pipeline, and plays the synthesized
// answer on the local speakers. It shares the server's config file, so
// credentials and voices stay in one place.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"krishigo/pkg/artifact"
	"krishigo/pkg/cache"
	"krishigo/pkg/config"
	"krishigo/pkg/db"
	"krishigo/pkg/kb"
	"krishigo/pkg/llm"
	"krishigo/pkg/llm/gemini"
	"krishigo/pkg/model"
	"krishigo/pkg/pipeline"
	"krishigo/pkg/playback"
	"krishigo/pkg/request"
	"krishigo/pkg/resolver"
	"krishigo/pkg/speech"
	"krishigo/pkg/tracker"
	"krishigo/pkg/translate"
	"krishigo/pkg/tts/edge"
	"krishigo/pkg/weather"
)

var (
	configPath = flag.String("config", "configs/krishi.yaml", "Path to config file")
	langFlag   = flag.String("lang", "", "Answer language (en, hi, te, bn, ta); detected from the transcript when empty")
	volume     = flag.Float64("volume", 0.8, "Playback volume (0.0-1.0)")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: krishivoice [flags] <recording.wav>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(context.Background(), flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, wavPath string) error {
	_ = godotenv.Load()

	appCfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Console only; the server owns the log files.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	pl, recognizer, dbConn, cleanup, err := buildPipeline(appCfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// Remember the language across runs so repeat callers can skip the flag.
	langHint := *langFlag
	if langHint == "" {
		langHint, _ = dbConn.GetState("preferred_language")
	}

	audio, err := os.Open(wavPath)
	if err != nil {
		return fmt.Errorf("failed to open recording: %w", err)
	}
	defer audio.Close()

	hintLang, _ := model.NormalizeLanguage(langHint)
	result, err := recognizer.Recognize(ctx, audio, hintLang)
	if err != nil {
		return fmt.Errorf("recognition failed: %w", err)
	}

	switch result.Kind {
	case speech.KindRecognized:
		// fall through to the pipeline
	case speech.KindNoSpeech:
		fmt.Println("I could not hear any speech in that recording. Please try again.")
		return nil
	case speech.KindNoiseTimeout:
		fmt.Println("The recording was too noisy to understand. Please try again in a quieter spot.")
		return nil
	default:
		fmt.Println("Speech recognition is not available right now. You can still type your question to the server.")
		return nil
	}

	fmt.Printf("You said: %s\n", result.Text)

	answer, err := pl.Ask(ctx, "", result.Text, langHint)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Printf("[%s/%s] %s\n", answer.Language, answer.Intent, answer.Text)

	if err := dbConn.SetState("preferred_language", string(answer.Language)); err != nil {
		slog.Warn("failed to persist language preference", "error", err)
	}

	if !answer.AudioAvailable {
		return nil
	}
	art, ok := pl.Artifacts.Current("")
	if !ok {
		return nil
	}

	player := playback.New()
	player.SetVolume(*volume)
	if err := player.PlayAndWait(ctx, art.Path); err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}
	return nil
}

// buildPipeline wires the same collaborator stack as the server, minus the
// HTTP surface and image detection.
func buildPipeline(appCfg *config.Config) (*pipeline.Pipeline, speech.Recognizer, *db.DB, func(), error) {
	dbConn, err := db.Init(appCfg.DB.Path)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	tr := tracker.New()
	reqClient := request.New(cache.NewSQLiteCache(dbConn), tr, request.Options{
		Retries:   appCfg.Request.Retries,
		Timeout:   appCfg.Request.Timeout.Std(),
		BaseDelay: appCfg.Request.Backoff.BaseDelay.Std(),
		MaxDelay:  appCfg.Request.Backoff.MaxDelay.Std(),
	})

	kbStore, err := kb.Load(appCfg.KB.Path)
	if err != nil {
		dbConn.Close()
		return nil, nil, nil, nil, fmt.Errorf("failed to load knowledge base: %w", err)
	}

	var llmProv llm.Provider = llm.Disabled{}
	closeLLM := func() {}
	if appCfg.LLM.Provider == "gemini" && appCfg.LLM.Key != "" {
		client, err := gemini.NewClient(appCfg.LLM, "", tr)
		if err != nil {
			dbConn.Close()
			return nil, nil, nil, nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
		}
		llmProv = client
		closeLLM = client.Close
	}

	var translator translate.Provider = translate.Passthrough{}
	if appCfg.Translate.Provider == "gemini" && llmProv.HasProfile("translate") {
		translator = &translate.Gemini{LLM: llmProv, Tracker: tr}
	}

	artifacts, err := artifact.NewStore("")
	if err != nil {
		closeLLM()
		dbConn.Close()
		return nil, nil, nil, nil, fmt.Errorf("failed to initialize audio store: %w", err)
	}

	pl := &pipeline.Pipeline{
		Translate: translator,
		Resolver: &resolver.Resolver{
			KB:      kbStore,
			Weather: weather.NewClient(appCfg.Weather, reqClient),
			LLM:     llmProv,
		},
		TTS:              edge.NewProvider(tr),
		TTSConfig:        appCfg.TTS,
		Artifacts:        artifacts,
		Tracker:          tr,
		TranslateTimeout: appCfg.Translate.Timeout.Std(),
		ResolveTimeout:   appCfg.LLM.Timeout.Std(),
	}

	var recognizer speech.Recognizer = speech.Disabled{}
	if appCfg.Speech.Endpoint != "" {
		recognizer = &speech.HTTP{
			Endpoint: appCfg.Speech.Endpoint,
			Timeout:  appCfg.Speech.Timeout.Std(),
			Client:   reqClient,
			Tracker:  tr,
		}
	}

	cleanup := func() {
		artifacts.Close()
		closeLLM()
		dbConn.Close()
	}
	return pl, recognizer, dbConn, cleanup, nil
}
