package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/abhisek/polyglot/internal/audio"
	"github.com/abhisek/polyglot/internal/config"
	"github.com/abhisek/polyglot/internal/llm"
	"github.com/abhisek/polyglot/internal/logging"
	"github.com/abhisek/polyglot/internal/round"
	"github.com/abhisek/polyglot/internal/selfupdate"
	"github.com/abhisek/polyglot/internal/services"
	"github.com/abhisek/polyglot/internal/speech"
	"github.com/abhisek/polyglot/internal/store"
	"github.com/abhisek/polyglot/internal/vision"
)

// env holds everything a command needs. Build it with newEnv and release
// it with Close.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store

	adapter    *speech.Adapter
	classifier *vision.Classifier
	history    *vision.History

	closers []func() error
}

// loadConfig resolves configuration and applies the persistent flags.
// The returned config is non-nil whenever the file could be parsed, even
// if validation failed, so callers can apply overrides and validate again.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if cfg == nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.LogLevel = "debug"
	}
	return cfg, err
}

// openStore opens the event database at cfg.DBPath.
func openStore(cfg *config.Config) (*store.Store, error) {
	if err := store.EnsureDir(cfg.DBPath); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// newEnv builds the logger, the store and every optional backend. Missing
// credentials or engines are logged and leave the matching backend unwired.
func newEnv(ctx context.Context, cfg *config.Config) (*env, error) {
	logger, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Logging disabled:", err)
		logger = zap.NewNop()
	}

	st, err := openStore(cfg)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	e := &env{cfg: cfg, logger: logger, store: st}
	e.closers = append(e.closers, st.Close)

	var geminiClient *genai.Client
	if key := cfg.LLM.Gemini.APIKey; key != "" {
		geminiClient, err = llm.NewGeminiClient(ctx, key)
		if err != nil {
			logger.Warn("gemini client unavailable", zap.Error(err))
			geminiClient = nil
		}
	}
	var openaiClient *openai.Client
	if key := cfg.LLM.OpenAI.APIKey; key != "" {
		oc := openai.DefaultConfig(key)
		if cfg.LLM.OpenAI.BaseURL != "" {
			oc.BaseURL = cfg.LLM.OpenAI.BaseURL
		}
		openaiClient = openai.NewClientWithConfig(oc)
	}

	e.adapter = e.buildAdapter(geminiClient, openaiClient)
	e.classifier = e.buildClassifier(ctx, geminiClient, openaiClient)

	e.history, err = vision.LoadHistory(ctx, st.KVRepo())
	if err != nil {
		logger.Warn("image history unavailable", zap.Error(err))
		e.history, _ = vision.LoadHistory(ctx, nil)
	}
	return e, nil
}

func (e *env) buildAdapter(geminiClient *genai.Client, openaiClient *openai.Client) *speech.Adapter {
	opts := speech.Options{
		Events: e.store.EventRepo(),
		Logger: e.logger,
		Retry:  e.cfg.LLM.Retry,
	}

	speaker, err := speech.NewLocalSpeaker(e.cfg.Speech.LocalEngine, e.logger)
	if err != nil {
		e.logger.Info("local speech engine unavailable", zap.Error(err))
	} else {
		opts.Speaker = speaker
	}

	if geminiClient != nil {
		opts.Synthesizers = append(opts.Synthesizers, speech.NewGeminiSynthesizer(geminiClient, e.cfg.Speech.GeminiModel))
	}
	if openaiClient != nil {
		opts.Synthesizers = append(opts.Synthesizers, speech.NewOpenAISynthesizer(openaiClient, e.cfg.Speech.OpenAIModel))
	}

	if len(opts.Synthesizers) > 0 {
		sink, err := audio.NewPortAudioSink(e.logger)
		if err != nil {
			e.logger.Warn("audio output unavailable", zap.Error(err))
		} else {
			opts.Sink = sink
			e.closers = append(e.closers, sink.Close)
		}
	}
	return speech.NewAdapter(opts)
}

// buildClassifier reuses the speech clients when the configured provider
// matches one of them.
func (e *env) buildClassifier(ctx context.Context, geminiClient *genai.Client, openaiClient *openai.Client) *vision.Classifier {
	cfg := e.cfg.LLM
	if err := cfg.Validate(); err != nil {
		e.logger.Info("vision model not configured", zap.Error(err))
		return nil
	}

	var provider llm.Provider
	switch {
	case cfg.Provider == "gemini" && geminiClient != nil:
		provider = llm.Wrap(llm.NewGeminiProviderWithClient(geminiClient, cfg.Gemini.Model), cfg, e.store.EventRepo(), e.logger)
	case cfg.Provider == "openai" && openaiClient != nil:
		provider = llm.Wrap(llm.NewOpenAIProviderWithClient(openaiClient, cfg.OpenAI.Model), cfg, e.store.EventRepo(), e.logger)
	default:
		p, err := llm.NewProvider(ctx, cfg, e.store.EventRepo(), e.logger)
		if err != nil {
			e.logger.Warn("vision model unavailable", zap.Error(err))
			return nil
		}
		provider = p
	}

	return vision.NewClassifier(provider, vision.NewFetcher(nil), vision.DefaultClassifierConfig(), e.logger)
}

// services assembles the TUI dependencies.
func (e *env) services() *services.Services {
	path := e.cfg.Path
	return &services.Services{
		Game:       round.NewGame(round.NewGenerator(nil), e.cfg.Practice),
		Languages:  e.cfg.Languages,
		Speech:     e.adapter,
		Classifier: e.classifier,
		History:    e.history,
		Events:     e.store.EventRepo(),
		Logger:     e.logger,
		SaveSettings: func(s round.Settings) error {
			return config.SavePractice(path, s)
		},
	}
}

// Close stops playback and releases resources in reverse order.
func (e *env) Close() {
	if e.adapter != nil {
		e.adapter.Stop()
	}
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			e.logger.Warn("close failed", zap.Error(err))
		}
	}
	_ = e.logger.Sync()
}

// latestVersion returns the newer release tag, or "" when up to date, on a
// development build, or when the check fails within timeout.
func latestVersion(ctx context.Context, logger *zap.Logger, timeout time.Duration) string {
	checker := selfupdate.NewChecker(selfupdate.WithTimeout(timeout))
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := checker.Check(ctx, &selfupdate.CheckInput{Version: version})
	if err != nil {
		logger.Debug("update check failed", zap.Error(err))
		return ""
	}
	if !res.UpdateAvailable {
		return ""
	}
	return res.LatestVersion
}
