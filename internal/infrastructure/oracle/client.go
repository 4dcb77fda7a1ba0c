package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"job-matcher/internal/config"

	"go.uber.org/zap"
)

// Client scores one resume/job text pair in [0, 1] as judged by the provider.
// The returned value is whatever the provider said; range checks belong to the caller.
type Client interface {
	Score(ctx context.Context, resumeText, jobText string) (float64, error)
}

// New builds the configured provider client, wrapped in a score cache when store is non-nil.
func New(ctx context.Context, cfg config.OracleConfig, store ScoreStore, cacheTTL time.Duration, logger *zap.Logger) (Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := logger.Named("oracle")

	var (
		client Client
		err    error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderGemini:
		client, err = NewGemini(ctx, GeminiOptions{
			APIKey:       cfg.APIKey,
			Model:        cfg.Model,
			BaseURL:      cfg.BaseURL,
			MaxTextRunes: cfg.MaxTextRunes,
			MaxLogLength: cfg.MaxLogLength,
			Timeout:      cfg.RequestTimeout,
			Logger:       l,
		})
	case ProviderOpenAI:
		client, err = NewOpenAI(OpenAIOptions{
			APIKey:       cfg.APIKey,
			Model:        cfg.Model,
			BaseURL:      cfg.BaseURL,
			MaxTextRunes: cfg.MaxTextRunes,
			MaxLogLength: cfg.MaxLogLength,
			Timeout:      cfg.RequestTimeout,
			Logger:       l,
		})
	default:
		return nil, fmt.Errorf("unknown oracle provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if store != nil {
		client = NewCached(client, store, cacheTTL, l)
	}
	return client, nil
}
