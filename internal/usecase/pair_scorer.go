package usecase

import (
	"context"
	"errors"

	"job-matcher/internal/config"
	"job-matcher/internal/domain/matching"
	"job-matcher/internal/infrastructure/oracle"
	"job-matcher/internal/metrics"
	"job-matcher/internal/pkg/resilience"

	"go.uber.org/zap"
)

// ScoreOutcome always carries a usable Score. Err is the last failure when
// Score is the fallback.
type ScoreOutcome struct {
	Score    float64
	Attempts int
	Err      error
}

func (o ScoreOutcome) Fallback() bool {
	return o.Err != nil
}

type Scorer interface {
	ScorePair(ctx context.Context, resumeText, jobText string) ScoreOutcome
}

type PairScorer struct {
	client  oracle.Client
	retry   resilience.RetryConfig
	breaker *resilience.CircuitBreaker
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewPairScorer(client oracle.Client, cfg config.MatcherConfig, m *metrics.Metrics, logger *zap.Logger) *PairScorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &PairScorer{
		client: client,
		retry: resilience.RetryConfig{
			MaxAttempts:  cfg.MaxAttempts,
			InitialDelay: cfg.InitialBackoff,
			MaxDelay:     cfg.MaxBackoff,
			Multiplier:   2,
			Retryable:    oracle.IsTransient,
			Logger:       logger,
		},
		metrics: m,
		logger:  logger,
	}
	if cfg.BreakerThreshold > 0 {
		s.breaker = resilience.NewCircuitBreaker("oracle", resilience.CircuitBreakerConfig{
			FailureThreshold: cfg.BreakerThreshold,
			ResetTimeout:     cfg.BreakerReset,
			Trips:            oracle.IsTransient,
			Logger:           logger,
		})
	}
	return s
}

// ScorePair never fails: transient oracle failures are retried, and whatever
// is left after that becomes the fallback score.
func (s *PairScorer) ScorePair(ctx context.Context, resumeText, jobText string) ScoreOutcome {
	var score float64
	attempts, err := resilience.Retry(ctx, "oracle.score", s.retry, func(attempt int) error {
		if attempt > 1 {
			s.metrics.OracleRetry()
		}
		v, err := s.call(ctx, resumeText, jobText)
		if err != nil {
			s.metrics.OracleCall(outcomeLabel(err))
			return err
		}
		n, err := matching.Normalize(v)
		if err != nil {
			s.metrics.OracleCall("out_of_range")
			return &oracle.Failure{Kind: oracle.KindMalformedScore, Provider: "scorer", Err: err}
		}
		s.metrics.OracleCall("ok")
		score = n
		return nil
	})
	if err == nil {
		return ScoreOutcome{Score: score, Attempts: attempts}
	}

	reason := "malformed"
	if oracle.IsTransient(err) || errors.Is(err, resilience.ErrCircuitOpen) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		reason = "transient"
	}
	s.metrics.ScoreFallback(reason)
	s.logger.Debug("oracle score unavailable, using fallback",
		zap.String("reason", reason),
		zap.Int("attempts", attempts),
		zap.Float64("fallback", matching.FallbackScore),
		zap.Error(err),
	)
	return ScoreOutcome{Score: matching.FallbackScore, Attempts: attempts, Err: err}
}

func (s *PairScorer) call(ctx context.Context, resumeText, jobText string) (float64, error) {
	if s.breaker == nil {
		return s.client.Score(ctx, resumeText, jobText)
	}
	var v float64
	err := s.breaker.Execute(func() error {
		var err error
		v, err = s.client.Score(ctx, resumeText, jobText)
		return err
	})
	s.metrics.SetBreakerState("oracle", int(s.breaker.State()))
	return v, err
}

func outcomeLabel(err error) string {
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return "circuit_open"
	}
	if k := oracle.KindOf(err); k != 0 {
		return k.String()
	}
	return "unknown"
}
