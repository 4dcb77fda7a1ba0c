package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"job-matcher/internal/config"
	"job-matcher/internal/infrastructure/oracle"
	"job-matcher/internal/metrics"
	"job-matcher/internal/mocks"
	"job-matcher/internal/pkg/resilience"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func testMatcherConfig() config.MatcherConfig {
	return config.MatcherConfig{
		Workers:        4,
		TopK:           5,
		PairDeadline:   time.Second,
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	}
}

func transportErr() error {
	return &oracle.Failure{Kind: oracle.KindTransport, Provider: "test", Err: errors.New("connection reset")}
}

func TestPairScorer_RetriesTransientThenSucceeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockOracleClient(ctrl)
	gomock.InOrder(
		client.EXPECT().Score(gomock.Any(), "resume", "job").Return(0.0, transportErr()),
		client.EXPECT().Score(gomock.Any(), "resume", "job").Return(0.8, nil),
	)

	m := metrics.New(nil)
	s := NewPairScorer(client, testMatcherConfig(), m, nil)
	out := s.ScorePair(context.Background(), "resume", "job")

	assert.NoError(t, out.Err)
	assert.Equal(t, 0.8, out.Score)
	assert.Equal(t, 2, out.Attempts)
	assert.False(t, out.Fallback())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OracleRetriesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OracleCallsTotal.WithLabelValues("transport")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OracleCallsTotal.WithLabelValues("ok")))
}

func TestPairScorer_StatusFailureIsRetried(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockOracleClient(ctrl)
	gomock.InOrder(
		client.EXPECT().Score(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(0.0, &oracle.Failure{Kind: oracle.KindStatus, Provider: "test", StatusCode: 503}),
		client.EXPECT().Score(gomock.Any(), gomock.Any(), gomock.Any()).Return(0.4, nil),
	)

	out := NewPairScorer(client, testMatcherConfig(), nil, nil).ScorePair(context.Background(), "r", "j")
	assert.NoError(t, out.Err)
	assert.Equal(t, 0.4, out.Score)
}

func TestPairScorer_ExhaustedRetriesFallBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockOracleClient(ctrl)
	client.EXPECT().Score(gomock.Any(), gomock.Any(), gomock.Any()).Return(0.0, transportErr()).Times(3)

	m := metrics.New(nil)
	out := NewPairScorer(client, testMatcherConfig(), m, nil).ScorePair(context.Background(), "r", "j")

	assert.True(t, out.Fallback())
	assert.Equal(t, 0.0, out.Score)
	assert.Equal(t, 3, out.Attempts)
	assert.ErrorIs(t, out.Err, oracle.ErrTransport)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScoreFallbacksTotal.WithLabelValues("transient")))
}

func TestPairScorer_MalformedIsNotRetried(t *testing.T) {
	for _, kind := range []oracle.Kind{oracle.KindMalformedBody, oracle.KindMalformedScore} {
		t.Run(kind.String(), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mocks.NewMockOracleClient(ctrl)
			client.EXPECT().Score(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(0.0, &oracle.Failure{Kind: kind, Provider: "test"}).Times(1)

			m := metrics.New(nil)
			out := NewPairScorer(client, testMatcherConfig(), m, nil).ScorePair(context.Background(), "r", "j")

			assert.True(t, out.Fallback())
			assert.Equal(t, 0.0, out.Score)
			assert.Equal(t, 1, out.Attempts)
			assert.False(t, oracle.IsTransient(out.Err))
			assert.Equal(t, 1.0, testutil.ToFloat64(m.ScoreFallbacksTotal.WithLabelValues("malformed")))
		})
	}
}

func TestPairScorer_RangeHandling(t *testing.T) {
	tests := []struct {
		name     string
		raw      float64
		want     float64
		fallback bool
	}{
		{name: "in range", raw: 0.35, want: 0.35},
		{name: "upper bound", raw: 1.0, want: 1.0},
		{name: "overshoot clamped", raw: 7.5, want: 1.0},
		{name: "absurd", raw: 250, want: 0.0, fallback: true},
		{name: "negative", raw: -0.2, want: 0.0, fallback: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mocks.NewMockOracleClient(ctrl)
			client.EXPECT().Score(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.raw, nil).Times(1)

			out := NewPairScorer(client, testMatcherConfig(), nil, nil).ScorePair(context.Background(), "r", "j")
			assert.Equal(t, tt.want, out.Score)
			assert.Equal(t, tt.fallback, out.Fallback())
			if tt.fallback {
				assert.ErrorIs(t, out.Err, oracle.ErrMalformedScore)
			}
		})
	}
}

func TestPairScorer_OpenBreakerFallsBackWithoutCalling(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockOracleClient(ctrl)
	client.EXPECT().Score(gomock.Any(), gomock.Any(), gomock.Any()).Return(0.0, transportErr()).Times(2)

	cfg := testMatcherConfig()
	cfg.MaxAttempts = 2
	cfg.BreakerThreshold = 2
	cfg.BreakerReset = time.Hour
	m := metrics.New(nil)
	s := NewPairScorer(client, cfg, m, nil)

	first := s.ScorePair(context.Background(), "r", "j1")
	assert.ErrorIs(t, first.Err, oracle.ErrTransport)

	second := s.ScorePair(context.Background(), "r", "j2")
	assert.True(t, second.Fallback())
	assert.Equal(t, 1, second.Attempts)
	assert.ErrorIs(t, second.Err, resilience.ErrCircuitOpen)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ScoreFallbacksTotal.WithLabelValues("transient")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OracleCallsTotal.WithLabelValues("circuit_open")))
}

func TestPairScorer_DeadlineStopsRetrying(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockOracleClient(ctrl)
	client.EXPECT().Score(gomock.Any(), gomock.Any(), gomock.Any()).Return(0.0, transportErr()).Times(1)

	cfg := testMatcherConfig()
	cfg.InitialBackoff = time.Hour
	cfg.MaxBackoff = time.Hour
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	out := NewPairScorer(client, cfg, nil, nil).ScorePair(ctx, "r", "j")
	assert.True(t, out.Fallback())
	assert.ErrorIs(t, out.Err, context.DeadlineExceeded)
	assert.ErrorIs(t, out.Err, oracle.ErrTransport)
}
