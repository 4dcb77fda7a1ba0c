package oracle

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type ScoreStore interface {
	GetFloat(ctx context.Context, key string) (float64, bool, error)
	SetFloat(ctx context.Context, key string, value float64, ttl time.Duration) error
}

type named interface {
	Name() string
	MaxTextRunes() int
}

// Cached remembers successful scores per text pair. Identical concurrent
// requests share one upstream call. Store errors only cost a cache miss.
type Cached struct {
	next   Client
	store  ScoreStore
	ttl    time.Duration
	name   string
	runes  int
	logger *zap.Logger

	group singleflight.Group
}

func NewCached(next Client, store ScoreStore, ttl time.Duration, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cached{next: next, store: store, ttl: ttl, name: "oracle", runes: DefaultMaxTextRunes, logger: logger}
	if n, ok := next.(named); ok {
		c.name = n.Name()
		if r := n.MaxTextRunes(); r > 0 {
			c.runes = r
		}
	}
	return c
}

func (c *Cached) Name() string {
	return c.name
}

func (c *Cached) MaxTextRunes() int {
	return c.runes
}

func (c *Cached) Score(ctx context.Context, resumeText, jobText string) (float64, error) {
	key := c.key(resumeText, jobText)

	if v, ok, err := c.store.GetFloat(ctx, key); err != nil {
		c.logger.Debug("score cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		score, err := c.next.Score(ctx, resumeText, jobText)
		if err != nil {
			return 0.0, err
		}
		if err := c.store.SetFloat(ctx, key, score, c.ttl); err != nil {
			c.logger.Debug("score cache write failed", zap.String("key", key), zap.Error(err))
		}
		return score, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

func (c *Cached) key(resumeText, jobText string) string {
	h := sha256.New()
	h.Write([]byte(c.name))
	h.Write([]byte{0})
	h.Write([]byte(Truncate(resumeText, c.runes)))
	h.Write([]byte{0})
	h.Write([]byte(Truncate(jobText, c.runes)))
	return "oracle:score:" + hex.EncodeToString(h.Sum(nil))
}
