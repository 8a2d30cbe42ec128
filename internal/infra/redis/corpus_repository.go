package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"sanskrit-quiz-service/internal/domain"
)

// CorpusLoader fetches a corpus from a backing store (file, Postgres, ...).
type CorpusLoader interface {
	LoadCorpus(ctx context.Context, name string) (domain.Corpus, error)
}

// CorpusRepository caches corpora in Redis as one JSON document per name
// (SET corpus:{name} <json> EX ttl) and falls back to a loader on miss.
type CorpusRepository struct {
	client *redis.Client
	loader CorpusLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewCorpusRepository(client *redis.Client, loader CorpusLoader, ttl time.Duration) *CorpusRepository {
	return &CorpusRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CorpusRepository) GetCorpus(ctx context.Context, name string) (domain.Corpus, error) {
	if c, ok := r.cached(ctx, name); ok {
		return c, nil
	}

	result, err, _ := r.sf.Do(name, func() (interface{}, error) {
		// Re-check cache in case another instance filled it.
		if c, ok := r.cached(ctx, name); ok {
			return c, nil
		}

		c, err := r.loader.LoadCorpus(ctx, name)
		if err != nil {
			return domain.Corpus{}, err
		}

		data, err := json.Marshal(c)
		if err == nil {
			err = r.client.Set(ctx, r.key(name), data, r.ttlWithJitter()).Err()
		}
		if err != nil {
			log.Warn().Err(err).Str("corpus", name).Msg("cache corpus in redis")
		}
		return c, nil
	})
	if err != nil {
		return domain.Corpus{}, err
	}
	return result.(domain.Corpus), nil
}

func (r *CorpusRepository) cached(ctx context.Context, name string) (domain.Corpus, bool) {
	data, err := r.client.Get(ctx, r.key(name)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("corpus", name).Msg("read corpus cache")
		}
		return domain.Corpus{}, false
	}
	var c domain.Corpus
	if err := json.Unmarshal(data, &c); err != nil {
		log.Warn().Err(err).Str("corpus", name).Msg("decode cached corpus")
		return domain.Corpus{}, false
	}
	return c, true
}

func (r *CorpusRepository) key(name string) string {
	return "corpus:" + name
}

func (r *CorpusRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
