package memory

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"sanskrit-quiz-service/internal/bank"
	"sanskrit-quiz-service/internal/domain"
)

// CorpusLoader fetches a corpus from a backing store (file, Postgres, ...).
type CorpusLoader interface {
	LoadCorpus(ctx context.Context, name string) (domain.Corpus, error)
}

// CorpusRepository caches corpora with TTL to avoid repeated loads.
type CorpusRepository struct {
	loader CorpusLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedCorpus
}

type cachedCorpus struct {
	corpus    domain.Corpus
	expiresAt time.Time
}

func NewCorpusRepository(loader CorpusLoader, ttl time.Duration) *CorpusRepository {
	return &CorpusRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedCorpus),
	}
}

func (r *CorpusRepository) GetCorpus(ctx context.Context, name string) (domain.Corpus, error) {
	if c, ok := r.cached(name); ok {
		return c, nil
	}

	result, err, _ := r.sf.Do(name, func() (interface{}, error) {
		if c, ok := r.cached(name); ok {
			return c, nil
		}

		c, err := r.loader.LoadCorpus(ctx, name)
		if err != nil {
			return domain.Corpus{}, err
		}

		r.mu.Lock()
		r.cache[name] = cachedCorpus{
			corpus:    c,
			expiresAt: r.clock().Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return c, nil
	})
	if err != nil {
		return domain.Corpus{}, err
	}
	return result.(domain.Corpus), nil
}

func (r *CorpusRepository) cached(name string) (domain.Corpus, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.cache[name]; ok && entry.expiresAt.After(now) {
		return entry.corpus, true
	}
	return domain.Corpus{}, false
}

func (r *CorpusRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticCorpusLoader is a loader backed by an in-memory map (useful for tests/demos).
type StaticCorpusLoader struct {
	corpora map[string]domain.Corpus
}

func NewStaticCorpusLoader(corpora map[string]domain.Corpus) *StaticCorpusLoader {
	return &StaticCorpusLoader{corpora: corpora}
}

// NewSampleCorpusLoader serves the corpus embedded in the binary under bank.SampleName.
func NewSampleCorpusLoader() (*StaticCorpusLoader, error) {
	c, err := bank.SampleCorpus()
	if err != nil {
		return nil, err
	}
	return NewStaticCorpusLoader(map[string]domain.Corpus{bank.SampleName: c}), nil
}

func (l *StaticCorpusLoader) LoadCorpus(_ context.Context, name string) (domain.Corpus, error) {
	if c, ok := l.corpora[name]; ok {
		return c, nil
	}
	return domain.Corpus{}, domain.ErrCorpusNotFound
}

// FileCorpusLoader reads {dir}/{name}.json.
type FileCorpusLoader struct {
	dir string
}

func NewFileCorpusLoader(dir string) *FileCorpusLoader {
	return &FileCorpusLoader{dir: dir}
}

func (l *FileCorpusLoader) LoadCorpus(_ context.Context, name string) (domain.Corpus, error) {
	data, err := os.ReadFile(filepath.Join(l.dir, filepath.Base(name)+".json"))
	if os.IsNotExist(err) {
		return domain.Corpus{}, domain.ErrCorpusNotFound
	}
	if err != nil {
		return domain.Corpus{}, fmt.Errorf("read corpus %q: %w", name, err)
	}
	c, err := bank.ParseCorpus(data)
	if err != nil {
		return domain.Corpus{}, err
	}
	if c.Name == "" {
		c.Name = name
	}
	return c, nil
}
