package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"sanskrit-quiz-service/internal/domain"
)

func TestCorpusRepositoryCachesInRedis(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	loader := &stubLoader{corpus: domain.Corpus{
		Name: "tiny",
		Sentences: []domain.Sentence{{
			Sentence: "बालकः पठति",
			Tense:    "present",
			Subject:  domain.Subject{Form: "बालकः", Person: "3", Number: "sg"},
			Verb:     domain.Verb{Root: "पठ्", Form: "पठति", Class: "1"},
		}},
	}}
	repo := NewCorpusRepository(client, loader, time.Minute)

	c, err := repo.GetCorpus(ctx, "tiny")
	if err != nil {
		t.Fatalf("get corpus: %v", err)
	}
	if len(c.Sentences) != 1 {
		t.Fatalf("unexpected corpus %+v", c)
	}
	if !mr.Exists("corpus:tiny") {
		t.Fatalf("expected corpus cached")
	}
	if ttl := mr.TTL("corpus:tiny"); ttl < time.Minute || ttl > 66*time.Second {
		t.Fatalf("unexpected ttl %s", ttl)
	}

	c, err = repo.GetCorpus(ctx, "tiny")
	if err != nil {
		t.Fatalf("get corpus 2: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.count())
	}
	if c.Sentences[0].Subject.Person != "3" {
		t.Fatalf("cached corpus lost data: %+v", c.Sentences[0])
	}
}

func TestCorpusRepositoryLoaderError(t *testing.T) {
	_, client := newTestRedis(t)
	repo := NewCorpusRepository(client, &stubLoader{err: domain.ErrCorpusNotFound}, time.Minute)
	if _, err := repo.GetCorpus(context.Background(), "missing"); !errors.Is(err, domain.ErrCorpusNotFound) {
		t.Fatalf("expected ErrCorpusNotFound, got %v", err)
	}
}

type stubLoader struct {
	mu     sync.Mutex
	calls  int
	corpus domain.Corpus
	err    error
}

func (l *stubLoader) LoadCorpus(context.Context, string) (domain.Corpus, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	return l.corpus, l.err
}

func (l *stubLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}
