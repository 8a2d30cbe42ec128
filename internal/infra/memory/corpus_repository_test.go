package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"sanskrit-quiz-service/internal/domain"
)

func TestCorpusRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		CorpusLoader: NewStaticCorpusLoader(map[string]domain.Corpus{
			"tiny": sampleCorpus(),
		}),
	}
	repo := NewCorpusRepository(loader, time.Minute)

	if _, err := repo.GetCorpus(context.Background(), "tiny"); err != nil {
		t.Fatalf("get corpus: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected loader once, got %d", loader.count())
	}

	c, err := repo.GetCorpus(context.Background(), "tiny")
	if err != nil {
		t.Fatalf("get corpus 2: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.count())
	}
	if len(c.Sentences) != 1 {
		t.Fatalf("unexpected corpus %+v", c)
	}
}

func TestCorpusRepositoryReloadsAfterExpiry(t *testing.T) {
	loader := &countingLoader{CorpusLoader: NewStaticCorpusLoader(map[string]domain.Corpus{"tiny": sampleCorpus()})}
	repo := NewCorpusRepository(loader, time.Minute)
	now := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetCorpus(context.Background(), "tiny")
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetCorpus(context.Background(), "tiny")
	if loader.count() != 2 {
		t.Fatalf("expected reload after ttl, got %d loads", loader.count())
	}
}

func TestCorpusRepositoryUnknown(t *testing.T) {
	repo := NewCorpusRepository(NewStaticCorpusLoader(nil), time.Minute)
	if _, err := repo.GetCorpus(context.Background(), "missing"); !errors.Is(err, domain.ErrCorpusNotFound) {
		t.Fatalf("expected ErrCorpusNotFound, got %v", err)
	}
}

func TestSampleCorpusLoader(t *testing.T) {
	loader, err := NewSampleCorpusLoader()
	if err != nil {
		t.Fatalf("sample loader: %v", err)
	}
	c, err := loader.LoadCorpus(context.Background(), "sample")
	if err != nil || len(c.Sentences) == 0 {
		t.Fatalf("expected sample sentences, got %d (%v)", len(c.Sentences), err)
	}
}

func TestFileCorpusLoader(t *testing.T) {
	dir := t.TempDir()
	doc := `{"sentences":[{"sentence":"बालकः पठति","tense":"present","subject":{"form":"बालकः","person":3,"number":"sg"},"verb":{"root":"पठ्","form":"पठति","class":"1"}}]}`
	if err := os.WriteFile(filepath.Join(dir, "mini.json"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}
	loader := NewFileCorpusLoader(dir)

	c, err := loader.LoadCorpus(context.Background(), "mini")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Name != "mini" || len(c.Sentences) != 1 || c.Sentences[0].Subject.Person != "3" {
		t.Fatalf("unexpected corpus %+v", c)
	}
	if _, err := loader.LoadCorpus(context.Background(), "absent"); !errors.Is(err, domain.ErrCorpusNotFound) {
		t.Fatalf("expected ErrCorpusNotFound, got %v", err)
	}
}

type countingLoader struct {
	CorpusLoader
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) LoadCorpus(ctx context.Context, name string) (domain.Corpus, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.CorpusLoader.LoadCorpus(ctx, name)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func sampleCorpus() domain.Corpus {
	return domain.Corpus{
		Name: "tiny",
		Sentences: []domain.Sentence{{
			Sentence: "बालकः पठति",
			Tense:    "present",
			Subject:  domain.Subject{Form: "बालकः", Person: "3", Number: "sg"},
			Verb:     domain.Verb{Root: "पठ्", Form: "पठति", Class: "1"},
		}},
	}
}
