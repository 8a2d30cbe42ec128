// Package bank builds quiz payloads for the three games from a sentence corpus.
package bank

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"sanskrit-quiz-service/internal/domain"
)

const (
	blank       = "_____"
	virama      = "्"
	suffixStub  = "A"
	distractors = 3
)

// CorpusRepository returns the corpus to draw questions from.
type CorpusRepository interface {
	GetCorpus(ctx context.Context, name string) (domain.Corpus, error)
}

// Bank generates questions. It is safe for concurrent use.
type Bank struct {
	repo   CorpusRepository
	corpus string
	rnd    domain.Intn
}

// New returns a bank reading the named corpus from repo.
// A nil rnd uses a time-seeded source.
func New(repo CorpusRepository, corpus string, rnd domain.Intn) *Bank {
	if rnd == nil {
		rnd = NewLockedRand(time.Now().UnixNano())
	}
	return &Bank{repo: repo, corpus: corpus, rnd: rnd}
}

// Tense returns a random sentence with its tense and explanation.
func (b *Bank) Tense(ctx context.Context) (domain.TensePayload, error) {
	s, _, err := b.pick(ctx, nil)
	if err != nil {
		return domain.TensePayload{}, err
	}
	return domain.TensePayload{
		Sentence:    s.Sentence,
		Tense:       s.Tense,
		Explanation: TenseExplanation(s),
	}, nil
}

// Verb returns a sentence with its verb blanked out and up to three
// conjugated distractors next to the correct form.
func (b *Bank) Verb(ctx context.Context) (domain.VerbPayload, error) {
	s, c, err := b.pick(ctx, nil)
	if err != nil {
		return domain.VerbPayload{}, err
	}
	wrong := domain.Sample(Distractors(c, s), distractors, b.rnd)
	options := domain.Shuffle(append([]string{s.Verb.Form}, wrong...), b.rnd)
	return domain.VerbPayload{
		Sentence:    Blank(s.Sentence, s.Verb.Form),
		Correct:     s.Verb.Form,
		Options:     options,
		Hint:        fmt.Sprintf("Hint: Subject '%s' is %s.", s.Subject.Form, label(s.Subject)),
		Explanation: VerbExplanation(s),
	}, nil
}

// Number returns a sentence whose verb takes no object.
func (b *Bank) Number(ctx context.Context) (domain.NumberPayload, error) {
	s, _, err := b.pick(ctx, func(s domain.Sentence) bool { return !s.Verb.RequiresObject })
	if err != nil {
		return domain.NumberPayload{}, err
	}
	var p domain.NumberPayload
	p.Subject.Form = s.Subject.Form
	p.Subject.Person = s.Subject.Person
	p.Subject.Number = s.Subject.Number
	p.Verb.Form = s.Verb.Form
	return p, nil
}

func (b *Bank) pick(ctx context.Context, keep func(domain.Sentence) bool) (domain.Sentence, domain.Corpus, error) {
	c, err := b.repo.GetCorpus(ctx, b.corpus)
	if err != nil {
		return domain.Sentence{}, domain.Corpus{}, fmt.Errorf("load corpus %q: %w", b.corpus, err)
	}
	pool := c.Sentences
	if keep != nil {
		pool = make([]domain.Sentence, 0, len(c.Sentences))
		for _, s := range c.Sentences {
			if keep(s) {
				pool = append(pool, s)
			}
		}
	}
	if len(pool) == 0 {
		return domain.Sentence{}, c, domain.ErrNoSentences
	}
	return pool[b.rnd.Intn(len(pool))], c, nil
}

// Blank replaces the verb form in text with a blank, or the last word when
// the form does not appear as a whole word.
func Blank(text, form string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}
	for i, w := range words {
		if w == form {
			words[i] = blank
			return strings.Join(words, " ")
		}
	}
	words[len(words)-1] = blank
	return strings.Join(words, " ")
}

// Distractors conjugates the sentence's root with every suffix of its tense
// and class, skipping the correct form. Results are deduplicated and sorted.
func Distractors(c domain.Corpus, s domain.Sentence) []string {
	suffixes := c.Conjugations[s.Tense][s.Verb.Class]
	if len(suffixes) == 0 {
		return nil
	}
	stem := strings.TrimSuffix(c.Stem(s.Verb.Root, s.Verb.Class, s.Tense), virama)

	seen := map[string]bool{s.Verb.Form: true}
	out := make([]string, 0, len(suffixes))
	for _, suffix := range suffixes {
		form := stem + strings.ReplaceAll(suffix, suffixStub, "")
		if seen[form] {
			continue
		}
		seen[form] = true
		out = append(out, form)
	}
	sort.Strings(out)
	return out
}

// TenseExplanation describes verb, subject and object of s.
func TenseExplanation(s domain.Sentence) string {
	parts := []string{
		fmt.Sprintf("Verb root: '%s', form: '%s' (%s tense), meaning: '%s'.", s.Verb.Root, s.Verb.Form, s.Tense, s.Verb.Meaning),
		fmt.Sprintf("Subject: '%s', number: %s, gender: %s.", s.Subject.Form, s.Subject.Number, s.Subject.Gender),
	}
	if s.Object != nil {
		parts = append(parts, fmt.Sprintf("Object: '%s', number: %s, gender: %s.", s.Object.Form, s.Object.Number, s.Object.Gender))
	}
	return strings.Join(parts, " ")
}

// VerbExplanation explains why the verb form agrees with the subject.
func VerbExplanation(s domain.Sentence) string {
	requires := "does not require"
	if s.Object != nil {
		requires = "requires"
	}
	return strings.Join([]string{
		fmt.Sprintf("Subject '%s' is in %s form.", s.Subject.Form, label(s.Subject)),
		fmt.Sprintf("Verb root: '%s', class %s, meaning: '%s'.", s.Verb.Root, s.Verb.Class, s.Verb.Meaning),
		fmt.Sprintf("This verb %s an object.", requires),
		fmt.Sprintf("The correct form is '%s' to match the subject.", s.Verb.Form),
		"Full sentence: " + s.Sentence,
	}, " ")
}

func label(s domain.Subject) string {
	return domain.PersonNumberLabel(string(s.Person), string(s.Number))
}

// LockedRand serializes a *rand.Rand for use from concurrent handlers.
type LockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewLockedRand(seed int64) *LockedRand {
	return &LockedRand{rnd: rand.New(rand.NewSource(seed))}
}

func (l *LockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.Intn(n)
}
