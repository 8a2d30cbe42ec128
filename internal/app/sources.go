package app

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"sanskrit-quiz-service/internal/domain"
)

const tenseHint = "Think about when the action happens: now, before, or in future."

// verbDistractors caps the wrong options shown next to the correct verb form.
const verbDistractors = 2

// TenseQuestion turns a tense payload into a single-field question whose
// options are the three tenses in random order.
func TenseQuestion(p domain.TensePayload, rnd domain.Intn) domain.Question {
	return domain.Question{
		ID:          uuid.NewString(),
		Game:        domain.GameTense,
		Prompt:      p.Sentence,
		Fields:      []domain.Field{domain.FieldAnswer},
		Canonical:   map[domain.Field]string{domain.FieldAnswer: strings.ToLower(strings.TrimSpace(p.Tense))},
		Options:     map[domain.Field][]string{domain.FieldAnswer: domain.Shuffle(domain.Tenses, rnd)},
		Hint:        tenseHint,
		Explanation: p.Explanation,
	}
}

// VerbQuestion turns a verb payload into a single-field question offering
// the correct form and up to two distractors.
func VerbQuestion(p domain.VerbPayload, rnd domain.Intn) domain.Question {
	return domain.Question{
		ID:          uuid.NewString(),
		Game:        domain.GameVerb,
		Prompt:      p.Sentence,
		Fields:      []domain.Field{domain.FieldAnswer},
		Canonical:   map[domain.Field]string{domain.FieldAnswer: p.Correct},
		Options:     map[domain.Field][]string{domain.FieldAnswer: domain.BuildOptions(p.Correct, p.Options, verbDistractors, rnd)},
		Hint:        p.Hint,
		Explanation: p.Explanation,
	}
}

// NumberQuestion turns a number payload into a person/number question.
// Codes are normalized onto the guess vocabulary; a code outside it yields a
// *domain.SemanticError since no guess could ever match.
func NumberQuestion(p domain.NumberPayload) (domain.Question, error) {
	person := domain.NormalizePerson(string(p.Subject.Person))
	number := domain.NormalizeNumber(string(p.Subject.Number))
	if !contains(domain.Persons, person) || !contains(domain.Numbers, number) {
		return domain.Question{}, &domain.SemanticError{
			Op:      "get number question",
			Message: fmt.Sprintf("unknown person/number code %q/%q", p.Subject.Person, p.Subject.Number),
		}
	}
	explanation := fmt.Sprintf("%s %s: %s.", p.Subject.Form, p.Verb.Form, domain.PersonNumberLabel(person, number))
	return domain.Question{
		ID:     uuid.NewString(),
		Game:   domain.GameNumber,
		Prompt: p.Subject.Form + " " + p.Verb.Form,
		Fields: []domain.Field{domain.FieldPerson, domain.FieldNumber},
		Canonical: map[domain.Field]string{
			domain.FieldPerson: person,
			domain.FieldNumber: number,
		},
		Options: map[domain.Field][]string{
			domain.FieldPerson: domain.Persons,
			domain.FieldNumber: domain.Numbers,
		},
		Hint:        fmt.Sprintf("Look at the ending of the subject (%q) and the verb (%q).", p.Subject.Form, p.Verb.Form),
		Explanation: explanation,
	}, nil
}
