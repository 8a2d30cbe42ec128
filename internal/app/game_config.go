package app

import (
	"errors"

	"sanskrit-quiz-service/internal/domain"
)

// Match is the per-field result of comparing a guess with a question.
type Match struct {
	Correct map[domain.Field]bool
}

// Verdict folds the per-field result into correct / partial / wrong.
func (m Match) Verdict() domain.Verdict {
	right := 0
	for _, ok := range m.Correct {
		if ok {
			right++
		}
	}
	switch {
	case right > 0 && right == len(m.Correct):
		return domain.VerdictCorrect
	case right > 0:
		return domain.VerdictPartial
	default:
		return domain.VerdictWrong
	}
}

// Comparator decides how a guess matches a question.
type Comparator func(q domain.Question, g domain.Guess) Match

// ExactFields compares every question field for equality.
func ExactFields(q domain.Question, g domain.Guess) Match {
	m := Match{Correct: make(map[domain.Field]bool, len(q.Fields))}
	for _, f := range q.Fields {
		m.Correct[f] = g[f] != "" && g[f] == q.Canonical[f]
	}
	return m
}

// GameConfig parameterizes a Round for one game.
type GameConfig struct {
	Game           domain.Game
	TotalQuestions int
	// FullCredit is the per-question maximum.
	FullCredit    int
	PartialCredit int
	// MaxAttempts is the number of wrong submits that reveals the answer
	// and unlocks Next. Zero allows unlimited retries.
	MaxAttempts int
	// Prefetch loads the whole round up front instead of one question per advance.
	Prefetch    bool
	AnswerLabel string
	FieldLabels map[domain.Field]string
	Compare     Comparator
	// Coach, when set, appends a contextual line to wrong or partial feedback.
	Coach func(g domain.Guess) string
}

// MaxScore is the best possible round score.
func (c GameConfig) MaxScore() int {
	return c.TotalQuestions * c.FullCredit
}

func (c GameConfig) validate() error {
	switch {
	case c.Game == "":
		return errors.New("game config: game is required")
	case c.TotalQuestions <= 0:
		return errors.New("game config: total questions must be positive")
	case c.FullCredit < 0 || c.PartialCredit < 0 || c.PartialCredit > c.FullCredit:
		return errors.New("game config: credits must satisfy 0 <= partial <= full")
	case c.MaxAttempts < 0:
		return errors.New("game config: max attempts must not be negative")
	}
	return nil
}

func (c GameConfig) fieldLabel(f domain.Field) string {
	if l, ok := c.FieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// TenseGame reveals the tense after the second wrong answer.
func TenseGame() GameConfig {
	return GameConfig{
		Game:           domain.GameTense,
		TotalQuestions: 5,
		FullCredit:     1,
		MaxAttempts:    2,
		Prefetch:       true,
		AnswerLabel:    "Correct tense",
		Compare:        ExactFields,
	}
}

// VerbGame reveals the verb form after the second wrong answer.
func VerbGame() GameConfig {
	return GameConfig{
		Game:           domain.GameVerb,
		TotalQuestions: 5,
		FullCredit:     1,
		MaxAttempts:    2,
		Prefetch:       true,
		AnswerLabel:    "Correct answer",
		Compare:        ExactFields,
	}
}

// NumberGame awards 2 for person and number, 1 for either, and never reveals.
// verbose turns on the contextual sentence for each wrong guess.
func NumberGame(verbose bool) GameConfig {
	cfg := GameConfig{
		Game:           domain.GameNumber,
		TotalQuestions: 5,
		FullCredit:     2,
		PartialCredit:  1,
		AnswerLabel:    "Correct person and number",
		FieldLabels: map[domain.Field]string{
			domain.FieldPerson: "Person",
			domain.FieldNumber: "Number",
		},
		Compare: ExactFields,
	}
	if verbose {
		cfg.Coach = func(g domain.Guess) string {
			return domain.ContextualFeedback(g[domain.FieldPerson], g[domain.FieldNumber])
		}
	}
	return cfg
}

// ConfigFor returns the preset for game.
func ConfigFor(game domain.Game, verbose bool) (GameConfig, error) {
	switch game {
	case domain.GameTense:
		return TenseGame(), nil
	case domain.GameVerb:
		return VerbGame(), nil
	case domain.GameNumber:
		return NumberGame(verbose), nil
	}
	return GameConfig{}, domain.ErrUnknownGame
}
