package domain

import (
	"strings"
	"time"
)

// Game identifies one of the quiz games.
type Game string

const (
	GameTense  Game = "tense"
	GameVerb   Game = "verb"
	GameNumber Game = "number"
)

// Games lists every playable game.
var Games = []Game{GameTense, GameVerb, GameNumber}

// ParseGame maps a raw name onto a known game.
func ParseGame(raw string) (Game, error) {
	for _, g := range Games {
		if string(g) == raw {
			return g, nil
		}
	}
	return "", ErrUnknownGame
}

// Field names one slot of a guess.
type Field string

const (
	FieldAnswer Field = "answer"
	FieldPerson Field = "person"
	FieldNumber Field = "number"
)

// Question is one fetched quiz item. It is replaced wholesale on advance.
type Question struct {
	ID          string             `json:"id"`
	Game        Game               `json:"game"`
	Prompt      string             `json:"prompt"`
	Fields      []Field            `json:"fields"`
	Canonical   map[Field]string   `json:"-"`
	Options     map[Field][]string `json:"options"`
	Hint        string             `json:"-"`
	Explanation string             `json:"-"`
}

// Answer renders the canonical answer in field order.
func (q Question) Answer() string {
	parts := make([]string, 0, len(q.Fields))
	for _, f := range q.Fields {
		parts = append(parts, q.Canonical[f])
	}
	return strings.Join(parts, " ")
}

// QuestionView is what a presenter may show before the answer is revealed.
type QuestionView struct {
	ID      string             `json:"id"`
	Prompt  string             `json:"prompt"`
	Fields  []Field            `json:"fields"`
	Options map[Field][]string `json:"options"`
}

// View strips answer material from q.
func (q Question) View() *QuestionView {
	return &QuestionView{ID: q.ID, Prompt: q.Prompt, Fields: q.Fields, Options: q.Options}
}

// Guess is the answer in progress; unset fields are absent.
type Guess map[Field]string

// Complete reports whether every field in fields has a value.
func (g Guess) Complete(fields []Field) bool {
	for _, f := range fields {
		if g[f] == "" {
			return false
		}
	}
	return true
}

// Clone copies g so snapshots do not alias engine state.
func (g Guess) Clone() Guess {
	out := make(Guess, len(g))
	for k, v := range g {
		out[k] = v
	}
	return out
}

// Phase is the coarse state of a round.
type Phase string

const (
	PhaseLoading    Phase = "loading"
	PhasePresenting Phase = "presenting"
	PhaseFinished   Phase = "finished"
	PhaseFailed     Phase = "failed"
)

// RoundState is a snapshot of a round for presenters.
type RoundState struct {
	Game           Game          `json:"game"`
	Phase          Phase         `json:"phase"`
	Index          int           `json:"index"`
	Total          int           `json:"total"`
	Score          int           `json:"score"`
	MaxScore       int           `json:"maxScore"`
	Attempts       int           `json:"attempts"`
	Finished       bool          `json:"finished"`
	Question       *QuestionView `json:"question,omitempty"`
	Guess          Guess         `json:"guess"`
	Feedback       string        `json:"feedback,omitempty"`
	Hint           string        `json:"hint,omitempty"`
	HintAvailable  bool          `json:"hintAvailable"`
	Revealed       bool          `json:"revealed"`
	NextUnlocked   bool          `json:"nextUnlocked"`
	CanSubmit      bool          `json:"canSubmit"`
	Busy           bool          `json:"busy"`
	Error          string        `json:"error,omitempty"`
	ConfirmedTotal *int          `json:"confirmedTotal,omitempty"`
	Generation     uint64        `json:"generation"`
}

// Verdict classifies a submitted guess.
type Verdict string

const (
	VerdictCorrect Verdict = "correct"
	VerdictPartial Verdict = "partial"
	VerdictWrong   Verdict = "wrong"
)

// Outcome summarizes one submit.
type Outcome struct {
	Verdict  Verdict `json:"verdict"`
	Awarded  int     `json:"awarded"`
	Revealed bool    `json:"revealed"`
	Score    int     `json:"score"`
}

// User is a registered learner and their cumulative score.
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Score        int       `json:"score"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ScoreSave records the final score of a finished round.
type ScoreSave struct {
	UserID  string    `json:"userId"`
	Score   int       `json:"score"`
	SavedAt time.Time `json:"savedAt"`
}
