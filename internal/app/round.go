package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"sanskrit-quiz-service/internal/domain"
)

const defaultFinalReportTimeout = 10 * time.Second

// RoundDeps wires a Round to its collaborators. Only Source is required.
type RoundDeps struct {
	Source   QuestionSource
	Reporter ScoreReporter
	Progress ProgressStore
	Identity Identity
	// FinalReportTimeout bounds the fire-and-forget final save.
	FinalReportTimeout time.Duration
}

// Round is the quiz state machine shared by every game:
// loading -> presenting -> ... -> finished, with failed on a fetch error.
//
// Network calls run outside the lock. While one is outstanding the round is
// busy and conflicting actions are rejected. Fetches are tagged with the
// generation they were started in and dropped if the round has moved on.
type Round struct {
	cfg          GameConfig
	source       QuestionSource
	reporter     ScoreReporter
	progress     ProgressStore
	identity     Identity
	finalTimeout time.Duration

	mu           sync.Mutex
	gen          uint64
	phase        domain.Phase
	questions    []domain.Question
	current      *domain.Question
	pending      int
	index        int
	score        int
	attempts     int
	credited     bool
	guess        domain.Guess
	feedback     string
	hint         string
	revealed     bool
	nextUnlocked bool
	busy         bool
	errMsg       string
	confirmed    *int

	reports sync.WaitGroup
}

// NewRound validates cfg and builds an idle round; call Start to begin.
func NewRound(cfg GameConfig, deps RoundDeps) (*Round, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if deps.Source == nil {
		return nil, errors.New("round: question source is required")
	}
	if cfg.Compare == nil {
		cfg.Compare = ExactFields
	}
	timeout := deps.FinalReportTimeout
	if timeout <= 0 {
		timeout = defaultFinalReportTimeout
	}
	r := &Round{
		cfg:          cfg,
		source:       deps.Source,
		reporter:     deps.Reporter,
		progress:     deps.Progress,
		identity:     deps.Identity,
		finalTimeout: timeout,
	}
	r.resetLocked()
	return r, nil
}

// Config returns the game configuration of the round.
func (r *Round) Config() GameConfig { return r.cfg }

// Start clears stored progress for the game and loads the first question(s).
func (r *Round) Start(ctx context.Context) error {
	return r.restart(ctx)
}

// PlayAgain resets the round to its initial state and loads again.
// Any fetch or report still in flight for the previous round is discarded.
func (r *Round) PlayAgain(ctx context.Context) error {
	return r.restart(ctx)
}

func (r *Round) restart(ctx context.Context) error {
	r.mu.Lock()
	r.resetLocked()
	gen := r.gen
	r.pending = r.batchSize()
	n := r.pending
	r.mu.Unlock()

	if r.progress != nil {
		if err := r.progress.Clear(ctx, r.cfg.Game); err != nil {
			log.Warn().Err(err).Str("game", string(r.cfg.Game)).Msg("clear round progress")
		}
	}
	return r.load(ctx, gen, n)
}

// Retry refetches what a failed load was fetching.
func (r *Round) Retry(ctx context.Context) error {
	r.mu.Lock()
	if r.phase != domain.PhaseFailed {
		r.mu.Unlock()
		return ErrNotFailed
	}
	r.gen++
	gen := r.gen
	n := r.pending
	r.phase = domain.PhaseLoading
	r.errMsg = ""
	r.mu.Unlock()
	return r.load(ctx, gen, n)
}

// Select sets one guess field. An empty value unsets it.
func (r *Round) Select(field domain.Field, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkOpenLocked(); err != nil {
		return err
	}
	if !hasField(r.current.Fields, field) {
		return ErrUnknownField
	}
	if value == "" {
		delete(r.guess, field)
		return nil
	}
	if opts, ok := r.current.Options[field]; ok && !contains(opts, value) {
		return ErrUnknownOption
	}
	r.guess[field] = value
	return nil
}

// Submit checks the current guess. Credit is awarded only on the first
// attempt and at most once per question; correctness is always checked.
// A failed score report is surfaced in State().Error and does not fail Submit.
func (r *Round) Submit(ctx context.Context) (domain.Outcome, error) {
	r.mu.Lock()
	if err := r.checkOpenLocked(); err != nil {
		r.mu.Unlock()
		return domain.Outcome{}, err
	}
	if !r.guess.Complete(r.current.Fields) {
		r.mu.Unlock()
		return domain.Outcome{}, ErrIncompleteGuess
	}

	q := *r.current
	match := r.cfg.Compare(q, r.guess)
	verdict := match.Verdict()
	firstAttempt := r.attempts == 0 && !r.credited

	award := 0
	switch verdict {
	case domain.VerdictCorrect:
		if firstAttempt {
			award = r.cfg.FullCredit
		}
		r.feedback = joinLines("Correct!", q.Explanation)
		r.hint = ""
		r.nextUnlocked = true
	case domain.VerdictPartial, domain.VerdictWrong:
		if verdict == domain.VerdictPartial && firstAttempt {
			award = r.cfg.PartialCredit
		}
		r.attempts++
		if r.cfg.MaxAttempts > 0 && r.attempts >= r.cfg.MaxAttempts {
			r.revealLocked(q)
		} else {
			r.feedback = r.retryFeedback(q, match, verdict)
		}
	}

	if award > 0 {
		r.credited = true
		r.score += award
	}
	out := domain.Outcome{Verdict: verdict, Awarded: award, Revealed: r.revealed, Score: r.score}

	if award == 0 || r.reporter == nil {
		r.mu.Unlock()
		return out, nil
	}

	r.busy = true
	gen := r.gen
	r.mu.Unlock()

	total, err := r.reporter.ReportDelta(ctx, award)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		return out, nil
	}
	r.busy = false
	if err != nil {
		log.Warn().Err(err).Str("game", string(r.cfg.Game)).Int("delta", award).Msg("score update failed")
		r.errMsg = scoreErrorMessage(err)
		return out, nil
	}
	r.confirmed = &total
	return out, nil
}

// RevealHint shows the question's hint. It needs at least one wrong attempt
// and never touches score or attempts.
func (r *Round) RevealHint() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != domain.PhasePresenting || r.current == nil {
		return ErrNotPresenting
	}
	if r.attempts == 0 || r.current.Hint == "" || (r.nextUnlocked && !r.revealed) {
		return ErrHintUnavailable
	}
	r.hint = r.current.Hint
	return nil
}

// Next advances to the following question, or finishes the round after the last one.
func (r *Round) Next(ctx context.Context) error {
	r.mu.Lock()
	if r.phase != domain.PhasePresenting {
		r.mu.Unlock()
		return ErrNotPresenting
	}
	if r.busy {
		r.mu.Unlock()
		return ErrBusy
	}
	if !r.nextUnlocked {
		r.mu.Unlock()
		return ErrNextLocked
	}

	r.index++
	r.clearQuestionLocked()

	if r.index >= r.cfg.TotalQuestions {
		r.index = r.cfg.TotalQuestions
		r.phase = domain.PhaseFinished
		score := r.score
		r.mu.Unlock()
		r.finish(ctx, score)
		return nil
	}

	if r.cfg.Prefetch && r.index < len(r.questions) {
		r.presentLocked(r.questions[r.index])
		r.mu.Unlock()
		return nil
	}

	r.gen++
	gen := r.gen
	r.pending = 1
	r.phase = domain.PhaseLoading
	r.mu.Unlock()
	return r.load(ctx, gen, 1)
}

// State returns a snapshot for presenters.
func (r *Round) State() domain.RoundState {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := domain.RoundState{
		Game:         r.cfg.Game,
		Phase:        r.phase,
		Index:        r.index,
		Total:        r.cfg.TotalQuestions,
		Score:        r.score,
		MaxScore:     r.cfg.MaxScore(),
		Attempts:     r.attempts,
		Finished:     r.phase == domain.PhaseFinished,
		Guess:        r.guess.Clone(),
		Feedback:     r.feedback,
		Hint:         r.hint,
		Revealed:     r.revealed,
		NextUnlocked: r.nextUnlocked,
		Busy:         r.busy,
		Error:        r.errMsg,
		Generation:   r.gen,
	}
	if r.confirmed != nil {
		total := *r.confirmed
		s.ConfirmedTotal = &total
	}
	if r.phase == domain.PhasePresenting && r.current != nil {
		s.Question = r.current.View()
		s.CanSubmit = !r.busy && !r.nextUnlocked && r.guess.Complete(r.current.Fields)
		s.HintAvailable = !r.nextUnlocked && r.attempts > 0 && r.current.Hint != ""
	}
	return s
}

// WaitReports blocks until every final report fired by this round has returned.
func (r *Round) WaitReports() {
	r.reports.Wait()
}

func (r *Round) load(ctx context.Context, gen uint64, n int) error {
	fetched := make([]domain.Question, 0, n)
	var err error
	for i := 0; i < n; i++ {
		var q domain.Question
		q, err = r.source.FetchQuestion(ctx)
		if err != nil {
			break
		}
		fetched = append(fetched, q)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		return ErrStale
	}
	if err != nil {
		r.phase = domain.PhaseFailed
		r.questions = nil
		r.current = nil
		r.errMsg = loadErrorMessage(err)
		log.Error().Err(err).Str("game", string(r.cfg.Game)).Int("index", r.index).Msg("load question failed")
		return fmt.Errorf("load question: %w", err)
	}
	if len(fetched) == 0 {
		r.phase = domain.PhaseFailed
		r.errMsg = "No question available."
		return fmt.Errorf("load question: empty batch")
	}
	if r.cfg.Prefetch && n > 1 {
		r.questions = fetched
	}
	r.presentLocked(fetched[0])
	return nil
}

func (r *Round) finish(ctx context.Context, score int) {
	game := string(r.cfg.Game)
	if r.progress != nil {
		if err := r.progress.Save(ctx, r.cfg.Game, score); err != nil {
			log.Warn().Err(err).Str("game", game).Msg("save round progress")
		}
	}
	log.Info().Str("game", game).Int("score", score).Int("max", r.cfg.MaxScore()).Msg("round finished")

	if r.reporter == nil || r.identity == nil {
		return
	}
	userID, ok := r.identity.UserID()
	if !ok {
		return
	}

	r.reports.Add(1)
	go func() {
		defer r.reports.Done()
		reportCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.finalTimeout)
		defer cancel()
		if err := r.reporter.ReportFinal(reportCtx, userID, score); err != nil {
			log.Warn().Err(err).Str("game", game).Str("user", userID).Msg("final score save failed")
		}
	}()
}

func (r *Round) batchSize() int {
	if r.cfg.Prefetch {
		return r.cfg.TotalQuestions
	}
	return 1
}

func (r *Round) checkOpenLocked() error {
	if r.phase != domain.PhasePresenting || r.current == nil {
		return ErrNotPresenting
	}
	if r.busy {
		return ErrBusy
	}
	if r.nextUnlocked {
		return ErrQuestionClosed
	}
	return nil
}

func (r *Round) resetLocked() {
	r.gen++
	r.phase = domain.PhaseLoading
	r.questions = nil
	r.index = 0
	r.score = 0
	r.busy = false
	r.errMsg = ""
	r.confirmed = nil
	r.clearQuestionLocked()
}

func (r *Round) clearQuestionLocked() {
	r.current = nil
	r.attempts = 0
	r.credited = false
	r.guess = domain.Guess{}
	r.feedback = ""
	r.hint = ""
	r.revealed = false
	r.nextUnlocked = false
}

func (r *Round) presentLocked(q domain.Question) {
	r.clearQuestionLocked()
	r.current = &q
	r.phase = domain.PhasePresenting
	r.errMsg = ""
}

func (r *Round) revealLocked(q domain.Question) {
	r.revealed = true
	r.nextUnlocked = true
	r.feedback = joinLines(fmt.Sprintf("Wrong again! %s: %s", r.cfg.AnswerLabel, q.Answer()), q.Explanation)
	r.hint = q.Hint
}

func (r *Round) retryFeedback(q domain.Question, m Match, verdict domain.Verdict) string {
	if len(q.Fields) == 1 {
		return joinLines("Wrong! Try again.", r.coach())
	}

	lines := make([]string, 0, len(q.Fields)+2)
	switch {
	case verdict == domain.VerdictPartial:
		lines = append(lines, "Partially correct.")
	case len(q.Fields) == 2:
		lines = append(lines, "Both incorrect.")
	default:
		lines = append(lines, "All incorrect.")
	}
	for _, f := range q.Fields {
		if !m.Correct[f] {
			lines = append(lines, r.cfg.fieldLabel(f)+" is incorrect")
		}
	}
	return joinLines(append(lines, r.coach())...)
}

func (r *Round) coach() string {
	if r.cfg.Coach == nil {
		return ""
	}
	return r.cfg.Coach(r.guess)
}

func loadErrorMessage(err error) string {
	var se *domain.SemanticError
	if errors.As(err, &se) {
		return "Failed to load question: " + se.Message
	}
	return "Failed to load questions. Please try again."
}

func scoreErrorMessage(err error) string {
	if errors.Is(err, domain.ErrAuth) {
		return "No valid login found, please log in again. Your score was not synced."
	}
	return "Failed to update score."
}

func joinLines(lines ...string) string {
	kept := lines[:0:0]
	for _, l := range lines {
		if l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}

func hasField(fields []domain.Field, f domain.Field) bool {
	for _, x := range fields {
		if x == f {
			return true
		}
	}
	return false
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
