package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"sanskrit-quiz-service/internal/domain"
)

// ErrSessionNotFound is returned for an unknown play session id.
var ErrSessionNotFound = errors.New("play session not found")

// ErrUnknownAction is returned for an action type Apply does not handle.
var ErrUnknownAction = errors.New("unknown action")

// SessionRepository abstracts where live play sessions are kept (in-memory, Redis, etc).
// Get is called for every action, so implementations may treat it as activity.
type SessionRepository interface {
	Put(s *PlaySession)
	Get(id string) (*PlaySession, bool)
	Delete(id string)
}

// SourceFactory returns the question source for a game.
type SourceFactory func(game domain.Game) (QuestionSource, error)

// ProgressFactory returns the progress store of owner: the user id for a
// signed-in player, the session id otherwise.
type ProgressFactory func(owner string) ProgressStore

// PlayConfig tunes the rounds a PlayService opens.
type PlayConfig struct {
	Verbose            bool
	FinalReportTimeout time.Duration
}

// PlayService hosts quiz rounds on behalf of remote presenters.
type PlayService struct {
	sessions SessionRepository
	sources  SourceFactory
	progress ProgressFactory
	accounts *AccountService
	cfg      PlayConfig
}

// NewPlayService wires the play use cases. accounts and progress may be nil.
func NewPlayService(sessions SessionRepository, sources SourceFactory, progress ProgressFactory, accounts *AccountService, cfg PlayConfig) *PlayService {
	return &PlayService{sessions: sessions, sources: sources, progress: progress, accounts: accounts, cfg: cfg}
}

// Open creates a session for game. An empty userID plays anonymously:
// credited answers then surface an auth error and nothing is saved.
func (s *PlayService) Open(_ context.Context, game domain.Game, userID string) (*PlaySession, error) {
	cfg, err := ConfigFor(game, s.cfg.Verbose)
	if err != nil {
		return nil, err
	}
	source, err := s.sources(game)
	if err != nil {
		return nil, fmt.Errorf("question source for %s: %w", game, err)
	}

	id := uuid.NewString()
	deps := RoundDeps{
		Source:             source,
		Identity:           StaticIdentity(userID),
		FinalReportTimeout: s.cfg.FinalReportTimeout,
	}
	if s.accounts != nil {
		deps.Reporter = s.accounts.Reporter(userID)
	}
	if s.progress != nil {
		owner := userID
		if owner == "" {
			owner = id
		}
		deps.Progress = s.progress(owner)
	}
	round, err := NewRound(cfg, deps)
	if err != nil {
		return nil, err
	}

	session := NewPlaySession(id, userID, round)
	session.progress = deps.Progress
	s.sessions.Put(session)
	log.Info().Str("session", id).Str("game", string(game)).Str("user", userID).Msg("play session opened")
	return session, nil
}

// Get returns a live session.
func (s *PlayService) Get(id string) (*PlaySession, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Apply runs a on the session id.
func (s *PlayService) Apply(ctx context.Context, id string, a Action) (domain.RoundState, error) {
	session, err := s.Get(id)
	if err != nil {
		return domain.RoundState{}, err
	}
	return session.Apply(ctx, a)
}

// Close drops the session, its subscribers and its stored round progress.
func (s *PlayService) Close(ctx context.Context, id string) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return
	}
	session.closeSubscribers()
	s.sessions.Delete(id)
	if session.progress != nil {
		game := session.round.Config().Game
		if err := session.progress.Clear(ctx, game); err != nil {
			log.Warn().Err(err).Str("session", id).Str("game", string(game)).Msg("clear session progress")
		}
	}
	log.Info().Str("session", id).Msg("play session closed")
}

// ActionType names a presenter command.
type ActionType string

const (
	ActionStart     ActionType = "start"
	ActionSelect    ActionType = "select"
	ActionSubmit    ActionType = "submit"
	ActionHint      ActionType = "hint"
	ActionNext      ActionType = "next"
	ActionPlayAgain ActionType = "playAgain"
	ActionRetry     ActionType = "retry"
	ActionState     ActionType = "state"
)

// Action is one presenter command.
type Action struct {
	Type  ActionType   `json:"type"`
	Field domain.Field `json:"field,omitempty"`
	Value string       `json:"value,omitempty"`
}

// PlaySession is one hosted round and the presenters watching it.
type PlaySession struct {
	id       string
	userID   string
	round    *Round
	progress ProgressStore

	mu          sync.Mutex
	subscribers map[chan domain.RoundState]struct{}
}

// NewPlaySession wraps round for presenters that drive it by actions.
func NewPlaySession(id, userID string, round *Round) *PlaySession {
	return &PlaySession{
		id:          id,
		userID:      userID,
		round:       round,
		subscribers: make(map[chan domain.RoundState]struct{}),
	}
}

func (s *PlaySession) ID() string     { return s.id }
func (s *PlaySession) UserID() string { return s.userID }
func (s *PlaySession) Round() *Round  { return s.round }

// Apply runs a on the round and broadcasts the resulting state.
// The returned state is the snapshot after the action, even when it failed.
func (s *PlaySession) Apply(ctx context.Context, a Action) (domain.RoundState, error) {
	var err error
	switch a.Type {
	case ActionStart:
		err = s.round.Start(ctx)
	case ActionSelect:
		err = s.round.Select(a.Field, a.Value)
	case ActionSubmit:
		_, err = s.round.Submit(ctx)
	case ActionHint:
		err = s.round.RevealHint()
	case ActionNext:
		err = s.round.Next(ctx)
	case ActionPlayAgain:
		err = s.round.PlayAgain(ctx)
	case ActionRetry:
		err = s.round.Retry(ctx)
	case ActionState:
	default:
		err = ErrUnknownAction
	}
	if errors.Is(err, ErrStale) {
		err = nil
	}
	return s.broadcast(), err
}

// Subscribe returns a channel that receives state snapshots for the session.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *PlaySession) Subscribe() (<-chan domain.RoundState, func()) {
	ch := make(chan domain.RoundState, 8)
	initial := s.round.State()

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	ch <- initial
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *PlaySession) broadcast() domain.RoundState {
	state := s.round.State()
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- state:
		default:
			// drop the oldest snapshot so a slow presenter never blocks play
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
	return state
}

func (s *PlaySession) closeSubscribers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}
