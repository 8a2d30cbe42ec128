package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"sanskrit-quiz-service/internal/domain"
)

// UserStore is an in-memory implementation of app.UserStore.
// IDs are assigned sequentially like a serial column.
type UserStore struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[string]domain.User
	byEmail map[string]string
	saves   []domain.ScoreSave
	clock   func() time.Time
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
		clock:   time.Now,
	}
}

func (s *UserStore) Create(_ context.Context, u domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[u.Email]; ok {
		return domain.User{}, domain.ErrEmailTaken
	}
	s.nextID++
	u.ID = strconv.FormatInt(s.nextID, 10)
	u.CreatedAt = s.clock().UTC()
	s.byID[u.ID] = u
	s.byEmail[u.Email] = u.ID
	return u, nil
}

func (s *UserStore) ByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return s.byID[id], nil
}

func (s *UserStore) ByID(_ context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *UserStore) AddScore(_ context.Context, id string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	u.Score += delta
	s.byID[id] = u
	return u.Score, nil
}

func (s *UserStore) SaveScore(_ context.Context, save domain.ScoreSave) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[save.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	s.saves = append(s.saves, save)
	return nil
}

// Saves returns the recorded round results of userID, oldest first.
func (s *UserStore) Saves(_ context.Context, userID string) ([]domain.ScoreSave, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.ScoreSave
	for _, save := range s.saves {
		if save.UserID == userID {
			out = append(out, save)
		}
	}
	return out, nil
}
