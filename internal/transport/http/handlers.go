package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"sanskrit-quiz-service/internal/domain"
)

type registerRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type scoreHistoryResponse struct {
	Scores []domain.ScoreSave `json:"scores"`
}

type authResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    domain.User `json:"user"`
}

func (s *Server) handleTenseQuestion(w http.ResponseWriter, r *http.Request) {
	p, err := s.bank.Tense(r.Context())
	if err != nil {
		writeBankError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleVerbQuestion(w http.ResponseWriter, r *http.Request) {
	p, err := s.bank.Verb(r.Context())
	if err != nil {
		writeBankError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleNumberQuestion(w http.ResponseWriter, r *http.Request) {
	p, err := s.bank.Number(r.Context())
	if err != nil {
		writeBankError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func writeBankError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNoSentences):
		writeError(w, http.StatusNotFound, "No sentences available")
	case errors.Is(err, domain.ErrCorpusNotFound):
		writeError(w, http.StatusNotFound, "Corpus not found")
	default:
		log.Error().Err(err).Msg("build question")
		writeError(w, http.StatusInternalServerError, "Failed to build question")
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, validationMessage(err, "Full name, email, and password are required"))
		return
	}
	user, token, err := s.accounts.Register(r.Context(), req.FullName, req.Email, req.Password)
	switch {
	case errors.Is(err, domain.ErrMissingField):
		writeMessage(w, http.StatusBadRequest, "Full name, email, and password are required")
		return
	case errors.Is(err, domain.ErrEmailTaken):
		writeMessage(w, http.StatusConflict, "Email already registered")
		return
	case err != nil:
		log.Error().Err(err).Msg("register")
		writeMessage(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Message: "User registered successfully", Token: token, User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, validationMessage(err, "Email and password are required"))
		return
	}
	user, token, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, domain.ErrMissingField):
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	case err != nil:
		log.Error().Err(err).Msg("login")
		writeMessage(w, http.StatusInternalServerError, "Login failed")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Message: "Login successful", Token: token, User: user})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	user, err := s.accounts.Profile(r.Context(), userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("profile")
		writeMessage(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleScoreHistory(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	saves, err := s.accounts.History(r.Context(), userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("user", userID).Msg("score history")
		writeMessage(w, http.StatusInternalServerError, "Failed to load score history")
		return
	}
	writeJSON(w, http.StatusOK, scoreHistoryResponse{Scores: saves})
}

func (s *Server) handleUpdateScore(w http.ResponseWriter, r *http.Request) {
	var req domain.ScoreUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || s.validate.Struct(req) != nil {
		writeMessage(w, http.StatusBadRequest, "Score is required")
		return
	}
	userID, _ := UserID(r.Context())
	total, err := s.accounts.AddScore(r.Context(), userID, *req.Score)
	if errors.Is(err, domain.ErrUserNotFound) {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("user", userID).Msg("update score")
		writeMessage(w, http.StatusInternalServerError, "Failed to update score")
		return
	}
	writeJSON(w, http.StatusOK, domain.ScoreUpdateResponse{Message: "Score updated successfully", Score: total})
}

func (s *Server) handleSaveScore(w http.ResponseWriter, r *http.Request) {
	var req domain.SaveScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || s.validate.Struct(req) != nil {
		writeMessage(w, http.StatusBadRequest, "User ID and score are required")
		return
	}
	err := s.accounts.SaveFinal(r.Context(), string(req.UserID), *req.Score)
	if errors.Is(err, domain.ErrUserNotFound) {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("user", string(req.UserID)).Msg("save score")
		writeMessage(w, http.StatusInternalServerError, "Failed to save score")
		return
	}
	writeMessage(w, http.StatusOK, "Score saved successfully")
}

// validationMessage reports missing fields with required, and a malformed
// email only when every field is present.
func validationMessage(err error, required string) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return required
	}
	for _, fe := range verrs {
		if fe.Tag() != "email" {
			return required
		}
	}
	return "Invalid email address"
}
