package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"sanskrit-quiz-service/internal/app"
	"sanskrit-quiz-service/internal/auth"
	"sanskrit-quiz-service/internal/domain"
)

// QuestionBank builds the payloads served by the question endpoints.
type QuestionBank interface {
	Tense(ctx context.Context) (domain.TensePayload, error)
	Verb(ctx context.Context) (domain.VerbPayload, error)
	Number(ctx context.Context) (domain.NumberPayload, error)
}

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(token string) (auth.Claims, error)
}

// Server exposes the quiz backend over HTTP and websockets.
type Server struct {
	r        *chi.Mux
	bank     QuestionBank
	accounts *app.AccountService
	tokens   TokenParser
	ws       *WSHandler
	validate *validator.Validate
}

// NewServer installs middleware and registers routes.
func NewServer(bank QuestionBank, accounts *app.AccountService, tokens TokenParser, play *app.PlayService) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		bank:     bank,
		accounts: accounts,
		tokens:   tokens,
		ws:       NewWSHandler(play, tokens),
		validate: validator.New(),
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(cors)

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	// websocket upgrades must not sit behind the handler timeout
	s.r.Get("/ws/play", s.ws.ServeWS)

	s.r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))

		r.Get("/get-tense-question", s.handleTenseQuestion)
		r.Get("/get-game", s.handleVerbQuestion)
		r.Get("/get-number-game", s.handleNumberQuestion)
		r.Post("/save-score", s.handleSaveScore)
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth(tokens))
			r.Post("/update-score", s.handleUpdateScore)
			r.Get("/profile", s.handleProfile)
			r.Get("/score-history", s.handleScoreHistory)
		})
	})
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.r.ServeHTTP(w, r)
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, domain.MessageResponse{Message: msg})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, domain.ErrorResponse{Error: msg})
}
