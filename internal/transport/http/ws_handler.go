package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"sanskrit-quiz-service/internal/app"
	"sanskrit-quiz-service/internal/domain"
)

type WSHandler struct {
	play     *app.PlayService
	tokens   TokenParser
	upgrader websocket.Upgrader
}

func NewWSHandler(play *app.PlayService, tokens TokenParser) *WSHandler {
	return &WSHandler{
		play:   play,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage struct {
	Type  string             `json:"type"`
	State *domain.RoundState `json:"state,omitempty"`
	Error string             `json:"error,omitempty"`
}

// ServeWS hosts one quiz round per connection. Without a token the round is
// played anonymously and score updates surface an auth error in the state.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	game, err := domain.ParseGame(r.URL.Query().Get("game"))
	if err != nil {
		http.Error(w, "game must be one of tense, verb, number", http.StatusBadRequest)
		return
	}
	userID := ""
	if token := r.URL.Query().Get("token"); token != "" {
		claims, err := h.tokens.Parse(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		userID = claims.UserID
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	ctx := r.Context()
	session, err := h.play.Open(ctx, game, userID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage{Type: "error", Error: err.Error()})
		return
	}
	id := session.ID()
	defer h.play.Close(context.WithoutCancel(ctx), id)

	updates, cancel := session.Subscribe()
	errs := make(chan string, 8)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for {
			var msg outboundMessage
			select {
			case state, ok := <-updates:
				if !ok {
					return
				}
				msg = outboundMessage{Type: "state", State: &state}
			case text := <-errs:
				msg = outboundMessage{Type: "error", Error: text}
			}
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug().Err(err).Str("session", id).Msg("ws write error")
				return
			}
		}
	}()

	report := func(err error) {
		if err == nil {
			return
		}
		select {
		case errs <- err.Error():
		default:
		}
	}

	_, err = h.play.Apply(ctx, id, app.Action{Type: app.ActionStart})
	report(err)

	for {
		var action app.Action
		if err := conn.ReadJSON(&action); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				log.Debug().Err(err).Str("session", id).Msg("ws read ended")
			}
			break
		}
		if action.Type == app.ActionStart {
			// the round starts on connect; a second start would restart it
			action.Type = app.ActionPlayAgain
		}
		_, err := h.play.Apply(ctx, id, action)
		report(err)
	}

	cancel()
	<-writerDone
}
