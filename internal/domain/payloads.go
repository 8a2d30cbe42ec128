package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// TensePayload is the body of GET /api/get-tense-question.
type TensePayload struct {
	Sentence    string `json:"sentence"`
	Tense       string `json:"tense"`
	Explanation string `json:"explanation"`
	Error       string `json:"error,omitempty"`
}

// VerbPayload is the body of GET /api/get-game.
type VerbPayload struct {
	Sentence    string   `json:"sentence"`
	Correct     string   `json:"correct"`
	Options     []string `json:"options"`
	Hint        string   `json:"hint"`
	Explanation string   `json:"explanation"`
	Error       string   `json:"error,omitempty"`
}

// NumberPayload is the body of GET /api/get-number-game.
type NumberPayload struct {
	Subject struct {
		Form   string `json:"form"`
		Person Code   `json:"person"`
		Number Code   `json:"number"`
	} `json:"subject"`
	Verb struct {
		Form string `json:"form"`
	} `json:"verb"`
	Error string `json:"error,omitempty"`
}

// Code is a grammatical code that may arrive as a JSON string or number.
type Code string

func (c *Code) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Code(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*c = Code(strconv.FormatInt(i, 10))
		return nil
	}
	*c = Code(n.String())
	return nil
}

// ScoreUpdateRequest is the body of POST /api/update-score.
type ScoreUpdateRequest struct {
	Score *int `json:"score" validate:"required"`
}

// ScoreUpdateResponse is the reply of POST /api/update-score.
type ScoreUpdateResponse struct {
	Message string `json:"message,omitempty"`
	Score   int    `json:"score"`
}

// SaveScoreRequest is the body of POST /api/save-score.
type SaveScoreRequest struct {
	UserID Code `json:"user_id" validate:"required"`
	Score  *int `json:"score" validate:"required"`
}

// MessageResponse is the generic {"message": ...} reply.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the generic {"error": ...} reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
