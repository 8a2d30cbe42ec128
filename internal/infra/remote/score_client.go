package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"sanskrit-quiz-service/internal/app"
	"sanskrit-quiz-service/internal/domain"
)

// ScoreClient reports scores to the backend. It implements app.ScoreReporter.
type ScoreClient struct {
	client *Client
	creds  app.Credentials
}

func NewScoreClient(client *Client, creds app.Credentials) *ScoreClient {
	return &ScoreClient{client: client, creds: creds}
}

// ReportDelta fails fast with domain.ErrAuth when no credential is stored.
func (s *ScoreClient) ReportDelta(ctx context.Context, amount int) (int, error) {
	const op = "update score"
	token, ok := "", false
	if s.creds != nil {
		token, ok = s.creds.Token()
	}
	if !ok {
		return 0, domain.ErrAuth
	}

	status, data, err := s.client.call(ctx, op, http.MethodPost, "/api/update-score", token, domain.ScoreUpdateRequest{Score: &amount})
	if err != nil {
		return 0, err
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return 0, domain.ErrAuth
	case status < 200 || status > 299:
		return 0, &domain.TransportError{Op: op, Status: status}
	}

	var resp domain.ScoreUpdateResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return 0, &domain.TransportError{Op: op, Status: status, Err: fmt.Errorf("decode response: %w", err)}
	}
	return resp.Score, nil
}

// ReportFinal posts the total of a finished round.
func (s *ScoreClient) ReportFinal(ctx context.Context, userID string, total int) error {
	const op = "save score"
	status, _, err := s.client.call(ctx, op, http.MethodPost, "/api/save-score", "", domain.SaveScoreRequest{UserID: domain.Code(userID), Score: &total})
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return &domain.TransportError{Op: op, Status: status}
	}
	return nil
}
