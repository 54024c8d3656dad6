package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"game-board-api/internal/metrics"
)

// AuthClient validates bearer tokens against the auth service, which also
// knows about blacklisted (logged-out) tokens
type AuthClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewAuthClient creates a new auth service client
func NewAuthClient(baseURL string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *AuthClient {
	return &AuthClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: m,
	}
}

type validateTokenResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"userId"`
}

// ValidateToken asks the auth service whether the token is valid and returns
// the authenticated user ID
func (c *AuthClient) ValidateToken(ctx context.Context, tokenStr string) (uuid.UUID, error) {
	endpoint := c.baseURL + "/api/auth/validate"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to build validate request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tokenStr)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.RecordExternalAPICall(endpoint, http.MethodPost, statusCode, duration, err)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("auth service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return uuid.Nil, fmt.Errorf("token validation failed with status %d", resp.StatusCode)
	}

	var body validateTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return uuid.Nil, fmt.Errorf("failed to decode validate response: %w", err)
	}
	if !body.Valid {
		return uuid.Nil, fmt.Errorf("token rejected by auth service")
	}

	userID, err := uuid.Parse(body.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("auth service returned invalid user ID: %w", err)
	}
	return userID, nil
}
