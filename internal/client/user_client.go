package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"game-board-api/internal/metrics"
)

// UserClient resolves user IDs to display names through the user service
type UserClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewUserClient creates a new user service client
func NewUserClient(baseURL string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *UserClient {
	return &UserClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: m,
	}
}

type batchUsersRequest struct {
	UserIDs []uuid.UUID `json:"userIds"`
}

type batchUsersResponse struct {
	Users []struct {
		ID   uuid.UUID `json:"id"`
		Name string    `json:"name"`
	} `json:"users"`
}

// DisplayNames fetches display names for a batch of user IDs. Callers treat
// the result as best effort; rosters fall back to bare IDs on failure.
func (c *UserClient) DisplayNames(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	if len(userIDs) == 0 {
		return map[uuid.UUID]string{}, nil
	}

	endpoint := c.baseURL + "/api/users/batch"

	payload, err := json.Marshal(batchUsersRequest{UserIDs: userIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build batch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

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
		return nil, fmt.Errorf("user service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("batch user lookup failed with status %d", resp.StatusCode)
	}

	var body batchUsersResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode batch response: %w", err)
	}

	names := make(map[uuid.UUID]string, len(body.Users))
	for _, u := range body.Users {
		names[u.ID] = u.Name
	}
	return names, nil
}
