package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Sarthak8822/Finance/internal/shared/models"
	"github.com/Sarthak8822/Finance/internal/shared/registry"
	"github.com/Sarthak8822/Finance/internal/shared/token"
)

const dateLayout = "2006-01-02"

// TransactionClient fetches ledger data from the transaction service for
// report building. Requests carry a self-issued service token since the
// transaction routes sit behind the shared auth gate.
type TransactionClient struct {
	registry *registry.Client
	tokens   *token.Service
	http     *http.Client
}

func NewTransactionClient(reg *registry.Client, tokens *token.Service) *TransactionClient {
	return &TransactionClient{
		registry: reg,
		tokens:   tokens,
		http:     &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *TransactionClient) ListByDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.Transaction, error) {
	base, err := c.registry.Resolve(ctx, "transaction-service")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve transaction-service: %w", err)
	}

	query := url.Values{}
	query.Set("startDate", start.Format(dateLayout))
	query.Set("endDate", end.Format(dateLayout))
	endpoint := fmt.Sprintf("%s/api/transactions/user/%s/date-range?%s", base, userID, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction request: %w", err)
	}
	if c.tokens != nil {
		signed, err := c.tokens.Issue("report-service")
		if err != nil {
			return nil, fmt.Errorf("failed to issue service token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+signed)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transaction service request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read transaction response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transaction service returned status %d: %s", resp.StatusCode, string(body))
	}

	var transactions []models.Transaction
	if err := json.Unmarshal(body, &transactions); err != nil {
		return nil, fmt.Errorf("unexpected transaction response: %w", err)
	}
	return transactions, nil
}
