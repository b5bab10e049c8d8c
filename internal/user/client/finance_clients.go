package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Sarthak8822/Finance/internal/shared/registry"
	"github.com/Sarthak8822/Finance/internal/shared/token"
)

const requestTimeout = 5 * time.Second

// serviceClient is the shared plumbing for calling a sibling service over
// HTTP. Base URLs come from the registry, with a configured fallback when
// the registry itself is down. Sibling services gate their routes on the
// shared signing key, so each request carries a self-issued token.
type serviceClient struct {
	name     string
	registry *registry.Client
	tokens   *token.Service
	http     *http.Client
}

func newServiceClient(name string, reg *registry.Client, tokens *token.Service) *serviceClient {
	return &serviceClient{
		name:     name,
		registry: reg,
		tokens:   tokens,
		http:     &http.Client{Timeout: requestTimeout},
	}
}

// TransactionClient talks to the transaction service. It implements the
// erasure surface the cascade delete needs.
type TransactionClient struct {
	*serviceClient
}

func NewTransactionClient(reg *registry.Client, tokens *token.Service) *TransactionClient {
	return &TransactionClient{serviceClient: newServiceClient("transaction-service", reg, tokens)}
}

func (c *TransactionClient) CountByUser(ctx context.Context, userID string) (int64, error) {
	return c.countRecords(ctx, "/api/transactions/user/"+userID)
}

func (c *TransactionClient) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	return c.deleteAll(ctx, "/api/transactions/user/"+userID+"/all")
}

// BudgetClient talks to the budget service.
type BudgetClient struct {
	*serviceClient
}

func NewBudgetClient(reg *registry.Client, tokens *token.Service) *BudgetClient {
	return &BudgetClient{serviceClient: newServiceClient("budget-service", reg, tokens)}
}

func (c *BudgetClient) CountByUser(ctx context.Context, userID string) (int64, error) {
	return c.countRecords(ctx, "/api/budgets/user/"+userID)
}

func (c *BudgetClient) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	return c.deleteAll(ctx, "/api/budgets/user/"+userID+"/all")
}

// countRecords fetches the user's records and counts them. The services
// expose list endpoints rather than dedicated counts, and cascade volumes
// are small enough that fetching the list is fine.
func (c *serviceClient) countRecords(ctx context.Context, path string) (int64, error) {
	body, err := c.do(ctx, http.MethodGet, path)
	if err != nil {
		return 0, err
	}

	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		return 0, fmt.Errorf("%s: unexpected list response: %w", c.name, err)
	}
	return int64(len(records)), nil
}

func (c *serviceClient) deleteAll(ctx context.Context, path string) (int64, error) {
	body, err := c.do(ctx, http.MethodDelete, path)
	if err != nil {
		return 0, err
	}

	var resp struct {
		DeletedCount int64 `json:"deletedCount"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("%s: unexpected delete response: %w", c.name, err)
	}
	return resp.DeletedCount, nil
}

func (c *serviceClient) do(ctx context.Context, method, path string) ([]byte, error) {
	base, err := c.registry.Resolve(ctx, c.name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", c.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", c.name, err)
	}
	if c.tokens != nil {
		signed, err := c.tokens.Issue("user-service")
		if err != nil {
			return nil, fmt.Errorf("failed to issue service token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+signed)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", c.name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s returned status %d: %s", c.name, resp.StatusCode, string(body))
	}
	return body, nil
}
