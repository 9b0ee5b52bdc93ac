package display

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"

	"github.com/elliemck/boba-pos/internal/domain/kitchen"
)

// HTTPClient talks to the kitchen endpoints of a running API server.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient creates a client against baseURL, e.g. "http://localhost:3000".
func NewHTTPClient(baseURL string, client *http.Client) *HTTPClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{baseURL: baseURL, http: client}
}

// FetchTickets reads the current board.
func (c *HTTPClient) FetchTickets(ctx context.Context) ([]kitchen.Ticket, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/kitchen/orders", nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch tickets")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrap(statusError(resp), "fetch tickets")
	}

	var tickets []kitchen.Ticket
	if err := json.NewDecoder(resp.Body).Decode(&tickets); err != nil {
		return nil, errors.Wrap(err, "decode tickets")
	}
	return tickets, nil
}

// Advance moves one order to the given status.
func (c *HTTPClient) Advance(ctx context.Context, orderID int64, status kitchen.Status) error {
	body, err := json.Marshal(map[string]string{"status": string(status)})
	if err != nil {
		return errors.Wrap(err, "encode status")
	}

	url := fmt.Sprintf("%s/api/kitchen/orders/%d/status", c.baseURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "update status")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Wrap(statusError(resp), "update status")
	}
	return nil
}

// Bump removes one order from the board.
func (c *HTTPClient) Bump(ctx context.Context, orderID int64) error {
	url := fmt.Sprintf("%s/api/kitchen/orders/%d", c.baseURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "bump order")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return errors.Wrap(statusError(resp), "bump order")
	}
	return nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.Errorf("unexpected status %d", resp.StatusCode)
	}
	return errors.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
}
