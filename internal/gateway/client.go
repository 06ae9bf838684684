// Package gateway talks to the payment-gateway backend API, the data
// source of record for every view. Responses arrive wrapped in an
// envelope whose payload sits under "data"; the client unwraps it and
// surfaces every transport, HTTP or decoding failure as a single
// uniform *Error so callers degrade to an empty view instead of
// branching on failure modes.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"paydash/internal/core"
)

// ErrNotFound marks a fetch for a record the gateway does not know.
var ErrNotFound = errors.New("record not found")

// Error is the uniform failure for any gateway fetch.
type Error struct {
	Op     string // endpoint path
	Status int    // HTTP status, 0 for transport failures
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("gateway %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Client is the HTTP adapter for the gateway API.
type Client struct {
	baseURL string
	hc      *http.Client
}

// NewClient validates the base URL and returns a ready client. The
// timeout bounds every individual fetch.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid gateway base URL %q", baseURL)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) ListPayments(ctx context.Context) ([]core.Transaction, error) {
	var out []core.Transaction
	if err := c.getJSON(ctx, "/payments/list", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListMerchants(ctx context.Context) ([]core.Merchant, error) {
	var out []core.Merchant
	if err := c.getJSON(ctx, "/merchants/list", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetMerchant(ctx context.Context, mchtCode string) (core.MerchantDetails, error) {
	var out core.MerchantDetails
	if err := c.getJSON(ctx, "/merchants/details/"+url.PathEscape(mchtCode), &out); err != nil {
		return core.MerchantDetails{}, err
	}
	return out, nil
}

func (c *Client) ListCodes(ctx context.Context, kind CodeKind) ([]core.CodeItem, error) {
	var out []core.CodeItem
	if err := c.getJSON(ctx, "/common/"+string(kind)+"/all", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// envelope is the wire wrapper common to every gateway response.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &Error{Op: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return &Error{Op: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &Error{Op: path, Status: resp.StatusCode, Err: ErrNotFound}
	}
	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &Error{Op: path, Status: resp.StatusCode, Err: errors.New("unexpected status")}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &Error{Op: path, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	if env.Data == nil {
		return &Error{Op: path, Err: errors.New("envelope missing data field")}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &Error{Op: path, Err: fmt.Errorf("decode payload: %w", err)}
	}
	return nil
}
