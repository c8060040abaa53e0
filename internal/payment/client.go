package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Metadata travels with the session to the processor and comes back on the
// completion event, so the materializer can locate the originating cart
// without re-deriving it.
type Metadata struct {
	ShopperID string `json:"shopperId"`
	CartID    string `json:"cartId"`
}

type SessionLineItem struct {
	Name            string `json:"name"`
	UnitAmountCents int64  `json:"unitAmountCents"`
	Quantity        int    `json:"quantity"`
	Currency        string `json:"currency"`
}

type SessionRequest struct {
	ReferenceID string            `json:"referenceId"`
	LineItems   []SessionLineItem `json:"lineItems"`
	Metadata    Metadata          `json:"metadata"`
	SuccessURL  string            `json:"successUrl"`
	CancelURL   string            `json:"cancelUrl"`
}

// Session is the processor's hosted checkout handle.
type Session struct {
	ID          string `json:"id"`
	RedirectURL string `json:"url"`
}

// SessionCreator is what checkout needs from the processor.
type SessionCreator interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
}

// Client talks to the external payment processor over HTTP.
type Client struct {
	endpoint string
	apiKey   string
	httpc    *http.Client
	logger   *log.Logger
}

func NewClient(endpoint, apiKey string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpc:    &http.Client{Timeout: 15 * time.Second},
		logger:   logger,
	}
}

// CreateSession posts the frozen cart snapshot to the processor and returns
// the redirect reference. Nothing is reserved or mutated on our side; a
// timeout here needs no compensation.
func (c *Client) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	if req.ReferenceID == "" {
		req.ReferenceID = uuid.NewString()
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal session request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build session request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Printf("payment client: create session ref=%s status=%d", req.ReferenceID, resp.StatusCode)
		return nil, fmt.Errorf("create session: processor returned %d", resp.StatusCode)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decode session response: %w", err)
	}
	if session.RedirectURL == "" {
		return nil, fmt.Errorf("create session: processor returned no redirect url")
	}
	c.logger.Printf("payment client: session created ref=%s id=%s", req.ReferenceID, session.ID)
	return &session, nil
}
