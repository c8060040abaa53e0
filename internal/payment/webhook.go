package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// EventTypeCompleted is the only event type the pipeline acts on.
const EventTypeCompleted = "checkout.completed"

var (
	// ErrBadSignature indicates the webhook body does not match its signature header.
	ErrBadSignature = errors.New("webhook signature mismatch")
	// ErrMalformedEvent indicates a payload that does not match the expected
	// completion event shape. Such events are rejected, never best-effort parsed.
	ErrMalformedEvent = errors.New("malformed webhook event")
)

// CompletedEvent is the narrow, validated internal form of the processor's
// "checkout completed" notification.
type CompletedEvent struct {
	TransactionRef string
	ShopperID      string
	CartID         string
	AmountCents    int64
	Currency       string
}

type webhookEnvelope struct {
	Type string           `json:"type"`
	Data webhookEventData `json:"data"`
}

type webhookEventData struct {
	TransactionRef string   `json:"transactionRef"`
	AmountCents    int64    `json:"amountCents"`
	Currency       string   `json:"currency"`
	Metadata       Metadata `json:"metadata"`
}

// VerifySignature checks the hex-encoded HMAC-SHA256 of the raw body against
// the shared webhook secret. The comparison is constant time.
func VerifySignature(body []byte, signatureHex, secret string) error {
	sig, err := hex.DecodeString(signatureHex)
	if err != nil {
		return ErrBadSignature
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return ErrBadSignature
	}
	return nil
}

// ParseCompletedEvent decodes and validates a completion event. Any missing
// field, unexpected type, or non-positive amount is rejected outright.
func ParseCompletedEvent(body []byte) (*CompletedEvent, error) {
	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if env.Type != EventTypeCompleted {
		return nil, fmt.Errorf("%w: unexpected type %q", ErrMalformedEvent, env.Type)
	}
	d := env.Data
	switch {
	case d.TransactionRef == "":
		return nil, fmt.Errorf("%w: missing transactionRef", ErrMalformedEvent)
	case d.Metadata.ShopperID == "":
		return nil, fmt.Errorf("%w: missing metadata.shopperId", ErrMalformedEvent)
	case d.Metadata.CartID == "":
		return nil, fmt.Errorf("%w: missing metadata.cartId", ErrMalformedEvent)
	case d.AmountCents <= 0:
		return nil, fmt.Errorf("%w: non-positive amount", ErrMalformedEvent)
	case d.Currency == "":
		return nil, fmt.Errorf("%w: missing currency", ErrMalformedEvent)
	}
	return &CompletedEvent{
		TransactionRef: d.TransactionRef,
		ShopperID:      d.Metadata.ShopperID,
		CartID:         d.Metadata.CartID,
		AmountCents:    d.AmountCents,
		Currency:       d.Currency,
	}, nil
}
