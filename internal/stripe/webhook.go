package stripe

import (
	"encoding/json"

	"github.com/go-faster/errors"
	stripego "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

var (
	// ErrInvalidSignature is returned when the event signature does not
	// verify against the configured webhook secret.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrMalformedEvent is returned for payloads that cannot be decoded.
	ErrMalformedEvent = errors.New("malformed webhook event")
)

// CompletedCheckout is the slice of a checkout.session.completed event the
// rest of the system cares about. Metadata is advisory; authoritative totals
// are re-derived from the database during finalization.
type CompletedCheckout struct {
	SessionID     string
	CustomerEmail string
	Metadata      map[string]string
}

// ParseEvent decodes a webhook payload. With a non-empty secret the signature
// header is verified and a mismatch is rejected; with an empty secret the
// payload is accepted unverified, which is only acceptable for local
// development. Events other than checkout.session.completed return
// (nil, nil) and should be acknowledged without further action.
func ParseEvent(payload []byte, sigHeader, secret string) (*CompletedCheckout, error) {
	var event stripego.Event
	if secret != "" {
		verified, err := webhook.ConstructEvent(payload, sigHeader, secret)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidSignature, err.Error())
		}
		event = verified
	} else if err := json.Unmarshal(payload, &event); err != nil {
		return nil, errors.Wrap(ErrMalformedEvent, err.Error())
	}

	if event.Type != stripego.EventTypeCheckoutSessionCompleted {
		return nil, nil
	}

	var session stripego.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, errors.Wrap(ErrMalformedEvent, err.Error())
	}

	email := session.CustomerEmail
	if email == "" && session.CustomerDetails != nil {
		email = session.CustomerDetails.Email
	}
	return &CompletedCheckout{
		SessionID:     session.ID,
		CustomerEmail: email,
		Metadata:      session.Metadata,
	}, nil
}
