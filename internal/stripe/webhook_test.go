package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripego "github.com/stripe/stripe-go/v79"
)

func completedPayload() []byte {
	return []byte(fmt.Sprintf(`{
		"type": "checkout.session.completed",
		"api_version": %q,
		"data": {
			"object": {
				"id": "cs_test_abc",
				"customer_email": "alice@gmail.com",
				"metadata": {"subtotal": "390000", "discount": "0"}
			}
		}
	}`, stripego.APIVersion))
}

// signPayload builds a Stripe-Signature header the way the provider does.
func signPayload(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestParseEventUnverified(t *testing.T) {
	done, err := ParseEvent(completedPayload(), "", "")
	require.NoError(t, err)
	require.NotNil(t, done)
	assert.Equal(t, "cs_test_abc", done.SessionID)
	assert.Equal(t, "alice@gmail.com", done.CustomerEmail)
	assert.Equal(t, "390000", done.Metadata["subtotal"])
}

func TestParseEventVerified(t *testing.T) {
	const secret = "whsec_test"
	payload := completedPayload()

	done, err := ParseEvent(payload, signPayload(payload, secret), secret)
	require.NoError(t, err)
	require.NotNil(t, done)
	assert.Equal(t, "cs_test_abc", done.SessionID)
}

func TestParseEventBadSignature(t *testing.T) {
	payload := completedPayload()

	_, err := ParseEvent(payload, signPayload(payload, "whsec_other"), "whsec_test")
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestParseEventIgnoresOtherTypes(t *testing.T) {
	payload := []byte(`{"type": "payment_intent.created", "data": {"object": {}}}`)

	done, err := ParseEvent(payload, "", "")
	require.NoError(t, err)
	assert.Nil(t, done)
}

func TestParseEventMalformed(t *testing.T) {
	_, err := ParseEvent([]byte("{not json"), "", "")
	require.ErrorIs(t, err, ErrMalformedEvent)
}
