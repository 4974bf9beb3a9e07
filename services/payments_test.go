package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"
)

// signPayload builds a Stripe-Signature header the same way Stripe does.
func signPayload(secret string, payload []byte, at time.Time) string {
	ts := at.Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

const completedEvent = `{
  "id": "evt_1",
  "object": "event",
  "type": "checkout.session.completed",
  "data": {"object": {"id": "cs_test_123", "object": "checkout.session"}}
}`

func TestStripeWebhookVerifierAcceptsSignedEvent(t *testing.T) {
	v := NewStripeWebhookVerifier("whsec_test")
	payload := []byte(completedEvent)

	ev, err := v.Verify(payload, signPayload("whsec_test", payload, time.Now()))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ev.Type != EventCheckoutCompleted || ev.SessionID != "cs_test_123" || ev.ID != "evt_1" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestStripeWebhookVerifierRejects(t *testing.T) {
	payload := []byte(completedEvent)
	cases := map[string]struct {
		secret string
		header string
	}{
		"wrong secret": {"whsec_test", signPayload("whsec_other", payload, time.Now())},
		"stale":        {"whsec_test", signPayload("whsec_test", payload, time.Now().Add(-time.Hour))},
		"empty header": {"whsec_test", ""},
		"no secret":    {"", signPayload("", payload, time.Now())},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewStripeWebhookVerifier(tc.secret).Verify(payload, tc.header)
			if !errors.Is(err, ErrBadSignature) {
				t.Fatalf("expected ErrBadSignature, got %v", err)
			}
		})
	}
}

func TestStripeWebhookVerifierOtherEventTypes(t *testing.T) {
	payload := []byte(`{"id":"evt_2","object":"event","type":"payment_intent.created","data":{"object":{"id":"pi_1"}}}`)
	ev, err := NewStripeWebhookVerifier("whsec_test").Verify(payload, signPayload("whsec_test", payload, time.Now()))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ev.Type != "payment_intent.created" || ev.SessionID != "" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}
