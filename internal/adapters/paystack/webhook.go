package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
)

// SignatureHeader carries the hex HMAC-SHA512 of the raw webhook body.
const SignatureHeader = "x-paystack-signature"

type webhookEvent struct {
	Event string          `json:"event"`
	Data  transactionData `json:"data"`
}

// VerifyWebhookSignature validates the HMAC-SHA512 signature Paystack puts on webhooks.
func (c *Client) VerifyWebhookSignature(payload []byte, signature string) bool {
	return VerifySignature(payload, signature, c.config.SecretKey)
}

// ParseChargeEvent decodes a webhook body. ok is false for events other than charge.success.
func (c *Client) ParseChargeEvent(payload []byte) (*domain.PaymentCharge, bool, error) {
	var evt webhookEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, false, fmt.Errorf("failed to decode paystack webhook: %w", err)
	}
	if evt.Event != EventChargeSuccess {
		return nil, false, nil
	}
	return evt.Data.toCharge(), true, nil
}

// VerifySignature reports whether signature is the hex HMAC-SHA512 of payload under secretKey.
func VerifySignature(payload []byte, signature string, secretKey string) bool {
	if secretKey == "" || signature == "" {
		return false
	}
	given, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(given, sign(payload, secretKey))
}

// GenerateSignature creates the signature Paystack would send, for tests and local tooling.
func GenerateSignature(payload []byte, secretKey string) string {
	if secretKey == "" {
		return ""
	}
	return hex.EncodeToString(sign(payload, secretKey))
}

func sign(payload []byte, secretKey string) []byte {
	h := hmac.New(sha512.New, []byte(secretKey))
	h.Write(payload)
	return h.Sum(nil)
}
