// Package webhook is the trust boundary for payment provider callbacks.
// It decides whether a delivery is authentic, maps each provider's
// status vocabulary onto the internal four-valued status, and digs the
// buyer identity out of whichever corner of the payload the provider
// chose to put it in. Everything here is a pure function over the raw
// request; persistence and plan updates live in the payment service.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Internal payment status. Anything unrecognized degrades to PENDING so
// a garbled payload can never grant premium access.
const (
	StatusApproved = "APPROVED"
	StatusRefunded = "REFUNDED"
	StatusCanceled = "CANCELED"
	StatusPending  = "PENDING"
)

const (
	ProviderAsaas       = "asaas"
	ProviderMercadoPago = "mercadopago"
)

// Secrets carries the per-provider credentials used to authenticate
// deliveries. Passed in explicitly so the package stays testable without
// touching the environment.
type Secrets struct {
	// AsaasToken is compared verbatim against the asaas-access-token header.
	AsaasToken string
	// AsaasAllowUnverified opts into accepting asaas deliveries when no
	// token is configured. Off by default: an unset token rejects
	// everything rather than silently trusting the network.
	AsaasAllowUnverified bool
	// MercadoPagoSecret signs mercadopago deliveries; falls back to
	// GenericSecret when empty.
	MercadoPagoSecret string
	// GenericSecret signs every other provider's deliveries.
	GenericSecret string
}

// VerifySignature checks an HMAC-SHA256 hex signature over the exact raw
// body bytes. The comparison is constant-time; re-serialized JSON must
// never be used here because the digest is sensitive to the original
// byte representation.
func VerifySignature(rawBody []byte, signature, secret string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	digest := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(digest), []byte(signature))
}

// ValidateRequest authenticates one delivery. headerGet abstracts the
// request header lookup (fiber's c.Get in production).
func ValidateRequest(provider string, headerGet func(string) string, rawBody []byte, secrets Secrets) bool {
	switch provider {
	case ProviderAsaas:
		if secrets.AsaasToken == "" {
			return secrets.AsaasAllowUnverified
		}
		token := headerGet("asaas-access-token")
		if token == "" {
			token = headerGet("x-asaas-access-token")
		}
		return token == secrets.AsaasToken

	case ProviderMercadoPago:
		secret := secrets.MercadoPagoSecret
		if secret == "" {
			secret = secrets.GenericSecret
		}
		return VerifySignature(rawBody, headerGet("x-signature"), secret)

	default:
		signature := headerGet("x-signature")
		if signature == "" {
			signature = headerGet("x-hotmart-hottok")
		}
		return VerifySignature(rawBody, signature, secrets.GenericSecret)
	}
}

// NormalizeStatus classifies the delivery into the internal status enum.
// Matching is substring-based because providers embed the interesting
// word inside longer event names (PAYMENT_RECEIVED, payment.updated...).
func NormalizeStatus(provider string, payload map[string]any) string {
	raw := firstNonEmpty(
		str(payload["status"]),
		str(payload["event"]),
		str(payload["action"]),
		dig(payload, "data", "status"),
		dig(payload, "payment", "status"),
		dig(payload, "payment", "billingType"),
	)
	if raw == "" {
		return StatusPending
	}
	value := strings.ToUpper(raw)

	switch provider {
	case ProviderAsaas:
		switch {
		case strings.Contains(value, "RECEIVED"), strings.Contains(value, "CONFIRMED"):
			return StatusApproved
		case strings.Contains(value, "REFUND"), strings.Contains(value, "CHARGEBACK"):
			return StatusRefunded
		case strings.Contains(value, "DELETED"), strings.Contains(value, "CANCEL"):
			return StatusCanceled
		}
		return StatusPending

	case ProviderMercadoPago:
		switch {
		case strings.Contains(value, "APPROV"):
			return StatusApproved
		case strings.Contains(value, "REFUND"), strings.Contains(value, "CHARGEBACK"):
			return StatusRefunded
		case strings.Contains(value, "CANCEL"), strings.Contains(value, "REJECT"):
			return StatusCanceled
		}
		return StatusPending

	default:
		switch {
		case strings.Contains(value, "APPROV"), strings.Contains(value, "PAID"):
			return StatusApproved
		case strings.Contains(value, "REFUND"), strings.Contains(value, "CHARGEBACK"):
			return StatusRefunded
		case strings.Contains(value, "CANCEL"):
			return StatusCanceled
		}
		return StatusPending
	}
}

// ResolveBuyerEmail probes the known payload locations for the buyer's
// email, in a fixed order. Returns "" when nothing is present; callers
// may then fall back to a provider customer lookup.
func ResolveBuyerEmail(payload map[string]any) string {
	return NormalizeEmail(firstNonEmpty(
		str(payload["email"]),
		dig(payload, "buyer", "email"),
		dig(payload, "customer", "email"),
		dig(payload, "payment", "customer", "email"),
		dig(payload, "data", "buyer", "email"),
		dig(payload, "data", "customer", "email"),
	))
}

// AsaasCustomerID extracts the opaque customer reference asaas sends
// instead of an email. The field is either a bare ID string or an object
// carrying an id.
func AsaasCustomerID(payload map[string]any) string {
	for _, candidate := range []any{
		lookup(payload, "payment", "customer"),
		payload["customer"],
		lookup(payload, "data", "customer"),
	} {
		switch v := candidate.(type) {
		case string:
			if v != "" {
				return v
			}
		case map[string]any:
			if id := str(v["id"]); id != "" {
				return id
			}
		}
	}
	return ""
}

// NormalizeEmail trims and lower-cases; "" stays "".
func NormalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// dig walks nested maps and stringifies the leaf; "" on any miss.
func dig(payload map[string]any, path ...string) string {
	return str(lookup(payload, path...))
}

func lookup(payload map[string]any, path ...string) any {
	var current any = payload
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[key]
	}
	return current
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
