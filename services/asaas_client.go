package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// CustomerDirectory resolves a provider-side customer ID to an email.
// The webhook handler treats it as best-effort: any error just leaves
// the buyer unresolved, it never fails the delivery.
type CustomerDirectory interface {
	CustomerEmail(ctx context.Context, customerID string) (string, error)
}

// AsaasClient looks customers up in the Asaas REST API. Asaas webhooks
// often reference the buyer only by customer ID, so this is the last
// resort for identifying who paid.
type AsaasClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewAsaasClient(baseURL, apiKey string) *AsaasClient {
	return &AsaasClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (c *AsaasClient) CustomerEmail(ctx context.Context, customerID string) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("asaas api key not configured")
	}

	url := fmt.Sprintf("%s/customers/%s", c.BaseURL, customerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("access_token", c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("asaas customer lookup returned %d", resp.StatusCode)
	}

	var out struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Email, nil
}
