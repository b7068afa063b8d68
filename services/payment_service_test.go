package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubDirectory struct {
	email string
	err   error
	calls []string
}

func (d *stubDirectory) CustomerEmail(_ context.Context, customerID string) (string, error) {
	d.calls = append(d.calls, customerID)
	return d.email, d.err
}

func TestLookupCustomerEmailNormalizes(t *testing.T) {
	dir := &stubDirectory{email: "  Buyer@Example.COM "}
	s := &PaymentService{Directory: dir}

	got := s.lookupCustomerEmail(context.Background(), "cus_1")
	if got != "buyer@example.com" {
		t.Fatalf("lookup returned %q", got)
	}
	if len(dir.calls) != 1 || dir.calls[0] != "cus_1" {
		t.Fatalf("unexpected directory calls: %v", dir.calls)
	}
}

func TestLookupCustomerEmailDegradesToUnresolved(t *testing.T) {
	s := &PaymentService{Directory: &stubDirectory{err: errors.New("upstream down")}}
	if got := s.lookupCustomerEmail(context.Background(), "cus_1"); got != "" {
		t.Fatalf("expected unresolved, got %q", got)
	}

	// no directory wired at all behaves the same
	s = &PaymentService{}
	if got := s.lookupCustomerEmail(context.Background(), "cus_1"); got != "" {
		t.Fatalf("nil directory should resolve to %q, got %q", "", got)
	}
}

func TestAsaasClientCustomerEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/customers/cus_42" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("access_token") != "key-123" {
			t.Fatalf("missing access_token header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cus_42","email":"student@example.com"}`))
	}))
	defer srv.Close()

	client := NewAsaasClient(srv.URL, "key-123")
	email, err := client.CustomerEmail(context.Background(), "cus_42")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if email != "student@example.com" {
		t.Fatalf("email = %q", email)
	}
}

func TestAsaasClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewAsaasClient(srv.URL, "key-123")
	if _, err := client.CustomerEmail(context.Background(), "cus_missing"); err == nil {
		t.Fatal("expected error on 404")
	}

	// unconfigured key short-circuits without a request
	client = NewAsaasClient(srv.URL, "")
	if _, err := client.CustomerEmail(context.Background(), "cus_1"); err == nil {
		t.Fatal("expected error without api key")
	}
}
