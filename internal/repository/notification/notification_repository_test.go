//go:build !integration

package notification

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dreamKeys/pkg/config"
)

func TestSendEmailPostsMailjetPayload(t *testing.T) {
	var got payloadSendEmail
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3.1/send" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	repo := NewMailjetRepository(config.MailjetConfig{
		MailjetBaseUrl:           srv.URL,
		MailjetBasicAuthUsername: "key",
		MailjetBasicAuthPassword: "secret",
		MailjetSenderEmail:       "noreply@dreamkeys.test",
		MailjetSenderName:        "DreamKeys",
	})

	if err := repo.SendEmail("Agent", "agent@example.com", "New offer", "Buyer offered <500>"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if auth != "Basic a2V5OnNlY3JldA==" {
		t.Fatalf("unexpected authorization header %q", auth)
	}
	if len(got.Messages) != 1 || got.Messages[0].To[0].Email != "agent@example.com" {
		t.Fatalf("unexpected payload %+v", got)
	}
	if got.Messages[0].HTMLPart != "<p>Buyer offered &lt;500&gt;</p>" {
		t.Fatalf("expected escaped html part, got %q", got.Messages[0].HTMLPart)
	}
}

func TestSendEmailReportsNegativeResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	repo := NewMailjetRepository(config.MailjetConfig{
		MailjetBaseUrl:     srv.URL,
		MailjetSenderEmail: "noreply@dreamkeys.test",
	})

	if err := repo.SendEmail("Buyer", "buyer@example.com", "subject", "body"); err == nil {
		t.Fatal("expected an error for a 401 response")
	}
}

func TestSendEmailSkipsWhenUnconfigured(t *testing.T) {
	repo := NewMailjetRepository(config.MailjetConfig{})

	if err := repo.SendEmail("Buyer", "buyer@example.com", "subject", "body"); err != nil {
		t.Fatalf("expected unconfigured mailer to be a no-op, got %v", err)
	}
}
