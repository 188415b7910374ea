package invites

import (
	"context"
	"strings"
	"testing"

	"github.com/sendgrid/rest"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type fakeSendClient struct {
	sent     []*sgmail.SGMailV3
	response *rest.Response
	err      error
}

func (f *fakeSendClient) Send(email *sgmail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, email)
	return f.response, f.err
}

func newTestMailer(client sendClient) *Mailer {
	return &Mailer{
		client:    client,
		fromEmail: "noreply@tinymealplanner.com",
		fromName:  "Tiny Meal Planner",
		baseURL:   "https://tinymealplanner.com",
	}
}

func TestBuildInviteEmail(t *testing.T) {
	message := BuildInviteEmail("friend@example.com", "Alice", "noreply@tinymealplanner.com", "Tiny Meal Planner", "https://tinymealplanner.com")

	if got := message.From.Address; got != "noreply@tinymealplanner.com" {
		t.Fatalf("unexpected from address %q", got)
	}
	if !strings.Contains(message.Subject, "Alice") {
		t.Fatalf("subject should name the inviter, got %q", message.Subject)
	}
	if len(message.Personalizations) != 1 || len(message.Personalizations[0].To) != 1 {
		t.Fatal("expected a single recipient")
	}
	if got := message.Personalizations[0].To[0].Address; got != "friend@example.com" {
		t.Fatalf("unexpected recipient %q", got)
	}
	for _, content := range message.Content {
		if !strings.Contains(content.Value, "https://tinymealplanner.com") {
			t.Fatalf("%s body missing link", content.Type)
		}
	}
}

func TestBuildInviteEmailAnonymousInviter(t *testing.T) {
	message := BuildInviteEmail("friend@example.com", "", "noreply@tinymealplanner.com", "Tiny Meal Planner", "https://tinymealplanner.com")
	if !strings.Contains(message.Subject, "A friend") {
		t.Fatalf("unexpected subject %q", message.Subject)
	}
}

func TestInviteReportsPerAddress(t *testing.T) {
	client := &fakeSendClient{response: &rest.Response{StatusCode: 202}}
	m := newTestMailer(client)

	results := m.Invite(context.Background(), "Alice", []string{"good@example.com", "not-an-address"})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Sent || results[0].Error != "" {
		t.Fatalf("expected first invite to send: %+v", results[0])
	}
	if results[1].Sent || results[1].Error == "" {
		t.Fatalf("expected second invite to fail validation: %+v", results[1])
	}
	if len(client.sent) != 1 {
		t.Fatalf("expected exactly one sendgrid call, got %d", len(client.sent))
	}
}

func TestInviteNonSuccessStatusIsFailure(t *testing.T) {
	client := &fakeSendClient{response: &rest.Response{StatusCode: 500, Body: "sendgrid internal error"}}
	m := newTestMailer(client)

	results := m.Invite(context.Background(), "Alice", []string{"good@example.com"})
	if results[0].Sent {
		t.Fatal("expected failure on non-2xx status")
	}
}

func TestInviteUnconfiguredMailer(t *testing.T) {
	m := newTestMailer(nil)
	results := m.Invite(context.Background(), "Alice", []string{"good@example.com"})
	if results[0].Sent {
		t.Fatal("expected failure when mail is not configured")
	}
}
