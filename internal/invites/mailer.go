package invites

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"tinymeal/internal/config"
)

type sendClient interface {
	Send(email *sgmail.SGMailV3) (*rest.Response, error)
}

// Mailer sends invite emails through SendGrid. Each address is attempted
// independently so one bounce doesn't fail the batch.
type Mailer struct {
	client    sendClient
	fromEmail string
	fromName  string
	baseURL   string
}

func NewMailer(cfg *config.Config) *Mailer {
	var client sendClient
	if cfg.Mail.Enabled() {
		client = sendgrid.NewSendClient(cfg.Mail.SendGridKey)
	}
	return &Mailer{
		client:    client,
		fromEmail: cfg.Mail.FromEmail,
		fromName:  cfg.Mail.FromName,
		baseURL:   cfg.Share.BaseURL,
	}
}

// Result reports the outcome for one recipient.
type Result struct {
	Email string `json:"email"`
	Sent  bool   `json:"sent"`
	Error string `json:"error,omitempty"`
}

// Invite sends one invite per address and reports per-address outcomes.
func (m *Mailer) Invite(ctx context.Context, inviterName string, emails []string) []Result {
	results := make([]Result, 0, len(emails))
	for _, email := range emails {
		result := Result{Email: email}
		if err := m.sendOne(ctx, inviterName, email); err != nil {
			slog.WarnContext(ctx, "failed to send invite", "email", email, "error", err)
			result.Error = err.Error()
		} else {
			result.Sent = true
		}
		results = append(results, result)
	}
	return results
}

func (m *Mailer) sendOne(ctx context.Context, inviterName, email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email address")
	}
	if m.client == nil {
		return fmt.Errorf("mail delivery is not configured")
	}

	message := BuildInviteEmail(email, inviterName, m.fromEmail, m.fromName, m.baseURL)
	response, err := m.client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}
	slog.InfoContext(ctx, "sent invite", "email", email, "status", response.StatusCode)
	return nil
}
