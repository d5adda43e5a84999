package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// EmailSender delivers reminders by email through Resend.
type EmailSender struct {
	client    *resend.Client
	fromEmail string
	toEmail   string
	appName   string
	isDev     bool
}

func NewEmailSender(apiKey, fromEmail, toEmail, appName string, isDev bool) *EmailSender {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailSender{
		client:    client,
		fromEmail: fromEmail,
		toEmail:   toEmail,
		appName:   appName,
		isDev:     isDev,
	}
}

func (s *EmailSender) Send(ctx context.Context, title, body string) error {
	subject, text := reminderEmailTemplate(title, body, s.appName)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "reminder", "to", s.toEmail, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email sender not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{s.toEmail},
		Subject: subject,
		Text:    text,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send reminder email: %w", err)
	}
	slog.Info("email sent", "type", "reminder", "to", s.toEmail)
	return nil
}
