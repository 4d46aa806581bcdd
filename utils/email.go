package utils

import (
	"fmt"

	"github.com/keighl/postmark"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
	sender string
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService(apiToken, sender string) *EmailService {
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
		sender: sender,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// NotifyStatusChange tells the event contact about a moderation decision
func (es *EmailService) NotifyStatusChange(toEmail, eventName, status, reason string) error {
	return es.SendEmail(toEmail, "Event "+status, StatusMessage(eventName, status, reason))
}

// StatusMessage renders the body of a moderation notification
func StatusMessage(eventName, status, reason string) string {
	msg := fmt.Sprintf("Your event %s was %s.", eventName, status)
	if reason != "" {
		msg += " Reason: " + reason
	}
	return msg
}
