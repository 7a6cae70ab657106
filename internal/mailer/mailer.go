package mailer

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"
)

// Sender delivers notification emails. Email is best-effort on top of the
// stored notification, never a replacement for it.
//
//go:generate mockgen -source=mailer.go -destination=mock/mailer_mock.go -package=mock
type Sender interface {
	SendLeaveRequested(ctx context.Context, toEmail, headName, employeeName, leaveType, startDate, endDate string) error
	SendLeaveDecided(ctx context.Context, toEmail, employeeName, status string) error
}

type sender struct {
	client    *resend.Client
	fromEmail string
}

func NewSender(apiKey, fromEmail string) Sender {
	return &sender{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
	}
}

func (s *sender) send(ctx context.Context, toEmail, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("HRMS <%s>", s.fromEmail),
		To:      []string{toEmail},
		Html:    html,
		Subject: subject,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	return err
}

func (s *sender) SendLeaveRequested(ctx context.Context, toEmail, headName, employeeName, leaveType, startDate, endDate string) error {
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>%s filed a %s leave request for %s to %s. It is waiting for your decision.</p>",
		headName, employeeName, leaveType, startDate, endDate,
	)
	return s.send(ctx, toEmail, "New leave request awaiting your decision", html)
}

func (s *sender) SendLeaveDecided(ctx context.Context, toEmail, employeeName, status string) error {
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your leave request has been %s.</p>",
		employeeName, status,
	)
	return s.send(ctx, toEmail, fmt.Sprintf("Your leave request was %s", status), html)
}
