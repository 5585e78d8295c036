package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
)

// InviteMail is everything an outbound invite notification needs. The raw
// token appears here and nowhere else outside the create response.
type InviteMail struct {
	Email     string
	OrgName   string
	Role      domain.Role
	Token     string
	ExpiresAt time.Time
}

// Mailer delivers invite notifications. Delivery failures do not roll the
// invite back; the token is still returned to the inviter.
type Mailer interface {
	SendInvite(ctx context.Context, mail InviteMail) error
}

// LogMailer writes would-be emails to the log. It is the default in
// development and when no mail provider is configured. The token itself is
// never logged.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) SendInvite(ctx context.Context, mail InviteMail) error {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "invite mail (not sent, no mail provider)",
		"email", mail.Email,
		"org", mail.OrgName,
		"role", mail.Role,
		"expires_at", mail.ExpiresAt,
	)
	return nil
}
