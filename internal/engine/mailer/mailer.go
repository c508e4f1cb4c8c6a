// Package mailer delivers invitation emails. Delivery is
// fire-and-forget: the invite transaction never waits on SMTP and a
// delivery failure is logged, not returned.
package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog/log"
	"shortspace/internal/platform/config"
	"shortspace/internal/platform/models"
)

type Mailer interface {
	SendInvitation(inv *models.OrganizationInvitation, orgName, inviterName string)
}

func New(cfg config.EmailConfig, appDomain string) Mailer {
	if !cfg.Enabled {
		return &NoopMailer{}
	}
	return &SMTPMailer{cfg: cfg.SMTP, appDomain: appDomain}
}

type SMTPMailer struct {
	cfg       config.SMTPConfig
	appDomain string
}

func (m *SMTPMailer) SendInvitation(inv *models.OrganizationInvitation, orgName, inviterName string) {
	go func() {
		if err := m.deliver(inv, orgName, inviterName); err != nil {
			log.Warn().Err(err).
				Str("invitation_id", inv.ID).
				Str("organization_id", inv.OrganizationID).
				Msg("failed to send invitation email")
		}
	}()
}

func (m *SMTPMailer) deliver(inv *models.OrganizationInvitation, orgName, inviterName string) error {
	inviteURL := fmt.Sprintf("https://%s/invite/%s", m.appDomain, inv.Token)

	body := fmt.Sprintf(`Hello,

%s has invited you to join %s as a %s.

Click the link below to accept the invitation:
%s

This invitation will expire in 7 days.

If you don't have an account, you'll be able to create one when you click the link.
`, inviterName, orgName, inv.Role, inviteURL)

	msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: You've been invited to join %s\r\n\r\n%s",
		m.cfg.FromName, m.cfg.FromAddress, inv.Email, orgName, body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	return smtp.SendMail(addr, auth, m.cfg.FromAddress, []string{inv.Email}, []byte(msg))
}

// NoopMailer drops mail on the floor. Used when email is disabled and
// in tests.
type NoopMailer struct{}

func (m *NoopMailer) SendInvitation(inv *models.OrganizationInvitation, orgName, inviterName string) {
	log.Debug().Str("email", inv.Email).Str("organization", orgName).Msg("email disabled, skipping invitation mail")
}
