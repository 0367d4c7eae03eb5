package service

import (
	"context"
	"fmt"
	"html"
	"net/url"

	"collab-deck-backend/internal/config"
	"collab-deck-backend/internal/domain"
	"collab-deck-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"
)

const (
	ProviderSendGrid = "sendgrid"
	ProviderSMTP     = "smtp"

	DeliveryErrorNoConfig   = "no-email-config"
	DeliveryErrorSMTPFailed = "smtp-failed"
)

type EmailMessage struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type EmailAddress struct {
	Address string
	Name    string
}

// DeliveryResult reports how Send went. Failures are encoded here rather than
// returned as errors.
type DeliveryResult struct {
	Success  bool   `json:"success"`
	Provider string `json:"provider,omitempty"`
	Result   any    `json:"result,omitempty"`
	Error    string `json:"error,omitempty"`
	Details  string `json:"details,omitempty"`
}

// EmailProvider delivers one message through a single outbound channel.
type EmailProvider interface {
	Name() string
	Deliver(ctx context.Context, from EmailAddress, msg EmailMessage) (any, error)
}

type emailSender struct {
	primary  EmailProvider
	fallback EmailProvider
	from     EmailAddress
}

// NewEmailSender wires SendGrid when an API key is configured and SMTP when
// all four SMTP settings are present. Either may be absent.
func NewEmailSender(cfg *config.Config) EmailSender {
	var primary, fallback EmailProvider
	if cfg.SendGrid.APIKey != "" {
		primary = NewSendGridProvider(cfg.SendGrid.APIKey)
	}
	if cfg.SMTP.Complete() {
		fallback = NewSMTPProvider(cfg.SMTP)
	}
	return NewEmailSenderWithProviders(primary, fallback, EmailAddress{Address: cfg.Email.From, Name: cfg.Email.FromName})
}

func NewEmailSenderWithProviders(primary, fallback EmailProvider, from EmailAddress) EmailSender {
	return &emailSender{primary: primary, fallback: fallback, from: from}
}

func (s *emailSender) Send(ctx context.Context, msg EmailMessage) DeliveryResult {
	logger.EnterMethod("emailSender.Send", "to", msg.To, "subject", msg.Subject)

	if s.primary != nil {
		logger.ExternalServiceCall(s.primary.Name(), "send", "to", msg.To)
		result, err := s.primary.Deliver(ctx, s.from, msg)
		logger.ExternalServiceResult(s.primary.Name(), "send", err, "to", msg.To)
		if err == nil {
			logger.ExitMethod("emailSender.Send", "provider", s.primary.Name())
			return DeliveryResult{Success: true, Provider: s.primary.Name(), Result: result}
		}
	}

	if s.fallback == nil {
		logger.Warn("No email provider configured", "to", msg.To)
		logger.ExitMethod("emailSender.Send", "error", DeliveryErrorNoConfig)
		return DeliveryResult{Success: false, Error: DeliveryErrorNoConfig}
	}

	logger.ExternalServiceCall(s.fallback.Name(), "send", "to", msg.To)
	result, err := s.fallback.Deliver(ctx, s.from, msg)
	logger.ExternalServiceResult(s.fallback.Name(), "send", err, "to", msg.To)
	if err != nil {
		logger.ExitMethod("emailSender.Send", "error", DeliveryErrorSMTPFailed)
		return DeliveryResult{Success: false, Provider: s.fallback.Name(), Error: DeliveryErrorSMTPFailed, Details: err.Error()}
	}
	logger.ExitMethod("emailSender.Send", "provider", s.fallback.Name())
	return DeliveryResult{Success: true, Provider: s.fallback.Name(), Result: result}
}

type sendGridProvider struct {
	client *sendgrid.Client
}

func NewSendGridProvider(apiKey string) EmailProvider {
	return &sendGridProvider{client: sendgrid.NewSendClient(apiKey)}
}

func (p *sendGridProvider) Name() string { return ProviderSendGrid }

func (p *sendGridProvider) Deliver(ctx context.Context, from EmailAddress, msg EmailMessage) (any, error) {
	message := mail.NewSingleEmail(mail.NewEmail(from.Name, from.Address), msg.Subject, mail.NewEmail("", msg.To), msg.Text, msg.HTML)

	response, err := p.client.SendWithContext(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return nil, fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}

	result := map[string]any{"status_code": response.StatusCode}
	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		result["message_id"] = ids[0]
	}
	return result, nil
}

type smtpProvider struct {
	dialer *gomail.Dialer
}

// NewSMTPProvider uses implicit TLS on port 465 and STARTTLS elsewhere.
func NewSMTPProvider(cfg config.SMTPConfig) EmailProvider {
	return &smtpProvider{dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)}
}

func (p *smtpProvider) Name() string { return ProviderSMTP }

func (p *smtpProvider) Deliver(ctx context.Context, from EmailAddress, msg EmailMessage) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", from.Address, from.Name)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		m.SetBody("text/html", msg.HTML)
	default:
		m.SetBody("text/plain", msg.Text)
	}

	if err := p.dialer.DialAndSend(m); err != nil {
		return nil, fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return map[string]any{"accepted": []string{msg.To}}, nil
}

// AcceptInviteURL is the link an invitee follows to redeem token.
func AcceptInviteURL(appURL, token string) string {
	return appURL + "/invite/accept?token=" + url.QueryEscape(token)
}

func inviteEmail(appURL string, project *domain.Project, invite *domain.Invite) EmailMessage {
	acceptURL := AcceptInviteURL(appURL, invite.Token)
	body := invite.Message
	if body == "" {
		body = "You have been invited to collaborate on a project."
	}
	return EmailMessage{
		To:      invite.Email,
		Subject: fmt.Sprintf("Invitation to join project %s", project.Name),
		HTML: fmt.Sprintf(`<p>%s</p><p><a href="%s">Accept Invitation</a></p>`,
			html.EscapeString(body), html.EscapeString(acceptURL)),
		Text: fmt.Sprintf("%s\n\nAccept the invitation: %s", body, acceptURL),
	}
}
