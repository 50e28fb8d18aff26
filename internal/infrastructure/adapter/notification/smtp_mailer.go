package notification

import (
	"context"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"github.com/wneessen/go-mail"

	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/notification"
)

// SMTPConfig holds the outbound mail settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool
	Timeout  time.Duration
}

var verificationHTML = htmltemplate.Must(htmltemplate.New("verification").Parse(`<p>Welcome!</p>
<p>Please verify your account by clicking the link below:</p>
<p><a href="{{.Link}}">Verify account</a></p>
<p>Your verification PIN is <strong>{{.Code}}</strong>.</p>
<p>This link is valid for {{.Minutes}} minutes.</p>`))

var verificationText = texttemplate.Must(texttemplate.New("verification").Parse(`Welcome!

Please verify your account by opening the link below:
{{.Link}}

Your verification PIN is {{.Code}}.
This link is valid for {{.Minutes}} minutes.
`))

type verificationView struct {
	Link    string
	Code    string
	Minutes int
}

// SMTPMailer implements notification.Mailer over SMTP
type SMTPMailer struct {
	cfg    SMTPConfig
	logger coreport.Logger
}

var _ notification.Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates a mailer for the given server
func NewSMTPMailer(cfg SMTPConfig, logger coreport.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// SendVerification renders the verification email and hands it to the SMTP server
func (m *SMTPMailer) SendVerification(ctx context.Context, address string, msg notification.VerificationMessage) error {
	message, err := m.buildVerification(address, msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(m.cfg.Host, m.clientOptions()...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}

	m.logger.Info("Verification email sent", map[string]any{"to": address})
	return nil
}

func (m *SMTPMailer) buildVerification(address string, msg notification.VerificationMessage) (*mail.Msg, error) {
	message := mail.NewMsg()
	if err := message.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := message.To(address); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	message.Subject("Verify your bank account")

	view := verificationView{
		Link:    msg.Link,
		Code:    msg.Code,
		Minutes: int(msg.ExpiresIn / time.Minute),
	}
	if err := message.SetBodyHTMLTemplate(verificationHTML, view); err != nil {
		return nil, fmt.Errorf("render verification email: %w", err)
	}
	if err := message.AddAlternativeTextTemplate(verificationText, view); err != nil {
		return nil, fmt.Errorf("render verification email: %w", err)
	}
	return message, nil
}

func (m *SMTPMailer) clientOptions() []mail.Option {
	opts := []mail.Option{mail.WithPort(m.cfg.Port)}
	if m.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(m.cfg.Timeout))
	}
	if m.cfg.UseTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	return opts
}
