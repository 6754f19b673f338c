package notify

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"order-portal/internal/core"

	"github.com/wneessen/go-mail"
)

// MailConfig is the SMTP setup for invoice email.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Bcc      string // usually the admin mailbox
}

// MailConfigFromEnv reads SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD,
// MAIL_FROM and ADMIN_EMAIL. ok is false when SMTP_HOST is unset.
func MailConfigFromEnv() (MailConfig, bool) {
	cfg := MailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     587,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("MAIL_FROM"),
		Bcc:      os.Getenv("ADMIN_EMAIL"),
	}
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		cfg.Port = p
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return cfg, cfg.Host != ""
}

// Mailer sends invoice PDFs over SMTP.
type Mailer struct {
	cfg MailConfig
}

// NewMailer returns a Mailer for cfg.
func NewMailer(cfg MailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Message builds the invoice email for customer.
func (m *Mailer) Message(customer core.User, inv core.Invoice, pdfPath string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(customer.Email); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", customer.Email, err)
	}
	if m.cfg.Bcc != "" {
		if err := msg.Bcc(m.cfg.Bcc); err != nil {
			return nil, fmt.Errorf("invalid bcc %q: %w", m.cfg.Bcc, err)
		}
	}
	msg.Subject(fmt.Sprintf("Invoice %s", inv.InvoiceNumber))
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Hello %s,\n\nThank you for your order. Invoice %s dated %s is attached.\nTotal: $%s\nBalance due: $%s\n",
		inv.CompanyName, inv.InvoiceNumber, inv.DateCreated,
		inv.TotalAmount.StringFixed(2), inv.TotalBalance.StringFixed(2),
	))
	if pdfPath != "" {
		msg.AttachFile(pdfPath)
	}
	return msg, nil
}

// Send delivers the invoice email, bounded by ctx.
func (m *Mailer) Send(ctx context.Context, customer core.User, inv core.Invoice, pdfPath string) error {
	msg, err := m.Message(customer, inv, pdfPath)
	if err != nil {
		return err
	}
	if err := m.dialAndSend(ctx, msg); err != nil {
		return fmt.Errorf("failed to send invoice %s: %w", inv.InvoiceNumber, err)
	}
	return nil
}

// BackupMessage builds a backup email carrying the encoded document as data.json.
func (m *Mailer) BackupMessage(to string, raw []byte, at time.Time) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	msg.Subject("Latest data.json " + at.Format("2006-01-02 15:04"))
	msg.SetBodyString(mail.TypeTextPlain, "Please find the latest data.json file attached.\n")
	if err := msg.AttachReader("data.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to attach backup: %w", err)
	}
	return msg, nil
}

// SendBackup emails raw to the backup address.
func (m *Mailer) SendBackup(ctx context.Context, to string, raw []byte) error {
	msg, err := m.BackupMessage(to, raw, time.Now())
	if err != nil {
		return err
	}
	if err := m.dialAndSend(ctx, msg); err != nil {
		return fmt.Errorf("failed to send backup: %w", err)
	}
	return nil
}

func (m *Mailer) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(60 * time.Second),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}
