package mailing

import (
	"errors"
	"strconv"

	"mealbridge/internal/utils"

	"gopkg.in/gomail.v2"
)

var ErrMailNotConfigured = errors.New("smtp is not configured")

type MailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

func (c MailConfig) Enabled() bool {
	return c.SMTPHost != "" && c.SMTPEmail != ""
}

// Mailer sends HTML mail through the configured SMTP relay.
type Mailer struct {
	config MailConfig
}

func NewMailer(config MailConfig) *Mailer {
	return &Mailer{config: config}
}

func (m *Mailer) Send(toEmail string, subject string, body string) error {
	if !m.config.Enabled() {
		return ErrMailNotConfigured
	}
	port, err := strconv.Atoi(m.config.SMTPPort)
	if err != nil {
		return err
	}

	dialer := gomail.NewDialer(
		m.config.SMTPHost,
		port,
		m.config.SMTPEmail,
		m.config.SMTPPassword,
	)
	return dialer.DialAndSend(NewMessage(m.config, toEmail, subject, body))
}

func NewMessage(config MailConfig, toEmail string, subject string, body string) *gomail.Message {
	mailer := gomail.NewMessage()
	if config.SMTPSender != "" {
		mailer.SetAddressHeader("From", config.SMTPEmail, config.SMTPSender)
	} else {
		mailer.SetHeader("From", config.SMTPEmail)
	}
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)
	return mailer
}
