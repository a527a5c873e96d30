// Package mailer composes and sends the verification and password-reset
// emails over the SMTP transport.
package mailer

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/lib/sl"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/lib/smtp"
)

// Mailer sends account emails. Send failures propagate to the caller so that
// registration can roll back.
type Mailer struct {
	transport smtp.TransportInterface
	baseURL   string
	log       *slog.Logger
}

// New creates a Mailer for the given transport and public base URL.
func New(transport smtp.TransportInterface, baseURL string, log *slog.Logger) *Mailer {
	return &Mailer{
		transport: transport,
		baseURL:   strings.TrimRight(baseURL, "/"),
		log:       log,
	}
}

// SendVerificationEmail sends the single-use verification link for a new or
// re-registered account.
func (m *Mailer) SendVerificationEmail(to, token string) error {
	verificationURL := fmt.Sprintf("%s/auth/verify-email?token=%s", m.baseURL, url.QueryEscape(token))
	subject := "Verificación de correo electrónico - Voces de la Extinción"
	textBody := fmt.Sprintf("Por favor, haz clic en el siguiente enlace para verificar tu correo electrónico: %s", verificationURL)
	htmlBody := fmt.Sprintf(`<p>Hola,</p><p>Gracias por registrarte en Voces de la Extinción.</p>`+
		`<p>Por favor, haz clic en el siguiente enlace para verificar tu correo electrónico:</p>`+
		`<p><a href="%s">Verificar mi correo</a></p>`+
		`<p>Si no te registraste, por favor ignora este correo.</p>`, verificationURL)

	return m.send([]string{to}, subject, textBody, htmlBody)
}

// SendPasswordResetEmail sends the time-limited password reset link.
func (m *Mailer) SendPasswordResetEmail(to, token string) error {
	resetURL := fmt.Sprintf("%s/auth/reset-password?token=%s", m.baseURL, url.QueryEscape(token))
	subject := "Restablecimiento de contraseña - Voces de la Extinción"
	textBody := fmt.Sprintf("Para restablecer tu contraseña, haz clic en el siguiente enlace: %s. El enlace expira en una hora.", resetURL)
	htmlBody := fmt.Sprintf(`<p>Hola,</p><p>Para restablecer tu contraseña, haz clic en el siguiente enlace:</p>`+
		`<p><a href="%s">Restablecer mi contraseña</a></p>`+
		`<p>El enlace expira en una hora. Si no solicitaste el cambio, ignora este correo.</p>`, resetURL)

	return m.send([]string{to}, subject, textBody, htmlBody)
}

func (m *Mailer) send(to []string, subject, textBody, htmlBody string) error {
	const boundary = "==voces-boundary=="

	msg := strings.Join([]string{
		"From: " + m.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: multipart/alternative; boundary=\"" + boundary + "\"",
		"",
		"--" + boundary,
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		textBody,
		"",
		"--" + boundary,
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		htmlBody,
		"",
		"--" + boundary + "--",
	}, "\r\n")

	client, err := m.transport.Connect()
	if err != nil {
		m.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(m.transport.GetSMTPUser()); err != nil {
		m.log.Error("failed to set MAIL FROM", slog.String("from", m.transport.GetSMTPUser()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			m.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		m.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		m.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		m.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		m.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	m.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
