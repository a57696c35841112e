package email

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strings"
)

// ErrNotConfigured is returned when no SMTP host is set
var ErrNotConfigured = errors.New("email is not configured")

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// SendFunc matches smtp.SendMail
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
	send   SendFunc
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config, send: smtp.SendMail}
}

// WithSender replaces the SMTP transport, e.g. in tests
func (s *EmailService) WithSender(fn SendFunc) *EmailService {
	s.send = fn
	return s
}

// Configured reports whether an SMTP host is set
func (s *EmailService) Configured() bool {
	return s.config.SMTPHost != ""
}

// Receipt is the content of a shared receipt
type Receipt struct {
	ShopName      string
	TransactionID string
	Date          string
	Total         string
	Footer        string
	Filename      string
	Text          string
}

// SendReceipt mails the receipt summary with the full receipt attached as text
func (s *EmailService) SendReceipt(toEmail string, r Receipt) error {
	if !s.Configured() {
		return ErrNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", toEmail, err)
	}

	htmlContent, err := renderReceiptEmail(r)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("%s Receipt", r.ShopName)
	message, err := s.buildMessage(toEmail, subject, htmlContent, r.Filename, []byte(r.Text))
	if err != nil {
		return err
	}

	return s.sendEmail(toEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	var auth smtp.Auth
	if s.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}

	if err := s.send(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// buildMessage builds a multipart message with an HTML body and one attachment
func (s *EmailService) buildMessage(to, subject, htmlBody, filename string, attachment []byte) ([]byte, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	htmlPart, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`text/html; charset="UTF-8"`},
	})
	if err != nil {
		return nil, err
	}
	htmlPart.Write([]byte(htmlBody))

	if filename != "" {
		filePart, err := w.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {`text/plain; charset="UTF-8"`},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": filename})},
		})
		if err != nil {
			return nil, err
		}
		filePart.Write([]byte(wrapBase64(attachment)))
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	from := mail.Address{Name: s.config.FromName, Address: s.config.FromEmail}
	headers := fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: multipart/mixed; boundary=%q\r\n"+
			"\r\n",
		from.String(),
		to,
		mime.QEncoding.Encode("UTF-8", subject),
		w.Boundary(),
	)

	return append([]byte(headers), body.Bytes()...), nil
}

func wrapBase64(data []byte) string {
	enc := base64.StdEncoding.EncodeToString(data)
	var b strings.Builder
	for len(enc) > 76 {
		b.WriteString(enc[:76])
		b.WriteString("\r\n")
		enc = enc[76:]
	}
	b.WriteString(enc)
	return b.String()
}

func renderReceiptEmail(r Receipt) (string, error) {
	tmpl, err := template.New("receipt").Parse(receiptTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// receiptTemplate is the HTML body of a shared receipt
const receiptTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.ShopName}} Receipt</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f8fafc;">
    <table role="presentation" style="max-width: 480px; margin: 40px auto; background-color: #ffffff; border-radius: 12px;">
        <tr>
            <td style="background-color: #0f172a; padding: 24px; text-align: center;">
                <h1 style="color: #f59e0b; margin: 0; font-size: 22px;">{{.ShopName}}</h1>
            </td>
        </tr>
        <tr>
            <td style="padding: 30px;">
                <p style="color: #334155; font-size: 16px; margin: 0 0 12px 0;">Your receipt for transaction #{{.TransactionID}}</p>
                <p style="color: #64748b; font-size: 14px; margin: 0 0 12px 0;">{{.Date}}</p>
                <p style="color: #0f172a; font-size: 20px; font-weight: 600; margin: 0 0 20px 0;">Total paid: {{.Total}}</p>
                {{if .Filename}}<p style="color: #64748b; font-size: 14px; margin: 0;">The full receipt is attached as {{.Filename}}.</p>{{end}}
            </td>
        </tr>
        {{if .Footer}}
        <tr>
            <td style="padding: 20px; text-align: center; border-top: 1px solid #e2e8f0; color: #94a3b8; font-size: 12px;">{{.Footer}}</td>
        </tr>
        {{end}}
    </table>
</body>
</html>
`
