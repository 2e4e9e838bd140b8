package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"os"

	"study-agent/internal/models"
	"study-agent/shared/config"
)

// Sender emails the optional digest of notes annotated in a run.
type Sender struct {
	config       *config.EmailConfig
	templatePath string
}

func NewSender(cfg *config.EmailConfig) *Sender {
	return &Sender{
		config:       cfg,
		templatePath: "agents/note-annotator/email_template.html",
	}
}

func (s *Sender) SendReport(report *models.AnnotationReport) error {
	if report == nil {
		return fmt.Errorf("report cannot be nil")
	}
	if len(report.Notes) == 0 {
		return nil // Nothing annotated, nothing to report
	}

	subject := fmt.Sprintf("Study Notes Digest - %d Notes Annotated (%s)",
		report.Annotated, report.Date.Format("Jan 2, 2006"))

	body, err := s.generateEmailBody(report)
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}

	return s.sendViaSMTP(subject, body)
}

func (s *Sender) sendViaSMTP(subject, body string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.SMTPServer)

	to := []string{s.config.ToEmail}
	msg := []byte(fmt.Sprintf(`To: %s
From: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/html; charset=UTF-8

%s`, s.config.ToEmail, s.config.FromEmail, subject, body))

	addr := fmt.Sprintf("%s:%d", s.config.SMTPServer, s.config.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.FromEmail, to, msg)
}

func (s *Sender) generateEmailBody(report *models.AnnotationReport) (string, error) {
	tmplBytes, err := os.ReadFile(s.templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to read email template: %w", err)
	}

	tmpl, err := template.New("digest").Parse(string(tmplBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse email template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, report); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return buf.String(), nil
}
