package mailer

import (
	"bytes"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/briteco/brief/internal/assembler"
	"github.com/briteco/brief/internal/config"
	"github.com/briteco/brief/internal/logger"
	"github.com/briteco/brief/internal/styleguide"
)

// RenderHTML renders an issue draft into an HTML email body, sections
// in canonical order with their display names as headers. Drafted
// markdown (links, lists) converts through goldmark.
func RenderHTML(issue *assembler.IssueDraft, title string) (string, error) {
	var md strings.Builder
	if title != "" {
		md.WriteString("# " + title + "\n\n")
	}
	for _, sectionID := range styleguide.CanonicalOrder {
		draft, ok := issue.Sections[sectionID]
		if !ok {
			continue
		}
		// Subject and preheader ride in the mail envelope, not the body.
		if sectionID == styleguide.SectionSubjectLine || sectionID == styleguide.SectionPreheader {
			continue
		}
		spec, err := styleguide.SpecFor(sectionID)
		if err != nil {
			return "", err
		}
		md.WriteString("## " + spec.Name + "\n\n")
		md.WriteString(draft.Text + "\n\n")
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md.String()), &buf); err != nil {
		return "", fmt.Errorf("failed to render preview html: %w", err)
	}
	return buf.String(), nil
}

// SendResult reports the outcome of a preview send.
type SendResult struct {
	Sent   []string `json:"sent"`
	Errors []string `json:"errors,omitempty"`
}

// Mailer sends newsletter previews to team members over SMTP.
type Mailer struct {
	cfg  config.SMTPConfig
	from string
}

func New(cfg config.SMTPConfig, fromEmail string) *Mailer {
	from := fromEmail
	if from == "" {
		from = cfg.User
	}
	return &Mailer{cfg: cfg, from: from}
}

// SendPreview mails the rendered HTML to each recipient individually.
// A failed recipient never blocks the rest; all failures come back in
// the result.
func (m *Mailer) SendPreview(recipients []string, subject, html string) (*SendResult, error) {
	if m.cfg.User == "" || m.cfg.Password == "" {
		return nil, fmt.Errorf("smtp credentials not configured")
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("no recipients")
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Server, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Server)

	result := &SendResult{}
	for _, recipient := range recipients {
		msg := buildMessage(m.from, recipient, subject, html)
		if err := smtp.SendMail(addr, auth, m.from, []string{recipient}, msg); err != nil {
			logger.Warn("[MAIL] failed to send preview to %s: %v", recipient, err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", recipient, err))
			continue
		}
		logger.Info("[MAIL] preview sent to %s", recipient)
		result.Sent = append(result.Sent, recipient)
	}

	if len(result.Sent) == 0 {
		return result, fmt.Errorf("failed to send to any recipients")
	}
	return result, nil
}

func buildMessage(from, to, subject, html string) []byte {
	var sb strings.Builder
	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(html)
	return []byte(sb.String())
}
