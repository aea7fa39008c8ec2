package email

import (
	"fmt"
	"sync"

	"mediavault_backend/internal/logger"
)

// LogProvider не отправляет письма, а пишет их в лог и запоминает.
// Используется, когда SMTP выключен, и в тестах.
type LogProvider struct {
	renderer TemplateRenderer

	mu   sync.Mutex
	sent []Email
}

func NewLogProvider(renderer TemplateRenderer) *LogProvider {
	return &LogProvider{renderer: renderer}
}

func (p *LogProvider) Send(email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	p.mu.Lock()
	p.sent = append(p.sent, *email)
	p.mu.Unlock()

	logger.Info("Email sent to log", "to", email.To, "subject", email.Subject, "body", email.Body)
	return nil
}

func (p *LogProvider) SendTemplate(email *Email, templateName string, data TemplateData) error {
	if p.renderer != nil {
		htmlBody, err := p.renderer.Render(templateName, data)
		if err != nil {
			return fmt.Errorf("failed to render template: %w", err)
		}
		email.HTMLBody = htmlBody
	}
	return p.Send(email)
}

func (p *LogProvider) Validate() error { return nil }

func (p *LogProvider) Close() error { return nil }

// Sent возвращает копию отправленных писем.
func (p *LogProvider) Sent() []Email {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Email, len(p.sent))
	copy(out, p.sent)
	return out
}

// Last возвращает последнее письмо или nil.
func (p *LogProvider) Last() *Email {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.sent) == 0 {
		return nil
	}
	last := p.sent[len(p.sent)-1]
	return &last
}
