package mailer

import (
	"fmt"
	"strings"
)

// EmailJob is one queued email. A job either names a Template rendered with
// Data, or carries a ready Subject, Text and HTML.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Recipient is To, or the Email field of Data for jobs queued without one.
func (j EmailJob) Recipient() string {
	if to := strings.TrimSpace(j.To); to != "" {
		return to
	}
	if v, ok := j.Data["Email"].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// Tag labels the job in logs and at the mail provider.
func (j EmailJob) Tag() string {
	if j.Template != "" {
		return j.Template
	}
	return "raw"
}

func (j EmailJob) validate() error {
	if j.Recipient() == "" {
		return fmt.Errorf("%w: no recipient", ErrBadJob)
	}
	if j.Template == "" && j.Subject == "" && j.Text == "" && j.HTML == "" {
		return fmt.Errorf("%w: empty message", ErrBadJob)
	}
	return nil
}
