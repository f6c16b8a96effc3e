package mailer

import (
	"context"
	"errors"
	"fmt"

	mailtpl "github.com/oksasatya/go-storefront/pkg/mailer/templates"
)

// ErrBadJob marks jobs that can never be delivered and should not be requeued.
var ErrBadJob = errors.New("bad email job")

// Message is a rendered email ready for a Sender.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
	Tag     string
}

// Sender delivers one rendered email.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// Processor renders queued jobs and hands them to a Sender.
type Processor struct {
	Sender Sender
}

func (p *Processor) Process(ctx context.Context, job EmailJob) error {
	if err := job.validate(); err != nil {
		return err
	}
	m := Message{To: job.Recipient(), Subject: job.Subject, Text: job.Text, HTML: job.HTML, Tag: job.Tag()}
	if job.Template != "" {
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return fmt.Errorf("%w: render %s: %v", ErrBadJob, job.Template, err)
		}
		m.Subject, m.Text, m.HTML = s, t, h
	}
	return p.Sender.Send(ctx, m)
}
