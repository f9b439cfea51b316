// internal/adapters/out/mail/sweep_report_mailer.go
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uc "gallery/internal/application/usecase"
)

// SweepReportMailer implements usecase.SweepReportMailer. It mails the ops
// inbox after a sweep that saw failures, so stuck queue entries are noticed
// before they pile up.
type SweepReportMailer struct {
	client EmailClient
	from   string
	to     string
}

func NewSweepReportMailer(client EmailClient, from, to string) *SweepReportMailer {
	return &SweepReportMailer{
		client: client,
		from:   strings.TrimSpace(from),
		to:     strings.TrimSpace(to),
	}
}

func (m *SweepReportMailer) SendSweepReport(ctx context.Context, rep uc.SweepReport) error {
	if m == nil || m.client == nil {
		return errors.New("mail: sweep report mailer not configured")
	}
	if m.from == "" || m.to == "" {
		return errors.New("mail: sweep report addresses not configured")
	}

	subject := fmt.Sprintf("[gallery] storage cleanup sweep: %d failed", rep.Failed)
	body := fmt.Sprintf(
		"Storage cleanup sweep finished at %s\n\nfound:     %d\nsucceeded: %d\nfailed:    %d\npurged:    %d\n\nFailed entries stay pending and retry on the next sweep.\n",
		time.Now().UTC().Format(time.RFC3339),
		rep.Found, rep.Succeeded, rep.Failed, rep.Purged,
	)

	return m.client.Send(ctx, m.from, m.to, subject, body)
}
