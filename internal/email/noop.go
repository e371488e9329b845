package email

import (
	"context"

	"buyer_leads_backend/platform/logger"
)

// NoopSender logs instead of sending. Used when SMTP is not configured, such
// as local development.
type NoopSender struct {
	log *logger.Logger
}

// NewNoopSender creates a sender that only logs.
func NewNoopSender(log *logger.Logger) *NoopSender {
	return &NoopSender{log: log}
}

func (s *NoopSender) SendWelcomeEmail(ctx context.Context, toEmail, name string) error {
	s.log.Info("email skipped (no smtp configured)", "kind", "welcome", "to", toEmail)
	return nil
}

func (s *NoopSender) SendImportSummaryEmail(ctx context.Context, toEmail, name string, imported int) error {
	s.log.Info("email skipped (no smtp configured)", "kind", "import_summary", "to", toEmail, "imported", imported)
	return nil
}

// Compile-time check that NoopSender implements Sender
var _ Sender = (*NoopSender)(nil)
