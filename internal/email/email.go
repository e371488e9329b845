// Package email provides outbound email delivery for user-facing
// notifications.
package email

import "context"

// Sender delivers the application's notification emails.
type Sender interface {
	// SendWelcomeEmail greets a newly registered user.
	SendWelcomeEmail(ctx context.Context, toEmail, name string) error
	// SendImportSummaryEmail reports a committed bulk import to its owner.
	SendImportSummaryEmail(ctx context.Context, toEmail, name string, imported int) error
}

const (
	subjectWelcome       = "Welcome to Buyer Leads"
	subjectImportSummary = "Your buyer lead import has finished"
)
