package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"buyer_leads_backend/internal/email"
	"buyer_leads_backend/internal/events"
	"buyer_leads_backend/platform/logger"
)

type fakeSender struct {
	welcomes []string
}

func (s *fakeSender) SendWelcomeEmail(ctx context.Context, toEmail, name string) error {
	s.welcomes = append(s.welcomes, toEmail)
	return nil
}

func (s *fakeSender) SendImportSummaryEmail(ctx context.Context, toEmail, name string, imported int) error {
	return nil
}

var _ email.Sender = (*fakeSender)(nil)

func TestWelcomeEmailSentOnSignUp(t *testing.T) {
	log := logger.New("development")
	bus := events.NewInMemoryBus(log)
	sender := &fakeSender{}
	NewModule(nil, sender, bus, log)

	err := bus.PublishSync(context.Background(), events.UserSignedUp{
		BaseEvent: events.NewBaseEvent(),
		UserID:    uuid.New(),
		Name:      "Priya Sharma",
		Email:     "priya@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.welcomes) != 1 || sender.welcomes[0] != "priya@example.com" {
		t.Fatalf("welcome email not sent: %v", sender.welcomes)
	}
}
