// Package notification reacts to domain events with outbound email. It has no
// HTTP surface of its own; it only subscribes to the event bus.
package notification

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"buyer_leads_backend/internal/email"
	"buyer_leads_backend/internal/events"
	"buyer_leads_backend/platform/logger"
)

// Module wires event subscriptions to the email sender.
type Module struct {
	repo   *repository
	sender email.Sender
	log    *logger.Logger
}

// NewModule creates the notification module and subscribes it to the bus.
func NewModule(pool *pgxpool.Pool, sender email.Sender, bus events.Bus, log *logger.Logger) *Module {
	m := &Module{
		repo:   &repository{pool: pool},
		sender: sender,
		log:    log,
	}

	bus.Subscribe(events.UserSignedUp{}.EventName(), events.HandlerFunc(m.onUserSignedUp))
	bus.Subscribe(events.BuyerBatchImported{}.EventName(), events.HandlerFunc(m.onBatchImported))

	return m
}

func (m *Module) onUserSignedUp(ctx context.Context, event events.Event) error {
	e, ok := event.(events.UserSignedUp)
	if !ok {
		return nil
	}
	return m.sender.SendWelcomeEmail(ctx, e.Email, e.Name)
}

func (m *Module) onBatchImported(ctx context.Context, event events.Event) error {
	e, ok := event.(events.BuyerBatchImported)
	if !ok {
		return nil
	}

	rec, err := m.repo.getRecipient(ctx, e.OwnerID)
	if err != nil {
		m.log.Error("resolve import summary recipient", "owner_id", e.OwnerID, "error", err)
		return err
	}

	return m.sender.SendImportSummaryEmail(ctx, rec.Email, rec.Name, e.Imported)
}
