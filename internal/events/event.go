// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"buyer_leads_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Auth Domain Events
// =============================================================================

// UserSignedUp is published when a new user successfully registers.
type UserSignedUp struct {
	BaseEvent
	UserID uuid.UUID `json:"userId"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
}

func (e UserSignedUp) EventName() string { return "auth.user.signed_up" }

// =============================================================================
// Buyers Domain Events
// =============================================================================

// BuyerCreated is published when a single buyer lead is created.
type BuyerCreated struct {
	BaseEvent
	BuyerID  uuid.UUID `json:"buyerId"`
	OwnerID  uuid.UUID `json:"ownerId"`
	FullName string    `json:"fullName"`
	City     string    `json:"city"`
	Source   string    `json:"source"`
}

func (e BuyerCreated) EventName() string { return "buyers.buyer.created" }

// BuyerUpdated is published when a buyer lead is mutated.
type BuyerUpdated struct {
	BaseEvent
	BuyerID       uuid.UUID `json:"buyerId"`
	ChangedByID   uuid.UUID `json:"changedById"`
	TouchedFields []string  `json:"touchedFields"`
}

func (e BuyerUpdated) EventName() string { return "buyers.buyer.updated" }

// BuyerDeleted is published when a buyer lead and its history are destroyed.
type BuyerDeleted struct {
	BaseEvent
	BuyerID   uuid.UUID `json:"buyerId"`
	DeletedBy uuid.UUID `json:"deletedBy"`
}

func (e BuyerDeleted) EventName() string { return "buyers.buyer.deleted" }

// BuyerBatchImported is published after a bulk import commits.
type BuyerBatchImported struct {
	BaseEvent
	OwnerID  uuid.UUID `json:"ownerId"`
	Imported int       `json:"imported"`
}

func (e BuyerBatchImported) EventName() string { return "buyers.batch.imported" }
