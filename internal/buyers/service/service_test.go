package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"buyer_leads_backend/internal/buyers/repository"
	"buyer_leads_backend/platform/apperr"
	"buyer_leads_backend/platform/events"
	"buyer_leads_backend/platform/logger"
	"buyer_leads_backend/platform/validator"
)

// fakeBuyerStore is a map-backed Store. DeleteWithHistory mirrors the
// repository's transaction: the buyer and all of its history go together.
type fakeBuyerStore struct {
	buyers  map[uuid.UUID]repository.Buyer
	history map[uuid.UUID][]repository.HistoryEntry
	users   map[uuid.UUID]repository.UserInfo
}

func newFakeBuyerStore() *fakeBuyerStore {
	return &fakeBuyerStore{
		buyers:  make(map[uuid.UUID]repository.Buyer),
		history: make(map[uuid.UUID][]repository.HistoryEntry),
		users:   make(map[uuid.UUID]repository.UserInfo),
	}
}

func (s *fakeBuyerStore) CreateWithHistory(ctx context.Context, ownerID uuid.UUID, params repository.BuyerParams, diff []byte) (repository.Buyer, error) {
	now := time.Now()
	buyer := repository.Buyer{
		ID:           uuid.New(),
		FullName:     params.FullName,
		Email:        params.Email,
		Phone:        params.Phone,
		City:         params.City,
		PropertyType: params.PropertyType,
		BHK:          params.BHK,
		Purpose:      params.Purpose,
		BudgetMin:    params.BudgetMin,
		BudgetMax:    params.BudgetMax,
		Timeline:     params.Timeline,
		Source:       params.Source,
		Notes:        params.Notes,
		Tags:         params.Tags,
		Status:       params.Status,
		OwnerID:      ownerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.buyers[buyer.ID] = buyer
	s.appendHistory(buyer.ID, ownerID, diff)
	return buyer, nil
}

func (s *fakeBuyerStore) UpdateWithHistory(ctx context.Context, id, changedBy uuid.UUID, params repository.BuyerParams, diff []byte) (repository.Buyer, error) {
	buyer, ok := s.buyers[id]
	if !ok {
		return repository.Buyer{}, repository.ErrNotFound
	}
	buyer.FullName = params.FullName
	buyer.Status = params.Status
	buyer.UpdatedAt = time.Now()
	s.buyers[id] = buyer
	s.appendHistory(id, changedBy, diff)
	return buyer, nil
}

func (s *fakeBuyerStore) DeleteWithHistory(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.buyers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.buyers, id)
	delete(s.history, id)
	return nil
}

func (s *fakeBuyerStore) GetByID(ctx context.Context, id uuid.UUID) (repository.Buyer, error) {
	buyer, ok := s.buyers[id]
	if !ok {
		return repository.Buyer{}, repository.ErrNotFound
	}
	return buyer, nil
}

func (s *fakeBuyerStore) GetUserInfo(ctx context.Context, id uuid.UUID) (repository.UserInfo, error) {
	user, ok := s.users[id]
	if !ok {
		return repository.UserInfo{}, repository.ErrNotFound
	}
	return user, nil
}

func (s *fakeBuyerStore) ListRecentHistory(ctx context.Context, buyerID uuid.UUID, limit int) ([]repository.HistoryEntry, error) {
	entries := s.history[buyerID]
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *fakeBuyerStore) List(ctx context.Context, filter repository.ListFilter, limit, offset int) ([]repository.Buyer, int, error) {
	items := make([]repository.Buyer, 0, len(s.buyers))
	for _, b := range s.buyers {
		items = append(items, b)
	}
	return items, len(items), nil
}

func (s *fakeBuyerStore) ListForExport(ctx context.Context, filter repository.ListFilter) ([]repository.Buyer, error) {
	items, _, err := s.List(ctx, filter, 0, 0)
	return items, err
}

func (s *fakeBuyerStore) appendHistory(buyerID, changedBy uuid.UUID, diff []byte) {
	s.history[buyerID] = append(s.history[buyerID], repository.HistoryEntry{
		ID:        uuid.New(),
		BuyerID:   buyerID,
		ChangedBy: changedBy,
		ChangedAt: time.Now(),
		Diff:      diff,
	})
}

var _ Store = (*fakeBuyerStore)(nil)

func newTestService(store *fakeBuyerStore) *Service {
	log := logger.New("development")
	return New(store, validator.New(), events.NewInMemoryBus(log), log)
}

func seedBuyer(t *testing.T, store *fakeBuyerStore, svc *Service, ownerID uuid.UUID) uuid.UUID {
	t.Helper()
	store.users[ownerID] = repository.UserInfo{ID: ownerID, Name: "Priya Sharma", Email: "priya@example.com"}
	resp, err := svc.Create(context.Background(), ownerID, validRow())
	if err != nil {
		t.Fatalf("seed buyer: %v", err)
	}
	id, err := uuid.Parse(resp.ID)
	if err != nil {
		t.Fatalf("seed buyer id: %v", err)
	}
	return id
}

func TestCreateWritesCreatedHistoryEntry(t *testing.T) {
	store := newFakeBuyerStore()
	svc := newTestService(store)
	ownerID := uuid.New()

	buyerID := seedBuyer(t, store, svc, ownerID)

	entries := store.history[buyerID]
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	var record ChangeRecord
	if err := json.Unmarshal(entries[0].Diff, &record); err != nil {
		t.Fatalf("diff is not valid json: %v", err)
	}
	if record.Action != "created" {
		t.Fatalf("action = %q, want created", record.Action)
	}
}

func TestDeleteRejectsNonOwner(t *testing.T) {
	store := newFakeBuyerStore()
	svc := newTestService(store)
	ownerID := uuid.New()
	buyerID := seedBuyer(t, store, svc, ownerID)

	err := svc.Delete(context.Background(), buyerID, uuid.New())
	if err == nil {
		t.Fatal("expected forbidden error")
	}
	domainErr, ok := err.(*apperr.Error)
	if !ok || domainErr.Kind != apperr.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}

	if _, err := store.GetByID(context.Background(), buyerID); err != nil {
		t.Fatal("buyer must survive a non-owner delete attempt")
	}
	if len(store.history[buyerID]) != 1 {
		t.Fatal("history must survive a non-owner delete attempt")
	}
}

func TestDeleteCascadesHistoryAndReportsNotFoundAfter(t *testing.T) {
	store := newFakeBuyerStore()
	svc := newTestService(store)
	ownerID := uuid.New()
	buyerID := seedBuyer(t, store, svc, ownerID)

	// Second history entry via an update, so the cascade removes more than one.
	if _, err := svc.Update(context.Background(), buyerID, ownerID, validRow()); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(store.history[buyerID]) != 2 {
		t.Fatalf("expected 2 history entries before delete, got %d", len(store.history[buyerID]))
	}

	if err := svc.Delete(context.Background(), buyerID, ownerID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}

	if _, ok := store.buyers[buyerID]; ok {
		t.Fatal("buyer must be gone after delete")
	}
	if entries := store.history[buyerID]; len(entries) != 0 {
		t.Fatalf("history must be gone after delete, got %d entries", len(entries))
	}

	_, err := svc.Get(context.Background(), buyerID)
	if err == nil {
		t.Fatal("expected not found after delete")
	}
	domainErr, ok := err.(*apperr.Error)
	if !ok || domainErr.Kind != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteUnknownBuyerReportsNotFound(t *testing.T) {
	svc := newTestService(newFakeBuyerStore())

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	if err == nil {
		t.Fatal("expected not found error")
	}
	domainErr, ok := err.(*apperr.Error)
	if !ok || domainErr.Kind != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
