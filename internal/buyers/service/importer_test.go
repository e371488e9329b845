package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"buyer_leads_backend/internal/buyers/repository"
	"buyer_leads_backend/internal/buyers/transport"
	"buyer_leads_backend/platform/apperr"
	"buyer_leads_backend/platform/events"
	"buyer_leads_backend/platform/logger"
	"buyer_leads_backend/platform/validator"
)

type fakeStore struct {
	batches [][]repository.BuyerParams
	diffs   [][][]byte
}

func (s *fakeStore) ImportBatch(ctx context.Context, ownerID uuid.UUID, batch []repository.BuyerParams, diffs [][]byte) (int, error) {
	s.batches = append(s.batches, batch)
	s.diffs = append(s.diffs, diffs)
	return len(batch), nil
}

type fakeLimiter struct {
	allowed bool
	keys    []string
}

func (l *fakeLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.keys = append(l.keys, key)
	return l.allowed, nil
}

func newTestImporter(store *fakeStore, limiter *fakeLimiter) *Importer {
	log := logger.New("development")
	return NewImporter(store, validator.New(), limiter, events.NewInMemoryBus(log), log)
}

func validRow() transport.ImportRow {
	return transport.ImportRow{
		FullName:     "Priya Sharma",
		Phone:        "9876543210",
		City:         "Chandigarh",
		PropertyType: "Plot",
		Purpose:      "Buy",
		Timeline:     "Exploring",
		Source:       "Website",
	}
}

func TestImportCommitsValidBatch(t *testing.T) {
	store := &fakeStore{}
	imp := newTestImporter(store, &fakeLimiter{allowed: true})
	actor := uuid.New()

	resp, err := imp.Import(context.Background(), actor, []transport.ImportRow{validRow(), validRow()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ImportedCount != 2 {
		t.Fatalf("importedCount = %d, want 2", resp.ImportedCount)
	}
	if len(store.batches) != 1 || len(store.batches[0]) != 2 {
		t.Fatalf("expected one batch of 2, got %v", store.batches)
	}
	if len(store.diffs[0]) != 2 {
		t.Fatalf("expected one diff per row, got %d", len(store.diffs[0]))
	}
}

func TestImportRejectsWholeBatchOnAnyRowError(t *testing.T) {
	store := &fakeStore{}
	imp := newTestImporter(store, &fakeLimiter{allowed: true})

	bad := validRow()
	bad.Phone = "123"

	_, err := imp.Import(context.Background(), uuid.New(), []transport.ImportRow{validRow(), bad, validRow()})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(store.batches) != 0 {
		t.Fatalf("nothing may be persisted when any row fails, got %v", store.batches)
	}

	domainErr, ok := err.(*apperr.Error)
	if !ok || domainErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	rowErrors, ok := domainErr.Details.([]transport.RowErrors)
	if !ok {
		t.Fatalf("details = %T", domainErr.Details)
	}
	if len(rowErrors) != 1 {
		t.Fatalf("expected 1 failing row, got %v", rowErrors)
	}
	if rowErrors[0].Row != 2 {
		t.Fatalf("row index must be 1-based: got %d, want 2", rowErrors[0].Row)
	}
	if len(rowErrors[0].Errors) == 0 || !strings.HasPrefix(rowErrors[0].Errors[0], "phone:") {
		t.Fatalf("unexpected row errors: %v", rowErrors[0].Errors)
	}
}

func TestImportCapsBatchSize(t *testing.T) {
	store := &fakeStore{}
	imp := newTestImporter(store, &fakeLimiter{allowed: true})

	rows := make([]transport.ImportRow, MaxImportRows+1)
	for i := range rows {
		rows[i] = validRow()
	}

	_, err := imp.Import(context.Background(), uuid.New(), rows)
	if err == nil {
		t.Fatal("expected size cap error")
	}
	domainErr, ok := err.(*apperr.Error)
	if !ok || domainErr.Kind != apperr.KindBadRequest {
		t.Fatalf("expected bad request, got %v", err)
	}
	if domainErr.Message != "CSV file exceeds maximum of 200 rows" {
		t.Fatalf("unexpected message: %q", domainErr.Message)
	}
	if len(store.batches) != 0 {
		t.Fatal("oversized batch must not reach the store")
	}
}

func TestImportAtExactCapSucceeds(t *testing.T) {
	store := &fakeStore{}
	imp := newTestImporter(store, &fakeLimiter{allowed: true})

	rows := make([]transport.ImportRow, MaxImportRows)
	for i := range rows {
		rows[i] = validRow()
	}

	resp, err := imp.Import(context.Background(), uuid.New(), rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ImportedCount != MaxImportRows {
		t.Fatalf("importedCount = %d, want %d", resp.ImportedCount, MaxImportRows)
	}
}

func TestImportRateLimitedPerActor(t *testing.T) {
	store := &fakeStore{}
	limiter := &fakeLimiter{allowed: false}
	imp := newTestImporter(store, limiter)
	actor := uuid.New()

	_, err := imp.Import(context.Background(), actor, []transport.ImportRow{validRow()})
	if err == nil {
		t.Fatal("expected rate limit error")
	}
	domainErr, ok := err.(*apperr.Error)
	if !ok || domainErr.Kind != apperr.KindRateLimited {
		t.Fatalf("expected rate limited, got %v", err)
	}
	if len(limiter.keys) != 1 || limiter.keys[0] != actor.String() {
		t.Fatalf("limiter must be keyed by actor id, got %v", limiter.keys)
	}
	if len(store.batches) != 0 {
		t.Fatal("rate limited batch must not reach the store")
	}
}

func TestImportRejectsEmptyBatch(t *testing.T) {
	imp := newTestImporter(&fakeStore{}, &fakeLimiter{allowed: true})
	_, err := imp.Import(context.Background(), uuid.New(), nil)
	if err == nil {
		t.Fatal("expected error for empty batch")
	}
}
