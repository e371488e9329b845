package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"buyer_leads_backend/internal/buyers/repository"
	"buyer_leads_backend/internal/buyers/transport"
	"buyer_leads_backend/internal/events"
	"buyer_leads_backend/platform/apperr"
	"buyer_leads_backend/platform/logger"
	"buyer_leads_backend/platform/ratelimit"
	"buyer_leads_backend/platform/validator"
)

// MaxImportRows caps a single bulk import.
const MaxImportRows = 200

// BatchStore persists a validated batch atomically.
type BatchStore interface {
	ImportBatch(ctx context.Context, ownerID uuid.UUID, batch []repository.BuyerParams, diffs [][]byte) (int, error)
}

// Importer runs the bulk import pipeline: size cap, per-actor rate limit,
// per-row normalization and validation, then an all-or-nothing insert.
type Importer struct {
	store   BatchStore
	val     *validator.Validator
	limiter ratelimit.Limiter
	bus     events.Bus
	log     *logger.Logger
}

func NewImporter(store BatchStore, val *validator.Validator, limiter ratelimit.Limiter, bus events.Bus, log *logger.Logger) *Importer {
	return &Importer{store: store, val: val, limiter: limiter, bus: bus, log: log}
}

// Import processes a batch of raw rows for the given actor. Either every row
// is valid and the whole batch commits, or nothing is persisted and every
// failing row is reported with its 1-based index.
func (imp *Importer) Import(ctx context.Context, actorID uuid.UUID, rows []transport.ImportRow) (transport.ImportResponse, error) {
	if len(rows) == 0 {
		return transport.ImportResponse{}, apperr.BadRequest("no rows to import")
	}
	if len(rows) > MaxImportRows {
		return transport.ImportResponse{}, apperr.BadRequest(
			fmt.Sprintf("CSV file exceeds maximum of %d rows", MaxImportRows))
	}

	allowed, err := imp.limiter.Allow(ctx, actorID.String())
	if err != nil {
		return transport.ImportResponse{}, apperr.Wrap(apperr.KindInternal, "check rate limit", err)
	}
	if !allowed {
		imp.log.RateLimitExceeded(actorID.String(), "buyers/import")
		return transport.ImportResponse{}, apperr.RateLimited("Too many imports, please try again later")
	}

	batch := make([]repository.BuyerParams, 0, len(rows))
	diffs := make([][]byte, 0, len(rows))
	var rowErrors []transport.RowErrors

	for i, row := range rows {
		input, msgs := NormalizeRow(row)
		msgs = append(msgs, Validate(imp.val, input)...)
		if len(msgs) > 0 {
			rowErrors = append(rowErrors, transport.RowErrors{Row: i + 1, Errors: msgs})
			continue
		}

		diff, err := DiffFor("created", input)
		if err != nil {
			return transport.ImportResponse{}, apperr.Wrap(apperr.KindInternal, "encode change record", err)
		}

		batch = append(batch, toParams(input))
		diffs = append(diffs, diff)
	}

	if len(rowErrors) > 0 {
		imp.log.BatchImport(actorID.String(), len(rows), 0, len(rowErrors))
		return transport.ImportResponse{}, apperr.Validation("import failed validation").WithDetails(rowErrors)
	}

	imported, err := imp.store.ImportBatch(ctx, actorID, batch, diffs)
	if err != nil {
		return transport.ImportResponse{}, apperr.Wrap(apperr.KindInternal, "persist import batch", err)
	}

	imp.log.BatchImport(actorID.String(), len(rows), imported, 0)
	imp.bus.Publish(ctx, events.BuyerBatchImported{
		BaseEvent: events.NewBaseEvent(),
		OwnerID:   actorID,
		Imported:  imported,
	})

	return transport.ImportResponse{
		Message:       fmt.Sprintf("Successfully imported %d buyer leads", imported),
		ImportedCount: imported,
	}, nil
}
