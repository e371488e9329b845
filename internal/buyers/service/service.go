package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"buyer_leads_backend/internal/buyers/repository"
	"buyer_leads_backend/internal/buyers/transport"
	"buyer_leads_backend/internal/events"
	"buyer_leads_backend/platform/apperr"
	"buyer_leads_backend/platform/logger"
	"buyer_leads_backend/platform/validator"
)

// PageSize is the fixed number of buyers per list page.
const PageSize = 10

// HistoryLimit caps the audit entries returned on the detail view.
const HistoryLimit = 5

// Store is the persistence surface the service depends on. The repository
// implements it; tests substitute a fake.
type Store interface {
	CreateWithHistory(ctx context.Context, ownerID uuid.UUID, params repository.BuyerParams, diff []byte) (repository.Buyer, error)
	UpdateWithHistory(ctx context.Context, id, changedBy uuid.UUID, params repository.BuyerParams, diff []byte) (repository.Buyer, error)
	DeleteWithHistory(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (repository.Buyer, error)
	GetUserInfo(ctx context.Context, id uuid.UUID) (repository.UserInfo, error)
	ListRecentHistory(ctx context.Context, buyerID uuid.UUID, limit int) ([]repository.HistoryEntry, error)
	List(ctx context.Context, filter repository.ListFilter, limit, offset int) ([]repository.Buyer, int, error)
	ListForExport(ctx context.Context, filter repository.ListFilter) ([]repository.Buyer, error)
}

// Compile-time check that the repository satisfies Store
var _ Store = (*repository.Repository)(nil)

// Service implements buyer lead management on top of the store.
type Service struct {
	repo Store
	val  *validator.Validator
	bus  events.Bus
	log  *logger.Logger
}

func New(repo Store, val *validator.Validator, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, val: val, bus: bus, log: log}
}

// Create validates and persists one buyer lead owned by the actor, recording
// a "created" history entry in the same transaction. The body shares the
// flexible row shape consumed by bulk import.
func (s *Service) Create(ctx context.Context, actorID uuid.UUID, row transport.ImportRow) (transport.BuyerResponse, error) {
	input, msgs := NormalizeRow(row)
	if len(msgs) == 0 {
		msgs = Validate(s.val, input)
	}
	if len(msgs) > 0 {
		return transport.BuyerResponse{}, apperr.Validation("validation failed").WithDetails(msgs)
	}

	diff, err := DiffFor("created", input)
	if err != nil {
		return transport.BuyerResponse{}, apperr.Wrap(apperr.KindInternal, "encode change record", err)
	}

	buyer, err := s.repo.CreateWithHistory(ctx, actorID, toParams(input), diff)
	if err != nil {
		return transport.BuyerResponse{}, apperr.Wrap(apperr.KindInternal, "create buyer", err)
	}

	s.bus.Publish(ctx, events.BuyerCreated{
		BaseEvent: events.NewBaseEvent(),
		BuyerID:   buyer.ID,
		OwnerID:   actorID,
		FullName:  buyer.FullName,
		City:      buyer.City,
		Source:    buyer.Source,
	})

	return toResponse(buyer), nil
}

// Get returns the buyer with its owner summary and the newest history entries.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.BuyerDetailResponse, error) {
	buyer, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.BuyerDetailResponse{}, apperr.NotFound("buyer not found")
	}
	if err != nil {
		return transport.BuyerDetailResponse{}, apperr.Wrap(apperr.KindInternal, "load buyer", err)
	}

	owner, err := s.repo.GetUserInfo(ctx, buyer.OwnerID)
	if err != nil {
		return transport.BuyerDetailResponse{}, apperr.Wrap(apperr.KindInternal, "load buyer owner", err)
	}

	history, err := s.repo.ListRecentHistory(ctx, buyer.ID, HistoryLimit)
	if err != nil {
		return transport.BuyerDetailResponse{}, apperr.Wrap(apperr.KindInternal, "load buyer history", err)
	}

	detail := transport.BuyerDetailResponse{
		BuyerResponse: toResponse(buyer),
		Owner:         transport.UserSummaryResponse{Name: owner.Name, Email: owner.Email},
		History:       make([]transport.HistoryEntryResponse, 0, len(history)),
	}
	for _, entry := range history {
		detail.History = append(detail.History, transport.HistoryEntryResponse{
			ID: entry.ID.String(),
			ChangedBy: transport.UserSummaryResponse{
				Name:  entry.ChangedByName,
				Email: entry.ChangedByEmail,
			},
			ChangedAt: entry.ChangedAt,
			Diff:      entry.Diff,
		})
	}

	return detail, nil
}

// Update replaces the buyer's full field set after the same normalization and
// validation as create, then appends an "updated" history entry in the same
// transaction.
func (s *Service) Update(ctx context.Context, id, actorID uuid.UUID, row transport.ImportRow) (transport.BuyerResponse, error) {
	input, msgs := NormalizeRow(row)
	if len(msgs) == 0 {
		msgs = Validate(s.val, input)
	}
	if len(msgs) > 0 {
		return transport.BuyerResponse{}, apperr.Validation("validation failed").WithDetails(msgs)
	}

	diff, err := DiffFor("updated", input)
	if err != nil {
		return transport.BuyerResponse{}, apperr.Wrap(apperr.KindInternal, "encode change record", err)
	}

	buyer, err := s.repo.UpdateWithHistory(ctx, id, actorID, toParams(input), diff)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.BuyerResponse{}, apperr.NotFound("buyer not found")
	}
	if err != nil {
		return transport.BuyerResponse{}, apperr.Wrap(apperr.KindInternal, "update buyer", err)
	}

	s.bus.Publish(ctx, events.BuyerUpdated{
		BaseEvent:     events.NewBaseEvent(),
		BuyerID:       buyer.ID,
		ChangedByID:   actorID,
		TouchedFields: SuppliedFields(input),
	})

	return toResponse(buyer), nil
}

// Delete removes the buyer and its history. Only the owner may delete.
func (s *Service) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	buyer, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("buyer not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "load buyer", err)
	}

	if buyer.OwnerID != actorID {
		return apperr.Forbidden("only the owner can delete this buyer")
	}

	if err := s.repo.DeleteWithHistory(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("buyer not found")
		}
		return apperr.Wrap(apperr.KindInternal, "delete buyer", err)
	}

	s.log.Info("buyer deleted", "buyer_id", id, "deleted_by", actorID)
	s.bus.Publish(ctx, events.BuyerDeleted{
		BaseEvent: events.NewBaseEvent(),
		BuyerID:   id,
		DeletedBy: actorID,
	})

	return nil
}

// List returns one page of buyers, newest update first, with totals.
func (s *Service) List(ctx context.Context, req transport.ListBuyersRequest) (transport.ListBuyersResponse, error) {
	if err := s.val.Struct(req); err != nil {
		return transport.ListBuyersResponse{}, apperr.Validation("invalid filter parameters")
	}

	page := req.Page
	if page < 1 {
		page = 1
	}

	filter := toFilter(req)
	buyers, total, err := s.repo.List(ctx, filter, PageSize, (page-1)*PageSize)
	if err != nil {
		return transport.ListBuyersResponse{}, apperr.Wrap(apperr.KindInternal, "list buyers", err)
	}

	pages := (total + PageSize - 1) / PageSize
	resp := transport.ListBuyersResponse{
		Items: make([]transport.BuyerResponse, 0, len(buyers)),
		Pagination: transport.PaginationResponse{
			Total: total,
			Pages: pages,
			Page:  page,
			Limit: PageSize,
		},
	}
	for _, buyer := range buyers {
		resp.Items = append(resp.Items, toResponse(buyer))
	}

	return resp, nil
}

// Export returns every buyer matching the filter for CSV streaming.
func (s *Service) Export(ctx context.Context, req transport.ListBuyersRequest) ([]transport.BuyerResponse, error) {
	if err := s.val.Struct(req); err != nil {
		return nil, apperr.Validation("invalid filter parameters")
	}

	buyers, err := s.repo.ListForExport(ctx, toFilter(req))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "export buyers", err)
	}

	out := make([]transport.BuyerResponse, 0, len(buyers))
	for _, buyer := range buyers {
		out = append(out, toResponse(buyer))
	}
	return out, nil
}

func toFilter(req transport.ListBuyersRequest) repository.ListFilter {
	return repository.ListFilter{
		City:         req.City,
		PropertyType: req.PropertyType,
		Status:       req.Status,
		Timeline:     req.Timeline,
		Search:       strings.TrimSpace(req.Search),
	}
}

func toParams(input transport.BuyerInput) repository.BuyerParams {
	return repository.BuyerParams{
		FullName:     input.FullName,
		Email:        optional(input.Email),
		Phone:        input.Phone,
		City:         input.City,
		PropertyType: input.PropertyType,
		BHK:          optional(input.BHK),
		Purpose:      input.Purpose,
		BudgetMin:    input.BudgetMin,
		BudgetMax:    input.BudgetMax,
		Timeline:     input.Timeline,
		Source:       input.Source,
		Notes:        optional(input.Notes),
		Tags:         input.Tags,
		Status:       input.Status,
	}
}

func toResponse(b repository.Buyer) transport.BuyerResponse {
	return transport.BuyerResponse{
		ID:           b.ID.String(),
		FullName:     b.FullName,
		Email:        b.Email,
		Phone:        b.Phone,
		City:         b.City,
		PropertyType: b.PropertyType,
		BHK:          b.BHK,
		Purpose:      b.Purpose,
		BudgetMin:    b.BudgetMin,
		BudgetMax:    b.BudgetMax,
		Timeline:     b.Timeline,
		Source:       b.Source,
		Notes:        b.Notes,
		Tags:         b.Tags,
		Status:       b.Status,
		OwnerID:      b.OwnerID.String(),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
