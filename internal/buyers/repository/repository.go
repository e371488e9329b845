package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("buyer not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Buyer struct {
	ID           uuid.UUID
	FullName     string
	Email        *string
	Phone        string
	City         string
	PropertyType string
	BHK          *string
	Purpose      string
	BudgetMin    *int64
	BudgetMax    *int64
	Timeline     string
	Source       string
	Notes        *string
	Tags         []string
	Status       string
	OwnerID      uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type BuyerParams struct {
	FullName     string
	Email        *string
	Phone        string
	City         string
	PropertyType string
	BHK          *string
	Purpose      string
	BudgetMin    *int64
	BudgetMax    *int64
	Timeline     string
	Source       string
	Notes        *string
	Tags         []string
	Status       string
}

type ListFilter struct {
	City         string
	PropertyType string
	Status       string
	Timeline     string
	Search       string
}

const buyerColumns = `id, full_name, email, phone, city, property_type, bhk, purpose,
	budget_min, budget_max, timeline, source, notes, tags, status, owner_id,
	created_at, updated_at`

func scanBuyer(row pgx.Row) (Buyer, error) {
	var b Buyer
	err := row.Scan(
		&b.ID, &b.FullName, &b.Email, &b.Phone, &b.City, &b.PropertyType,
		&b.BHK, &b.Purpose, &b.BudgetMin, &b.BudgetMax, &b.Timeline, &b.Source,
		&b.Notes, &b.Tags, &b.Status, &b.OwnerID, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// CreateWithHistory inserts a buyer and its "created" history entry in one
// transaction, so a lead is never visible without its audit trail.
func (r *Repository) CreateWithHistory(ctx context.Context, ownerID uuid.UUID, params BuyerParams, diff []byte) (Buyer, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Buyer{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	buyer, err := insertBuyer(ctx, tx, ownerID, params)
	if err != nil {
		return Buyer{}, err
	}

	if err := insertHistory(ctx, tx, buyer.ID, ownerID, diff); err != nil {
		return Buyer{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Buyer{}, err
	}
	return buyer, nil
}

// UpdateWithHistory replaces the buyer's mutable fields and appends an
// "updated" history entry in the same transaction. updated_at is refreshed by
// the statement itself.
func (r *Repository) UpdateWithHistory(ctx context.Context, id, changedBy uuid.UUID, params BuyerParams, diff []byte) (Buyer, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Buyer{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		UPDATE buyers SET
			full_name = $2, email = $3, phone = $4, city = $5, property_type = $6,
			bhk = $7, purpose = $8, budget_min = $9, budget_max = $10,
			timeline = $11, source = $12, notes = $13, tags = $14, status = $15,
			updated_at = now()
		WHERE id = $1
		RETURNING `+buyerColumns+`
	`, id,
		params.FullName, params.Email, params.Phone, params.City, params.PropertyType,
		params.BHK, params.Purpose, params.BudgetMin, params.BudgetMax,
		params.Timeline, params.Source, params.Notes, params.Tags, params.Status,
	)

	buyer, err := scanBuyer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Buyer{}, ErrNotFound
	}
	if err != nil {
		return Buyer{}, err
	}

	if err := insertHistory(ctx, tx, buyer.ID, changedBy, diff); err != nil {
		return Buyer{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Buyer{}, err
	}
	return buyer, nil
}

// DeleteWithHistory removes the buyer and all of its history atomically.
func (r *Repository) DeleteWithHistory(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM buyer_history WHERE buyer_id = $1`, id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM buyers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Buyer, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+buyerColumns+` FROM buyers WHERE id = $1`, id)
	buyer, err := scanBuyer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Buyer{}, ErrNotFound
	}
	if err != nil {
		return Buyer{}, err
	}
	return buyer, nil
}

// List returns one page of buyers matching the filter plus the total count,
// newest update first.
func (r *Repository) List(ctx context.Context, filter ListFilter, limit, offset int) ([]Buyer, int, error) {
	where, args := buildWhere(filter)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM buyers`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+buyerColumns+` FROM buyers%s ORDER BY updated_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	rows, err := r.pool.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]Buyer, 0)
	for rows.Next() {
		buyer, err := scanBuyer(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, buyer)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return items, total, nil
}

// ListForExport returns every buyer matching the filter, newest update first.
func (r *Repository) ListForExport(ctx context.Context, filter ListFilter) ([]Buyer, error) {
	where, args := buildWhere(filter)

	rows, err := r.pool.Query(ctx, `SELECT `+buyerColumns+` FROM buyers`+where+` ORDER BY updated_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Buyer, 0)
	for rows.Next() {
		buyer, err := scanBuyer(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, buyer)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

// ImportBatch inserts every buyer and one history entry per buyer inside a
// single transaction. Either the whole batch becomes visible or none of it.
func (r *Repository) ImportBatch(ctx context.Context, ownerID uuid.UUID, batch []BuyerParams, diffs [][]byte) (int, error) {
	if len(batch) != len(diffs) {
		return 0, fmt.Errorf("batch size %d does not match diff count %d", len(batch), len(diffs))
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for i, params := range batch {
		buyer, err := insertBuyer(ctx, tx, ownerID, params)
		if err != nil {
			return 0, fmt.Errorf("insert row %d: %w", i+1, err)
		}
		if err := insertHistory(ctx, tx, buyer.ID, ownerID, diffs[i]); err != nil {
			return 0, fmt.Errorf("insert history for row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return len(batch), nil
}

func insertBuyer(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID, params BuyerParams) (Buyer, error) {
	row := tx.QueryRow(ctx, `
		INSERT INTO buyers (
			full_name, email, phone, city, property_type, bhk, purpose,
			budget_min, budget_max, timeline, source, notes, tags, status, owner_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING `+buyerColumns+`
	`,
		params.FullName, params.Email, params.Phone, params.City, params.PropertyType,
		params.BHK, params.Purpose, params.BudgetMin, params.BudgetMax,
		params.Timeline, params.Source, params.Notes, params.Tags, params.Status, ownerID,
	)
	return scanBuyer(row)
}

func buildWhere(filter ListFilter) (string, []interface{}) {
	clauses := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)

	add := func(clause string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.City != "" {
		add("city = $%d", filter.City)
	}
	if filter.PropertyType != "" {
		add("property_type = $%d", filter.PropertyType)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Timeline != "" {
		add("timeline = $%d", filter.Timeline)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(full_name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)", n, n, n))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
