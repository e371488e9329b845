package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// HistoryEntry is one audit record joined with the user who made the change.
type HistoryEntry struct {
	ID             uuid.UUID
	BuyerID        uuid.UUID
	ChangedBy      uuid.UUID
	ChangedByName  string
	ChangedByEmail string
	ChangedAt      time.Time
	Diff           []byte
}

// UserInfo is the minimal owner projection used on the buyer detail view.
type UserInfo struct {
	ID    uuid.UUID
	Name  string
	Email string
}

func insertHistory(ctx context.Context, tx pgx.Tx, buyerID, changedBy uuid.UUID, diff []byte) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO buyer_history (buyer_id, changed_by, diff)
		VALUES ($1, $2, $3)
	`, buyerID, changedBy, diff)
	return err
}

// ListRecentHistory returns the newest audit entries for a buyer, capped at
// limit, with the changer's name and email joined in.
func (r *Repository) ListRecentHistory(ctx context.Context, buyerID uuid.UUID, limit int) ([]HistoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT h.id, h.buyer_id, h.changed_by, u.name, u.email, h.changed_at, h.diff
		FROM buyer_history h
		JOIN users u ON u.id = h.changed_by
		WHERE h.buyer_id = $1
		ORDER BY h.changed_at DESC
		LIMIT $2
	`, buyerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0, limit)
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.BuyerID, &e.ChangedBy, &e.ChangedByName, &e.ChangedByEmail, &e.ChangedAt, &e.Diff); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return entries, nil
}

// GetUserInfo loads the name and email for a user id.
func (r *Repository) GetUserInfo(ctx context.Context, id uuid.UUID) (UserInfo, error) {
	var u UserInfo
	err := r.pool.QueryRow(ctx, `SELECT id, name, email FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Name, &u.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return UserInfo{}, ErrNotFound
	}
	if err != nil {
		return UserInfo{}, err
	}
	return u, nil
}
