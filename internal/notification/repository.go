package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// repository resolves recipient details for event-driven notifications.
type repository struct {
	pool *pgxpool.Pool
}

type recipient struct {
	Name  string
	Email string
}

func (r *repository) getRecipient(ctx context.Context, userID uuid.UUID) (recipient, error) {
	var rec recipient
	err := r.pool.QueryRow(ctx, `SELECT name, email FROM users WHERE id = $1`, userID).
		Scan(&rec.Name, &rec.Email)
	return rec, err
}
