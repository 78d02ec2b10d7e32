package notification

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, userID, notifType, title, message string) (*Notification, error)
	ListForUser(ctx context.Context, userID string) ([]Notification, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, userID, notifType, title, message string) (*Notification, error) {
	var n Notification
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO notifications (user_id, type, title, message)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, type, title, message, created_at`,
		userID, notifType, title, message,
	).StructScan(&n)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *repository) ListForUser(ctx context.Context, userID string) ([]Notification, error) {
	var notifs []Notification
	err := r.db.SelectContext(ctx, &notifs,
		`SELECT id, user_id, type, title, message, created_at
		 FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return notifs, nil
}
