package notification

import (
	"context"
	"database/sql"
	"errors"
)

// Repository is raw SQL so writes can share the caller's transaction: the
// workflow engine inserts the fan-out notification atomically with the leave
// request write.
//
//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, n *Notification) error
	FindAllByRecipient(ctx context.Context, recipientID string) ([]Notification, error)
	CountUnseenByRecipient(ctx context.Context, recipientID string) (int64, error)
	MarkSeen(ctx context.Context, recipientID, id string) (int64, error)
	Delete(ctx context.Context, recipientID, id string) (int64, error)
}

type repository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	query := `
        INSERT INTO notifications (
            id, type, message, recipient_role, recipient_id, reference_id, seen
        ) VALUES ($1, $2, $3, $4, $5, $6, FALSE)
    `

	_, err := r.execer().ExecContext(
		ctx, query,
		n.ID, n.Type, n.Message, n.RecipientRole, n.RecipientID, n.ReferenceID,
	)
	return err
}

func (r *repository) FindAllByRecipient(ctx context.Context, recipientID string) ([]Notification, error) {
	query := `
SELECT
	id, type, message, recipient_role, recipient_id, reference_id, seen, created_at, seen_at
FROM notifications
WHERE recipient_id = $1
ORDER BY created_at DESC, id DESC
`

	rows, err := r.db.QueryContext(ctx, query, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(
			&n.ID,
			&n.Type,
			&n.Message,
			&n.RecipientRole,
			&n.RecipientID,
			&n.ReferenceID,
			&n.Seen,
			&n.CreatedAt,
			&n.SeenAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}

// CountUnseenByRecipient computes the badge value from the underlying set on
// every call. The count is never stored anywhere it could drift.
func (r *repository) CountUnseenByRecipient(ctx context.Context, recipientID string) (int64, error) {
	query := `
SELECT COUNT(*)
FROM notifications
WHERE recipient_id = $1 AND seen = FALSE
`

	var count int64
	err := r.db.QueryRowContext(ctx, query, recipientID).Scan(&count)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return count, nil
}

// MarkSeen only ever moves the flag one direction. Rows affected is zero only
// when the notification is missing or belongs to someone else; re-marking a
// seen notification still matches and stays a successful no-op.
func (r *repository) MarkSeen(ctx context.Context, recipientID, id string) (int64, error) {
	query := `
UPDATE notifications
SET
	seen = TRUE,
	seen_at = COALESCE(seen_at, NOW())
WHERE id = $1 AND recipient_id = $2
`

	res, err := r.execer().ExecContext(ctx, query, id, recipientID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) Delete(ctx context.Context, recipientID, id string) (int64, error) {
	query := `
DELETE FROM notifications
WHERE id = $1 AND recipient_id = $2
`

	res, err := r.execer().ExecContext(ctx, query, id, recipientID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}
