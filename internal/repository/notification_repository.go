package repository // repository for notification inboxes

import (
	"context"
	"database/sql"

	"github.com/parkwise/parking-reservation/internal/model"
)

// NotificationRepo appends to and reads from per-recipient inboxes.
// Rows are created by the queue consumer; only the recipient may
// mark them read or delete them.
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo constructs a NotificationRepo.
func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Create appends one unread notification to the recipient's inbox.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	const q = `INSERT INTO notifications
	           (recipient_id, recipient_role, booking_id, kind, title, message, is_read)
	           VALUES (?, ?, ?, ?, ?, ?, 0)`
	res, err := r.db.ExecContext(ctx, q, n.RecipientID, n.RecipientRole, n.BookingID,
		n.Kind, n.Title, n.Message)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return nil
}

// ListByRecipient returns a recipient's inbox, newest first.
func (r *NotificationRepo) ListByRecipient(ctx context.Context, recipientID uint64, role string) ([]model.Notification, error) {
	const q = `SELECT id, recipient_id, recipient_role, booking_id, kind, title, message, is_read, created_at
	           FROM notifications
	           WHERE recipient_id = ? AND recipient_role = ?
	           ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, recipientID, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		var bookingID sql.NullInt64
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.RecipientRole, &bookingID,
			&n.Kind, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		if bookingID.Valid {
			id := uint64(bookingID.Int64)
			n.BookingID = &id
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UnreadCount returns how many unread entries a recipient has.
func (r *NotificationRepo) UnreadCount(ctx context.Context, recipientID uint64, role string) (uint32, error) {
	const q = `SELECT COUNT(*) FROM notifications
	           WHERE recipient_id = ? AND recipient_role = ? AND is_read = 0`
	var n uint32
	err := r.db.QueryRowContext(ctx, q, recipientID, role).Scan(&n)
	return n, err
}

// MarkRead flags one notification read. The recipient filter doubles
// as the ownership check; a miss returns ErrNotificationNotFound.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, recipientID uint64, role string) error {
	const q = `UPDATE notifications SET is_read = 1
	           WHERE id = ? AND recipient_id = ? AND recipient_role = ?`
	res, err := r.db.ExecContext(ctx, q, id, recipientID, role)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead flags the recipient's whole inbox read.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID uint64, role string) error {
	const q = `UPDATE notifications SET is_read = 1
	           WHERE recipient_id = ? AND recipient_role = ? AND is_read = 0`
	_, err := r.db.ExecContext(ctx, q, recipientID, role)
	return err
}

// Delete removes one notification from the recipient's inbox.
func (r *NotificationRepo) Delete(ctx context.Context, id, recipientID uint64, role string) error {
	const q = `DELETE FROM notifications
	           WHERE id = ? AND recipient_id = ? AND recipient_role = ?`
	res, err := r.db.ExecContext(ctx, q, id, recipientID, role)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
