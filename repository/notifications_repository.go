package repository

import (
	"database/sql"

	"github.com/veselovese/bronitech/models"
)

type NotificationsRepository struct {
	db *sql.DB
}

func NewNotificationsRepository(db *sql.DB) *NotificationsRepository {
	return &NotificationsRepository{db: db}
}

func (r *NotificationsRepository) Create(userID int, text string) (*models.Notification, error) {
	var n models.Notification
	err := r.db.QueryRow(`
		INSERT INTO notifications (user_id, text)
		VALUES ($1, $2)
		RETURNING id, user_id, text, is_read, created_at
	`, userID, text).Scan(&n.ID, &n.UserID, &n.Text, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationsRepository) ListUnread(userID int) ([]models.Notification, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, text, is_read, created_at
		FROM notifications
		WHERE user_id = $1 AND is_read = FALSE
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Text, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

// MarkRead flags one notification as read. Scoped to the owner so a user
// cannot touch someone else's.
func (r *NotificationsRepository) MarkRead(userID, notificationID int) error {
	res, err := r.db.Exec(`
		UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2
	`, notificationID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *NotificationsRepository) MarkAllRead(userID int) error {
	_, err := r.db.Exec(`
		UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE
	`, userID)
	return err
}
