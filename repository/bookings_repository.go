package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/veselovese/bronitech/availability"
	"github.com/veselovese/bronitech/models"
)

type BookingsRepository struct {
	db *sql.DB
}

func NewBookingsRepository(db *sql.DB) *BookingsRepository {
	return &BookingsRepository{db: db}
}

// TryBook validates the window, checks availability against confirmed
// bookings and inserts the new booking as one unit. The space row is locked
// FOR UPDATE for the duration, so two concurrent requests for the same space
// cannot both pass the check; conflicts are scoped to a single space, no
// cross-space locking happens.
func (r *BookingsRepository) TryBook(ctx context.Context, spaceID, userID int, dateFrom, dateTo, now time.Time) (*models.Booking, error) {
	if !dateFrom.Before(dateTo) {
		return nil, models.ErrInvalidRange
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var lockedID int
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM spaces WHERE id = $1 FOR UPDATE
	`, spaceID).Scan(&lockedID)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	intervals, err := confirmedIntervals(ctx, tx, spaceID)
	if err != nil {
		return nil, err
	}

	window := availability.Window{From: &dateFrom, To: &dateTo}
	if availability.ConflictExists(window, intervals) {
		return nil, models.ErrSpaceOccupied
	}

	var b models.Booking
	err = tx.QueryRowContext(ctx, `
		INSERT INTO bookings (space_id, user_id, date_from, date_to, book_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, space_id, user_id, date_from, date_to, book_date, status
	`, spaceID, userID, dateFrom, dateTo, now, models.StatusNew).Scan(
		&b.ID, &b.SpaceID, &b.UserID, &b.DateFrom, &b.DateTo, &b.BookDate, &b.Status,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &b, nil
}

func confirmedIntervals(ctx context.Context, tx *sql.Tx, spaceID int) ([]availability.Interval, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT date_from, date_to
		FROM bookings
		WHERE space_id = $1 AND status = $2
	`, spaceID, models.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []availability.Interval
	for rows.Next() {
		var iv availability.Interval
		if err := rows.Scan(&iv.From, &iv.To); err != nil {
			return nil, err
		}
		result = append(result, iv)
	}
	return result, rows.Err()
}

// ConfirmedIntervalsBySpaces loads the confirmed-booking intervals for a set
// of spaces in one query, keyed by space. The search filter feeds these to
// the same availability predicate tryBook uses.
func (r *BookingsRepository) ConfirmedIntervalsBySpaces(spaceIDs []int) (map[int][]availability.Interval, error) {
	result := make(map[int][]availability.Interval, len(spaceIDs))
	if len(spaceIDs) == 0 {
		return result, nil
	}
	rows, err := r.db.Query(`
		SELECT space_id, date_from, date_to
		FROM bookings
		WHERE space_id = ANY($1) AND status = $2
	`, pq.Array(spaceIDs), models.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var spaceID int
		var iv availability.Interval
		if err := rows.Scan(&spaceID, &iv.From, &iv.To); err != nil {
			return nil, err
		}
		result[spaceID] = append(result[spaceID], iv)
	}
	return result, rows.Err()
}

func (r *BookingsRepository) GetByID(id int) (*models.Booking, error) {
	var b models.Booking
	err := r.db.QueryRow(`
		SELECT b.id, b.space_id, b.user_id, b.date_from, b.date_to, b.book_date, b.status,
		       s.name, u.first_name || ' ' || u.last_name
		FROM bookings b
		INNER JOIN spaces s ON s.id = b.space_id
		INNER JOIN users u ON u.id = b.user_id
		WHERE b.id = $1
	`, id).Scan(
		&b.ID, &b.SpaceID, &b.UserID, &b.DateFrom, &b.DateTo, &b.BookDate, &b.Status,
		&b.SpaceName, &b.UserName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateStatus writes the new status only when the stored status still allows
// the transition, re-reading it under the row lock so a concurrent admin
// action cannot slip a booking past the state machine.
func (r *BookingsRepository) UpdateStatus(id int, apply func(models.Status) (models.Status, error)) (*models.Booking, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var current models.Status
	err = tx.QueryRow(`
		SELECT status FROM bookings WHERE id = $1 FOR UPDATE
	`, id).Scan(&current)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	next, err := apply(current)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(`UPDATE bookings SET status = $1 WHERE id = $2`, next, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// ListPending returns NEW bookings that start in the future, oldest request
// first. This is the admin review queue.
func (r *BookingsRepository) ListPending(now time.Time, offset, limit int) ([]models.Booking, int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM bookings WHERE status = $1 AND date_from >= $2
	`, models.StatusNew, now).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(`
		SELECT b.id, b.space_id, b.user_id, b.date_from, b.date_to, b.book_date, b.status,
		       s.name, u.first_name || ' ' || u.last_name
		FROM bookings b
		INNER JOIN spaces s ON s.id = b.space_id
		INNER JOIN users u ON u.id = b.user_id
		WHERE b.status = $1 AND b.date_from >= $2
		ORDER BY b.book_date
		LIMIT $3 OFFSET $4
	`, models.StatusNew, now, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return scanBookings(rows, total)
}

func (r *BookingsRepository) ListByUser(userID int) ([]models.Booking, error) {
	rows, err := r.db.Query(`
		SELECT b.id, b.space_id, b.user_id, b.date_from, b.date_to, b.book_date, b.status,
		       s.name, u.first_name || ' ' || u.last_name
		FROM bookings b
		INNER JOIN spaces s ON s.id = b.space_id
		INNER JOIN users u ON u.id = b.user_id
		WHERE b.user_id = $1
		ORDER BY b.book_date DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result, _, err := scanBookings(rows, 0)
	return result, err
}

func scanBookings(rows *sql.Rows, total int) ([]models.Booking, int, error) {
	var result []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(
			&b.ID, &b.SpaceID, &b.UserID, &b.DateFrom, &b.DateTo, &b.BookDate, &b.Status,
			&b.SpaceName, &b.UserName,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, b)
	}
	return result, total, rows.Err()
}

// HasConfirmedByUser reports whether the user ever had a confirmed booking of
// the space. Gate for leaving a review.
func (r *BookingsRepository) HasConfirmedByUser(userID, spaceID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE user_id = $1 AND space_id = $2 AND status = $3
		)
	`, userID, spaceID, models.StatusConfirmed).Scan(&exists)
	return exists, err
}

// CountBookedBetween counts bookings created within [since, until). Weekly
// stats widget.
func (r *BookingsRepository) CountBookedBetween(since, until time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM bookings WHERE book_date >= $1 AND book_date < $2
	`, since, until).Scan(&count)
	return count, err
}
