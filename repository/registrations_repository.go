package repository

import (
	"database/sql"
	"time"

	"github.com/veselovese/bronitech/models"
)

type RegistrationsRepository struct {
	db *sql.DB
}

func NewRegistrationsRepository(db *sql.DB) *RegistrationsRepository {
	return &RegistrationsRepository{db: db}
}

// Create signs the user up for an event, rejecting duplicates for the same
// event while a live (non-canceled) registration exists.
func (r *RegistrationsRepository) Create(eventID, userID int, now time.Time) (*models.Registration, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM registrations
			WHERE event_id = $1 AND user_id = $2 AND status IN ($3, $4)
		)
	`, eventID, userID, models.StatusNew, models.StatusConfirmed).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.ErrAlreadyRegistered
	}

	var g models.Registration
	err = tx.QueryRow(`
		INSERT INTO registrations (event_id, user_id, reg_date, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, event_id, user_id, reg_date, status
	`, eventID, userID, now, models.StatusNew).Scan(
		&g.ID, &g.EventID, &g.UserID, &g.RegDate, &g.Status,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *RegistrationsRepository) GetByID(id int) (*models.Registration, error) {
	var g models.Registration
	err := r.db.QueryRow(`
		SELECT g.id, g.event_id, g.user_id, g.reg_date, g.status,
		       e.name, u.first_name || ' ' || u.last_name
		FROM registrations g
		INNER JOIN events e ON e.id = g.event_id
		INNER JOIN users u ON u.id = g.user_id
		WHERE g.id = $1
	`, id).Scan(
		&g.ID, &g.EventID, &g.UserID, &g.RegDate, &g.Status,
		&g.EventName, &g.UserName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// UpdateStatus mirrors the booking transition: the stored status is re-read
// under the row lock and the state machine applied to it.
func (r *RegistrationsRepository) UpdateStatus(id int, apply func(models.Status) (models.Status, error)) (*models.Registration, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var current models.Status
	err = tx.QueryRow(`
		SELECT status FROM registrations WHERE id = $1 FOR UPDATE
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

	if _, err := tx.Exec(`UPDATE registrations SET status = $1 WHERE id = $2`, next, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// ListPending returns NEW registrations for events that have not happened
// yet, oldest request first. Admin review queue.
func (r *RegistrationsRepository) ListPending(now time.Time, offset, limit int) ([]models.Registration, int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*)
		FROM registrations g
		INNER JOIN events e ON e.id = g.event_id
		WHERE g.status = $1 AND e.date >= $2
	`, models.StatusNew, now).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(`
		SELECT g.id, g.event_id, g.user_id, g.reg_date, g.status,
		       e.name, u.first_name || ' ' || u.last_name
		FROM registrations g
		INNER JOIN events e ON e.id = g.event_id
		INNER JOIN users u ON u.id = g.user_id
		WHERE g.status = $1 AND e.date >= $2
		ORDER BY g.reg_date
		LIMIT $3 OFFSET $4
	`, models.StatusNew, now, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	regs, err := scanRegistrations(rows)
	return regs, total, err
}

func (r *RegistrationsRepository) ListByUser(userID int) ([]models.Registration, error) {
	rows, err := r.db.Query(`
		SELECT g.id, g.event_id, g.user_id, g.reg_date, g.status,
		       e.name, u.first_name || ' ' || u.last_name
		FROM registrations g
		INNER JOIN events e ON e.id = g.event_id
		INNER JOIN users u ON u.id = g.user_id
		WHERE g.user_id = $1
		ORDER BY g.reg_date DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRegistrations(rows)
}

func scanRegistrations(rows *sql.Rows) ([]models.Registration, error) {
	var result []models.Registration
	for rows.Next() {
		var g models.Registration
		if err := rows.Scan(
			&g.ID, &g.EventID, &g.UserID, &g.RegDate, &g.Status,
			&g.EventName, &g.UserName,
		); err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	return result, rows.Err()
}
