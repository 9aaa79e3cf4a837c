package repository

import (
	"database/sql"

	"github.com/veselovese/bronitech/models"
)

type FavoritesRepository struct {
	db *sql.DB
}

func NewFavoritesRepository(db *sql.DB) *FavoritesRepository {
	return &FavoritesRepository{db: db}
}

// ToggleSpace adds the space to the user's favorites or removes it when it is
// already there. Returns true when the favorite was added.
func (r *FavoritesRepository) ToggleSpace(userID, spaceID int) (bool, error) {
	return r.toggle(userID, "space_id", spaceID)
}

func (r *FavoritesRepository) ToggleEvent(userID, eventID int) (bool, error) {
	return r.toggle(userID, "event_id", eventID)
}

func (r *FavoritesRepository) toggle(userID int, col string, targetID int) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		DELETE FROM favorites WHERE user_id = $1 AND `+col+` = $2
	`, userID, targetID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, tx.Commit()
	}

	if _, err := tx.Exec(`
		INSERT INTO favorites (user_id, `+col+`) VALUES ($1, $2)
	`, userID, targetID); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// ListByUser returns the user's favorites, newest first. Space and event
// favorites come back in one list.
func (r *FavoritesRepository) ListByUser(userID int) ([]models.Favorite, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, space_id, event_id, created_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Favorite
	for rows.Next() {
		var f models.Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.SpaceID, &f.EventID, &f.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

// HasSpace reports whether the space is favorited by the user.
func (r *FavoritesRepository) HasSpace(userID, spaceID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND space_id = $2)
	`, userID, spaceID).Scan(&exists)
	return exists, err
}
