package repository

import (
	"database/sql"

	"github.com/veselovese/bronitech/models"
)

type ReviewsRepository struct {
	db *sql.DB
}

func NewReviewsRepository(db *sql.DB) *ReviewsRepository {
	return &ReviewsRepository{db: db}
}

// Create inserts a review. New reviews are hidden until an admin approves
// them; the review gate (confirmed booking required) is checked by the
// handler before calling this.
func (r *ReviewsRepository) Create(spaceID, userID int, text string) (*models.Review, error) {
	var rev models.Review
	err := r.db.QueryRow(`
		INSERT INTO space_reviews (space_id, user_id, review, is_visible)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, space_id, user_id, review, is_visible, created_at
	`, spaceID, userID, text).Scan(
		&rev.ID, &rev.SpaceID, &rev.UserID, &rev.Text, &rev.IsVisible, &rev.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *ReviewsRepository) GetByID(id int) (*models.Review, error) {
	var rev models.Review
	err := r.db.QueryRow(`
		SELECT rv.id, rv.space_id, rv.user_id, rv.review, rv.is_visible, rv.created_at,
		       u.first_name || ' ' || u.last_name
		FROM space_reviews rv
		INNER JOIN users u ON u.id = rv.user_id
		WHERE rv.id = $1
	`, id).Scan(
		&rev.ID, &rev.SpaceID, &rev.UserID, &rev.Text, &rev.IsVisible, &rev.CreatedAt,
		&rev.AuthorName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

// ListPending returns hidden reviews for the admin moderation queue.
func (r *ReviewsRepository) ListPending(offset, limit int) ([]models.Review, int, error) {
	var total int
	if err := r.db.QueryRow(`
		SELECT COUNT(*) FROM space_reviews WHERE is_visible = FALSE
	`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(`
		SELECT rv.id, rv.space_id, rv.user_id, rv.review, rv.is_visible, rv.created_at,
		       u.first_name || ' ' || u.last_name
		FROM space_reviews rv
		INNER JOIN users u ON u.id = rv.user_id
		WHERE rv.is_visible = FALSE
		ORDER BY rv.created_at
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []models.Review
	for rows.Next() {
		var rev models.Review
		if err := rows.Scan(
			&rev.ID, &rev.SpaceID, &rev.UserID, &rev.Text, &rev.IsVisible, &rev.CreatedAt,
			&rev.AuthorName,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, rev)
	}
	return result, total, rows.Err()
}

// Update replaces the review text. An edited review is hidden again and goes
// back through moderation.
func (r *ReviewsRepository) Update(id int, text string) error {
	res, err := r.db.Exec(`
		UPDATE space_reviews SET review = $1, is_visible = FALSE WHERE id = $2
	`, text, id)
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

func (r *ReviewsRepository) SetVisible(id int, visible bool) error {
	res, err := r.db.Exec(`
		UPDATE space_reviews SET is_visible = $1 WHERE id = $2
	`, visible, id)
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

// Delete removes a review. Authors delete their own, admins delete any; the
// handler decides which applies.
func (r *ReviewsRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM space_reviews WHERE id = $1`, id)
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
