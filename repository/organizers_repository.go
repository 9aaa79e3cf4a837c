package repository

import (
	"database/sql"

	"github.com/veselovese/bronitech/models"
)

type OrganizersRepository struct {
	db *sql.DB
}

func NewOrganizersRepository(db *sql.DB) *OrganizersRepository {
	return &OrganizersRepository{db: db}
}

// Create registers an organizer and flags its lead user in one transaction.
func (r *OrganizersRepository) Create(name, description string, leadUserID int, charterKey *string) (*models.Organizer, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var o models.Organizer
	err = tx.QueryRow(`
		INSERT INTO organizers (name, description, lead_user_id, charter_key)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, description, lead_user_id, charter_key, created_at
	`, name, description, leadUserID, charterKey).Scan(
		&o.ID, &o.Name, &o.Description, &o.LeadUserID, &o.CharterKey, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(`
		UPDATE profiles SET is_organizer = TRUE WHERE user_id = $1
	`, leadUserID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrganizersRepository) GetByID(id int) (*models.Organizer, error) {
	var o models.Organizer
	err := r.db.QueryRow(`
		SELECT o.id, o.name, o.description, o.lead_user_id, o.charter_key, o.created_at,
		       (SELECT COUNT(*) FROM events e WHERE e.organizer_id = o.id)
		FROM organizers o
		WHERE o.id = $1
	`, id).Scan(&o.ID, &o.Name, &o.Description, &o.LeadUserID, &o.CharterKey, &o.CreatedAt, &o.EventCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByLeadUser resolves the organizer a user leads, nil when they lead none.
func (r *OrganizersRepository) GetByLeadUser(userID int) (*models.Organizer, error) {
	var o models.Organizer
	err := r.db.QueryRow(`
		SELECT id, name, description, lead_user_id, charter_key, created_at
		FROM organizers
		WHERE lead_user_id = $1
	`, userID).Scan(&o.ID, &o.Name, &o.Description, &o.LeadUserID, &o.CharterKey, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Search lists organizers filtered by name substring, alphabetically.
func (r *OrganizersRepository) Search(query string) ([]models.Organizer, error) {
	rows, err := r.db.Query(`
		SELECT o.id, o.name, o.description, o.lead_user_id, o.charter_key, o.created_at,
		       (SELECT COUNT(*) FROM events e WHERE e.organizer_id = o.id)
		FROM organizers o
		WHERE $1 = '' OR o.name ILIKE '%' || $1 || '%'
		ORDER BY o.name
	`, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrganizers(rows)
}

// TopByEventCount ranks organizers by how many events they host. Homepage
// widget.
func (r *OrganizersRepository) TopByEventCount(limit int) ([]models.Organizer, error) {
	rows, err := r.db.Query(`
		SELECT o.id, o.name, o.description, o.lead_user_id, o.charter_key, o.created_at,
		       (SELECT COUNT(*) FROM events e WHERE e.organizer_id = o.id) AS event_count
		FROM organizers o
		ORDER BY event_count DESC, o.id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrganizers(rows)
}

func scanOrganizers(rows *sql.Rows) ([]models.Organizer, error) {
	var result []models.Organizer
	for rows.Next() {
		var o models.Organizer
		if err := rows.Scan(&o.ID, &o.Name, &o.Description, &o.LeadUserID, &o.CharterKey, &o.CreatedAt, &o.EventCount); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, rows.Err()
}

func (r *OrganizersRepository) Update(id int, name, description string, charterKey *string) error {
	res, err := r.db.Exec(`
		UPDATE organizers
		SET name = $1, description = $2, charter_key = COALESCE($3, charter_key)
		WHERE id = $4
	`, name, description, charterKey, id)
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
