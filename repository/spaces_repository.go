package repository

import (
	"database/sql"
	"time"

	"github.com/veselovese/bronitech/models"
)

type SpacesRepository struct {
	db *sql.DB
}

func NewSpacesRepository(db *sql.DB) *SpacesRepository {
	return &SpacesRepository{db: db}
}

// CreateSpace inserts the space and its feature links in one transaction.
// New spaces start hidden; an admin shows them once the listing is complete.
func (r *SpacesRepository) CreateSpace(name, description string, capacity, buildingID int, roomNumber string, itemIDs []int) (*models.Space, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var spaceID int
	err = tx.QueryRow(`
		INSERT INTO spaces (name, description, capacity, building_id, room_number, is_visible)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING id
	`, name, description, capacity, buildingID, roomNumber).Scan(&spaceID)
	if err != nil {
		return nil, err
	}

	for _, itemID := range itemIDs {
		if _, err := tx.Exec(`
			INSERT INTO space_to_item (space_id, item_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, spaceID, itemID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetSpaceByID(spaceID)
}

// GetSpaceByID loads the space with its building, features, images, visible
// reviews and favorite count.
func (r *SpacesRepository) GetSpaceByID(id int) (*models.Space, error) {
	var s models.Space
	var b models.Building
	err := r.db.QueryRow(`
		SELECT s.id, s.name, s.description, s.capacity, s.building_id, s.room_number,
		       s.is_visible, s.created_at,
		       bl.id, bl.city, bl.street, bl.house, bl.created_at,
		       (SELECT COUNT(*) FROM favorites f WHERE f.space_id = s.id)
		FROM spaces s
		INNER JOIN buildings bl ON bl.id = s.building_id
		WHERE s.id = $1
	`, id).Scan(
		&s.ID, &s.Name, &s.Description, &s.Capacity, &s.BuildingID, &s.RoomNumber,
		&s.IsVisible, &s.CreatedAt,
		&b.ID, &b.City, &b.Street, &b.House, &b.CreatedAt,
		&s.FavCount,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.Building = &b

	if s.Items, err = r.spaceItems(id); err != nil {
		return nil, err
	}
	if s.Images, err = r.spaceImages(id); err != nil {
		return nil, err
	}
	if s.Reviews, err = r.visibleReviews(id); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SpacesRepository) spaceItems(spaceID int) ([]models.Item, error) {
	rows, err := r.db.Query(`
		SELECT i.id, i.name, i.created_at
		FROM space_items i
		INNER JOIN space_to_item sti ON sti.item_id = i.id
		WHERE sti.space_id = $1
		ORDER BY i.name
	`, spaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *SpacesRepository) spaceImages(spaceID int) ([]models.Image, error) {
	rows, err := r.db.Query(`
		SELECT id, object_key, file_name, content_type, size, cover, created_at
		FROM space_images
		WHERE space_id = $1
		ORDER BY cover DESC, id
	`, spaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Image
	for rows.Next() {
		var img models.Image
		if err := rows.Scan(&img.ID, &img.ObjectKey, &img.FileName, &img.ContentType, &img.Size, &img.Cover, &img.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, img)
	}
	return result, rows.Err()
}

func (r *SpacesRepository) visibleReviews(spaceID int) ([]models.Review, error) {
	rows, err := r.db.Query(`
		SELECT rv.id, rv.space_id, rv.user_id, rv.review, rv.is_visible, rv.created_at,
		       u.first_name || ' ' || u.last_name
		FROM space_reviews rv
		INNER JOIN users u ON u.id = rv.user_id
		WHERE rv.space_id = $1 AND rv.is_visible = TRUE
		ORDER BY rv.created_at DESC
	`, spaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Review
	for rows.Next() {
		var rev models.Review
		if err := rows.Scan(&rev.ID, &rev.SpaceID, &rev.UserID, &rev.Text, &rev.IsVisible, &rev.CreatedAt, &rev.AuthorName); err != nil {
			return nil, err
		}
		result = append(result, rev)
	}
	return result, rows.Err()
}

// Search returns visible spaces matching the non-temporal filters, most
// favorited first. The availability window is applied by the caller with the
// shared availability predicate, so search and booking can never disagree.
func (r *SpacesRepository) Search(f models.SpaceFilters) ([]models.Space, error) {
	rows, err := r.db.Query(`
		SELECT DISTINCT s.id, s.name, s.description, s.capacity, s.building_id,
		       s.room_number, s.is_visible, s.created_at,
		       bl.id, bl.city, bl.street, bl.house, bl.created_at,
		       (SELECT COUNT(*) FROM favorites f WHERE f.space_id = s.id) AS fav_count
		FROM spaces s
		INNER JOIN buildings bl ON bl.id = s.building_id
		LEFT JOIN space_to_item sti ON sti.space_id = s.id
		LEFT JOIN space_items i ON i.id = sti.item_id
		WHERE s.is_visible = TRUE
		  AND ($1 = '' OR s.name ILIKE '%' || $1 || '%' OR s.description ILIKE '%' || $1 || '%')
		  AND ($2 = 0 OR s.capacity >= $2)
		  AND ($3 = '' OR LOWER(bl.city) = LOWER($3))
		  AND ($4 = '' OR LOWER(i.name) = LOWER($4))
		ORDER BY fav_count DESC, s.id
	`, f.Query, f.MinCapacity, f.City, f.Item)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSpaces(rows)
}

// ListHidden returns spaces awaiting publication, admin only.
func (r *SpacesRepository) ListHidden(offset, limit int) ([]models.Space, int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM spaces WHERE is_visible = FALSE`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(`
		SELECT s.id, s.name, s.description, s.capacity, s.building_id, s.room_number,
		       s.is_visible, s.created_at,
		       bl.id, bl.city, bl.street, bl.house, bl.created_at,
		       (SELECT COUNT(*) FROM favorites f WHERE f.space_id = s.id) AS fav_count
		FROM spaces s
		INNER JOIN buildings bl ON bl.id = s.building_id
		WHERE s.is_visible = FALSE
		ORDER BY fav_count DESC, s.id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	spaces, err := scanSpaces(rows)
	return spaces, total, err
}

func scanSpaces(rows *sql.Rows) ([]models.Space, error) {
	var result []models.Space
	for rows.Next() {
		var s models.Space
		var b models.Building
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Description, &s.Capacity, &s.BuildingID, &s.RoomNumber,
			&s.IsVisible, &s.CreatedAt,
			&b.ID, &b.City, &b.Street, &b.House, &b.CreatedAt,
			&s.FavCount,
		); err != nil {
			return nil, err
		}
		s.Building = &b
		result = append(result, s)
	}
	return result, rows.Err()
}

// ShortList is the id/name pairs of visible spaces for pickers.
func (r *SpacesRepository) ShortList() ([]models.Space, error) {
	rows, err := r.db.Query(`
		SELECT id, name FROM spaces WHERE is_visible = TRUE ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Space
	for rows.Next() {
		var s models.Space
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// UpdateSpace replaces the editable fields and the feature set.
func (r *SpacesRepository) UpdateSpace(id int, name, description string, capacity, buildingID int, roomNumber string, itemIDs []int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE spaces
		SET name = $1, description = $2, capacity = $3, building_id = $4, room_number = $5
		WHERE id = $6
	`, name, description, capacity, buildingID, roomNumber, id)
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

	if itemIDs != nil {
		if _, err := tx.Exec(`DELETE FROM space_to_item WHERE space_id = $1`, id); err != nil {
			return err
		}
		for _, itemID := range itemIDs {
			if _, err := tx.Exec(`
				INSERT INTO space_to_item (space_id, item_id) VALUES ($1, $2)
			`, id, itemID); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// SetVisible publishes or hides a space in the catalog.
func (r *SpacesRepository) SetVisible(id int, visible bool) error {
	res, err := r.db.Exec(`UPDATE spaces SET is_visible = $1 WHERE id = $2`, visible, id)
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

// MostBookedBetween finds the visible space with the most bookings created in
// [since, until). Returns nil when nothing was booked.
func (r *SpacesRepository) MostBookedBetween(since, until time.Time) (*models.Space, int, error) {
	var s models.Space
	var count int
	err := r.db.QueryRow(`
		SELECT s.id, s.name, COUNT(b.id) AS book_count
		FROM spaces s
		INNER JOIN bookings b ON b.space_id = s.id
		WHERE s.is_visible = TRUE AND b.book_date >= $1 AND b.book_date < $2
		GROUP BY s.id, s.name
		ORDER BY book_count DESC, s.id
		LIMIT 1
	`, since, until).Scan(&s.ID, &s.Name, &count)
	if err == sql.ErrNoRows {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return &s, count, nil
}

// TopByPopularity ranks visible spaces by visible reviews + favorites +
// confirmed bookings. Homepage widget.
func (r *SpacesRepository) TopByPopularity(limit int) ([]models.Space, error) {
	rows, err := r.db.Query(`
		SELECT s.id, s.name, s.description, s.capacity, s.building_id, s.room_number,
		       s.is_visible, s.created_at,
		       bl.id, bl.city, bl.street, bl.house, bl.created_at,
		       (SELECT COUNT(*) FROM favorites f WHERE f.space_id = s.id) AS fav_count,
		       (SELECT COUNT(*) FROM space_reviews rv WHERE rv.space_id = s.id AND rv.is_visible = TRUE)
		         + (SELECT COUNT(*) FROM favorites f WHERE f.space_id = s.id)
		         + (SELECT COUNT(*) FROM bookings b WHERE b.space_id = s.id AND b.status = $1)
		         AS popularity
		FROM spaces s
		INNER JOIN buildings bl ON bl.id = s.building_id
		WHERE s.is_visible = TRUE
		ORDER BY popularity DESC, s.id
		LIMIT $2
	`, models.StatusConfirmed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Space
	for rows.Next() {
		var s models.Space
		var b models.Building
		var popularity int
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Description, &s.Capacity, &s.BuildingID, &s.RoomNumber,
			&s.IsVisible, &s.CreatedAt,
			&b.ID, &b.City, &b.Street, &b.House, &b.CreatedAt,
			&s.FavCount, &popularity,
		); err != nil {
			return nil, err
		}
		s.Building = &b
		result = append(result, s)
	}
	return result, rows.Err()
}
