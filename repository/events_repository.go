package repository

import (
	"database/sql"
	"time"

	"github.com/veselovese/bronitech/models"
)

type EventsRepository struct {
	db *sql.DB
}

func NewEventsRepository(db *sql.DB) *EventsRepository {
	return &EventsRepository{db: db}
}

// Create inserts the event and its tag links in one transaction. New events
// start hidden until an admin publishes them.
func (r *EventsRepository) Create(name, description string, date time.Time, spaceID *int, organizerID int, itemIDs []int) (*models.Event, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var eventID int
	err = tx.QueryRow(`
		INSERT INTO events (name, description, date, space_id, organizer_id, is_visible)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING id
	`, name, description, date, spaceID, organizerID).Scan(&eventID)
	if err != nil {
		return nil, err
	}

	for _, itemID := range itemIDs {
		if _, err := tx.Exec(`
			INSERT INTO event_to_item (event_id, item_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, eventID, itemID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(eventID)
}

// GetByID loads the event with its space, organizer, tags, images and
// registration count.
func (r *EventsRepository) GetByID(id int) (*models.Event, error) {
	var e models.Event
	var o models.Organizer
	err := r.db.QueryRow(`
		SELECT e.id, e.name, e.description, e.date, e.space_id, e.organizer_id,
		       e.is_visible, e.created_at,
		       o.id, o.name, o.description, o.lead_user_id, o.charter_key, o.created_at,
		       (SELECT COUNT(*) FROM registrations g WHERE g.event_id = e.id AND g.status IN ($2, $3))
		FROM events e
		INNER JOIN organizers o ON o.id = e.organizer_id
		WHERE e.id = $1
	`, id, models.StatusNew, models.StatusConfirmed).Scan(
		&e.ID, &e.Name, &e.Description, &e.Date, &e.SpaceID, &e.OrganizerID,
		&e.IsVisible, &e.CreatedAt,
		&o.ID, &o.Name, &o.Description, &o.LeadUserID, &o.CharterKey, &o.CreatedAt,
		&e.RegCount,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.Organizer = &o

	if e.SpaceID != nil {
		rows := r.db.QueryRow(`SELECT id, name FROM spaces WHERE id = $1`, *e.SpaceID)
		var s models.Space
		if err := rows.Scan(&s.ID, &s.Name); err == nil {
			e.Space = &s
		} else if err != sql.ErrNoRows {
			return nil, err
		}
	}

	if e.Items, err = r.eventItems(id); err != nil {
		return nil, err
	}
	if e.Images, err = r.eventImages(id); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventsRepository) eventItems(eventID int) ([]models.Item, error) {
	rows, err := r.db.Query(`
		SELECT i.id, i.name, i.created_at
		FROM event_items i
		INNER JOIN event_to_item eti ON eti.item_id = i.id
		WHERE eti.event_id = $1
		ORDER BY i.name
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *EventsRepository) eventImages(eventID int) ([]models.Image, error) {
	rows, err := r.db.Query(`
		SELECT id, object_key, file_name, content_type, size, cover, created_at
		FROM event_images
		WHERE event_id = $1
		ORDER BY cover DESC, id
	`, eventID)
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

// ListUpcoming returns visible future events, most registered first.
func (r *EventsRepository) ListUpcoming(now time.Time, limit int) ([]models.Event, error) {
	rows, err := r.db.Query(`
		SELECT e.id, e.name, e.description, e.date, e.space_id, e.organizer_id,
		       e.is_visible, e.created_at,
		       o.id, o.name, o.description, o.lead_user_id, o.charter_key, o.created_at,
		       (SELECT COUNT(*) FROM registrations g WHERE g.event_id = e.id AND g.status IN ($3, $4)) AS reg_count
		FROM events e
		INNER JOIN organizers o ON o.id = e.organizer_id
		WHERE e.is_visible = TRUE AND e.date >= $1
		ORDER BY reg_count DESC, e.date
		LIMIT $2
	`, now, limit, models.StatusNew, models.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListHidden returns events awaiting publication, admin only.
func (r *EventsRepository) ListHidden(offset, limit int) ([]models.Event, int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM events WHERE is_visible = FALSE`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(`
		SELECT e.id, e.name, e.description, e.date, e.space_id, e.organizer_id,
		       e.is_visible, e.created_at,
		       o.id, o.name, o.description, o.lead_user_id, o.charter_key, o.created_at,
		       (SELECT COUNT(*) FROM registrations g WHERE g.event_id = e.id AND g.status IN ($3, $4)) AS reg_count
		FROM events e
		INNER JOIN organizers o ON o.id = e.organizer_id
		WHERE e.is_visible = FALSE
		ORDER BY e.date
		LIMIT $1 OFFSET $2
	`, limit, offset, models.StatusNew, models.StatusConfirmed)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	events, err := scanEvents(rows)
	return events, total, err
}

// ListByOrganizer returns all events of one organizer, newest date first.
func (r *EventsRepository) ListByOrganizer(organizerID int) ([]models.Event, error) {
	rows, err := r.db.Query(`
		SELECT e.id, e.name, e.description, e.date, e.space_id, e.organizer_id,
		       e.is_visible, e.created_at,
		       o.id, o.name, o.description, o.lead_user_id, o.charter_key, o.created_at,
		       (SELECT COUNT(*) FROM registrations g WHERE g.event_id = e.id AND g.status IN ($2, $3)) AS reg_count
		FROM events e
		INNER JOIN organizers o ON o.id = e.organizer_id
		WHERE e.organizer_id = $1
		ORDER BY e.date DESC
	`, organizerID, models.StatusNew, models.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]models.Event, error) {
	var result []models.Event
	for rows.Next() {
		var e models.Event
		var o models.Organizer
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Description, &e.Date, &e.SpaceID, &e.OrganizerID,
			&e.IsVisible, &e.CreatedAt,
			&o.ID, &o.Name, &o.Description, &o.LeadUserID, &o.CharterKey, &o.CreatedAt,
			&e.RegCount,
		); err != nil {
			return nil, err
		}
		e.Organizer = &o
		result = append(result, e)
	}
	return result, rows.Err()
}

// Update replaces the editable fields and, when itemIDs is non-nil, the tag
// set.
func (r *EventsRepository) Update(id int, name, description string, date time.Time, spaceID *int, itemIDs []int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE events
		SET name = $1, description = $2, date = $3, space_id = $4
		WHERE id = $5
	`, name, description, date, spaceID, id)
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
		if _, err := tx.Exec(`DELETE FROM event_to_item WHERE event_id = $1`, id); err != nil {
			return err
		}
		for _, itemID := range itemIDs {
			if _, err := tx.Exec(`
				INSERT INTO event_to_item (event_id, item_id) VALUES ($1, $2)
			`, id, itemID); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (r *EventsRepository) SetVisible(id int, visible bool) error {
	res, err := r.db.Exec(`UPDATE events SET is_visible = $1 WHERE id = $2`, visible, id)
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

// CountCreatedBetween counts events created within [since, until). Weekly
// stats widget.
func (r *EventsRepository) CountCreatedBetween(since, until time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM events WHERE created_at >= $1 AND created_at < $2
	`, since, until).Scan(&count)
	return count, err
}
