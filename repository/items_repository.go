package repository

import (
	"database/sql"

	"github.com/veselovese/bronitech/models"
)

// ItemsRepository manages the feature catalogs for spaces and events. The two
// live in separate tables but share the same shape and queries.
type ItemsRepository struct {
	db *sql.DB
}

func NewItemsRepository(db *sql.DB) *ItemsRepository {
	return &ItemsRepository{db: db}
}

func (r *ItemsRepository) ListSpaceItems() ([]models.Item, error) {
	return r.list("space_items")
}

func (r *ItemsRepository) ListEventItems() ([]models.Item, error) {
	return r.list("event_items")
}

func (r *ItemsRepository) CreateSpaceItem(name string) (*models.Item, error) {
	return r.create("space_items", name)
}

func (r *ItemsRepository) CreateEventItem(name string) (*models.Item, error) {
	return r.create("event_items", name)
}

func (r *ItemsRepository) list(table string) ([]models.Item, error) {
	rows, err := r.db.Query(`SELECT id, name, created_at FROM ` + table + ` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *ItemsRepository) create(table, name string) (*models.Item, error) {
	var item models.Item
	err := r.db.QueryRow(`
		INSERT INTO `+table+` (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, created_at
	`, name).Scan(&item.ID, &item.Name, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func scanItems(rows *sql.Rows) ([]models.Item, error) {
	var result []models.Item
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
