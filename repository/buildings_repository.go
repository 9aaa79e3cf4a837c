package repository

import (
	"database/sql"

	"github.com/veselovese/bronitech/models"
)

type BuildingsRepository struct {
	db *sql.DB
}

func NewBuildingsRepository(db *sql.DB) *BuildingsRepository {
	return &BuildingsRepository{db: db}
}

func (r *BuildingsRepository) Create(city, street, house string) (*models.Building, error) {
	var b models.Building
	err := r.db.QueryRow(`
		INSERT INTO buildings (city, street, house)
		VALUES ($1, $2, $3)
		RETURNING id, city, street, house, created_at
	`, city, street, house).Scan(&b.ID, &b.City, &b.Street, &b.House, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BuildingsRepository) GetByID(id int) (*models.Building, error) {
	var b models.Building
	err := r.db.QueryRow(`
		SELECT id, city, street, house, created_at FROM buildings WHERE id = $1
	`, id).Scan(&b.ID, &b.City, &b.Street, &b.House, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BuildingsRepository) List() ([]models.Building, error) {
	rows, err := r.db.Query(`
		SELECT id, city, street, house, created_at FROM buildings ORDER BY city, street, house
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Building
	for rows.Next() {
		var b models.Building
		if err := rows.Scan(&b.ID, &b.City, &b.Street, &b.House, &b.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

// Cities returns the distinct city names for the search filter dropdown.
func (r *BuildingsRepository) Cities() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT city FROM buildings ORDER BY city`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, err
		}
		result = append(result, city)
	}
	return result, rows.Err()
}

func (r *BuildingsRepository) Update(id int, city, street, house string) error {
	res, err := r.db.Exec(`
		UPDATE buildings SET city = $1, street = $2, house = $3 WHERE id = $4
	`, city, street, house, id)
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
