package repository

import (
	"database/sql"

	"golang.org/x/crypto/bcrypt"

	"github.com/veselovese/bronitech/models"
)

type UsersRepository struct {
	db *sql.DB
}

func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// CreateUser inserts the user and its profile row in one transaction, the
// profile always exists for a registered user.
func (r *UsersRepository) CreateUser(username, password, firstName, lastName, telephone string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var userID int
	err = tx.QueryRow(`
		INSERT INTO users (username, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, username, string(hash), firstName, lastName).Scan(&userID)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(`
		INSERT INTO profiles (user_id, telephone) VALUES ($1, $2)
	`, userID, telephone)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetUserByID(userID)
}

func (r *UsersRepository) GetUserByUsername(username string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(`
		SELECT id, username, password_hash, first_name, last_name, created_at
		FROM users
		WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UsersRepository) GetUserByID(id int) (*models.User, error) {
	var u models.User
	var p models.Profile
	err := r.db.QueryRow(`
		SELECT u.id, u.username, u.password_hash, u.first_name, u.last_name, u.created_at,
		       p.user_id, p.patronymic, p.telephone, p.avatar_key, p.telegram_link,
		       p.is_organizer, p.is_admin
		FROM users u
		INNER JOIN profiles p ON p.user_id = u.id
		WHERE u.id = $1
	`, id).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CreatedAt,
		&p.UserID, &p.Patronymic, &p.Telephone, &p.AvatarKey, &p.TelegramLink,
		&p.IsOrganizer, &p.IsAdmin,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Profile = &p
	return &u, nil
}

// IsAdmin is the single admin capability check; every status transition and
// inventory mutation goes through it.
func (r *UsersRepository) IsAdmin(userID int) (bool, error) {
	var isAdmin bool
	err := r.db.QueryRow(`
		SELECT is_admin FROM profiles WHERE user_id = $1
	`, userID).Scan(&isAdmin)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return isAdmin, nil
}

// ListUsers returns everyone except excludeID, with booking and registration
// totals, ordered by first name. Used by the admin dashboard.
func (r *UsersRepository) ListUsers(excludeID, offset, limit int) ([]models.User, int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM users WHERE id <> $1
	`, excludeID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(`
		SELECT u.id, u.username, u.first_name, u.last_name, u.created_at,
		       p.is_organizer, p.is_admin,
		       (SELECT COUNT(*) FROM bookings b WHERE b.user_id = u.id),
		       (SELECT COUNT(*) FROM registrations g WHERE g.user_id = u.id)
		FROM users u
		INNER JOIN profiles p ON p.user_id = u.id
		WHERE u.id <> $1
		ORDER BY u.first_name, u.id
		LIMIT $2 OFFSET $3
	`, excludeID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []models.User
	for rows.Next() {
		var u models.User
		var p models.Profile
		if err := rows.Scan(
			&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.CreatedAt,
			&p.IsOrganizer, &p.IsAdmin,
			&u.TotalBookings, &u.TotalRegistrations,
		); err != nil {
			return nil, 0, err
		}
		p.UserID = u.ID
		u.Profile = &p
		result = append(result, u)
	}
	return result, total, rows.Err()
}

// SetAdmin grants or revokes the admin flag.
func (r *UsersRepository) SetAdmin(userID int, isAdmin bool) error {
	res, err := r.db.Exec(`
		UPDATE profiles SET is_admin = $1 WHERE user_id = $2
	`, isAdmin, userID)
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

// SetAvatar stores the new avatar object key and returns the replaced one so
// the caller can delete the old blob.
func (r *UsersRepository) SetAvatar(userID int, objectKey string) (*string, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var previous *string
	err = tx.QueryRow(`
		SELECT avatar_key FROM profiles WHERE user_id = $1 FOR UPDATE
	`, userID).Scan(&previous)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(`
		UPDATE profiles SET avatar_key = $1 WHERE user_id = $2
	`, objectKey, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return previous, nil
}

// UpdateProfile replaces the mutable profile fields.
func (r *UsersRepository) UpdateProfile(userID int, patronymic, telephone string, telegramLink *string) error {
	_, err := r.db.Exec(`
		UPDATE profiles
		SET patronymic = $1, telephone = $2, telegram_link = $3
		WHERE user_id = $4
	`, patronymic, telephone, telegramLink, userID)
	return err
}
