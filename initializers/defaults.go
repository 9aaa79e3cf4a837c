package initializers

import (
	"database/sql"
	"log/slog"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaults runs once on startup: seeds the common space features and,
// when ADMIN_USERNAME/ADMIN_PASSWORD are set, makes sure that account exists
// with the admin flag so a fresh deployment is manageable.
func InitDefaults(db *sql.DB) error {
	for _, name := range []string{"projector", "whiteboard", "conference phone"} {
		if err := ensureSpaceItem(db, name); err != nil {
			return err
		}
	}

	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		slog.Info("no bootstrap admin configured")
		return nil
	}
	return ensureAdmin(db, username, password)
}

func ensureSpaceItem(db *sql.DB, name string) error {
	var id int
	err := db.QueryRow(`SELECT id FROM space_items WHERE name = $1`, name).Scan(&id)
	if err == sql.ErrNoRows {
		return db.QueryRow(`INSERT INTO space_items (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	}
	return err
}

func ensureAdmin(db *sql.DB, username, password string) error {
	var userID int
	err := db.QueryRow(`SELECT id FROM users WHERE username = $1`, username).Scan(&userID)
	if err == sql.ErrNoRows {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if hashErr != nil {
			return hashErr
		}
		tx, txErr := db.Begin()
		if txErr != nil {
			return txErr
		}
		defer tx.Rollback()
		if err := tx.QueryRow(`
			INSERT INTO users (username, password_hash, first_name, last_name)
			VALUES ($1, $2, 'Admin', '')
			RETURNING id
		`, username, string(hash)).Scan(&userID); err != nil {
			return err
		}
		if _, err := tx.Exec(`
			INSERT INTO profiles (user_id, is_admin) VALUES ($1, TRUE)
		`, userID); err != nil {
			return err
		}
		return tx.Commit()
	}
	if err != nil {
		return err
	}
	_, err = db.Exec(`UPDATE profiles SET is_admin = TRUE WHERE user_id = $1`, userID)
	return err
}
