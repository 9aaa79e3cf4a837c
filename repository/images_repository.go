package repository

import (
	"database/sql"
	"fmt"

	"github.com/veselovese/bronitech/models"
)

// ImagesRepository stores image metadata for spaces and events. The binary
// payload lives in object storage; rows here only carry the object key.
type ImagesRepository struct {
	db *sql.DB
}

func NewImagesRepository(db *sql.DB) *ImagesRepository {
	return &ImagesRepository{db: db}
}

func (r *ImagesRepository) AddSpaceImage(spaceID int, img *models.Image) (*models.Image, error) {
	return r.add("space_images", "space_id", spaceID, img)
}

func (r *ImagesRepository) AddEventImage(eventID int, img *models.Image) (*models.Image, error) {
	return r.add("event_images", "event_id", eventID, img)
}

func (r *ImagesRepository) add(table, ownerCol string, ownerID int, img *models.Image) (*models.Image, error) {
	// The first image of an owner becomes the cover automatically.
	var hasCover bool
	err := r.db.QueryRow(fmt.Sprintf(`
		SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND cover = TRUE)
	`, table, ownerCol), ownerID).Scan(&hasCover)
	if err != nil {
		return nil, err
	}

	var stored models.Image
	err = r.db.QueryRow(fmt.Sprintf(`
		INSERT INTO %s (%s, object_key, file_name, content_type, size, cover)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, object_key, file_name, content_type, size, cover, created_at
	`, table, ownerCol), ownerID, img.ObjectKey, img.FileName, img.ContentType, img.Size, !hasCover).Scan(
		&stored.ID, &stored.ObjectKey, &stored.FileName, &stored.ContentType, &stored.Size, &stored.Cover, &stored.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *ImagesRepository) GetSpaceImage(spaceID, imageID int) (*models.Image, error) {
	return r.get("space_images", "space_id", spaceID, imageID)
}

func (r *ImagesRepository) GetEventImage(eventID, imageID int) (*models.Image, error) {
	return r.get("event_images", "event_id", eventID, imageID)
}

func (r *ImagesRepository) get(table, ownerCol string, ownerID, imageID int) (*models.Image, error) {
	var img models.Image
	err := r.db.QueryRow(fmt.Sprintf(`
		SELECT id, object_key, file_name, content_type, size, cover, created_at
		FROM %s
		WHERE id = $1 AND %s = $2
	`, table, ownerCol), imageID, ownerID).Scan(
		&img.ID, &img.ObjectKey, &img.FileName, &img.ContentType, &img.Size, &img.Cover, &img.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// DeleteSpaceImage removes the row and returns the object key so the caller
// can delete the blob from storage afterwards.
func (r *ImagesRepository) DeleteSpaceImage(spaceID, imageID int) (string, error) {
	return r.delete("space_images", "space_id", spaceID, imageID)
}

func (r *ImagesRepository) DeleteEventImage(eventID, imageID int) (string, error) {
	return r.delete("event_images", "event_id", eventID, imageID)
}

func (r *ImagesRepository) delete(table, ownerCol string, ownerID, imageID int) (string, error) {
	var objectKey string
	err := r.db.QueryRow(fmt.Sprintf(`
		DELETE FROM %s WHERE id = $1 AND %s = $2
		RETURNING object_key
	`, table, ownerCol), imageID, ownerID).Scan(&objectKey)
	if err == sql.ErrNoRows {
		return "", models.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return objectKey, nil
}

// SetSpaceCover promotes one image to cover. Clearing the previous cover and
// setting the new one happen in the same transaction, so at most one cover
// row ever exists per space.
func (r *ImagesRepository) SetSpaceCover(spaceID, imageID int) error {
	return r.setCover("space_images", "space_id", spaceID, imageID)
}

func (r *ImagesRepository) SetEventCover(eventID, imageID int) error {
	return r.setCover("event_images", "event_id", eventID, imageID)
}

func (r *ImagesRepository) setCover(table, ownerCol string, ownerID, imageID int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf(`
		UPDATE %s SET cover = FALSE WHERE %s = $1 AND cover = TRUE
	`, table, ownerCol), ownerID); err != nil {
		return err
	}

	res, err := tx.Exec(fmt.Sprintf(`
		UPDATE %s SET cover = TRUE WHERE id = $1 AND %s = $2
	`, table, ownerCol), imageID, ownerID)
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
	return tx.Commit()
}
