package models

import "time"

// Image is a stored picture attached to a space or an event. ObjectKey is the
// MinIO object name. At most one image per owner has Cover set; the repository
// enforces that inside one transaction when the cover changes.
type Image struct {
	ID          int       `json:"id"`
	ObjectKey   string    `json:"-"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	Cover       bool      `json:"cover"`
	CreatedAt   time.Time `json:"createdAt"`
}
