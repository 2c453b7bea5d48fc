package models

import "time"

type MediaKind string

const (
	MediaKindImage            MediaKind = "image"
	MediaKindVideo            MediaKind = "video"
	MediaKindCarouselFragment MediaKind = "carousel-fragment"
)

// MediaAsset is an uploaded file. It is immutable once the upload
// collaborator has returned it.
type MediaAsset struct {
	ID         string    `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"-"`
	Kind       MediaKind `db:"kind" json:"kind"`
	Name       string    `db:"file_name" json:"name"`
	FileType   string    `db:"file_type" json:"-"`
	FileSize   int64     `db:"file_size" json:"-"`
	DisplayURL string    `db:"file_url" json:"url"`
	CreatedAt  time.Time `db:"created_at" json:"-"`
}
