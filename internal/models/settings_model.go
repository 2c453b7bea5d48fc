package models

import "time"

// Settings holds the per-user publishing preferences the best-time oracle
// ranks around.
type Settings struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	PostingTime time.Time `db:"posting_time" json:"posting_time"`
	Category    string    `db:"category" json:"category"`
	Timezone    string    `db:"timezone" json:"timezone"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
