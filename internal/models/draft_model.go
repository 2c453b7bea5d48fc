package models

import (
	"encoding/json"
	"time"
)

type Draft struct {
	ID        string          `db:"id" json:"id"`
	UserID    int64           `db:"user_id" json:"-"`
	State     json.RawMessage `db:"state" json:"state"`
	Version   int             `db:"version" json:"version"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}
