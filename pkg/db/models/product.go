package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a medicine reference shared across all pharmacies. Names are
// de-duplicated case-insensitively at creation time by the catalog service.
type Product struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
