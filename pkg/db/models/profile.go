package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/metapharm/metapharm-backend/pkg/enums"
)

// Profile attaches a role and, for pharmacists, a pharmacy to a user.
// It shares its primary key with the user it describes.
type Profile struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PharmacyID *uuid.UUID        `gorm:"column:pharmacy_id;type:uuid;index" json:"pharmacy_id,omitempty"`
	Role       enums.ProfileRole `gorm:"column:role;type:text;not null" json:"role"`
	FullName   string            `gorm:"column:full_name;not null" json:"full_name"`
	Pharmacy   *Pharmacy         `gorm:"foreignKey:PharmacyID" json:"pharmacy,omitempty"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
