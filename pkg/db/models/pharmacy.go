package models

import (
	"time"

	"github.com/google/uuid"
)

// Pharmacy represents the canonical tenant model.
type Pharmacy struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Quartier  string    `gorm:"column:quartier" json:"quartier"`
	Lat       float64   `gorm:"column:lat;type:numeric(9,6);not null" json:"lat"`
	Lng       float64   `gorm:"column:lng;type:numeric(9,6);not null" json:"lng"`
	IsOnDuty  bool      `gorm:"column:is_on_duty;not null;default:false" json:"is_on_duty"`
	Phone     *string   `gorm:"column:phone" json:"phone,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName pins the plural table name.
func (Pharmacy) TableName() string { return "pharmacies" }
