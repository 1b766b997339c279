package models

import (
	"time"

	"github.com/google/uuid"
)

// Stock links one pharmacy to one product with a price and availability flag.
// Prices are whole FCFA, no minor units.
type Stock struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PharmacyID uuid.UUID `gorm:"column:pharmacy_id;type:uuid;not null" json:"pharmacy_id"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	Price      int       `gorm:"column:price;not null" json:"price"`
	// No gorm default tag here: gorm skips zero values that carry one, so an
	// insert with Available=false would silently persist the column default.
	Available  bool      `gorm:"column:available;not null" json:"available"`
	Product    *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Pharmacy   *Pharmacy `gorm:"foreignKey:PharmacyID" json:"pharmacy,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
