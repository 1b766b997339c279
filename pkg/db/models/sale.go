package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/metapharm/metapharm-backend/pkg/enums"
)

// Sale is one customer order owned by a single pharmacy. TotalAmount is
// computed once at creation from its line prices and never recomputed.
type Sale struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PharmacyID      uuid.UUID        `gorm:"column:pharmacy_id;type:uuid;not null" json:"pharmacy_id"`
	TotalAmount     int              `gorm:"column:total_amount;not null" json:"total_amount"`
	CustomerPhone   string           `gorm:"column:customer_phone;not null" json:"customer_phone"`
	DeliveryAddress string           `gorm:"column:delivery_address;not null" json:"delivery_address"`
	Status          enums.SaleStatus `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	Items           []SaleItem       `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Sale) TableName() string { return "sales" }
