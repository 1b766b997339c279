package models

import (
	"time"

	"github.com/google/uuid"
)

// SaleItem is one product line inside a sale. UnitPrice is a snapshot of
// the stock price at checkout time, in FCFA.
type SaleItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SaleID    uuid.UUID `gorm:"column:sale_id;type:uuid;not null;index" json:"sale_id"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	Quantity  int       `gorm:"column:quantity;not null;default:1" json:"quantity"`
	UnitPrice int       `gorm:"column:unit_price;not null" json:"unit_price"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (SaleItem) TableName() string { return "sale_items" }
