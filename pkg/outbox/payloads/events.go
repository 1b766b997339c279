package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/metapharm/metapharm-backend/pkg/enums"
)

// OrderCreatedEvent signals a new sale created by checkout for one pharmacy.
type OrderCreatedEvent struct {
	SaleID        uuid.UUID `json:"sale_id"`
	PharmacyID    uuid.UUID `json:"pharmacy_id"`
	TotalAmount   int       `json:"total_amount"`
	ItemCount     int       `json:"item_count"`
	CustomerPhone string    `json:"customer_phone"`
}

// OrderStatusChangedEvent is emitted when a pharmacist moves a sale through
// its workflow.
type OrderStatusChangedEvent struct {
	SaleID     uuid.UUID        `json:"sale_id"`
	PharmacyID uuid.UUID        `json:"pharmacy_id"`
	From       enums.SaleStatus `json:"from"`
	To         enums.SaleStatus `json:"to"`
	ChangedAt  time.Time        `json:"changed_at"`
}
