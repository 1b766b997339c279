package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/metapharm/metapharm-backend/pkg/enums"
)

// Notification is a per-pharmacy inbox row written by the event consumer.
// Dashboards poll these instead of holding a push channel open.
type Notification struct {
	ID         uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PharmacyID uuid.UUID              `gorm:"column:pharmacy_id;type:uuid;not null;index" json:"pharmacy_id"`
	Kind       enums.NotificationKind `gorm:"column:kind;type:text;not null" json:"kind"`
	Title      string                 `gorm:"column:title;not null" json:"title"`
	Body       string                 `gorm:"column:body;not null" json:"body"`
	SaleID     *uuid.UUID             `gorm:"column:sale_id;type:uuid" json:"sale_id,omitempty"`
	ReadAt     *time.Time             `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt  time.Time              `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
