package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/metapharm/metapharm-backend/pkg/db/models"
	"github.com/metapharm/metapharm-backend/pkg/enums"
)

// Repository exposes sale persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateSale inserts a sale row.
func (r *Repository) CreateSale(ctx context.Context, sale *models.Sale) error {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit("Items").Create(sale).Error
}

// CreateSaleItems inserts the line rows for a sale.
func (r *Repository) CreateSaleItems(ctx context.Context, items []models.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// ListForPharmacy returns the pharmacy's sales newest first with their lines
// and product names preloaded.
func (r *Repository) ListForPharmacy(ctx context.Context, pharmacyID uuid.UUID) ([]models.Sale, error) {
	var rows []models.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Where("pharmacy_id = ?", pharmacyID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// FindForPharmacy loads one sale scoped to its owning pharmacy.
func (r *Repository) FindForPharmacy(ctx context.Context, pharmacyID, saleID uuid.UUID) (*models.Sale, error) {
	var row models.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND pharmacy_id = ?", saleID, pharmacyID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateStatus persists a status change for a sale.
func (r *Repository) UpdateStatus(ctx context.Context, saleID uuid.UUID, status enums.SaleStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("id = ?", saleID).
		Update("status", status).Error
}
