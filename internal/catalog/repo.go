package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/metapharm/metapharm-backend/pkg/db/models"
)

// Repository exposes pharmacy, product and stock persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListPharmacies returns every pharmacy row ordered by name.
func (r *Repository) ListPharmacies(ctx context.Context) ([]models.Pharmacy, error) {
	var rows []models.Pharmacy
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

// FindPharmacy loads one pharmacy by id.
func (r *Repository) FindPharmacy(ctx context.Context, id uuid.UUID) (*models.Pharmacy, error) {
	var row models.Pharmacy
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CreatePharmacy inserts a new pharmacy row.
func (r *Repository) CreatePharmacy(ctx context.Context, pharmacy *models.Pharmacy) error {
	return r.db.WithContext(ctx).Create(pharmacy).Error
}

// SetOnDuty flips the on-duty flag for a pharmacy.
func (r *Repository) SetOnDuty(ctx context.Context, id uuid.UUID, onDuty bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Pharmacy{}).
		Where("id = ?", id).
		UpdateColumn("is_on_duty", onDuty).Error
}

// SearchProducts returns products whose name contains the term, case-insensitive.
func (r *Repository) SearchProducts(ctx context.Context, term string) ([]models.Product, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", pattern).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

// FindProductByName matches a product by exact name, case-insensitive.
func (r *Repository) FindProductByName(ctx context.Context, name string) (*models.Product, error) {
	var row models.Product
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// AvailableStocksForProducts returns available stock lines for the given
// product set with product and pharmacy preloaded.
func (r *Repository) AvailableStocksForProducts(ctx context.Context, productIDs []uuid.UUID) ([]models.Stock, error) {
	var rows []models.Stock
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Pharmacy").
		Where("available = ? AND product_id IN ?", true, productIDs).
		Find(&rows).Error
	return rows, err
}

// StocksForPharmacy returns every stock line held by one pharmacy.
func (r *Repository) StocksForPharmacy(ctx context.Context, pharmacyID uuid.UUID) ([]models.Stock, error) {
	var rows []models.Stock
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("pharmacy_id = ?", pharmacyID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// FindStockForPharmacy loads one stock line scoped to its owning pharmacy.
func (r *Repository) FindStockForPharmacy(ctx context.Context, pharmacyID, stockID uuid.UUID) (*models.Stock, error) {
	var row models.Stock
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id = ? AND pharmacy_id = ?", stockID, pharmacyID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateStock inserts a new stock row.
func (r *Repository) CreateStock(ctx context.Context, stock *models.Stock) error {
	return r.db.WithContext(ctx).Create(stock).Error
}

// UpdateStockAvailability sets the available flag on a stock line.
func (r *Repository) UpdateStockAvailability(ctx context.Context, stockID uuid.UUID, available bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Stock{}).
		Where("id = ?", stockID).
		UpdateColumn("available", available).Error
}
