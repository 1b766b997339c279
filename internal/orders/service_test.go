package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/metapharm/metapharm-backend/pkg/db/models"
	"github.com/metapharm/metapharm-backend/pkg/enums"
	pkgerrors "github.com/metapharm/metapharm-backend/pkg/errors"
	"github.com/metapharm/metapharm-backend/pkg/outbox"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	sales := `
CREATE TABLE IF NOT EXISTS sales (
  id TEXT PRIMARY KEY,
  pharmacy_id TEXT NOT NULL,
  total_amount INTEGER NOT NULL,
  customer_phone TEXT NOT NULL,
  delivery_address TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`
	saleItems := `
CREATE TABLE IF NOT EXISTS sale_items (
  id TEXT PRIMARY KEY,
  sale_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  unit_price INTEGER NOT NULL,
  created_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	outboxEvents := `
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`
	require.NoError(t, db.Exec(sales).Error)
	require.NoError(t, db.Exec(saleItems).Error)
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(outboxEvents).Error)
	return db
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newOrdersService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	publisher := outbox.NewService(outbox.NewRepository(db), nil)
	svc, err := NewService(gormTxRunner{db: db}, NewRepository(db), publisher, nil, nil)
	require.NoError(t, err)
	return svc
}

func createSale(t *testing.T, db *gorm.DB, pharmacyID uuid.UUID, status enums.SaleStatus, total int) *models.Sale {
	t.Helper()

	sale := &models.Sale{
		ID:              uuid.New(),
		PharmacyID:      pharmacyID,
		TotalAmount:     total,
		CustomerPhone:   "+229 97 00 00 00",
		DeliveryAddress: "Ganhi, Cotonou",
		Status:          status,
	}
	require.NoError(t, db.Omit("Items").Create(sale).Error)
	return sale
}

func createSaleLine(t *testing.T, db *gorm.DB, sale *models.Sale, productName string, price int) {
	t.Helper()

	product := &models.Product{ID: uuid.New(), Name: productName}
	require.NoError(t, db.Create(product).Error)
	item := &models.SaleItem{
		ID:        uuid.New(),
		SaleID:    sale.ID,
		ProductID: product.ID,
		Quantity:  1,
		UnitPrice: price,
	}
	require.NoError(t, db.Create(item).Error)
}

func TestListForPharmacyScopedAndNewestFirst(t *testing.T) {
	ctx := context.Background()
	db := setupOrdersTestDB(t)
	svc := newOrdersService(t, db)

	mine, other := uuid.New(), uuid.New()
	first := createSale(t, db, mine, enums.SaleStatusPending, 1500)
	createSaleLine(t, db, first, "Doliprane 1000mg", 1500)
	second := createSale(t, db, mine, enums.SaleStatusAccepted, 2500)
	createSaleLine(t, db, second, "Coartem 80/480", 2500)
	createSale(t, db, other, enums.SaleStatusPending, 999)

	rows, err := svc.ListForPharmacy(ctx, mine)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, sale := range rows {
		assert.Equal(t, mine, sale.PharmacyID)
		require.Len(t, sale.Items, 1)
		require.NotNil(t, sale.Items[0].Product)
	}
}

func TestUpdateStatusHappyPath(t *testing.T) {
	ctx := context.Background()
	db := setupOrdersTestDB(t)
	svc := newOrdersService(t, db)

	pharmacyID := uuid.New()
	sale := createSale(t, db, pharmacyID, enums.SaleStatusPending, 1500)

	updated, err := svc.UpdateStatus(ctx, pharmacyID, sale.ID, enums.SaleStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, enums.SaleStatusAccepted, updated.Status)

	var row models.Sale
	require.NoError(t, db.First(&row, "id = ?", sale.ID).Error)
	assert.Equal(t, enums.SaleStatusAccepted, row.Status)

	var eventCount int64
	require.NoError(t, db.Model(&models.OutboxEvent{}).
		Where("event_type = ?", enums.EventOrderStatusChanged).
		Count(&eventCount).Error)
	assert.Equal(t, int64(1), eventCount)
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	ctx := context.Background()
	db := setupOrdersTestDB(t)
	svc := newOrdersService(t, db)

	pharmacyID := uuid.New()
	completed := createSale(t, db, pharmacyID, enums.SaleStatusCompleted, 1500)

	_, err := svc.UpdateStatus(ctx, pharmacyID, completed.ID, enums.SaleStatusPending)
	require.Error(t, err)

	var coded *pkgerrors.Error
	require.True(t, errors.As(err, &coded))
	assert.Equal(t, pkgerrors.CodeStateConflict, coded.Code())

	var row models.Sale
	require.NoError(t, db.First(&row, "id = ?", completed.ID).Error)
	assert.Equal(t, enums.SaleStatusCompleted, row.Status)
}

func TestUpdateStatusTenantScoped(t *testing.T) {
	ctx := context.Background()
	db := setupOrdersTestDB(t)
	svc := newOrdersService(t, db)

	owner, intruder := uuid.New(), uuid.New()
	sale := createSale(t, db, owner, enums.SaleStatusPending, 1500)

	_, err := svc.UpdateStatus(ctx, intruder, sale.ID, enums.SaleStatusAccepted)
	require.Error(t, err)

	var coded *pkgerrors.Error
	require.True(t, errors.As(err, &coded))
	assert.Equal(t, pkgerrors.CodeNotFound, coded.Code())
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	db := setupOrdersTestDB(t)
	svc := newOrdersService(t, db)

	_, err := svc.UpdateStatus(ctx, uuid.New(), uuid.New(), enums.SaleStatus("shipped"))
	require.Error(t, err)

	var coded *pkgerrors.Error
	require.True(t, errors.As(err, &coded))
	assert.Equal(t, pkgerrors.CodeValidation, coded.Code())
}
