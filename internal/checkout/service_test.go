package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/metapharm/metapharm-backend/internal/cart"
	"github.com/metapharm/metapharm-backend/internal/orders"
	"github.com/metapharm/metapharm-backend/pkg/db/models"
	"github.com/metapharm/metapharm-backend/pkg/enums"
	"github.com/metapharm/metapharm-backend/pkg/outbox"
)

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
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
	require.NoError(t, db.Exec(outboxEvents).Error)
	return db
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// failAfterPublisher emits normally for the first n calls, then errors.
type failAfterPublisher struct {
	inner *outbox.Service
	after int
	calls int
}

func (p *failAfterPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	p.calls++
	if p.calls > p.after {
		return errors.New("outbox unavailable")
	}
	return p.inner.Emit(ctx, tx, event)
}

func seedCart(t *testing.T, store *cart.Store, key string, inputs []cart.AddInput) []cart.Item {
	t.Helper()

	var items []cart.Item
	var err error
	for _, input := range inputs {
		items, err = store.Add(context.Background(), key, input)
		require.NoError(t, err)
	}
	return items
}

func newCheckoutService(t *testing.T, db *gorm.DB, carts cartReader, publisher outboxPublisher) Service {
	t.Helper()

	svc, err := NewService(gormTxRunner{db: db}, carts, orders.NewRepository(db), publisher, nil, nil)
	require.NoError(t, err)
	return svc
}

func TestExecuteCreatesOneSalePerPharmacy(t *testing.T) {
	ctx := context.Background()
	db := setupCheckoutTestDB(t)

	store, err := cart.NewStore(cart.NewMemoryStorage(), nil)
	require.NoError(t, err)

	gare, saintMichel := uuid.New(), uuid.New()
	doli1000, doli500, coartem := uuid.New(), uuid.New(), uuid.New()
	seedCart(t, store, "cart-1", []cart.AddInput{
		{ProductID: doli1000, ProductName: "Doliprane 1000mg", PharmacyID: gare, PharmacyName: "Gare", Price: 1500},
		{ProductID: coartem, ProductName: "Coartem 80/480", PharmacyID: gare, PharmacyName: "Gare", Price: 2500},
		{ProductID: doli500, ProductName: "Doliprane 500mg", PharmacyID: saintMichel, PharmacyName: "Saint Michel", Price: 800},
	})

	publisher := outbox.NewService(outbox.NewRepository(db), nil)
	svc := newCheckoutService(t, db, store, publisher)

	result, err := svc.Execute(ctx, "cart-1", CheckoutInput{Phone: "+229 97 11 22 33", Address: "Ganhi, Cotonou"})
	require.NoError(t, err)
	require.Len(t, result.Sales, 2)

	byPharmacy := map[uuid.UUID]SaleSummary{}
	for _, summary := range result.Sales {
		assert.Equal(t, enums.SaleStatusPending, summary.Status)
		byPharmacy[summary.PharmacyID] = summary
	}
	assert.Equal(t, 4000, byPharmacy[gare].TotalAmount)
	assert.Equal(t, 2, byPharmacy[gare].ItemCount)
	assert.Equal(t, 800, byPharmacy[saintMichel].TotalAmount)
	assert.Equal(t, 1, byPharmacy[saintMichel].ItemCount)

	var saleCount, itemCount, eventCount int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&saleCount).Error)
	require.NoError(t, db.Model(&models.SaleItem{}).Count(&itemCount).Error)
	require.NoError(t, db.Model(&models.OutboxEvent{}).Count(&eventCount).Error)
	assert.Equal(t, int64(2), saleCount)
	assert.Equal(t, int64(3), itemCount)
	assert.Equal(t, int64(2), eventCount)

	// Full success clears the cart.
	items, err := store.Get(ctx, "cart-1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestExecuteGroupFailureLeavesEarlierSalesAndCart(t *testing.T) {
	ctx := context.Background()
	db := setupCheckoutTestDB(t)

	store, err := cart.NewStore(cart.NewMemoryStorage(), nil)
	require.NoError(t, err)
	seedCart(t, store, "cart-2", []cart.AddInput{
		{ProductID: uuid.New(), ProductName: "Doliprane 1000mg", PharmacyID: uuid.New(), PharmacyName: "A", Price: 1500},
		{ProductID: uuid.New(), ProductName: "Paracétamol", PharmacyID: uuid.New(), PharmacyName: "B", Price: 500},
	})

	publisher := &failAfterPublisher{inner: outbox.NewService(outbox.NewRepository(db), nil), after: 1}
	svc := newCheckoutService(t, db, store, publisher)

	_, err = svc.Execute(ctx, "cart-2", CheckoutInput{Phone: "+229 97 11 22 33", Address: "Akpakpa"})
	require.Error(t, err)

	// First group committed with its lines and event, second rolled back whole.
	var saleCount, itemCount, eventCount int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&saleCount).Error)
	require.NoError(t, db.Model(&models.SaleItem{}).Count(&itemCount).Error)
	require.NoError(t, db.Model(&models.OutboxEvent{}).Count(&eventCount).Error)
	assert.Equal(t, int64(1), saleCount)
	assert.Equal(t, int64(1), itemCount)
	assert.Equal(t, int64(1), eventCount)

	// Cart stays intact for retry.
	items, err := store.Get(ctx, "cart-2")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestExecuteValidatesContactAndCart(t *testing.T) {
	ctx := context.Background()
	db := setupCheckoutTestDB(t)

	store, err := cart.NewStore(cart.NewMemoryStorage(), nil)
	require.NoError(t, err)
	publisher := outbox.NewService(outbox.NewRepository(db), nil)
	svc := newCheckoutService(t, db, store, publisher)

	_, err = svc.Execute(ctx, "cart-3", CheckoutInput{Phone: "", Address: "Ganhi"})
	require.Error(t, err)

	_, err = svc.Execute(ctx, "cart-3", CheckoutInput{Phone: "+229 97 11 22 33", Address: "Ganhi"})
	require.Error(t, err, "empty cart must be rejected")

	var saleCount int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&saleCount).Error)
	assert.Equal(t, int64(0), saleCount)
}
