package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/metapharm/metapharm-backend/internal/cart"
	"github.com/metapharm/metapharm-backend/internal/checkout/helpers"
	"github.com/metapharm/metapharm-backend/internal/orders"
	"github.com/metapharm/metapharm-backend/pkg/db/models"
	"github.com/metapharm/metapharm-backend/pkg/enums"
	pkgerrors "github.com/metapharm/metapharm-backend/pkg/errors"
	"github.com/metapharm/metapharm-backend/pkg/logger"
	"github.com/metapharm/metapharm-backend/pkg/metrics"
	"github.com/metapharm/metapharm-backend/pkg/outbox"
	"github.com/metapharm/metapharm-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartReader interface {
	Get(ctx context.Context, key string) ([]cart.Item, error)
	Clear(ctx context.Context, key string) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// CheckoutInput captures the delivery details submitted with the cart.
type CheckoutInput struct {
	Phone   string
	Address string
}

// SaleSummary reports one created sale back to the customer.
type SaleSummary struct {
	SaleID      uuid.UUID        `json:"sale_id"`
	PharmacyID  uuid.UUID        `json:"pharmacy_id"`
	TotalAmount int              `json:"total_amount"`
	ItemCount   int              `json:"item_count"`
	Status      enums.SaleStatus `json:"status"`
}

// Result is the outcome of a checkout, one sale per pharmacy in the cart.
type Result struct {
	Sales []SaleSummary `json:"sales"`
}

// Service executes checkout orchestration.
type Service interface {
	Execute(ctx context.Context, cartKey string, input CheckoutInput) (*Result, error)
}

type service struct {
	tx         txRunner
	carts      cartReader
	ordersRepo *orders.Repository
	publisher  outboxPublisher
	metrics    *metrics.OrderMetrics
	logg       *logger.Logger
}

// NewService builds the checkout service.
func NewService(
	tx txRunner,
	carts cartReader,
	ordersRepo *orders.Repository,
	publisher outboxPublisher,
	orderMetrics *metrics.OrderMetrics,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		tx:         tx,
		carts:      carts,
		ordersRepo: ordersRepo,
		publisher:  publisher,
		metrics:    orderMetrics,
		logg:       logg,
	}, nil
}

// Execute turns the cart into one pending sale per pharmacy. Each pharmacy
// group commits in its own transaction together with its lines and its
// order.created outbox event. Groups stay sequential and independent: a
// failure leaves earlier groups persisted and the cart intact for retry.
func (s *service) Execute(ctx context.Context, cartKey string, input CheckoutInput) (*Result, error) {
	started := time.Now()

	contact, err := helpers.ValidateContact(helpers.ContactInfo{Phone: input.Phone, Address: input.Address})
	if err != nil {
		return nil, err
	}

	items, err := s.carts.Get(ctx, cartKey)
	if err != nil {
		return nil, err
	}
	if err := helpers.ValidateItems(items); err != nil {
		return nil, err
	}

	grouped := helpers.GroupItemsByPharmacy(items)
	summaries := make([]SaleSummary, 0, len(grouped))

	for _, pharmacyID := range helpers.SortedPharmacyIDs(grouped) {
		group := grouped[pharmacyID]
		summary, err := s.createSale(ctx, pharmacyID, group, contact)
		if err != nil {
			s.metrics.IncOrderCreated("failure")
			if s.logg != nil {
				failCtx := s.logg.WithFields(ctx, map[string]any{
					"pharmacy_id":   pharmacyID.String(),
					"created_sales": len(summaries),
				})
				s.logg.Error(failCtx, "checkout group failed", err)
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err,
				fmt.Sprintf("checkout failed for pharmacy %s", pharmacyID))
		}
		s.metrics.IncOrderCreated("success")
		summaries = append(summaries, *summary)
	}

	// All groups committed; drop the cart. A failure here is not fatal, the
	// orders exist and the customer can clear the cart manually.
	if err := s.carts.Clear(ctx, cartKey); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "cart_key", cartKey), "clearing cart after checkout failed")
	}

	s.metrics.ObserveCheckout(time.Since(started))
	return &Result{Sales: summaries}, nil
}

func (s *service) createSale(ctx context.Context, pharmacyID uuid.UUID, group []cart.Item, contact helpers.ContactInfo) (*SaleSummary, error) {
	sale := models.Sale{
		ID:              uuid.New(),
		PharmacyID:      pharmacyID,
		TotalAmount:     helpers.GroupTotal(group),
		CustomerPhone:   contact.Phone,
		DeliveryAddress: contact.Address,
		Status:          enums.SaleStatusPending,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.ordersRepo.WithTx(tx)
		if err := repo.CreateSale(ctx, &sale); err != nil {
			return fmt.Errorf("creating sale: %w", err)
		}

		lines := make([]models.SaleItem, 0, len(group))
		for _, item := range group {
			lines = append(lines, models.SaleItem{
				SaleID:    sale.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.Price,
			})
		}
		if err := repo.CreateSaleItems(ctx, lines); err != nil {
			return fmt.Errorf("creating sale items: %w", err)
		}

		return s.publisher.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateSale,
			AggregateID:   sale.ID,
			Version:       1,
			Data: payloads.OrderCreatedEvent{
				SaleID:        sale.ID,
				PharmacyID:    pharmacyID,
				TotalAmount:   sale.TotalAmount,
				ItemCount:     len(group),
				CustomerPhone: contact.Phone,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	return &SaleSummary{
		SaleID:      sale.ID,
		PharmacyID:  pharmacyID,
		TotalAmount: sale.TotalAmount,
		ItemCount:   len(group),
		Status:      sale.Status,
	}, nil
}
