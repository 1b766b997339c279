package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

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

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes the pharmacist order workflow.
type Service interface {
	ListForPharmacy(ctx context.Context, pharmacyID uuid.UUID) ([]models.Sale, error)
	UpdateStatus(ctx context.Context, pharmacyID, saleID uuid.UUID, next enums.SaleStatus) (*models.Sale, error)
}

type service struct {
	tx        txRunner
	repo      *Repository
	publisher outboxPublisher
	metrics   *metrics.OrderMetrics
	logg      *logger.Logger
}

// NewService builds the orders service.
func NewService(tx txRunner, repo *Repository, publisher outboxPublisher, orderMetrics *metrics.OrderMetrics, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		tx:        tx,
		repo:      repo,
		publisher: publisher,
		metrics:   orderMetrics,
		logg:      logg,
	}, nil
}

// ListForPharmacy returns the pharmacy's full order list, newest first. The
// dashboard treats this snapshot as its source of truth and re-fetches it
// whenever a notification arrives.
func (s *service) ListForPharmacy(ctx context.Context, pharmacyID uuid.UUID) ([]models.Sale, error) {
	rows, err := s.repo.ListForPharmacy(ctx, pharmacyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return rows, nil
}

// UpdateStatus applies one workflow transition to a sale owned by the
// pharmacy. Invalid transitions, including any move out of a terminal state,
// are rejected as state conflicts.
func (s *service) UpdateStatus(ctx context.Context, pharmacyID, saleID uuid.UUID, next enums.SaleStatus) (*models.Sale, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown status %q", next))
	}

	sale, err := s.repo.FindForPharmacy(ctx, pharmacyID, saleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	} else if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}

	from := sale.Status
	if !from.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", from, next))
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateStatus(ctx, sale.ID, next); err != nil {
			return fmt.Errorf("updating status: %w", err)
		}
		return s.publisher.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateSale,
			AggregateID:   sale.ID,
			Version:       1,
			Data: payloads.OrderStatusChangedEvent{
				SaleID:     sale.ID,
				PharmacyID: pharmacyID,
				From:       from,
				To:         next,
				ChangedAt:  time.Now(),
			},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "applying status change")
	}

	s.metrics.IncTransition(next.String())
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"sale_id": sale.ID.String(),
			"from":    from.String(),
			"to":      next.String(),
		})
		s.logg.Info(logCtx, "order status changed")
	}

	sale.Status = next
	return sale, nil
}
