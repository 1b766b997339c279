package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/metapharm/metapharm-backend/pkg/errors"
	"github.com/metapharm/metapharm-backend/pkg/logger"
)

// ErrAlreadyInCart signals a duplicate Add. Callers surface it as a notice,
// not a failure.
var ErrAlreadyInCart = pkgerrors.New(pkgerrors.CodeConflict, "item already in cart")

// Item is one cart line. ID is the composite "<pharmacyID>-<productID>" so the
// same product from two pharmacies stays two distinct lines.
type Item struct {
	ID           string    `json:"id"`
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	PharmacyID   uuid.UUID `json:"pharmacy_id"`
	PharmacyName string    `json:"pharmacy_name"`
	Price        int       `json:"price"`
	Quantity     int       `json:"quantity"`
}

// AddInput captures the stock line a customer picked from search results.
type AddInput struct {
	ProductID    uuid.UUID
	ProductName  string
	PharmacyID   uuid.UUID
	PharmacyName string
	Price        int
}

// Storage is the durable home of a cart, keyed by an opaque client token.
type Storage interface {
	Load(ctx context.Context, key string) ([]Item, error)
	Save(ctx context.Context, key string, items []Item) error
	Delete(ctx context.Context, key string) error
}

// Store manages cart contents through a pluggable Storage backend.
type Store struct {
	storage Storage
	logg    *logger.Logger
}

// NewStore builds a cart store backed by the provided storage.
func NewStore(storage Storage, logg *logger.Logger) (*Store, error) {
	if storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	return &Store{storage: storage, logg: logg}, nil
}

// ItemID builds the composite line id for a pharmacy/product pair.
func ItemID(pharmacyID, productID uuid.UUID) string {
	return fmt.Sprintf("%s-%s", pharmacyID, productID)
}

// Get returns the cart contents. A missing cart is an empty cart.
func (s *Store) Get(ctx context.Context, key string) ([]Item, error) {
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart key required")
	}
	return s.storage.Load(ctx, key)
}

// Add appends a line for the pharmacy/product pair. Quantity is fixed at one;
// adding the same pair again returns ErrAlreadyInCart and leaves the cart
// unchanged.
func (s *Store) Add(ctx context.Context, key string, input AddInput) ([]Item, error) {
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart key required")
	}
	if input.ProductID == uuid.Nil || input.PharmacyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product and pharmacy ids required")
	}
	if input.Price < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	items, err := s.storage.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	id := ItemID(input.PharmacyID, input.ProductID)
	for _, item := range items {
		if item.ID == id {
			return items, ErrAlreadyInCart
		}
	}

	items = append(items, Item{
		ID:           id,
		ProductID:    input.ProductID,
		ProductName:  input.ProductName,
		PharmacyID:   input.PharmacyID,
		PharmacyName: input.PharmacyName,
		Price:        input.Price,
		Quantity:     1,
	})
	if err := s.storage.Save(ctx, key, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Remove drops the line with the given composite id. Removing an absent line
// is a no-op.
func (s *Store) Remove(ctx context.Context, key, itemID string) ([]Item, error) {
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart key required")
	}

	items, err := s.storage.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	kept := items[:0]
	removed := false
	for _, item := range items {
		if item.ID == itemID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return items, nil
	}

	if len(kept) == 0 {
		if err := s.storage.Delete(ctx, key); err != nil {
			return nil, err
		}
		return []Item{}, nil
	}
	if err := s.storage.Save(ctx, key, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// Clear empties the cart and deletes the durable copy.
func (s *Store) Clear(ctx context.Context, key string) error {
	if key == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart key required")
	}
	return s.storage.Delete(ctx, key)
}

// Total sums price times quantity across all lines.
func Total(items []Item) int {
	total := 0
	for _, item := range items {
		total += item.Price * item.Quantity
	}
	return total
}
