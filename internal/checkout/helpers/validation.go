package helpers

import (
	"strings"

	"github.com/google/uuid"

	"github.com/metapharm/metapharm-backend/internal/cart"
	pkgerrors "github.com/metapharm/metapharm-backend/pkg/errors"
)

// ContactInfo carries the delivery details a customer submits at checkout.
type ContactInfo struct {
	Phone   string
	Address string
}

// ValidateContact ensures the delivery details are usable.
func ValidateContact(info ContactInfo) (ContactInfo, error) {
	info.Phone = strings.TrimSpace(info.Phone)
	info.Address = strings.TrimSpace(info.Address)
	if info.Phone == "" {
		return info, pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	}
	if info.Address == "" {
		return info, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}
	return info, nil
}

// ValidateItems rejects an empty cart and any line with malformed ids or a
// negative price. A single bad line aborts the whole checkout so no partial
// order is submitted.
func ValidateItems(items []cart.Item) error {
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	for _, item := range items {
		if item.PharmacyID == uuid.Nil || item.ProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation,
				"cart contains malformed entries, clear the cart and add items again")
		}
		if item.Price < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation,
				"cart contains malformed entries, clear the cart and add items again")
		}
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation,
				"cart contains malformed entries, clear the cart and add items again")
		}
	}
	return nil
}
