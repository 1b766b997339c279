package helpers

import (
	"sort"

	"github.com/google/uuid"

	"github.com/metapharm/metapharm-backend/internal/cart"
)

// GroupItemsByPharmacy partitions cart lines by their pharmacy.
func GroupItemsByPharmacy(items []cart.Item) map[uuid.UUID][]cart.Item {
	grouped := make(map[uuid.UUID][]cart.Item, len(items))
	for _, item := range items {
		grouped[item.PharmacyID] = append(grouped[item.PharmacyID], item)
	}
	return grouped
}

// SortedPharmacyIDs returns the group keys in a deterministic order so the
// per-pharmacy sales are always created in the same sequence.
func SortedPharmacyIDs(grouped map[uuid.UUID][]cart.Item) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}

// GroupTotal sums price times quantity for one pharmacy's lines.
func GroupTotal(items []cart.Item) int {
	total := 0
	for _, item := range items {
		total += item.Price * item.Quantity
	}
	return total
}
