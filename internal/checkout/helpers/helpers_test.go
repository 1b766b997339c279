package helpers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metapharm/metapharm-backend/internal/cart"
)

func line(pharmacyID uuid.UUID, price int) cart.Item {
	productID := uuid.New()
	return cart.Item{
		ID:         cart.ItemID(pharmacyID, productID),
		ProductID:  productID,
		PharmacyID: pharmacyID,
		Price:      price,
		Quantity:   1,
	}
}

func TestGroupItemsByPharmacy(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	items := []cart.Item{line(a, 1500), line(b, 800), line(a, 2500)}

	grouped := GroupItemsByPharmacy(items)
	require.Len(t, grouped, 2)
	assert.Len(t, grouped[a], 2)
	assert.Len(t, grouped[b], 1)
	assert.Equal(t, 4000, GroupTotal(grouped[a]))
	assert.Equal(t, 800, GroupTotal(grouped[b]))
}

func TestSortedPharmacyIDsDeterministic(t *testing.T) {
	grouped := map[uuid.UUID][]cart.Item{}
	for i := 0; i < 5; i++ {
		grouped[uuid.New()] = nil
	}

	first := SortedPharmacyIDs(grouped)
	second := SortedPharmacyIDs(grouped)
	assert.Equal(t, first, second)
	for i := 1; i < len(first); i++ {
		assert.Less(t, first[i-1].String(), first[i].String())
	}
}

func TestValidateContact(t *testing.T) {
	info, err := ValidateContact(ContactInfo{Phone: " +229 97 00 00 00 ", Address: " Ganhi, Cotonou "})
	require.NoError(t, err)
	assert.Equal(t, "+229 97 00 00 00", info.Phone)
	assert.Equal(t, "Ganhi, Cotonou", info.Address)

	_, err = ValidateContact(ContactInfo{Address: "Ganhi"})
	require.Error(t, err)
	_, err = ValidateContact(ContactInfo{Phone: "+229 97 00 00 00"})
	require.Error(t, err)
}

func TestValidateItemsRejectsMalformedLines(t *testing.T) {
	require.Error(t, ValidateItems(nil))

	good := line(uuid.New(), 1500)
	require.NoError(t, ValidateItems([]cart.Item{good}))

	bad := good
	bad.ProductID = uuid.Nil
	require.Error(t, ValidateItems([]cart.Item{good, bad}))

	bad = good
	bad.Price = -1
	require.Error(t, ValidateItems([]cart.Item{bad}))

	bad = good
	bad.Quantity = 0
	require.Error(t, ValidateItems([]cart.Item{bad}))
}
