package sample

import (
	"github.com/google/uuid"

	"github.com/metapharm/metapharm-backend/pkg/db/models"
)

// Stable IDs so sample entities can be cross-referenced between calls and
// cart lines built against sample data survive a page reload.
var (
	PharmacyGareID        = uuid.MustParse("3d29b5cc-8f4c-4a1e-9d01-000000000001")
	PharmacyCampGuezoID   = uuid.MustParse("3d29b5cc-8f4c-4a1e-9d01-000000000002")
	PharmacySaintMichelID = uuid.MustParse("3d29b5cc-8f4c-4a1e-9d01-000000000003")
	PharmacyJonquetID     = uuid.MustParse("3d29b5cc-8f4c-4a1e-9d01-000000000004")
	PharmacyAkpakpaID     = uuid.MustParse("3d29b5cc-8f4c-4a1e-9d01-000000000005")

	ProductDoliprane1000ID = uuid.MustParse("9b7f2a40-5d2e-4c3b-8a02-000000000101")
	ProductDoliprane500ID  = uuid.MustParse("9b7f2a40-5d2e-4c3b-8a02-000000000102")
	ProductCoartemID       = uuid.MustParse("9b7f2a40-5d2e-4c3b-8a02-000000000103")
	ProductParacetamolID   = uuid.MustParse("9b7f2a40-5d2e-4c3b-8a02-000000000104")
	ProductEfferalganID    = uuid.MustParse("9b7f2a40-5d2e-4c3b-8a02-000000000105")
)

func strPtr(s string) *string { return &s }

// Pharmacies returns the built-in Cotonou pharmacy set served when the
// database has no pharmacy rows yet.
func Pharmacies() []models.Pharmacy {
	return []models.Pharmacy{
		{ID: PharmacyGareID, Name: "Pharmacie de la Gare", Quartier: "Gare, Cotonou", Lat: 6.3654, Lng: 2.4183, IsOnDuty: true, Phone: strPtr("+229 21 31 00 00")},
		{ID: PharmacyCampGuezoID, Name: "Pharmacie Camp Guezo", Quartier: "Camp Guezo, Cotonou", Lat: 6.3550, Lng: 2.4250, IsOnDuty: false, Phone: strPtr("+229 21 30 15 15")},
		{ID: PharmacySaintMichelID, Name: "Pharmacie Saint Michel", Quartier: "Saint Michel, Cotonou", Lat: 6.3700, Lng: 2.4300, IsOnDuty: true, Phone: strPtr("+229 21 32 22 22")},
		{ID: PharmacyJonquetID, Name: "Pharmacie Jonquet", Quartier: "Jonquet, Cotonou", Lat: 6.3600, Lng: 2.4100, IsOnDuty: false, Phone: strPtr("+229 21 33 33 33")},
		{ID: PharmacyAkpakpaID, Name: "Pharmacie Akpakpa", Quartier: "Akpakpa, Cotonou", Lat: 6.3800, Lng: 2.4500, IsOnDuty: true, Phone: strPtr("+229 21 34 44 44")},
	}
}

// Products returns the built-in product catalog.
func Products() []models.Product {
	return []models.Product{
		{ID: ProductDoliprane1000ID, Name: "Doliprane 1000mg"},
		{ID: ProductDoliprane500ID, Name: "Doliprane 500mg"},
		{ID: ProductCoartemID, Name: "Coartem 80/480"},
		{ID: ProductParacetamolID, Name: "Paracétamol"},
		{ID: ProductEfferalganID, Name: "Efferalgan"},
	}
}

// Stocks returns the built-in stock lines, prices in FCFA.
func Stocks() []models.Stock {
	return []models.Stock{
		{PharmacyID: PharmacyGareID, ProductID: ProductDoliprane1000ID, Price: 1500, Available: true},
		{PharmacyID: PharmacyGareID, ProductID: ProductCoartemID, Price: 2500, Available: true},
		{PharmacyID: PharmacyCampGuezoID, ProductID: ProductDoliprane1000ID, Price: 1550, Available: true},
		{PharmacyID: PharmacySaintMichelID, ProductID: ProductDoliprane500ID, Price: 800, Available: true},
		{PharmacyID: PharmacySaintMichelID, ProductID: ProductCoartemID, Price: 2400, Available: true},
		{PharmacyID: PharmacySaintMichelID, ProductID: ProductParacetamolID, Price: 500, Available: true},
		{PharmacyID: PharmacyAkpakpaID, ProductID: ProductDoliprane1000ID, Price: 1500, Available: true},
		{PharmacyID: PharmacyAkpakpaID, ProductID: ProductParacetamolID, Price: 450, Available: true},
	}
}
