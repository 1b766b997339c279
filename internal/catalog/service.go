package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/metapharm/metapharm-backend/pkg/db"
	"github.com/metapharm/metapharm-backend/pkg/db/models"
	pkgerrors "github.com/metapharm/metapharm-backend/pkg/errors"
	"github.com/metapharm/metapharm-backend/pkg/geo"
	"github.com/metapharm/metapharm-backend/pkg/logger"
	"github.com/metapharm/metapharm-backend/pkg/sample"
)

// Result sources reported to clients so the UI can label demo data.
const (
	SourceLive   = "live"
	SourceSample = "sample"
)

// store is the persistence surface the service needs, implemented by Repository.
type store interface {
	ListPharmacies(ctx context.Context) ([]models.Pharmacy, error)
	FindPharmacy(ctx context.Context, id uuid.UUID) (*models.Pharmacy, error)
	SetOnDuty(ctx context.Context, id uuid.UUID, onDuty bool) error
	SearchProducts(ctx context.Context, term string) ([]models.Product, error)
	FindProductByName(ctx context.Context, name string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	AvailableStocksForProducts(ctx context.Context, productIDs []uuid.UUID) ([]models.Stock, error)
	StocksForPharmacy(ctx context.Context, pharmacyID uuid.UUID) ([]models.Stock, error)
	FindStockForPharmacy(ctx context.Context, pharmacyID, stockID uuid.UUID) (*models.Stock, error)
	CreateStock(ctx context.Context, stock *models.Stock) error
	UpdateStockAvailability(ctx context.Context, stockID uuid.UUID, available bool) error
}

// MatchedProduct annotates a pharmacy result with the stock line that matched
// the search term.
type MatchedProduct struct {
	StockID   uuid.UUID `json:"stock_id"`
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     int       `json:"price"`
}

// PharmacyResult is one pharmacy in a search or listing response.
type PharmacyResult struct {
	Pharmacy   models.Pharmacy `json:"pharmacy"`
	DistanceKm *float64        `json:"distance_km,omitempty"`
	Match      *MatchedProduct `json:"match,omitempty"`
}

// SearchResult carries the pharmacies to plot plus the data source label.
type SearchResult struct {
	Pharmacies []PharmacyResult `json:"pharmacies"`
	Source     string           `json:"source"`
}

// ListPharmaciesOptions filters and annotates the pharmacy listing.
type ListPharmaciesOptions struct {
	OnDutyOnly bool
	Origin     *geo.Point
}

// AddStockInput captures a pharmacist adding a product to their inventory.
type AddStockInput struct {
	Name  string
	Price int
}

// Service exposes the public catalog queries and the pharmacist inventory operations.
type Service interface {
	Search(ctx context.Context, term string) (*SearchResult, error)
	ListPharmacies(ctx context.Context, opts ListPharmaciesOptions) (*SearchResult, error)
	AddStockItem(ctx context.Context, pharmacyID uuid.UUID, input AddStockInput) (*models.Stock, error)
	ListInventory(ctx context.Context, pharmacyID uuid.UUID) ([]models.Stock, error)
	ToggleStock(ctx context.Context, pharmacyID, stockID uuid.UUID) (*models.Stock, error)
	SetOnDuty(ctx context.Context, pharmacyID uuid.UUID, onDuty bool) error
}

type service struct {
	repo store
	logg *logger.Logger
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo store, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// Search resolves a product term to the pharmacies that stock it. The public
// map must always render, so store failures and empty catalogs degrade to the
// built-in sample dataset instead of surfacing an error.
func (s *service) Search(ctx context.Context, term string) (*SearchResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.allPharmacies(ctx)
	}

	products, err := s.repo.SearchProducts(ctx, term)
	if err != nil {
		s.warnFallback(ctx, "product search failed", err)
		return s.sampleSearch(term), nil
	}
	if len(products) == 0 {
		return s.sampleSearch(term), nil
	}

	ids := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	stocks, err := s.repo.AvailableStocksForProducts(ctx, ids)
	if err != nil {
		s.warnFallback(ctx, "stock lookup failed", err)
		return s.sampleSearch(term), nil
	}
	// A product with no available stock anywhere would leave the map empty.
	if len(stocks) == 0 {
		return s.sampleSearch(term), nil
	}

	results := make([]PharmacyResult, 0, len(stocks))
	for _, stock := range stocks {
		if stock.Pharmacy == nil || stock.Product == nil {
			continue
		}
		results = append(results, PharmacyResult{
			Pharmacy: *stock.Pharmacy,
			Match: &MatchedProduct{
				StockID:   stock.ID,
				ProductID: stock.ProductID,
				Name:      stock.Product.Name,
				Price:     stock.Price,
			},
		})
	}
	sortByName(results)
	return &SearchResult{Pharmacies: results, Source: SourceLive}, nil
}

// ListPharmacies returns the pharmacy listing with optional on-duty filtering
// and distance annotation from the caller's position.
func (s *service) ListPharmacies(ctx context.Context, opts ListPharmaciesOptions) (*SearchResult, error) {
	result, err := s.allPharmacies(ctx)
	if err != nil {
		return nil, err
	}

	filtered := result.Pharmacies[:0]
	for _, entry := range result.Pharmacies {
		if opts.OnDutyOnly && !entry.Pharmacy.IsOnDuty {
			continue
		}
		if opts.Origin != nil {
			d := geo.DistanceKm(*opts.Origin, geo.Point{Lat: entry.Pharmacy.Lat, Lng: entry.Pharmacy.Lng})
			entry.DistanceKm = &d
		}
		filtered = append(filtered, entry)
	}
	result.Pharmacies = filtered

	if opts.Origin != nil {
		sort.SliceStable(result.Pharmacies, func(i, j int) bool {
			return *result.Pharmacies[i].DistanceKm < *result.Pharmacies[j].DistanceKm
		})
	}
	return result, nil
}

// AddStockItem registers a product in a pharmacy's inventory, reusing the
// catalog product when one already exists under the same name.
func (s *service) AddStockItem(ctx context.Context, pharmacyID uuid.UUID, input AddStockInput) (*models.Stock, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if input.Price <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}

	product, err := s.repo.FindProductByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		product = &models.Product{ID: uuid.New(), Name: name}
		if err := s.repo.CreateProduct(ctx, product); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
		}
	} else if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up product")
	}

	stock := &models.Stock{
		ID:         uuid.New(),
		PharmacyID: pharmacyID,
		ProductID:  product.ID,
		Price:      input.Price,
		Available:  true,
	}
	if err := s.repo.CreateStock(ctx, stock); err != nil {
		if dbpkg.IsUniqueViolation(err, "ux_stocks_pharmacy_product") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already in inventory")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating stock")
	}
	stock.Product = product
	return stock, nil
}

// ListInventory returns every stock line for the pharmacy, newest first.
func (s *service) ListInventory(ctx context.Context, pharmacyID uuid.UUID) ([]models.Stock, error) {
	rows, err := s.repo.StocksForPharmacy(ctx, pharmacyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing inventory")
	}
	return rows, nil
}

// ToggleStock flips the availability flag on a stock line owned by the pharmacy.
func (s *service) ToggleStock(ctx context.Context, pharmacyID, stockID uuid.UUID) (*models.Stock, error) {
	stock, err := s.repo.FindStockForPharmacy(ctx, pharmacyID, stockID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock not found")
	} else if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading stock")
	}

	stock.Available = !stock.Available
	if err := s.repo.UpdateStockAvailability(ctx, stock.ID, stock.Available); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating stock")
	}
	return stock, nil
}

// SetOnDuty updates the pharmacy's on-duty flag.
func (s *service) SetOnDuty(ctx context.Context, pharmacyID uuid.UUID, onDuty bool) error {
	if _, err := s.repo.FindPharmacy(ctx, pharmacyID); errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "pharmacy not found")
	} else if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading pharmacy")
	}
	if err := s.repo.SetOnDuty(ctx, pharmacyID, onDuty); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating on-duty flag")
	}
	return nil
}

func (s *service) allPharmacies(ctx context.Context) (*SearchResult, error) {
	rows, err := s.repo.ListPharmacies(ctx)
	if err != nil {
		s.warnFallback(ctx, "pharmacy listing failed", err)
		rows = nil
	}
	if len(rows) == 0 {
		rows = sample.Pharmacies()
		return &SearchResult{Pharmacies: wrapPharmacies(rows), Source: SourceSample}, nil
	}
	return &SearchResult{Pharmacies: wrapPharmacies(rows), Source: SourceLive}, nil
}

// sampleSearch replays the term against the built-in dataset.
func (s *service) sampleSearch(term string) *SearchResult {
	needle := strings.ToLower(term)

	matched := map[uuid.UUID]models.Product{}
	for _, p := range sample.Products() {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			matched[p.ID] = p
		}
	}

	pharmacies := map[uuid.UUID]models.Pharmacy{}
	for _, ph := range sample.Pharmacies() {
		pharmacies[ph.ID] = ph
	}

	results := []PharmacyResult{}
	for _, stock := range sample.Stocks() {
		product, ok := matched[stock.ProductID]
		if !ok || !stock.Available {
			continue
		}
		pharmacy, ok := pharmacies[stock.PharmacyID]
		if !ok {
			continue
		}
		results = append(results, PharmacyResult{
			Pharmacy: pharmacy,
			Match: &MatchedProduct{
				StockID:   stock.ID,
				ProductID: stock.ProductID,
				Name:      product.Name,
				Price:     stock.Price,
			},
		})
	}
	sortByName(results)
	return &SearchResult{Pharmacies: results, Source: SourceSample}
}

func (s *service) warnFallback(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Error(ctx, msg+", serving sample data", err)
}

func wrapPharmacies(rows []models.Pharmacy) []PharmacyResult {
	results := make([]PharmacyResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, PharmacyResult{Pharmacy: row})
	}
	return results
}

func sortByName(results []PharmacyResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Pharmacy.Name == results[j].Pharmacy.Name {
			return results[i].Match != nil && results[j].Match != nil &&
				results[i].Match.Price < results[j].Match.Price
		}
		return results[i].Pharmacy.Name < results[j].Pharmacy.Name
	})
}
