package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/metapharm/metapharm-backend/internal/auth"
	cartsvc "github.com/metapharm/metapharm-backend/internal/cart"
	"github.com/metapharm/metapharm-backend/internal/catalog"
	checkoutsvc "github.com/metapharm/metapharm-backend/internal/checkout"
	"github.com/metapharm/metapharm-backend/internal/notifications"
	pkgauth "github.com/metapharm/metapharm-backend/pkg/auth"
	"github.com/metapharm/metapharm-backend/pkg/config"
	"github.com/metapharm/metapharm-backend/pkg/db/models"
	"github.com/metapharm/metapharm-backend/pkg/enums"
	"github.com/metapharm/metapharm-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubProvisionService struct{}

func (stubProvisionService) Provision(ctx context.Context, req authsvc.ProvisionRequest) (*authsvc.ProvisionResponse, error) {
	return &authsvc.ProvisionResponse{}, nil
}

type stubCatalogService struct{}

func (stubCatalogService) Search(ctx context.Context, term string) (*catalog.SearchResult, error) {
	return &catalog.SearchResult{Pharmacies: []catalog.PharmacyResult{}, Source: catalog.SourceSample}, nil
}

func (stubCatalogService) ListPharmacies(ctx context.Context, opts catalog.ListPharmaciesOptions) (*catalog.SearchResult, error) {
	return &catalog.SearchResult{Pharmacies: []catalog.PharmacyResult{}, Source: catalog.SourceSample}, nil
}

func (stubCatalogService) AddStockItem(ctx context.Context, pharmacyID uuid.UUID, input catalog.AddStockInput) (*models.Stock, error) {
	return &models.Stock{}, nil
}

func (stubCatalogService) ListInventory(ctx context.Context, pharmacyID uuid.UUID) ([]models.Stock, error) {
	return []models.Stock{}, nil
}

func (stubCatalogService) ToggleStock(ctx context.Context, pharmacyID, stockID uuid.UUID) (*models.Stock, error) {
	return &models.Stock{}, nil
}

func (stubCatalogService) SetOnDuty(ctx context.Context, pharmacyID uuid.UUID, onDuty bool) error {
	return nil
}

type stubCheckoutService struct{}

func (stubCheckoutService) Execute(ctx context.Context, cartKey string, input checkoutsvc.CheckoutInput) (*checkoutsvc.Result, error) {
	return &checkoutsvc.Result{}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) ListForPharmacy(ctx context.Context, pharmacyID uuid.UUID) ([]models.Sale, error) {
	return []models.Sale{}, nil
}

func (stubOrdersService) UpdateStatus(ctx context.Context, pharmacyID, saleID uuid.UUID, next enums.SaleStatus) (*models.Sale, error) {
	return &models.Sale{}, nil
}

type stubNotificationsService struct{}

func (stubNotificationsService) List(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
	return &notifications.ListResult{Items: []models.Notification{}}, nil
}

func (stubNotificationsService) MarkRead(ctx context.Context, pharmacyID, notificationID uuid.UUID) error {
	return nil
}

func (stubNotificationsService) MarkAllRead(ctx context.Context, pharmacyID uuid.UUID) (int64, error) {
	return 0, nil
}

type memoryCartStorage struct {
	carts map[string][]cartsvc.Item
}

func (m *memoryCartStorage) Load(ctx context.Context, key string) ([]cartsvc.Item, error) {
	return m.carts[key], nil
}

func (m *memoryCartStorage) Save(ctx context.Context, key string, items []cartsvc.Item) error {
	if m.carts == nil {
		m.carts = map[string][]cartsvc.Item{}
	}
	m.carts[key] = items
	return nil
}

func (m *memoryCartStorage) Delete(ctx context.Context, key string) error {
	delete(m.carts, key)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	cartStore, err := cartsvc.NewStore(&memoryCartStorage{}, logg)
	if err != nil {
		t.Fatalf("cart store: %v", err)
	}
	return NewRouter(Deps{
		Config:           cfg,
		Logger:           logg,
		DB:               stubPinger{},
		AuthService:      stubAuthService{},
		ProvisionService: stubProvisionService{},
		CatalogService:   stubCatalogService{},
		CartStore:        cartStore,
		CheckoutService:  stubCheckoutService{},
		OrdersService:    stubOrdersService{},
		Notifications:    stubNotificationsService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.ProfileRole, pharmacyID *uuid.UUID) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID:     uuid.New(),
		PharmacyID: pharmacyID,
		Role:       role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPublicRoutesNeedNoToken(t *testing.T) {
	router := newTestRouter(t, testConfig())

	for _, path := range []string{"/api/public/pharmacies", "/api/public/search?q=paracetamol", "/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
	}
}

func TestCartRoutesRoundTrip(t *testing.T) {
	router := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/public/cart/abc123", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for cart fetch got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/public/cart/abc123", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for cart clear got %d", resp.Code)
	}
}

func TestPharmacyGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/pharmacy/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPharmacyGroupRequiresPharmacistRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	admin := httptest.NewRequest(http.MethodGet, "/api/v1/pharmacy/orders", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ProfileRoleAdmin, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin on pharmacist route got %d", resp.Code)
	}

	pharmacyID := uuid.New()
	pharmacist := httptest.NewRequest(http.MethodGet, "/api/v1/pharmacy/orders", nil)
	pharmacist.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ProfileRolePharmacist, &pharmacyID))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, pharmacist)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for pharmacist got %d", resp.Code)
	}
}

func TestNotificationsGroupScopedToPharmacist(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	pharmacyID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ProfileRolePharmacist, &pharmacyID))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for notifications list got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	pharmacyID := uuid.New()
	nonAdmin := httptest.NewRequest(http.MethodPost, "/api/admin/v1/pharmacies", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ProfileRolePharmacist, &pharmacyID))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}
}

func TestMetricsRouteAbsentWithoutRegistry(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without registry got %d", resp.Code)
	}
}
