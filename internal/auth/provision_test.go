package auth

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/metapharm/metapharm-backend/internal/profiles"
	"github.com/metapharm/metapharm-backend/internal/users"
	"github.com/metapharm/metapharm-backend/pkg/config"
	"github.com/metapharm/metapharm-backend/pkg/db/models"
	"github.com/metapharm/metapharm-backend/pkg/enums"
	pkgerrors "github.com/metapharm/metapharm-backend/pkg/errors"
	"github.com/metapharm/metapharm-backend/pkg/logger"
	"github.com/metapharm/metapharm-backend/pkg/security"
)

func setupProvisionTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	usersTable := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	pharmacies := `
CREATE TABLE IF NOT EXISTS pharmacies (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  quartier TEXT,
  lat REAL NOT NULL,
  lng REAL NOT NULL,
  is_on_duty INTEGER NOT NULL DEFAULT 0,
  phone TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	profilesTable := `
CREATE TABLE IF NOT EXISTS profiles (
  id TEXT PRIMARY KEY,
  pharmacy_id TEXT,
  role TEXT NOT NULL,
  full_name TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(usersTable).Error)
	require.NoError(t, db.Exec(pharmacies).Error)
	require.NoError(t, db.Exec(profilesTable).Error)
	return db
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newProvisionService(t *testing.T, db *gorm.DB) ProvisionService {
	t.Helper()
	svc, err := NewProvisionService(ProvisionServiceParams{
		TxRunner:       gormTxRunner{db: db},
		PasswordConfig: testPasswordConfig(),
		Logger:         logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc
}

func TestProvisionCreatesTenantAtomically(t *testing.T) {
	db := setupProvisionTestDB(t)
	svc := newProvisionService(t, db)
	ctx := context.Background()

	resp, err := svc.Provision(ctx, ProvisionRequest{
		PharmacyName:    "Pharmacie du Pont",
		Quartier:        "Ganhi",
		Lat:             6.3567,
		Lng:             2.4289,
		PharmacistName:  "Awa Diallo",
		PharmacistEmail: "Awa@MetaPharm.test",
		InitialPassword: "chosen-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "awa@metapharm.test", resp.Email)
	assert.Empty(t, resp.TempPassword)

	var pharmacy models.Pharmacy
	require.NoError(t, db.First(&pharmacy, "id = ?", resp.PharmacyID).Error)
	assert.Equal(t, "Pharmacie du Pont", pharmacy.Name)

	user, err := users.NewRepository(db).FindByEmail(ctx, "awa@metapharm.test")
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	ok, err := security.VerifyPassword("chosen-password", user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	profile, err := profiles.NewRepository(db).FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ProfileRolePharmacist, profile.Role)
	require.NotNil(t, profile.PharmacyID)
	assert.Equal(t, resp.PharmacyID, *profile.PharmacyID)
}

func TestProvisionGeneratesTempPassword(t *testing.T) {
	db := setupProvisionTestDB(t)
	svc := newProvisionService(t, db)

	resp, err := svc.Provision(context.Background(), ProvisionRequest{
		PharmacyName:    "Pharmacie Jonquet",
		Lat:             6.3612,
		Lng:             2.4178,
		PharmacistName:  "Koffi Mensah",
		PharmacistEmail: "koffi@metapharm.test",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.TempPassword)

	user, err := users.NewRepository(db).FindByEmail(context.Background(), resp.Email)
	require.NoError(t, err)
	ok, err := security.VerifyPassword(resp.TempPassword, user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestProvisionRejectsDuplicateEmail(t *testing.T) {
	db := setupProvisionTestDB(t)
	svc := newProvisionService(t, db)
	ctx := context.Background()

	req := ProvisionRequest{
		PharmacyName:    "Pharmacie Gare",
		Lat:             6.3703,
		Lng:             2.3912,
		PharmacistName:  "Awa Diallo",
		PharmacistEmail: "awa@metapharm.test",
	}
	_, err := svc.Provision(ctx, req)
	require.NoError(t, err)

	req.PharmacyName = "Pharmacie Gare Bis"
	_, err = svc.Provision(ctx, req)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())

	var count int64
	require.NoError(t, db.Model(&models.Pharmacy{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "failed provisioning must not leave a pharmacy row")
}

func TestProvisionValidatesRequiredFields(t *testing.T) {
	svc := newProvisionService(t, setupProvisionTestDB(t))

	_, err := svc.Provision(context.Background(), ProvisionRequest{
		Lat:             6.37,
		Lng:             2.39,
		PharmacistName:  "A",
		PharmacistEmail: "a@metapharm.test",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
