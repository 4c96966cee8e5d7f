package suppliers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mandilink/mandilink-backend/internal/users"
	"github.com/mandilink/mandilink-backend/pkg/enums"
	pkgerrors "github.com/mandilink/mandilink-backend/pkg/errors"
	"github.com/mandilink/mandilink-backend/pkg/types"
)

func setupSuppliersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	usersTable := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  name TEXT NOT NULL,
  phone TEXT,
  role TEXT NOT NULL,
  address TEXT,
  location TEXT,
  revenue_cents INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(usersTable).Error)
	return db
}

func seedAccount(t *testing.T, repo *users.Repository, role enums.UserRole) uuid.UUID {
	t.Helper()
	created, err := repo.Create(context.Background(), users.CreateUserDTO{
		Email:        uuid.New().String() + "@example.com",
		PasswordHash: "x",
		Name:         "Test Account",
		Role:         role,
	})
	require.NoError(t, err)
	return created.ID
}

func TestUpdateAndGetLocation(t *testing.T) {
	repo := users.NewRepository(setupSuppliersTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	supplierID := seedAccount(t, repo, enums.UserRoleSupplier)

	// No depot set yet.
	location, err := svc.GetLocation(ctx, nil, supplierID)
	require.NoError(t, err)
	assert.Nil(t, location)

	depot := types.GeoPoint{Lat: 19.076, Lng: 72.8777}
	profile, err := svc.UpdateLocation(ctx, supplierID, depot)
	require.NoError(t, err)
	require.NotNil(t, profile.Location)
	assert.Equal(t, depot.Lat, profile.Location.Lat)

	location, err = svc.GetLocation(ctx, nil, supplierID)
	require.NoError(t, err)
	require.NotNil(t, location)
	assert.Equal(t, depot.Lng, location.Lng)
}

func TestUpdateLocationRejectsBadCoordinates(t *testing.T) {
	repo := users.NewRepository(setupSuppliersTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)

	supplierID := seedAccount(t, repo, enums.UserRoleSupplier)
	_, err = svc.UpdateLocation(context.Background(), supplierID, types.GeoPoint{Lat: 123, Lng: 0})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSupplierOnlyOperationsRejectVendors(t *testing.T) {
	repo := users.NewRepository(setupSuppliersTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)

	vendorID := seedAccount(t, repo, enums.UserRoleVendor)
	_, err = svc.GetProfile(context.Background(), vendorID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestAccrueRevenueIncrements(t *testing.T) {
	repo := users.NewRepository(setupSuppliersTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	supplierID := seedAccount(t, repo, enums.UserRoleSupplier)

	require.NoError(t, svc.AccrueRevenue(ctx, nil, supplierID, 360_000))
	require.NoError(t, svc.AccrueRevenue(ctx, nil, supplierID, 140_000))

	supplier, err := repo.FindByID(ctx, supplierID)
	require.NoError(t, err)
	assert.Equal(t, int64(500_000), supplier.RevenueCents)

	// Zero is a no-op, negatives are rejected.
	require.NoError(t, svc.AccrueRevenue(ctx, nil, supplierID, 0))
	err = svc.AccrueRevenue(ctx, nil, supplierID, -5)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestAccrueRevenueUnknownSupplier(t *testing.T) {
	repo := users.NewRepository(setupSuppliersTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)

	err = svc.AccrueRevenue(context.Background(), nil, uuid.New(), 100)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
