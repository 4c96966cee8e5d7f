package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mandilink/mandilink-backend/pkg/enums"
	pkgerrors "github.com/mandilink/mandilink-backend/pkg/errors"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  supplier_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  category TEXT NOT NULL,
  unit TEXT NOT NULL DEFAULT 'kg',
  price_per_kg_cents INTEGER NOT NULL,
  min_order_qty INTEGER NOT NULL DEFAULT 1,
  available_qty INTEGER NOT NULL DEFAULT 0,
  image_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	return db
}

func newCatalogService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(setupCatalogTestDB(t)))
	require.NoError(t, err)
	return svc
}

func TestCreateProduct(t *testing.T) {
	svc := newCatalogService(t)
	supplierID := uuid.New()

	view, err := svc.CreateProduct(context.Background(), supplierID, CreateProductInput{
		Name:            "  Red Onions ",
		Category:        enums.ProductCategoryVegetable,
		PricePerKgCents: 4500,
		AvailableQty:    500,
	})
	require.NoError(t, err)
	assert.Equal(t, "Red Onions", view.Name)
	assert.Equal(t, supplierID, view.SupplierID)
	assert.Equal(t, enums.ProductUnitKg, view.Unit)
	assert.Equal(t, 1, view.MinOrderQty)
	assert.True(t, view.IsActive)
}

func TestCreateProductValidation(t *testing.T) {
	svc := newCatalogService(t)
	supplierID := uuid.New()

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{"emptyName", CreateProductInput{Category: enums.ProductCategoryFruit, PricePerKgCents: 100}},
		{"badCategory", CreateProductInput{Name: "Mangoes", Category: "gadgets", PricePerKgCents: 100}},
		{"badUnit", CreateProductInput{Name: "Mangoes", Category: enums.ProductCategoryFruit, Unit: "barrel", PricePerKgCents: 100}},
		{"zeroPrice", CreateProductInput{Name: "Mangoes", Category: enums.ProductCategoryFruit}},
		{"negativeStock", CreateProductInput{Name: "Mangoes", Category: enums.ProductCategoryFruit, PricePerKgCents: 100, AvailableQty: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(context.Background(), supplierID, tc.input)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed, "expected app error, got %v", err)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestUpdateProductOwnership(t *testing.T) {
	svc := newCatalogService(t)
	owner := uuid.New()

	view, err := svc.CreateProduct(context.Background(), owner, CreateProductInput{
		Name:            "Basmati Rice",
		Category:        enums.ProductCategoryGrain,
		PricePerKgCents: 9000,
	})
	require.NoError(t, err)

	price := int64(8500)
	updated, err := svc.UpdateProduct(context.Background(), owner, view.ID, UpdateProductInput{PricePerKgCents: &price})
	require.NoError(t, err)
	assert.Equal(t, price, updated.PricePerKgCents)

	_, err = svc.UpdateProduct(context.Background(), uuid.New(), view.ID, UpdateProductInput{PricePerKgCents: &price})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	_, err = svc.UpdateProduct(context.Background(), owner, uuid.New(), UpdateProductInput{PricePerKgCents: &price})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDeactivateProductHidesFromListing(t *testing.T) {
	svc := newCatalogService(t)
	supplierID := uuid.New()

	view, err := svc.CreateProduct(context.Background(), supplierID, CreateProductInput{
		Name:            "Mustard Oil",
		Category:        enums.ProductCategoryOil,
		Unit:            enums.ProductUnitLitre,
		PricePerKgCents: 18000,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateProduct(context.Background(), supplierID, view.ID))

	list, err := svc.ListProducts(context.Background(), ListProductsInput{SupplierID: &supplierID})
	require.NoError(t, err)
	assert.Empty(t, list.Products)

	// Direct lookup still works for order history.
	got, err := svc.GetProduct(context.Background(), view.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestListProductsFilters(t *testing.T) {
	svc := newCatalogService(t)
	supplierID := uuid.New()

	_, err := svc.CreateProduct(context.Background(), supplierID, CreateProductInput{
		Name: "Red Onions", Category: enums.ProductCategoryVegetable, PricePerKgCents: 4500,
	})
	require.NoError(t, err)
	_, err = svc.CreateProduct(context.Background(), supplierID, CreateProductInput{
		Name: "Turmeric Powder", Category: enums.ProductCategorySpice, PricePerKgCents: 22000,
	})
	require.NoError(t, err)
	_, err = svc.CreateProduct(context.Background(), uuid.New(), CreateProductInput{
		Name: "Green Chillies", Category: enums.ProductCategoryVegetable, PricePerKgCents: 6000,
	})
	require.NoError(t, err)

	category := enums.ProductCategoryVegetable
	list, err := svc.ListProducts(context.Background(), ListProductsInput{Category: &category, SupplierID: &supplierID})
	require.NoError(t, err)
	require.Len(t, list.Products, 1)
	assert.Equal(t, "Red Onions", list.Products[0].Name)

	list, err = svc.ListProducts(context.Background(), ListProductsInput{Search: "turmeric"})
	require.NoError(t, err)
	require.Len(t, list.Products, 1)
	assert.Equal(t, "Turmeric Powder", list.Products[0].Name)
}

func TestFindProductJoinsTransaction(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	supplierID := uuid.New()

	view, err := svc.CreateProduct(context.Background(), supplierID, CreateProductInput{
		Name: "Paneer", Category: enums.ProductCategoryDairy, PricePerKgCents: 32000,
	})
	require.NoError(t, err)

	tx := db.Begin()
	require.NoError(t, tx.Error)
	defer tx.Rollback()

	product, err := svc.FindProduct(context.Background(), tx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, view.ID, product.ID)

	product, err = svc.FindProduct(context.Background(), nil, view.ID)
	require.NoError(t, err)
	assert.Equal(t, view.ID, product.ID)
}
