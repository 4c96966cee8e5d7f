package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mandilink/mandilink-backend/pkg/db/models"
	"github.com/mandilink/mandilink-backend/pkg/enums"
	pkgerrors "github.com/mandilink/mandilink-backend/pkg/errors"
)

// Service exposes supplier listing management plus the public catalog.
type Service interface {
	CreateProduct(ctx context.Context, supplierID uuid.UUID, input CreateProductInput) (*ProductView, error)
	UpdateProduct(ctx context.Context, supplierID, productID uuid.UUID, input UpdateProductInput) (*ProductView, error)
	DeactivateProduct(ctx context.Context, supplierID, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductView, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductList, error)
	FindProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*models.Product, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateProduct(ctx context.Context, supplierID uuid.UUID, input CreateProductInput) (*ProductView, error) {
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	unit := input.Unit
	if unit == "" {
		unit = enums.ProductUnitKg
	}
	minOrderQty := input.MinOrderQty
	if minOrderQty <= 0 {
		minOrderQty = 1
	}

	product := &models.Product{
		ID:              uuid.New(),
		SupplierID:      supplierID,
		Name:            strings.TrimSpace(input.Name),
		Description:     input.Description,
		Category:        input.Category,
		Unit:            unit,
		PricePerKgCents: input.PricePerKgCents,
		MinOrderQty:     minOrderQty,
		AvailableQty:    input.AvailableQty,
		ImageURL:        input.ImageURL,
		IsActive:        true,
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return NewProductView(created), nil
}

func (s *service) UpdateProduct(ctx context.Context, supplierID, productID uuid.UUID, input UpdateProductInput) (*ProductView, error) {
	product, err := s.loadOwned(ctx, supplierID, productID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
		}
		updates["category"] = *input.Category
	}
	if input.Unit != nil {
		if !input.Unit.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown unit")
		}
		updates["unit"] = *input.Unit
	}
	if input.PricePerKgCents != nil {
		if *input.PricePerKgCents <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		updates["price_per_kg_cents"] = *input.PricePerKgCents
	}
	if input.MinOrderQty != nil {
		if *input.MinOrderQty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "min order quantity must be positive")
		}
		updates["min_order_qty"] = *input.MinOrderQty
	}
	if input.AvailableQty != nil {
		if *input.AvailableQty < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "available quantity cannot be negative")
		}
		updates["available_qty"] = *input.AvailableQty
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return NewProductView(product), nil
	}

	if err := s.repo.UpdateProduct(ctx, productID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	updated, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
	}
	return NewProductView(updated), nil
}

func (s *service) DeactivateProduct(ctx context.Context, supplierID, productID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, supplierID, productID); err != nil {
		return err
	}
	if err := s.repo.UpdateProduct(ctx, productID, map[string]any{"is_active": false}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deactivate product")
	}
	return nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductView, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewProductView(product), nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductList, error) {
	if input.Category != nil && !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
	}
	products, nextCursor, err := s.repo.ListProducts(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, *NewProductView(&products[i]))
	}
	return &ProductList{Products: views, NextCursor: nextCursor}, nil
}

// FindProduct loads one product, joining an in-flight transaction when one is
// supplied. Group order creation calls this while holding its own tx.
func (s *service) FindProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*models.Product, error) {
	return s.repo.WithTx(tx).FindByID(ctx, productID)
}

func (s *service) loadOwned(ctx context.Context, supplierID, productID uuid.UUID) (*models.Product, error) {
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.SupplierID != supplierID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to supplier")
	}
	return product, nil
}

func validateCreateInput(input CreateProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if !input.Category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
	}
	if input.Unit != "" && !input.Unit.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown unit")
	}
	if input.PricePerKgCents <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if input.AvailableQty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "available quantity cannot be negative")
	}
	return nil
}
