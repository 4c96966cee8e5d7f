package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/mandilink/mandilink-backend/pkg/db/models"
	"github.com/mandilink/mandilink-backend/pkg/enums"
)

// CreateProductInput holds the validated payload to list a raw material.
type CreateProductInput struct {
	Name            string
	Description     *string
	Category        enums.ProductCategory
	Unit            enums.ProductUnit
	PricePerKgCents int64
	MinOrderQty     int
	AvailableQty    int
	ImageURL        *string
}

// UpdateProductInput holds optional mutation values for a listing.
type UpdateProductInput struct {
	Name            *string
	Description     *string
	Category        *enums.ProductCategory
	Unit            *enums.ProductUnit
	PricePerKgCents *int64
	MinOrderQty     *int
	AvailableQty    *int
	ImageURL        *string
	IsActive        *bool
}

// ListProductsInput narrows and pages the public catalog listing.
type ListProductsInput struct {
	Category   *enums.ProductCategory
	SupplierID *uuid.UUID
	Search     string
	Limit      int
	Cursor     string
}

// ProductView is the caller-facing shape of a listing.
type ProductView struct {
	ID              uuid.UUID             `json:"id"`
	SupplierID      uuid.UUID             `json:"supplier_id"`
	Name            string                `json:"name"`
	Description     *string               `json:"description,omitempty"`
	Category        enums.ProductCategory `json:"category"`
	Unit            enums.ProductUnit     `json:"unit"`
	PricePerKgCents int64                 `json:"price_per_kg_cents"`
	MinOrderQty     int                   `json:"min_order_qty"`
	AvailableQty    int                   `json:"available_qty"`
	ImageURL        *string               `json:"image_url,omitempty"`
	IsActive        bool                  `json:"is_active"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// ProductList wraps one page of listings plus the next page cursor.
type ProductList struct {
	Products   []ProductView `json:"products"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// NewProductView maps a product row to its caller-facing shape.
func NewProductView(product *models.Product) *ProductView {
	if product == nil {
		return nil
	}
	return &ProductView{
		ID:              product.ID,
		SupplierID:      product.SupplierID,
		Name:            product.Name,
		Description:     product.Description,
		Category:        product.Category,
		Unit:            product.Unit,
		PricePerKgCents: product.PricePerKgCents,
		MinOrderQty:     product.MinOrderQty,
		AvailableQty:    product.AvailableQty,
		ImageURL:        product.ImageURL,
		IsActive:        product.IsActive,
		CreatedAt:       product.CreatedAt,
		UpdatedAt:       product.UpdatedAt,
	}
}
