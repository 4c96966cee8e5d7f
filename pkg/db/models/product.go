package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mandilink/mandilink-backend/pkg/enums"
)

// Product is a raw material listed by a supplier.
type Product struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID      uuid.UUID             `gorm:"column:supplier_id;type:uuid;not null;index"`
	Name            string                `gorm:"column:name;not null"`
	Description     *string               `gorm:"column:description"`
	Category        enums.ProductCategory `gorm:"column:category;type:text;not null"`
	Unit            enums.ProductUnit     `gorm:"column:unit;type:text;not null;default:'kg'"`
	PricePerKgCents int64                 `gorm:"column:price_per_kg_cents;not null"`
	MinOrderQty     int                   `gorm:"column:min_order_qty;not null;default:1"`
	AvailableQty    int                   `gorm:"column:available_qty;not null;default:0"`
	ImageURL        *string               `gorm:"column:image_url"`
	IsActive        bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
