package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mandilink/mandilink-backend/pkg/enums"
	"github.com/mandilink/mandilink-backend/pkg/types"
)

// GroupOrder pools quantity commitments from multiple vendors against a
// single supplier product until the target quantity is reached.
type GroupOrder struct {
	ID                  uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID           uuid.UUID               `gorm:"column:product_id;type:uuid;not null;index"`
	SupplierID          uuid.UUID               `gorm:"column:supplier_id;type:uuid;not null;index"`
	CreatedBy           uuid.UUID               `gorm:"column:created_by;type:uuid;not null"`
	TargetQty           int                     `gorm:"column:target_qty;not null"`
	CurrentQty          int                     `gorm:"column:current_qty;not null;default:0"`
	PricePerKgCents     int64                   `gorm:"column:price_per_kg_cents;not null"`
	Status              enums.GroupOrderStatus  `gorm:"column:status;type:text;not null;default:'open'"`
	SupplierLocation    *types.GeoPoint         `gorm:"column:supplier_location;type:jsonb"`
	CancellationMessage *string                 `gorm:"column:cancellation_message"`
	ExpectedDeliveryAt  *time.Time              `gorm:"column:expected_delivery_at"`
	ApprovedAt          *time.Time              `gorm:"column:approved_at"`
	DeliveryDate        *time.Time              `gorm:"column:delivery_date"`
	CancelledAt         *time.Time              `gorm:"column:cancelled_at"`
	RejectedAt          *time.Time              `gorm:"column:rejected_at"`
	Participants        []GroupOrderParticipant `gorm:"foreignKey:GroupOrderID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// GroupOrderParticipant records one vendor's quantity commitment inside a
// group order. A vendor appears at most once per order.
type GroupOrderParticipant struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GroupOrderID uuid.UUID `gorm:"column:group_order_id;type:uuid;not null;uniqueIndex:idx_group_order_participant"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_group_order_participant"`
	Quantity     int       `gorm:"column:quantity;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
