package grouporders

import (
	"time"

	"github.com/google/uuid"

	"github.com/mandilink/mandilink-backend/pkg/enums"
	"github.com/mandilink/mandilink-backend/pkg/types"
)

// VendorRef identifies the authenticated vendor driving a pooling action.
type VendorRef struct {
	UserID uuid.UUID
}

// SupplierRef identifies the authenticated supplier driving a fulfillment action.
type SupplierRef struct {
	UserID uuid.UUID
}

// CreateGroupOrderInput carries the fields needed to open a new pool.
type CreateGroupOrderInput struct {
	ProductID uuid.UUID
	TargetQty int
	Quantity  int
}

// JoinGroupOrderInput carries a vendor's contribution to an existing pool.
type JoinGroupOrderInput struct {
	OrderID  uuid.UUID
	Quantity int
}

// ModifyOrderInput replaces the caller's committed quantity with an absolute value.
type ModifyOrderInput struct {
	OrderID     uuid.UUID
	NewQuantity int
}

// CancelOrderInput carries the optional cancellation reason.
type CancelOrderInput struct {
	OrderID uuid.UUID
	Message *string
}

// ParticipantView is the caller-facing shape of one ledger entry.
type ParticipantView struct {
	UserID   uuid.UUID `json:"user_id"`
	Quantity int       `json:"quantity"`
	JoinedAt time.Time `json:"joined_at"`
}

// GroupOrderView is the caller-facing shape of a group order.
type GroupOrderView struct {
	ID                  uuid.UUID              `json:"id"`
	ProductID           uuid.UUID              `json:"product_id"`
	SupplierID          uuid.UUID              `json:"supplier_id"`
	CreatedBy           uuid.UUID              `json:"created_by"`
	TargetQty           int                    `json:"target_qty"`
	CurrentQty          int                    `json:"current_qty"`
	PricePerKgCents     int64                  `json:"price_per_kg_cents"`
	Status              enums.GroupOrderStatus `json:"status"`
	SupplierApproved    bool                   `json:"supplier_approved"`
	SupplierLocation    *types.GeoPoint        `json:"supplier_location,omitempty"`
	CancellationMessage *string                `json:"cancellation_message,omitempty"`
	ExpectedDeliveryAt  *time.Time             `json:"expected_delivery_at,omitempty"`
	DeliveryDate        *time.Time             `json:"delivery_date,omitempty"`
	Participants        []ParticipantView      `json:"participants"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

// GroupOrderList wraps a paginated page of orders plus the next page cursor.
type GroupOrderList struct {
	Orders     []GroupOrderView `json:"orders"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// SupplierOrderFilters narrows the supplier-side order listing.
type SupplierOrderFilters struct {
	Status *enums.GroupOrderStatus
}

// TrackingEvent is one entry in the chronological delivery timeline.
type TrackingEvent struct {
	Label     string    `json:"label"`
	Timestamp time.Time `json:"timestamp"`
}

// TrackingInfo is the read-only delivery view computed from stored order state.
type TrackingInfo struct {
	OrderID           uuid.UUID              `json:"order_id"`
	ProductName       string                 `json:"product_name"`
	Status            enums.GroupOrderStatus `json:"status"`
	EstimatedDelivery *time.Time             `json:"estimated_delivery,omitempty"`
	SupplierLocation  *types.GeoPoint        `json:"supplier_location,omitempty"`
	Events            []TrackingEvent        `json:"events"`
}
