package grouporders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mandilink/mandilink-backend/pkg/db/models"
	"github.com/mandilink/mandilink-backend/pkg/pagination"
	"github.com/mandilink/mandilink-backend/pkg/types"
)

// Repository defines persistence operations for group order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateGroupOrder(ctx context.Context, order *models.GroupOrder) (*models.GroupOrder, error)
	FindGroupOrder(ctx context.Context, id uuid.UUID) (*models.GroupOrder, error)
	FindGroupOrderForUpdate(ctx context.Context, id uuid.UUID) (*models.GroupOrder, error)
	SaveParticipant(ctx context.Context, participant *models.GroupOrderParticipant) error
	UpdateGroupOrder(ctx context.Context, id uuid.UUID, updates map[string]any) error
	ListByParticipant(ctx context.Context, userID uuid.UUID, params pagination.Params) (*GroupOrderList, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params, filters SupplierOrderFilters) (*GroupOrderList, error)
}

// CatalogReader supplies read-only product reference data.
type CatalogReader interface {
	FindProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*models.Product, error)
}

// SupplierAccounts exposes the supplier-side collaborators the workflow needs:
// the depot location snapshot at approval and the atomic revenue increment on
// delivery.
type SupplierAccounts interface {
	GetLocation(ctx context.Context, tx *gorm.DB, supplierID uuid.UUID) (*types.GeoPoint, error)
	AccrueRevenue(ctx context.Context, tx *gorm.DB, supplierID uuid.UUID, amountCents int64) error
}
