package grouporders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mandilink/mandilink-backend/pkg/db/models"
	"github.com/mandilink/mandilink-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a group orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateGroupOrder(ctx context.Context, order *models.GroupOrder) (*models.GroupOrder, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindGroupOrder(ctx context.Context, id uuid.UUID) (*models.GroupOrder, error) {
	var order models.GroupOrder
	err := r.db.WithContext(ctx).
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindGroupOrderForUpdate locks the order row for the remainder of the
// transaction. SQLite serializes writers on its own, so the lock clause is
// only emitted on Postgres.
func (r *repository) FindGroupOrderForUpdate(ctx context.Context, id uuid.UUID) (*models.GroupOrder, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector != nil && r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var order models.GroupOrder
	if err := query.Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}

	var participants []models.GroupOrderParticipant
	err := r.db.WithContext(ctx).
		Where("group_order_id = ?", id).
		Order("created_at ASC").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	order.Participants = participants
	return &order, nil
}

func (r *repository) SaveParticipant(ctx context.Context, participant *models.GroupOrderParticipant) error {
	return r.db.WithContext(ctx).Save(participant).Error
}

func (r *repository) UpdateGroupOrder(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.GroupOrder{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListByParticipant(ctx context.Context, userID uuid.UUID, params pagination.Params) (*GroupOrderList, error) {
	after, err := params.After()
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.GroupOrder{}).
		Joins("JOIN group_order_participants gop ON gop.group_order_id = group_orders.id").
		Where("gop.user_id = ?", userID)

	if after != nil {
		query = query.Where(
			"(group_orders.created_at < ?) OR (group_orders.created_at = ? AND group_orders.id < ?)",
			after.CreatedAt, after.CreatedAt, after.ID,
		)
	}

	var orders []models.GroupOrder
	err = query.
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("group_orders.created_at DESC").
		Order("group_orders.id DESC").
		Limit(params.FetchSize()).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return buildPage(orders, params.PageSize()), nil
}

func (r *repository) ListBySupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params, filters SupplierOrderFilters) (*GroupOrderList, error) {
	after, err := params.After()
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.GroupOrder{}).
		Where("supplier_id = ?", supplierID)

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if after != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			after.CreatedAt, after.CreatedAt, after.ID,
		)
	}

	var orders []models.GroupOrder
	err = query.
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("created_at DESC").
		Order("id DESC").
		Limit(params.FetchSize()).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return buildPage(orders, params.PageSize()), nil
}

func buildPage(orders []models.GroupOrder, pageSize int) *GroupOrderList {
	rows := orders
	nextCursor := ""
	if len(orders) > pageSize {
		rows = orders[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
	}

	views := make([]GroupOrderView, 0, len(rows))
	for i := range rows {
		views = append(views, *toView(&rows[i]))
	}
	return &GroupOrderList{Orders: views, NextCursor: nextCursor}
}
