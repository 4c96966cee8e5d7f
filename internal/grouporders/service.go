package grouporders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mandilink/mandilink-backend/pkg/db/models"
	"github.com/mandilink/mandilink-backend/pkg/enums"
	pkgerrors "github.com/mandilink/mandilink-backend/pkg/errors"
	"github.com/mandilink/mandilink-backend/pkg/metrics"
	"github.com/mandilink/mandilink-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the pooling and fulfillment operations on group orders.
type Service interface {
	Create(ctx context.Context, vendor VendorRef, input CreateGroupOrderInput) (*GroupOrderView, error)
	Join(ctx context.Context, vendor VendorRef, input JoinGroupOrderInput) (*GroupOrderView, error)
	Modify(ctx context.Context, vendor VendorRef, input ModifyOrderInput) (*GroupOrderView, error)
	Cancel(ctx context.Context, vendor VendorRef, input CancelOrderInput) (*GroupOrderView, error)
	Approve(ctx context.Context, supplier SupplierRef, orderID uuid.UUID) (*GroupOrderView, error)
	Reject(ctx context.Context, supplier SupplierRef, orderID uuid.UUID) (*GroupOrderView, error)
	Deliver(ctx context.Context, supplier SupplierRef, orderID uuid.UUID) (*GroupOrderView, error)
	GetTracking(ctx context.Context, callerID uuid.UUID, orderID uuid.UUID) (*TrackingInfo, error)
	ListVendorOrders(ctx context.Context, vendor VendorRef, params pagination.Params) (*GroupOrderList, error)
	ListSupplierOrders(ctx context.Context, supplier SupplierRef, params pagination.Params, filters SupplierOrderFilters) (*GroupOrderList, error)
}

type service struct {
	repo         Repository
	tx           txRunner
	catalog      CatalogReader
	suppliers    SupplierAccounts
	metrics      *metrics.OrderMetrics
	projector    *Projector
	deliveryLead time.Duration
	now          func() time.Time
}

// NewService builds a group order service with the required dependencies.
func NewService(repo Repository, tx txRunner, catalog CatalogReader, suppliers SupplierAccounts, orderMetrics *metrics.OrderMetrics, deliveryLeadDays int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("group orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	if suppliers == nil {
		return nil, fmt.Errorf("supplier accounts required")
	}
	if deliveryLeadDays <= 0 {
		deliveryLeadDays = 7
	}
	return &service{
		repo:         repo,
		tx:           tx,
		catalog:      catalog,
		suppliers:    suppliers,
		metrics:      orderMetrics,
		projector:    NewProjector(),
		deliveryLead: time.Duration(deliveryLeadDays) * 24 * time.Hour,
		now:          func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Create(ctx context.Context, vendor VendorRef, input CreateGroupOrderInput) (*GroupOrderView, error) {
	if vendor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.TargetQty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "target quantity must be positive")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.Quantity > input.TargetQty {
		return nil, pkgerrors.New(pkgerrors.CodeQuantityExceeds, "initial quantity exceeds the pooling target").
			WithDetails(map[string]any{"target_qty": input.TargetQty, "quantity": input.Quantity})
	}

	var created *models.GroupOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		product, err := s.catalog.FindProduct(ctx, tx, input.ProductID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		estimate := s.now().Add(s.deliveryLead)
		order := &models.GroupOrder{
			ID:                 uuid.New(),
			ProductID:          product.ID,
			SupplierID:         product.SupplierID,
			CreatedBy:          vendor.UserID,
			TargetQty:          input.TargetQty,
			CurrentQty:         input.Quantity,
			PricePerKgCents:    product.PricePerKgCents,
			Status:             enums.GroupOrderStatusOpen,
			ExpectedDeliveryAt: &estimate,
			Participants: []models.GroupOrderParticipant{
				{
					ID:       uuid.New(),
					UserID:   vendor.UserID,
					Quantity: input.Quantity,
				},
			},
		}
		order.Participants[0].GroupOrderID = order.ID

		created, err = repo.CreateGroupOrder(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create group order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncTransition(enums.GroupOrderStatusOpen.String())
	return toView(created), nil
}

func (s *service) Join(ctx context.Context, vendor VendorRef, input JoinGroupOrderInput) (*GroupOrderView, error) {
	if vendor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var result *models.GroupOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := loadForUpdate(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		if order.Status != enums.GroupOrderStatusOpen {
			return pkgerrors.New(pkgerrors.CodeOrderNotOpen, "order is no longer accepting contributions").
				WithDetails(map[string]any{"status": order.Status})
		}

		ledger := NewLedger(order.ID, order.Participants)
		entry, total, err := ledger.AddOrIncrement(vendor.UserID, input.Quantity)
		if err != nil {
			return err
		}
		if total > order.TargetQty {
			return pkgerrors.New(pkgerrors.CodeQuantityExceeds, "contribution would push the pool past its target").
				WithDetails(map[string]any{"target_qty": order.TargetQty, "resulting_qty": total})
		}

		status := order.Status
		if total >= order.TargetQty {
			status = enums.GroupOrderStatusCompleted
		}

		if err := repo.SaveParticipant(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save participant")
		}
		if err := repo.UpdateGroupOrder(ctx, order.ID, map[string]any{
			"current_qty": total,
			"status":      status,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order totals")
		}

		order.CurrentQty = total
		if status != order.Status {
			order.Status = status
			s.metrics.IncTransition(status.String())
			s.metrics.ObservePoolFill(float64(total) / float64(order.TargetQty))
		}
		order.Participants = ledger.Entries()
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toView(result), nil
}

func (s *service) Modify(ctx context.Context, vendor VendorRef, input ModifyOrderInput) (*GroupOrderView, error) {
	if vendor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.NewQuantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var result *models.GroupOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := loadForUpdate(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		if order.Status != enums.GroupOrderStatusOpen {
			return pkgerrors.New(pkgerrors.CodeOrderNotOpen, "order can only be modified while open").
				WithDetails(map[string]any{"status": order.Status})
		}

		ledger := NewLedger(order.ID, order.Participants)
		entry, total, err := ledger.SetQuantity(vendor.UserID, input.NewQuantity)
		if err != nil {
			return err
		}
		if total > order.TargetQty {
			return pkgerrors.New(pkgerrors.CodeQuantityExceeds, "new quantity would push the pool past its target").
				WithDetails(map[string]any{"target_qty": order.TargetQty, "resulting_qty": total})
		}

		if err := repo.SaveParticipant(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save participant")
		}
		if err := repo.UpdateGroupOrder(ctx, order.ID, map[string]any{"current_qty": total}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order totals")
		}

		order.CurrentQty = total
		order.Participants = ledger.Entries()
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toView(result), nil
}

func (s *service) Cancel(ctx context.Context, vendor VendorRef, input CancelOrderInput) (*GroupOrderView, error) {
	if vendor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var result *models.GroupOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := loadForUpdate(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}

		ledger := NewLedger(order.ID, order.Participants)
		if !ledger.Contains(vendor.UserID) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only participants can cancel an order")
		}
		if order.Status != enums.GroupOrderStatusOpen && order.Status != enums.GroupOrderStatusApproved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order cannot be cancelled in its current state").
				WithDetails(map[string]any{"status": order.Status})
		}

		now := s.now()
		updates := map[string]any{
			"status":       enums.GroupOrderStatusCancelled,
			"cancelled_at": now,
		}
		if input.Message != nil {
			updates["cancellation_message"] = *input.Message
		}
		if err := repo.UpdateGroupOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}

		order.Status = enums.GroupOrderStatusCancelled
		order.CancelledAt = &now
		order.CancellationMessage = input.Message
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncTransition(enums.GroupOrderStatusCancelled.String())
	return toView(result), nil
}

func (s *service) Approve(ctx context.Context, supplier SupplierRef, orderID uuid.UUID) (*GroupOrderView, error) {
	if supplier.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var result *models.GroupOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := loadForUpdate(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if order.SupplierID != supplier.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to supplier")
		}
		if !awaitingSupplierDecision(order.Status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order cannot be approved in its current state").
				WithDetails(map[string]any{"status": order.Status})
		}

		location, err := s.suppliers.GetLocation(ctx, tx, supplier.UserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier location")
		}
		if location == nil {
			return pkgerrors.New(pkgerrors.CodeLocationMissing, "set a depot location before approving orders")
		}

		now := s.now()
		if err := repo.UpdateGroupOrder(ctx, order.ID, map[string]any{
			"status":            enums.GroupOrderStatusApproved,
			"supplier_location": location,
			"approved_at":       now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve order")
		}

		order.Status = enums.GroupOrderStatusApproved
		order.SupplierLocation = location
		order.ApprovedAt = &now
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncTransition(enums.GroupOrderStatusApproved.String())
	return toView(result), nil
}

func (s *service) Reject(ctx context.Context, supplier SupplierRef, orderID uuid.UUID) (*GroupOrderView, error) {
	if supplier.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var result *models.GroupOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := loadForUpdate(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if order.SupplierID != supplier.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to supplier")
		}
		if !awaitingSupplierDecision(order.Status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order cannot be rejected in its current state").
				WithDetails(map[string]any{"status": order.Status})
		}

		now := s.now()
		if err := repo.UpdateGroupOrder(ctx, order.ID, map[string]any{
			"status":      enums.GroupOrderStatusRejected,
			"rejected_at": now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject order")
		}

		order.Status = enums.GroupOrderStatusRejected
		order.RejectedAt = &now
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncTransition(enums.GroupOrderStatusRejected.String())
	return toView(result), nil
}

func (s *service) Deliver(ctx context.Context, supplier SupplierRef, orderID uuid.UUID) (*GroupOrderView, error) {
	if supplier.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var result *models.GroupOrder
	var revenueCents int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := loadForUpdate(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if order.SupplierID != supplier.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to supplier")
		}
		if order.Status != enums.GroupOrderStatusApproved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only approved orders can be delivered").
				WithDetails(map[string]any{"status": order.Status})
		}

		product, err := s.catalog.FindProduct(ctx, tx, order.ProductID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		now := s.now()
		if err := repo.UpdateGroupOrder(ctx, order.ID, map[string]any{
			"status":        enums.GroupOrderStatusDelivered,
			"delivery_date": now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deliver order")
		}

		// Revenue accrues inside the same transaction as the status write so a
		// delivered order can never lose its payout. Pricing uses the product's
		// current price, not the create-time snapshot.
		revenueCents = int64(order.CurrentQty) * product.PricePerKgCents
		if err := s.suppliers.AccrueRevenue(ctx, tx, order.SupplierID, revenueCents); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accrue supplier revenue")
		}

		order.Status = enums.GroupOrderStatusDelivered
		order.DeliveryDate = &now
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncTransition(enums.GroupOrderStatusDelivered.String())
	s.metrics.AddRevenue(result.SupplierID.String(), revenueCents)
	return toView(result), nil
}

func (s *service) GetTracking(ctx context.Context, callerID uuid.UUID, orderID uuid.UUID) (*TrackingInfo, error) {
	if callerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.FindGroupOrder(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	ledger := NewLedger(order.ID, order.Participants)
	if !ledger.Contains(callerID) && order.SupplierID != callerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "tracking is limited to participants and the owning supplier")
	}

	product, err := s.catalog.FindProduct(ctx, nil, order.ProductID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	info := s.projector.Project(order, product.Name)
	return &info, nil
}

func (s *service) ListVendorOrders(ctx context.Context, vendor VendorRef, params pagination.Params) (*GroupOrderList, error) {
	if vendor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListByParticipant(ctx, vendor.UserID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendor orders")
	}
	return list, nil
}

func (s *service) ListSupplierOrders(ctx context.Context, supplier SupplierRef, params pagination.Params, filters SupplierOrderFilters) (*GroupOrderList, error) {
	if supplier.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListBySupplier(ctx, supplier.UserID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list supplier orders")
	}
	return list, nil
}

func loadForUpdate(ctx context.Context, repo Repository, orderID uuid.UUID) (*models.GroupOrder, error) {
	order, err := repo.FindGroupOrderForUpdate(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// awaitingSupplierDecision reports whether the supplier may still approve or
// reject. A full pool flips the status to completed before the supplier acts,
// so both open and completed qualify.
func awaitingSupplierDecision(status enums.GroupOrderStatus) bool {
	return status == enums.GroupOrderStatusOpen || status == enums.GroupOrderStatusCompleted
}

func toView(order *models.GroupOrder) *GroupOrderView {
	if order == nil {
		return nil
	}
	participants := make([]ParticipantView, 0, len(order.Participants))
	for _, entry := range order.Participants {
		participants = append(participants, ParticipantView{
			UserID:   entry.UserID,
			Quantity: entry.Quantity,
			JoinedAt: entry.CreatedAt,
		})
	}
	return &GroupOrderView{
		ID:                  order.ID,
		ProductID:           order.ProductID,
		SupplierID:          order.SupplierID,
		CreatedBy:           order.CreatedBy,
		TargetQty:           order.TargetQty,
		CurrentQty:          order.CurrentQty,
		PricePerKgCents:     order.PricePerKgCents,
		Status:              order.Status,
		SupplierApproved:    order.ApprovedAt != nil && order.Status != enums.GroupOrderStatusRejected,
		SupplierLocation:    order.SupplierLocation,
		CancellationMessage: order.CancellationMessage,
		ExpectedDeliveryAt:  order.ExpectedDeliveryAt,
		DeliveryDate:        order.DeliveryDate,
		Participants:        participants,
		CreatedAt:           order.CreatedAt,
		UpdatedAt:           order.UpdatedAt,
	}
}
