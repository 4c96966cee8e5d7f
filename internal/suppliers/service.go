package suppliers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mandilink/mandilink-backend/internal/users"
	"github.com/mandilink/mandilink-backend/pkg/db/models"
	"github.com/mandilink/mandilink-backend/pkg/enums"
	pkgerrors "github.com/mandilink/mandilink-backend/pkg/errors"
	"github.com/mandilink/mandilink-backend/pkg/types"
)

// Service exposes supplier profile operations plus the collaborators the
// group order workflow depends on at approval and delivery time.
type Service interface {
	GetProfile(ctx context.Context, supplierID uuid.UUID) (*users.UserDTO, error)
	UpdateLocation(ctx context.Context, supplierID uuid.UUID, location types.GeoPoint) (*users.UserDTO, error)
	GetLocation(ctx context.Context, tx *gorm.DB, supplierID uuid.UUID) (*types.GeoPoint, error)
	AccrueRevenue(ctx context.Context, tx *gorm.DB, supplierID uuid.UUID, amountCents int64) error
}

type service struct {
	repo *users.Repository
}

// NewService constructs a suppliers service instance.
func NewService(repo *users.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetProfile(ctx context.Context, supplierID uuid.UUID) (*users.UserDTO, error) {
	supplier, err := s.loadSupplier(ctx, s.repo, supplierID)
	if err != nil {
		return nil, err
	}
	return users.FromModel(supplier), nil
}

func (s *service) UpdateLocation(ctx context.Context, supplierID uuid.UUID, location types.GeoPoint) (*users.UserDTO, error) {
	if !location.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coordinates out of range")
	}
	supplier, err := s.loadSupplier(ctx, s.repo, supplierID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateLocation(ctx, supplierID, location); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update location")
	}
	supplier.Location = &location
	return users.FromModel(supplier), nil
}

// GetLocation returns the supplier's depot location, or nil when none has
// been set yet. Joins an in-flight transaction when one is supplied.
func (s *service) GetLocation(ctx context.Context, tx *gorm.DB, supplierID uuid.UUID) (*types.GeoPoint, error) {
	supplier, err := s.loadSupplier(ctx, s.repo.WithTx(tx), supplierID)
	if err != nil {
		return nil, err
	}
	return supplier.Location, nil
}

// AccrueRevenue adds delivered order revenue to the supplier's lifetime
// total. Callers run it inside the same transaction as the status write.
func (s *service) AccrueRevenue(ctx context.Context, tx *gorm.DB, supplierID uuid.UUID, amountCents int64) error {
	if amountCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "revenue amount cannot be negative")
	}
	if amountCents == 0 {
		return nil
	}
	if err := s.repo.WithTx(tx).IncrementRevenue(ctx, supplierID, amountCents); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: increment revenue")
	}
	return nil
}

func (s *service) loadSupplier(ctx context.Context, repo *users.Repository, supplierID uuid.UUID) (*models.User, error) {
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	user, err := repo.FindByID(ctx, supplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}
	if user.Role != enums.UserRoleSupplier {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is not a supplier")
	}
	return user, nil
}
