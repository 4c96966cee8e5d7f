package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mandilink/mandilink-backend/pkg/enums"
	"github.com/mandilink/mandilink-backend/pkg/types"
)

// User represents a marketplace account, either a street food vendor or a
// raw material supplier depending on Role.
type User struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string          `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string          `gorm:"column:password_hash;not null"`
	Name         string          `gorm:"column:name;not null"`
	Phone        *string         `gorm:"column:phone"`
	Role         enums.UserRole  `gorm:"column:role;type:text;not null"`
	Address      *types.Address  `gorm:"column:address;type:jsonb"`
	Location     *types.GeoPoint `gorm:"column:location;type:jsonb"`
	RevenueCents int64           `gorm:"column:revenue_cents;not null;default:0"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time      `gorm:"column:last_login_at"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
