package plan

import (
	"time"

	"gorm.io/datatypes"
)

// Feature is one entry of a plan's ordered feature list. A feature is
// either switched (Enabled) or metered (Limit); both fields free-form on
// purpose.
type Feature struct {
	Name    string `json:"name"`
	Enabled *bool  `json:"enabled,omitempty"`
	Limit   *int64 `json:"limit,omitempty"`
}

// Plan is a purchasable subscription tier.
type Plan struct {
	ID           string                       `gorm:"column:plan_id;primaryKey" json:"plan_id"`
	Name         string                       `gorm:"column:name" json:"name"`
	Description  string                       `gorm:"column:description" json:"description"`
	PriceMonthly float64                      `gorm:"column:price_monthly" json:"price_monthly"`
	PriceYearly  float64                      `gorm:"column:price_yearly" json:"price_yearly"`
	Features     datatypes.JSONSlice[Feature] `gorm:"column:features" json:"features"`
	MaxUsers     int                          `gorm:"column:max_users" json:"max_users"`
	MaxStorageMB int                          `gorm:"column:max_storage_mb" json:"max_storage_mb"`
	CreatedAt    time.Time                    `gorm:"column:created_at" json:"created_at"`
}

func (Plan) TableName() string {
	return "subscription_plans"
}

type CreateRequest struct {
	Name         string    `json:"name" binding:"required"`
	Description  string    `json:"description"`
	PriceMonthly float64   `json:"price_monthly"`
	PriceYearly  float64   `json:"price_yearly"`
	Features     []Feature `json:"features"`
	MaxUsers     int       `json:"max_users"`
	MaxStorageMB int       `json:"max_storage_mb"`
}
