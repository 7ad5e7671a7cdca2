package tenant

import (
	"time"

	"gorm.io/datatypes"
)

type Status string

var (
	Active    Status = "Active"
	Suspended Status = "Suspended"
	Closed    Status = "Closed"
)

func (s Status) String() string {
	switch s {
	case Active, Suspended, Closed:
		return string(s)
	default:
		return ""
	}
}

// Tenant is a provisioned school. The id is generated by the service at
// creation time and is the sole stable external reference.
type Tenant struct {
	ID                 string            `gorm:"column:tenant_id;primaryKey" json:"tenant_id"`
	SchoolName         string            `gorm:"column:school_name" json:"school_name"`
	Address            *string           `gorm:"column:address" json:"address,omitempty"`
	ContactEmail       string            `gorm:"column:contact_email" json:"contact_email"`
	ContactPhone       *string           `gorm:"column:contact_phone" json:"contact_phone,omitempty"`
	PrincipalName      *string           `gorm:"column:principal_name" json:"principal_name,omitempty"`
	SubscriptionPlanID string            `gorm:"column:subscription_plan_id" json:"subscription_plan_id"`
	BrandingConfig     datatypes.JSONMap `gorm:"column:branding_config" json:"branding_config"`
	Status             Status            `gorm:"column:status" json:"status"`
	CreatedAt          time.Time         `gorm:"column:created_at" json:"created_at"`
}

func (Tenant) TableName() string {
	return "tenants"
}

type CreateRequest struct {
	SchoolName         string                 `json:"school_name" binding:"required"`
	Address            *string                `json:"address"`
	ContactEmail       string                 `json:"contact_email" binding:"required,email"`
	ContactPhone       *string                `json:"contact_phone"`
	PrincipalName      *string                `json:"principal_name"`
	SubscriptionPlanID string                 `json:"subscription_plan_id" binding:"required"`
	BrandingConfig     map[string]interface{} `json:"branding_config"`
}
