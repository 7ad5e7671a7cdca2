package audit

import "time"

// Actions recorded by the provisioning services.
const (
	ActionCreateTenant           = "CreateTenant"
	ActionCreateSubscriptionPlan = "CreateSubscriptionPlan"
)

// Entry is one immutable record of a privileged mutation. It references
// tenants and plans by id only; it stays readable even if the referenced
// entity later changes.
type Entry struct {
	ID        string                 `bson:"_id,omitempty" json:"id,omitempty"`
	TenantID  *string                `bson:"tenant_id" json:"tenant_id"`
	UserID    string                 `bson:"user_id" json:"user_id"`
	Action    string                 `bson:"action" json:"action"`
	Details   map[string]interface{} `bson:"details" json:"details"`
	CreatedAt time.Time              `bson:"created_at" json:"created_at"`
}

// Filter narrows Find results. Zero fields are ignored.
type Filter struct {
	Action   string
	UserID   string
	TenantID string
	Since    *time.Time
	Limit    int64
}
