package tenant

import (
	"context"
	"errors"
	"time"

	"zubaschool-backoffice/pkg/config"
	"zubaschool-backoffice/pkg/errutil"
	"zubaschool-backoffice/pkg/repository"
	"zubaschool-backoffice/services/audit"
	"zubaschool-backoffice/services/identity"
	"zubaschool-backoffice/services/plan"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	repo         repository.Repository[Tenant]
	plans        repository.Repository[plan.Plan]
	audit        audit.Store
	storeTimeout time.Duration
}

type ServiceParams struct {
	fx.In
	DB     *gorm.DB
	Audit  audit.Store
	Config *config.Config
}

func NewService(p ServiceParams) *Service {
	return &Service{
		repo:         repository.ProvideStore[Tenant](p.DB),
		plans:        repository.ProvideStore[plan.Plan](p.DB),
		audit:        p.Audit,
		storeTimeout: p.Config.Provision.StoreTimeout,
	}
}

// Create provisions a school. The protocol is strictly sequential: verify
// the referenced plan, write the tenant row, then append an audit entry.
// The audit append is best effort; the committed tenant row is never
// rolled back because of it.
func (s *Service) Create(ctx context.Context, caller *identity.Identity, req *CreateRequest) (*Tenant, error) {
	zapLog := logWithTrace(ctx)

	planCtx, cancelPlan := context.WithTimeout(ctx, s.storeTimeout)
	defer cancelPlan()
	referenced, err := s.plans.FindOne(planCtx, &plan.Plan{ID: req.SubscriptionPlanID})
	if err != nil {
		zapLog.Error("failed to look up subscription plan",
			zap.String("plan_id", req.SubscriptionPlanID), zap.Error(err))
		return nil, errutil.BadRequest("failed to create tenant", errutil.WithErr(err))
	}
	if referenced == nil {
		return nil, errutil.UnprocessableEntity("subscription plan not found",
			errutil.WithDetails(errutil.Detail{
				Field:   "subscription_plan_id",
				Message: "no such plan",
			}))
	}

	tenantID := uuid.NewString()
	branding := datatypes.JSONMap(req.BrandingConfig)
	if branding == nil {
		branding = datatypes.JSONMap{}
	}
	record := &Tenant{
		ID:                 tenantID,
		SchoolName:         req.SchoolName,
		Address:            req.Address,
		ContactEmail:       req.ContactEmail,
		ContactPhone:       req.ContactPhone,
		PrincipalName:      req.PrincipalName,
		SubscriptionPlanID: req.SubscriptionPlanID,
		BrandingConfig:     branding,
		Status:             Active,
		CreatedAt:          time.Now().UTC(),
	}

	insertCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	if err := s.repo.Create(insertCtx, record); err != nil {
		zapLog.Error("failed to create tenant", zap.String("tenant_id", tenantID), zap.Error(err))
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errutil.Conflict("tenant already exists", errutil.WithErr(err))
		}
		return nil, errutil.BadRequest("failed to create tenant", errutil.WithErr(err))
	}

	persisted := s.reload(ctx, zapLog, record)

	auditCtx, cancelAudit := context.WithTimeout(ctx, s.storeTimeout)
	defer cancelAudit()
	entry := &audit.Entry{
		TenantID:  &tenantID,
		UserID:    caller.SubjectID,
		Action:    audit.ActionCreateTenant,
		Details:   map[string]interface{}{"school_name": req.SchoolName, "tenant_id": tenantID},
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.audit.Append(auditCtx, entry); err != nil {
		zapLog.Error("audit write failed",
			zap.String("action", audit.ActionCreateTenant),
			zap.String("tenant_id", tenantID),
			zap.Error(err))
		audit.ObserveWriteFailure(audit.ActionCreateTenant)
	} else {
		audit.ObserveWrite(audit.ActionCreateTenant)
	}

	return persisted, nil
}

// reload fetches the committed row so store-assigned defaults are visible.
// The insert has already committed, so a failed re-read falls back to the
// record we wrote rather than failing the request.
func (s *Service) reload(ctx context.Context, zapLog *zap.Logger, record *Tenant) *Tenant {
	readCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	persisted, err := s.repo.FindOne(readCtx, &Tenant{ID: record.ID})
	if err != nil || persisted == nil {
		zapLog.Warn("failed to re-read tenant after create",
			zap.String("tenant_id", record.ID), zap.Error(err))
		return record
	}
	return persisted
}

func (s *Service) List(ctx context.Context) ([]*Tenant, error) {
	tenants, err := s.repo.Find(ctx, &Tenant{})
	if err != nil {
		logWithTrace(ctx).Error("failed to list tenants", zap.Error(err))
		return nil, errutil.Internal("failed to list tenants", errutil.WithErr(err))
	}
	return tenants, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Tenant, error) {
	t, err := s.repo.FindOne(ctx, &Tenant{ID: id})
	if err != nil {
		logWithTrace(ctx).Error("failed to get tenant", zap.String("tenant_id", id), zap.Error(err))
		return nil, errutil.Internal("failed to get tenant", errutil.WithErr(err))
	}
	if t == nil {
		return nil, errutil.NotFound("tenant not found")
	}
	return t, nil
}

func logWithTrace(ctx context.Context) *zap.Logger {
	span := trace.SpanFromContext(ctx)
	return zap.L().With(
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.String("span_id", span.SpanContext().SpanID().String()),
	)
}
