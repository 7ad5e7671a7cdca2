package plan

import (
	"context"
	"errors"
	"time"

	"zubaschool-backoffice/pkg/config"
	"zubaschool-backoffice/pkg/errutil"
	"zubaschool-backoffice/pkg/repository"
	"zubaschool-backoffice/services/audit"
	"zubaschool-backoffice/services/identity"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	repo         repository.Repository[Plan]
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
		repo:         repository.ProvideStore[Plan](p.DB),
		audit:        p.Audit,
		storeTimeout: p.Config.Provision.StoreTimeout,
	}
}

// Create provisions a subscription plan: relational write first, then a
// best-effort audit append. The caller must already have passed the
// identity gate.
func (s *Service) Create(ctx context.Context, caller *identity.Identity, req *CreateRequest) (*Plan, error) {
	zapLog := logWithTrace(ctx)

	planID := uuid.NewString()
	record := &Plan{
		ID:           planID,
		Name:         req.Name,
		Description:  req.Description,
		PriceMonthly: req.PriceMonthly,
		PriceYearly:  req.PriceYearly,
		Features:     datatypes.NewJSONSlice(req.Features),
		MaxUsers:     req.MaxUsers,
		MaxStorageMB: req.MaxStorageMB,
		CreatedAt:    time.Now().UTC(),
	}

	insertCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	if err := s.repo.Create(insertCtx, record); err != nil {
		zapLog.Error("failed to create plan", zap.String("plan_id", planID), zap.Error(err))
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errutil.Conflict("plan already exists", errutil.WithErr(err))
		}
		return nil, errutil.BadRequest("failed to create plan", errutil.WithErr(err))
	}

	persisted := s.reload(ctx, zapLog, record)

	// The plan exists no matter what happens to the audit append; a lost
	// entry is surfaced out of band, never to the caller.
	auditCtx, cancelAudit := context.WithTimeout(ctx, s.storeTimeout)
	defer cancelAudit()
	entry := &audit.Entry{
		TenantID:  nil,
		UserID:    caller.SubjectID,
		Action:    audit.ActionCreateSubscriptionPlan,
		Details:   map[string]interface{}{"plan_id": planID, "name": record.Name},
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.audit.Append(auditCtx, entry); err != nil {
		zapLog.Error("audit write failed",
			zap.String("action", audit.ActionCreateSubscriptionPlan),
			zap.String("plan_id", planID),
			zap.Error(err))
		audit.ObserveWriteFailure(audit.ActionCreateSubscriptionPlan)
	} else {
		audit.ObserveWrite(audit.ActionCreateSubscriptionPlan)
	}

	return persisted, nil
}

// reload fetches the committed row so store-assigned defaults are visible.
// The insert has already committed, so a failed re-read falls back to the
// record we wrote rather than failing the request.
func (s *Service) reload(ctx context.Context, zapLog *zap.Logger, record *Plan) *Plan {
	readCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	persisted, err := s.repo.FindOne(readCtx, &Plan{ID: record.ID})
	if err != nil || persisted == nil {
		zapLog.Warn("failed to re-read plan after create",
			zap.String("plan_id", record.ID), zap.Error(err))
		return record
	}
	return persisted
}

func (s *Service) List(ctx context.Context) ([]*Plan, error) {
	plans, err := s.repo.Find(ctx, &Plan{})
	if err != nil {
		logWithTrace(ctx).Error("failed to list plans", zap.Error(err))
		return nil, errutil.Internal("failed to list plans", errutil.WithErr(err))
	}
	return plans, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Plan, error) {
	p, err := s.repo.FindOne(ctx, &Plan{ID: id})
	if err != nil {
		logWithTrace(ctx).Error("failed to get plan", zap.String("plan_id", id), zap.Error(err))
		return nil, errutil.Internal("failed to get plan", errutil.WithErr(err))
	}
	if p == nil {
		return nil, errutil.NotFound("plan not found")
	}
	return p, nil
}

func logWithTrace(ctx context.Context) *zap.Logger {
	span := trace.SpanFromContext(ctx)
	return zap.L().With(
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.String("span_id", span.SpanContext().SpanID().String()),
	)
}
