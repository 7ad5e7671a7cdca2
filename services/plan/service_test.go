package plan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"zubaschool-backoffice/pkg/config"
	"zubaschool-backoffice/pkg/errutil"
	"zubaschool-backoffice/pkg/repository"
	"zubaschool-backoffice/services/audit"
	"zubaschool-backoffice/services/identity"
	svctestutil "zubaschool-backoffice/services/testutil"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type mockPlanRepo struct {
	createFn  func(ctx context.Context, record *Plan) error
	findFn    func(ctx context.Context, query *Plan) ([]*Plan, error)
	findOneFn func(ctx context.Context, query *Plan) (*Plan, error)
}

func (m *mockPlanRepo) WithTrx(tx *gorm.DB) repository.Repository[Plan] { return m }

func (m *mockPlanRepo) Create(ctx context.Context, record *Plan) error {
	if m.createFn != nil {
		return m.createFn(ctx, record)
	}
	return nil
}

func (m *mockPlanRepo) Find(ctx context.Context, query *Plan) ([]*Plan, error) {
	if m.findFn != nil {
		return m.findFn(ctx, query)
	}
	return nil, nil
}

func (m *mockPlanRepo) FindOne(ctx context.Context, query *Plan) (*Plan, error) {
	if m.findOneFn != nil {
		return m.findOneFn(ctx, query)
	}
	return nil, nil
}

func (m *mockPlanRepo) Count(context.Context, *Plan) (int64, error) { return 0, nil }

type fakeAuditStore struct {
	err     error
	calls   int
	entries []*audit.Entry
}

func (f *fakeAuditStore) Append(ctx context.Context, entry *audit.Entry) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	f.entries = append(f.entries, entry)
	return entry.ID, nil
}

func (f *fakeAuditStore) Find(ctx context.Context, filter audit.Filter) ([]*audit.Entry, error) {
	return f.entries, nil
}

func sysadmin() *identity.Identity {
	return &identity.Identity{SubjectID: "user-1", Role: identity.RoleSysAdmin}
}

func newTestService(t *testing.T, auditStore audit.Store) *Service {
	db := svctestutil.NewTestDB(t, &Plan{})
	cfg := &config.Config{}
	cfg.Provision.StoreTimeout = time.Second
	return NewService(ServiceParams{DB: db, Audit: auditStore, Config: cfg})
}

func proRequest() *CreateRequest {
	enabled := true
	reports := int64(50)
	return &CreateRequest{
		Name:         "Pro",
		Description:  "For growing schools",
		PriceMonthly: 49.99,
		PriceYearly:  499.99,
		Features: []Feature{
			{Name: "sso", Enabled: &enabled},
			{Name: "reports", Limit: &reports},
		},
		MaxUsers:     500,
		MaxStorageMB: 10240,
	}
}

func TestCreatePlanSuccess(t *testing.T) {
	auditStore := &fakeAuditStore{}
	svc := newTestService(t, auditStore)

	created, err := svc.Create(context.Background(), sysadmin(), proRequest())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Pro", created.Name)
	require.Len(t, created.Features, 2)
	require.Equal(t, "sso", created.Features[0].Name)
	require.False(t, created.CreatedAt.IsZero())

	require.Len(t, auditStore.entries, 1)
	entry := auditStore.entries[0]
	require.Nil(t, entry.TenantID)
	require.Equal(t, "user-1", entry.UserID)
	require.Equal(t, audit.ActionCreateSubscriptionPlan, entry.Action)
	require.Equal(t, created.ID, entry.Details["plan_id"])
	require.Equal(t, "Pro", entry.Details["name"])
}

func TestCreatePlanGeneratesUniqueIDs(t *testing.T) {
	svc := newTestService(t, &fakeAuditStore{})

	first, err := svc.Create(context.Background(), sysadmin(), proRequest())
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), sysadmin(), proRequest())
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
}

func TestCreatePlanRelationalFailureSkipsAudit(t *testing.T) {
	auditStore := &fakeAuditStore{}
	repo := &mockPlanRepo{
		createFn: func(ctx context.Context, record *Plan) error {
			return errors.New("connection refused")
		},
	}
	svc := &Service{repo: repo, audit: auditStore, storeTimeout: time.Second}

	_, err := svc.Create(context.Background(), sysadmin(), proRequest())
	require.Error(t, err)

	var base errutil.BaseError
	require.ErrorAs(t, err, &base)
	require.Equal(t, errutil.StatusBadRequest, base.Code)
	require.Zero(t, auditStore.calls)
}

func TestCreatePlanAuditFailureStillSucceeds(t *testing.T) {
	auditStore := &fakeAuditStore{err: errors.New("mongo unavailable")}
	svc := newTestService(t, auditStore)

	before := testutil.ToFloat64(audit.WriteFailures(audit.ActionCreateSubscriptionPlan))

	created, err := svc.Create(context.Background(), sysadmin(), proRequest())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, 1, auditStore.calls)
	require.Empty(t, auditStore.entries)

	after := testutil.ToFloat64(audit.WriteFailures(audit.ActionCreateSubscriptionPlan))
	require.Equal(t, before+1, after)
}

func TestGetPlanNotFound(t *testing.T) {
	svc := newTestService(t, &fakeAuditStore{})

	_, err := svc.Get(context.Background(), "missing")
	var base errutil.BaseError
	require.ErrorAs(t, err, &base)
	require.Equal(t, errutil.StatusNotFound, base.Code)
}

func TestListPlans(t *testing.T) {
	svc := newTestService(t, &fakeAuditStore{})

	_, err := svc.Create(context.Background(), sysadmin(), proRequest())
	require.NoError(t, err)

	plans, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 1)
}
