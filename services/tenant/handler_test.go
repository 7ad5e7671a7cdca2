package tenant

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"zubaschool-backoffice/pkg/config"
	"zubaschool-backoffice/pkg/middleware"
	"zubaschool-backoffice/services/audit"
	"zubaschool-backoffice/services/identity"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T, auditStore audit.Store) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, db := newTestService(t, auditStore)
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = testSecret
	gate := identity.NewGate(cfg)

	r := gin.New()
	r.Use(middleware.Error())
	NewHandler(svc).Register(r, middleware.Auth(gate))
	return r, db
}

func signToken(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-1",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func postTenant(r *gin.Engine, token string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/tenants", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateTenantEndToEnd(t *testing.T) {
	auditStore := &fakeAuditStore{}
	r, db := newTestRouter(t, auditStore)
	seedPlan(t, db)

	w := postTenant(r, signToken(t, identity.RoleSysAdmin), gin.H{
		"school_name":          "Riverside Academy",
		"contact_email":        "admin@riverside.edu",
		"subscription_plan_id": "plan-pro",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created Tenant
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, Active, created.Status)
	require.Equal(t, "Riverside Academy", created.SchoolName)

	require.Len(t, auditStore.entries, 1)
	require.Equal(t, audit.ActionCreateTenant, auditStore.entries[0].Action)
	require.Equal(t, created.ID, auditStore.entries[0].Details["tenant_id"])
	require.Equal(t, "Riverside Academy", auditStore.entries[0].Details["school_name"])
}

func TestCreateTenantMissingToken(t *testing.T) {
	auditStore := &fakeAuditStore{}
	r, db := newTestRouter(t, auditStore)
	seedPlan(t, db)

	w := postTenant(r, "", gin.H{
		"school_name":          "Riverside Academy",
		"contact_email":        "admin@riverside.edu",
		"subscription_plan_id": "plan-pro",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var count int64
	require.NoError(t, db.Model(&Tenant{}).Count(&count).Error)
	require.Zero(t, count)
	require.Zero(t, auditStore.calls)
}

func TestCreateTenantWrongRole(t *testing.T) {
	auditStore := &fakeAuditStore{}
	r, db := newTestRouter(t, auditStore)
	seedPlan(t, db)

	w := postTenant(r, signToken(t, "teacher"), gin.H{
		"school_name":          "Riverside Academy",
		"contact_email":        "admin@riverside.edu",
		"subscription_plan_id": "plan-pro",
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	require.NoError(t, db.Model(&Tenant{}).Count(&count).Error)
	require.Zero(t, count)
	require.Zero(t, auditStore.calls)
}

func TestCreateTenantInvalidBody(t *testing.T) {
	auditStore := &fakeAuditStore{}
	r, db := newTestRouter(t, auditStore)
	seedPlan(t, db)

	// contact_email fails syntactic validation.
	w := postTenant(r, signToken(t, identity.RoleSysAdmin), gin.H{
		"school_name":          "Riverside Academy",
		"contact_email":        "not-an-email",
		"subscription_plan_id": "plan-pro",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Zero(t, auditStore.calls)
}

func TestCreateTenantUnknownPlanHTTP(t *testing.T) {
	auditStore := &fakeAuditStore{}
	r, _ := newTestRouter(t, auditStore)

	w := postTenant(r, signToken(t, identity.RoleSysAdmin), gin.H{
		"school_name":          "Riverside Academy",
		"contact_email":        "admin@riverside.edu",
		"subscription_plan_id": "no-such-plan",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetAndListTenants(t *testing.T) {
	auditStore := &fakeAuditStore{}
	r, db := newTestRouter(t, auditStore)
	seedPlan(t, db)

	w := postTenant(r, signToken(t, identity.RoleSysAdmin), gin.H{
		"school_name":          "Riverside Academy",
		"contact_email":        "admin@riverside.edu",
		"subscription_plan_id": "plan-pro",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created Tenant
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	req := httptest.NewRequest(http.MethodGet, "/tenants/"+created.ID, nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, identity.RoleSysAdmin))
	got := httptest.NewRecorder()
	r.ServeHTTP(got, req)
	require.Equal(t, http.StatusOK, got.Code)

	req = httptest.NewRequest(http.MethodGet, "/tenants", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, identity.RoleSysAdmin))
	list := httptest.NewRecorder()
	r.ServeHTTP(list, req)
	require.Equal(t, http.StatusOK, list.Code)

	var body struct {
		Tenants []*Tenant `json:"tenants"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &body))
	require.Len(t, body.Tenants, 1)
}
