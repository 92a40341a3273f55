package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/assessio/assessment-service/internal/dto"
	"github.com/assessio/assessment-service/internal/middleware"
	"github.com/assessio/assessment-service/internal/models"
	"github.com/assessio/assessment-service/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// --- Mock OrganizationService ---

type mockOrgService struct {
	generateFn   func(ctx context.Context, orgSapID string) (string, error)
	regenerateFn func(ctx context.Context, orgSapID string) (string, error)
	deactivateFn func(ctx context.Context, orgSapID string) error
	statsFn      func(ctx context.Context, orgSapID string) (*service.OrgStats, error)
}

func (m *mockOrgService) GetOrganization(ctx context.Context, sapID string) (*models.Organization, error) {
	return nil, service.ErrOrganizationNotFound
}
func (m *mockOrgService) GenerateToken(ctx context.Context, orgSapID string) (string, error) {
	return m.generateFn(ctx, orgSapID)
}
func (m *mockOrgService) RegenerateToken(ctx context.Context, orgSapID string) (string, error) {
	return m.regenerateFn(ctx, orgSapID)
}
func (m *mockOrgService) DeactivateToken(ctx context.Context, orgSapID string) error {
	return m.deactivateFn(ctx, orgSapID)
}
func (m *mockOrgService) ValidateToken(ctx context.Context, token string) (string, error) {
	return "", service.ErrInvalidToken
}
func (m *mockOrgService) GetStats(ctx context.Context, orgSapID string) (*service.OrgStats, error) {
	return m.statsFn(ctx, orgSapID)
}

// --- Helpers ---

func orgProfileService() *mockProfileService {
	return &mockProfileService{
		resolveOrgFn: func(ctx context.Context, caller models.Identity) (*models.Organization, error) {
			return &models.Organization{ID: 3, SapID: "ORG-9", Name: "Acme Assessments", TokenActive: true}, nil
		},
	}
}

func newOrgContext(t *testing.T, method, path string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetIdentity(c, models.Identity{Role: models.RoleOrganization, AccountID: 3})
	return c, rec
}

// --- Tests ---

func TestGenerateToken_Handler_Success(t *testing.T) {
	var gotSapID string
	svc := &mockOrgService{
		generateFn: func(ctx context.Context, orgSapID string) (string, error) {
			gotSapID = orgSapID
			return "org-token-1", nil
		},
	}

	c, rec := newOrgContext(t, http.MethodPost, "/api/v1/organization/generate-token")

	h := NewOrganizationHandler(svc, orgProfileService())
	err := h.GenerateToken(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ORG-9", gotSapID)

	var resp dto.TokenResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "org-token-1", resp.Token)
}

func TestGenerateToken_Handler_NonOrganizationCaller(t *testing.T) {
	profiles := &mockProfileService{
		resolveOrgFn: func(ctx context.Context, caller models.Identity) (*models.Organization, error) {
			return nil, service.ErrWrongRole
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/organization/generate-token", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetIdentity(c, models.Identity{Role: models.RoleCandidate, AccountID: 7})

	h := NewOrganizationHandler(&mockOrgService{}, profiles)
	err := h.GenerateToken(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestGenerateToken_Handler_NoIdentity(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/organization/generate-token", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewOrganizationHandler(&mockOrgService{}, &mockProfileService{})
	err := h.GenerateToken(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRegenerateToken_Handler_Success(t *testing.T) {
	svc := &mockOrgService{
		regenerateFn: func(ctx context.Context, orgSapID string) (string, error) {
			return "org-token-2", nil
		},
	}

	c, rec := newOrgContext(t, http.MethodPost, "/api/v1/organization/regenerate-token")

	h := NewOrganizationHandler(svc, orgProfileService())
	err := h.RegenerateToken(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.TokenResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "org-token-2", resp.Token)
	assert.Contains(t, resp.Message, "no longer valid")
}

func TestDeactivateToken_Handler_Success(t *testing.T) {
	svc := &mockOrgService{
		deactivateFn: func(ctx context.Context, orgSapID string) error { return nil },
	}

	c, rec := newOrgContext(t, http.MethodPost, "/api/v1/organization/deactivate-token")

	h := NewOrganizationHandler(svc, orgProfileService())
	err := h.DeactivateToken(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.MessageResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestDeactivateToken_Handler_NoActiveToken(t *testing.T) {
	svc := &mockOrgService{
		deactivateFn: func(ctx context.Context, orgSapID string) error {
			return service.ErrNoActiveToken
		},
	}

	c, rec := newOrgContext(t, http.MethodPost, "/api/v1/organization/deactivate-token")

	h := NewOrganizationHandler(svc, orgProfileService())
	err := h.DeactivateToken(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.MessageResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestGetStats_Handler_Success(t *testing.T) {
	svc := &mockOrgService{
		statsFn: func(ctx context.Context, orgSapID string) (*service.OrgStats, error) {
			return &service.OrgStats{UserCount: 12, TestCount: 4, TestResultCount: 30}, nil
		},
	}

	c, rec := newOrgContext(t, http.MethodGet, "/api/v1/organization/stats")

	h := NewOrganizationHandler(svc, orgProfileService())
	err := h.GetStats(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.StatsResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(12), resp.Stats.UserCount)
	assert.Equal(t, int64(4), resp.Stats.TestCount)
	assert.Equal(t, int64(30), resp.Stats.TestResultCount)
}

func TestDashboard_Handler_ReturnsOrganizationProfile(t *testing.T) {
	c, rec := newOrgContext(t, http.MethodGet, "/api/v1/organization/dashboard")

	h := NewOrganizationHandler(&mockOrgService{}, orgProfileService())
	err := h.Dashboard(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.ProfileResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, models.RoleOrganization, resp.Role)
}
