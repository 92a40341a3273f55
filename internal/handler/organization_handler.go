package handler

import (
	"errors"
	"net/http"

	"github.com/assessio/assessment-service/internal/dto"
	"github.com/assessio/assessment-service/internal/middleware"
	"github.com/assessio/assessment-service/internal/models"
	"github.com/assessio/assessment-service/internal/service"
	"github.com/labstack/echo/v4"
)

type OrganizationHandler struct {
	svc        service.OrganizationService
	profileSvc service.ProfileService
}

func NewOrganizationHandler(svc service.OrganizationService, profileSvc service.ProfileService) *OrganizationHandler {
	return &OrganizationHandler{svc: svc, profileSvc: profileSvc}
}

func (h *OrganizationHandler) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	org := e.Group("/api/v1/organization", auth)
	org.POST("/generate-token", h.GenerateToken)
	org.POST("/regenerate-token", h.RegenerateToken)
	org.POST("/deactivate-token", h.DeactivateToken)
	org.GET("/stats", h.GetStats)
	org.GET("/dashboard", h.Dashboard)
}

// caller resolves the authenticated Organization behind the request. Every
// operation in this handler is scoped to that organization's own identifier.
func (h *OrganizationHandler) caller(c echo.Context) (*models.Organization, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	org, err := h.profileSvc.ResolveOrganization(c.Request().Context(), identity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWrongRole), errors.Is(err, service.ErrProfileNotFound):
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "organization account required")
		default:
			return nil, err
		}
	}
	return org, nil
}

func (h *OrganizationHandler) GenerateToken(c echo.Context) error {
	org, err := h.caller(c)
	if err != nil {
		return err
	}

	token, err := h.svc.GenerateToken(c.Request().Context(), org.SapID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.TokenResponse{
		Success: true,
		Token:   token,
		Message: "access token issued",
	})
}

func (h *OrganizationHandler) RegenerateToken(c echo.Context) error {
	org, err := h.caller(c)
	if err != nil {
		return err
	}

	token, err := h.svc.RegenerateToken(c.Request().Context(), org.SapID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.TokenResponse{
		Success: true,
		Token:   token,
		Message: "access token regenerated; the previous token is no longer valid",
	})
}

func (h *OrganizationHandler) DeactivateToken(c echo.Context) error {
	org, err := h.caller(c)
	if err != nil {
		return err
	}

	if err := h.svc.DeactivateToken(c.Request().Context(), org.SapID); err != nil {
		if errors.Is(err, service.ErrNoActiveToken) {
			return c.JSON(http.StatusBadRequest, dto.MessageResponse{
				Success: false,
				Message: err.Error(),
			})
		}
		return err
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "access token deactivated",
	})
}

func (h *OrganizationHandler) GetStats(c echo.Context) error {
	org, err := h.caller(c)
	if err != nil {
		return err
	}

	stats, err := h.svc.GetStats(c.Request().Context(), org.SapID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.StatsResponse{
		Success: true,
		Stats: dto.OrgStats{
			UserCount:       stats.UserCount,
			TestCount:       stats.TestCount,
			TestResultCount: stats.TestResultCount,
		},
	})
}

// Dashboard is the organization's own management view; organizations landing
// on the generic profile endpoint are redirected here.
func (h *OrganizationHandler) Dashboard(c echo.Context) error {
	org, err := h.caller(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ProfileResponse{
		Success: true,
		Role:    models.RoleOrganization,
		Profile: dto.ToOrganizationProfile(org),
	})
}
