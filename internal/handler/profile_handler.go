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

const (
	authEntryPath    = "/auth/login"
	orgDashboardPath = "/api/v1/organization/dashboard"
)

type ProfileHandler struct {
	svc service.ProfileService
}

func NewProfileHandler(svc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	profile := e.Group("/api/v1/profile", auth)
	profile.GET("", h.GetProfile)
	profile.GET("/info", h.GetUserInfo)
}

// GetProfile is the view-oriented endpoint: organizations are redirected to
// their management dashboard, unknown roles back to the auth entry point.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	caller, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.Redirect(http.StatusFound, authEntryPath)
	}

	profile, err := h.svc.Resolve(c.Request().Context(), caller)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrUnknownRole):
			return c.Redirect(http.StatusFound, authEntryPath)
		case errors.Is(err, service.ErrProfileNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		default:
			return err
		}
	}

	if profile.Role == models.RoleOrganization {
		return c.Redirect(http.StatusFound, orgDashboardPath)
	}

	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// GetUserInfo is the JSON variant: same dispatch, no redirects.
func (h *ProfileHandler) GetUserInfo(c echo.Context) error {
	caller, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	profile, err := h.svc.Resolve(c.Request().Context(), caller)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrUnknownRole):
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		case errors.Is(err, service.ErrProfileNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		default:
			return err
		}
	}

	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

func toProfileResponse(p *service.Profile) dto.ProfileResponse {
	resp := dto.ProfileResponse{Success: true, Role: p.Role}
	switch p.Role {
	case models.RoleCandidate:
		resp.Profile = dto.ToCandidateProfile(p.Candidate)
	case models.RoleSpecialUser:
		resp.Profile = dto.ToSpecialUserProfile(p.SpecialUser)
	case models.RoleOrganization:
		resp.Profile = dto.ToOrganizationProfile(p.Organization)
	}
	return resp
}
