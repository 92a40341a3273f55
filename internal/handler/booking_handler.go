package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/assessio/assessment-service/internal/dto"
	"github.com/assessio/assessment-service/internal/middleware"
	"github.com/assessio/assessment-service/internal/models"
	"github.com/assessio/assessment-service/internal/service"
	"github.com/labstack/echo/v4"
)

const testListingPath = "/api/v1/tests"

type BookingHandler struct {
	svc        service.BookingService
	profileSvc service.ProfileService
}

func NewBookingHandler(svc service.BookingService, profileSvc service.ProfileService) *BookingHandler {
	return &BookingHandler{svc: svc, profileSvc: profileSvc}
}

func (h *BookingHandler) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	tests := e.Group("/api/v1/tests", auth)
	tests.GET("/:id", h.GetTest)
	tests.POST("/:id/book", h.BookSlot)
	tests.GET("/:id/bookings", h.ListBookings)
}

// BookSlot is the booking entry point. Business failures come back as a
// {success:false, error, redirect} envelope pointing at the listing view;
// only genuinely unexpected faults reach the central error handler.
func (h *BookingHandler) BookSlot(c echo.Context) error {
	testID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid test id")
	}

	caller, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.BookSlotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	booking, err := h.svc.BookSlot(c.Request().Context(), uint(testID), caller, req.SelectedDate, req.SelectedSlot)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		case errors.Is(err, service.ErrWrongRole):
			return c.JSON(http.StatusForbidden, dto.ErrorRedirectResponse{
				Error: err.Error(), Redirect: testListingPath,
			})
		case errors.Is(err, service.ErrTestNotFound):
			return c.JSON(http.StatusNotFound, dto.ErrorRedirectResponse{
				Error: err.Error(), Redirect: testListingPath,
			})
		case errors.Is(err, service.ErrCapacityExceeded):
			return c.JSON(http.StatusConflict, dto.ErrorRedirectResponse{
				Error: err.Error(), Redirect: testListingPath,
			})
		default:
			return err
		}
	}

	return c.JSON(http.StatusCreated, dto.BookSlotResponse{
		Success:      true,
		Message:      "slot booked successfully",
		Redirect:     fmt.Sprintf("/api/v1/tests/%d/take", booking.TestID),
		JustBooked:   true,
		BookedTestID: booking.TestID,
		Booking:      dto.ToBookingResponse(booking),
	})
}

func (h *BookingHandler) GetTest(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid test id")
	}

	test, err := h.svc.GetTest(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrTestNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, dto.ToTestDetailResponse(test))
}

// ListBookings returns a test's bookings to its owning organization only.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid test id")
	}

	caller, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	org, err := h.profileSvc.ResolveOrganization(c.Request().Context(), caller)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWrongRole), errors.Is(err, service.ErrProfileNotFound):
			return echo.NewHTTPError(http.StatusUnauthorized, "organization account required")
		default:
			return err
		}
	}

	test, err := h.svc.GetTest(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrTestNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}
	if test.OrganizationID != org.SapID {
		return echo.NewHTTPError(http.StatusForbidden, "test belongs to another organization")
	}

	var status *models.BookingStatus
	if s := c.QueryParam("status"); s != "" {
		bs := models.BookingStatus(s)
		status = &bs
	}

	bookings, err := h.svc.ListBookings(c.Request().Context(), uint(id), status)
	if err != nil {
		return err
	}

	resp := make([]dto.BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = dto.ToBookingResponse(&b)
	}

	return c.JSON(http.StatusOK, resp)
}
