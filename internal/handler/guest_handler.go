package handler

import (
	"errors"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/laiysh/guestlist/internal/dto"
	"github.com/laiysh/guestlist/internal/models"
	"github.com/laiysh/guestlist/internal/service"
)

type GuestHandler struct {
	svc service.GuestService
	log zerolog.Logger
}

func NewGuestHandler(svc service.GuestService) *GuestHandler {
	return &GuestHandler{
		svc: svc,
		log: zerolog.New(os.Stdout).With().Timestamp().Str("component", "handler").Logger(),
	}
}

func (h *GuestHandler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/requests", h.SubmitRequest)
	api.POST("/guests/:id/status", h.SetStatus)
	api.POST("/lookup", h.Lookup)
	api.POST("/check", h.CheckIn)
	api.GET("/guests", h.ListGuests)
}

func (h *GuestHandler) SubmitRequest(c echo.Context) error {
	var req dto.IntakeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	_, err := h.svc.SubmitRequest(c.Request().Context(), service.IntakeRequest{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		GuestCount: req.ParsedGuestCount(),
		Note:       req.Note,
		Relation:   req.Relation,
	})
	if err != nil {
		var vErr *service.ValidationError
		var dupErr *service.DuplicateEmailError
		switch {
		case errors.As(err, &vErr):
			return echo.NewHTTPError(http.StatusBadRequest, vErr.Error())
		case errors.As(err, &dupErr):
			return echo.NewHTTPError(http.StatusBadRequest, dupErr.Error())
		default:
			return h.serverError(err, "submit request failed")
		}
	}

	return c.JSON(http.StatusCreated, dto.SuccessResponse{Success: true})
}

func (h *GuestHandler) SetStatus(c echo.Context) error {
	guestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid guest id")
	}

	var req dto.SetStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	_, err = h.svc.SetStatus(c.Request().Context(), guestID, service.Action(req.Action))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAction):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrGuestNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		default:
			return h.serverError(err, "status update failed")
		}
	}

	return c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

func (h *GuestHandler) Lookup(c echo.Context) error {
	var req dto.LookupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.QRToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "qr_token is required")
	}

	preview, err := h.svc.LookupByToken(c.Request().Context(), req.QRToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			// Scanner-facing miss, not a transport failure.
			return c.JSON(http.StatusOK, dto.LookupResponse{Error: err.Error()})
		}
		return h.serverError(err, "lookup failed")
	}

	return c.JSON(http.StatusOK, dto.ToLookupResponse(preview))
}

func (h *GuestHandler) CheckIn(c echo.Context) error {
	var req dto.CheckInRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.CheckInResponse{Valid: false, Error: "invalid request body"})
	}
	if req.QRToken == "" {
		return c.JSON(http.StatusBadRequest, dto.CheckInResponse{Valid: false, Error: "qr_token is required"})
	}

	result, err := h.svc.CheckIn(c.Request().Context(), req.QRToken, req.GuestCount)
	if err != nil {
		var notApproved *service.NotApprovedError
		var full *service.AlreadyFullError
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			return c.JSON(http.StatusOK, dto.CheckInResponse{Valid: false, Error: err.Error()})
		case errors.As(err, &notApproved):
			return c.JSON(http.StatusOK, dto.CheckInResponse{
				Valid: false,
				Error: err.Error(),
				Guest: &dto.CheckInGuest{Name: notApproved.Name},
			})
		case errors.As(err, &full):
			return c.JSON(http.StatusOK, dto.CheckInResponse{
				Valid: false,
				Error: err.Error(),
				Guest: &dto.CheckInGuest{
					Name:        full.Name,
					GuestCount:  full.GuestCount,
					CheckedInAt: full.CheckedInAt,
				},
			})
		default:
			h.log.Error().Err(err).Msg("check-in failed")
			return c.JSON(http.StatusInternalServerError, dto.CheckInResponse{Valid: false, Error: "server error"})
		}
	}

	return c.JSON(http.StatusOK, dto.ToCheckInResponse(result))
}

func (h *GuestHandler) ListGuests(c echo.Context) error {
	var status *models.GuestStatus
	if s := c.QueryParam("status"); s != "" {
		gs := models.GuestStatus(s)
		switch gs {
		case models.StatusPending, models.StatusApproved, models.StatusRejected:
			status = &gs
		default:
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status filter")
		}
	}

	guests, err := h.svc.ListGuests(c.Request().Context(), status, c.QueryParam("search"))
	if err != nil {
		return h.serverError(err, "list guests failed")
	}

	return c.JSON(http.StatusOK, dto.ToListGuestsResponse(guests))
}

// serverError logs the real cause and surfaces an opaque message, so store
// internals never leak to callers.
func (h *GuestHandler) serverError(err error, msg string) error {
	h.log.Error().Err(err).Msg(msg)
	return echo.NewHTTPError(http.StatusInternalServerError, "server error")
}
