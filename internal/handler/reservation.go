package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/voyago/travel-planner/internal/repository"
)

// ReservationStore is the read/cancel side of reservation storage.
// *repository.ReservationRepo satisfies it.
type ReservationStore interface {
	ListByUser(ctx context.Context, userID uint64) ([]repository.ReservationDetail, error)
	CancelForUser(ctx context.Context, userID, reservationID uint64) error
}

// ReservationHandler serves a user's reservations and cancellation.
type ReservationHandler struct {
	Store ReservationStore
}

func NewReservationHandler(store ReservationStore) *ReservationHandler {
	if store == nil {
		panic("nil store passed to NewReservationHandler")
	}
	return &ReservationHandler{Store: store}
}

// List handles GET /v1/user/reservations?userId=. Having no reservations
// is a success with an empty array; a missing or non-numeric userId is a
// validation error, not a database error.
func (h *ReservationHandler) List(c echo.Context) error {
	raw := c.QueryParam("userId")
	if raw == "" {
		return respondErr(c, http.StatusBadRequest, CodeInvalidRequest, "User ID is required")
	}
	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || userID == 0 {
		return respondErr(c, http.StatusBadRequest, CodeInvalidRequest, "invalid user id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	details, err := h.Store.ListByUser(ctx, userID)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, CodeInternal, "Unable to load reservations")
	}
	return respondOK(c, http.StatusOK, "", details)
}

type cancelReq struct {
	UserID        uint64 `json:"userId"`
	ReservationID uint64 `json:"reservationId"`
}

// Cancel handles POST /v1/user/cancel-reservation. Ownership is checked
// before the status flips; a nonexistent or foreign reservation fails
// with no side effects.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	var req cancelReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, CodeInvalidRequest, "invalid body")
	}
	if req.UserID == 0 || req.ReservationID == 0 {
		return respondErr(c, http.StatusBadRequest, CodeInvalidRequest, "Incomplete data")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err := h.Store.CancelForUser(ctx, req.UserID, req.ReservationID)
	switch {
	case err == nil:
	case err == sql.ErrNoRows || err == repository.ErrForbidden:
		return respondErr(c, http.StatusNotFound, CodeNotFound,
			"Reservation not found or doesn't belong to user")
	default:
		return respondErr(c, http.StatusInternalServerError, CodeInternal, "Unable to cancel reservation")
	}

	return respondOK(c, http.StatusOK, "Reservation cancelled successfully", nil)
}
