package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/voyago/travel-planner/internal/config"
	"github.com/voyago/travel-planner/internal/repository"
)

// ProfileStore is the slice of account storage the profile endpoint
// needs. *repository.UserRepo satisfies it.
type ProfileStore interface {
	UpdateProfile(ctx context.Context, id uint64, name, email, newPassword string, cost int) error
}

// ProfileHandler serves profile updates.
type ProfileHandler struct {
	Cfg   config.Config
	Users ProfileStore
}

func NewProfileHandler(cfg config.Config, u ProfileStore) *ProfileHandler {
	return &ProfileHandler{Cfg: cfg, Users: u}
}

type updateProfileReq struct {
	UserID   uint64 `json:"userId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"` // optional; empty keeps the current one
}

// UpdateProfile handles POST /v1/user/update-profile. Name and email are
// always replaced; the password only when a new one is supplied.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, CodeInvalidRequest, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.UserID == 0 || req.Name == "" || req.Email == "" {
		return respondErr(c, http.StatusBadRequest, CodeInvalidRequest, "Incomplete data")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err := h.Users.UpdateProfile(ctx, req.UserID, req.Name, req.Email, req.Password, h.Cfg.BcryptCost)
	switch {
	case err == nil:
	case err == repository.ErrEmailExists:
		return respondErr(c, http.StatusConflict, CodeConflict, "Email is already taken by another user")
	case err == sql.ErrNoRows:
		return respondErr(c, http.StatusNotFound, CodeNotFound, "User not found")
	default:
		return respondErr(c, http.StatusInternalServerError, CodeInternal, "Unable to update profile")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Profile updated successfully",
		"user":    userPart{ID: req.UserID, Name: req.Name, Email: req.Email},
	})
}
