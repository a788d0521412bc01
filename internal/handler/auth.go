package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/voyago/travel-planner/internal/config"
	"github.com/voyago/travel-planner/internal/model"
	"github.com/voyago/travel-planner/internal/repository"
	"github.com/voyago/travel-planner/internal/utils"
)

// UserStore is the account storage the auth endpoints depend on.
// *repository.UserRepo satisfies it; tests substitute fakes.
type UserStore interface {
	Create(ctx context.Context, name, email, password string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// TokenStore persists refresh-token hashes. *repository.TokenRepo
// satisfies it.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  UserStore
	Tokens TokenStore
}

func NewAuthHandler(cfg config.Config, u UserStore, t TokenStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// authResp keeps `user` at the top level of the envelope, which is what
// the original client reads after register/login.
type authResp struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// Register creates a user and returns a token pair immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, CodeInvalidRequest, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return respondErr(c, http.StatusBadRequest, CodeInvalidRequest, "Incomplete data")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return respondErr(c, http.StatusConflict, CodeConflict, "Email already exists")
		}
		return respondErr(c, http.StatusInternalServerError, CodeInternal, "Unable to register user")
	}

	access, refresh, err := h.issueTokens(ctx, uid)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, CodeInternal, "issue tokens failed")
	}

	return c.JSON(http.StatusCreated, authResp{
		Success: true,
		Message: "User registered successfully",
		User:    userPart{ID: uid, Name: req.Name, Email: req.Email},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}

// Login verifies credentials and returns a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, CodeInvalidRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return respondErr(c, http.StatusBadRequest, CodeInvalidRequest, "Incomplete data")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return respondErr(c, http.StatusUnauthorized, CodeUnauthorized, "Invalid credentials")
		}
		return respondErr(c, http.StatusInternalServerError, CodeInternal, "query failed")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return respondErr(c, http.StatusUnauthorized, CodeUnauthorized, "Invalid credentials")
	}

	access, refresh, err := h.issueTokens(ctx, u.ID)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, CodeInternal, "issue tokens failed")
	}

	return c.JSON(http.StatusOK, authResp{
		Success: true,
		Message: "Login successful",
		User:    userPart{ID: u.ID, Name: u.Name, Email: u.Email},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}

// Refresh validates a refresh token by hash, revokes it and issues a new
// pair (rotation).
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return respondErr(c, http.StatusBadRequest, CodeInvalidRequest, "refresh_token required")
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return respondErr(c, http.StatusUnauthorized, CodeUnauthorized, "invalid refresh")
	}
	// If the old token cannot be revoked the rotation must not proceed,
	// or it would stay valid alongside the new pair.
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return respondErr(c, http.StatusInternalServerError, CodeInternal, "refresh failed")
	}

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, CodeInternal, "load user failed")
	}

	access, refresh, err := h.issueTokens(ctx, userID)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, CodeInternal, "issue tokens failed")
	}

	return c.JSON(http.StatusOK, authResp{
		Success: true,
		User:    userPart{ID: userID, Name: u.Name, Email: u.Email},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}

// Logout ends a session. A refresh token in the body revokes that one
// session; absent that, a valid Bearer access token revokes every
// session the user holds.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	raw := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if raw == "" {
		userID, ok := bearerSubject(c, h.Cfg.JWTSecret)
		if !ok {
			return respondErr(c, http.StatusBadRequest, CodeInvalidRequest, "refresh_token required")
		}
		if err := h.Tokens.RevokeAllForUser(ctx, userID); err != nil {
			return respondErr(c, http.StatusInternalServerError, CodeInternal, "logout failed")
		}
		return c.NoContent(http.StatusNoContent)
	}

	hash := utils.HashRefreshRaw(raw)
	if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
		return respondErr(c, http.StatusUnauthorized, CodeUnauthorized, "invalid refresh token")
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return respondErr(c, http.StatusInternalServerError, CodeInternal, "logout failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// bearerSubject extracts and verifies the user ID from an Authorization
// Bearer access token, if one is present and valid.
func bearerSubject(c echo.Context, secret string) (uint64, bool) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return 0, false
	}
	tok, err := jwt.Parse(strings.TrimPrefix(auth, "Bearer "), func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, false
	}
	return uint64(sub), true
}

// Me returns the authenticated user's claims; a minimal protected
// endpoint clients can use to validate a stored access token.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"user_id": c.Get("user_id"),
	})
}

func (h *AuthHandler) issueTokens(ctx context.Context, userID uint64) (utils.AccessToken, utils.RefreshToken, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, userID, h.Cfg.AccessTTLMin)
	if err != nil {
		return utils.AccessToken{}, utils.RefreshToken{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return utils.AccessToken{}, utils.RefreshToken{}, err
	}
	if err := h.Tokens.StoreRefresh(ctx, userID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return utils.AccessToken{}, utils.RefreshToken{}, err
	}
	return access, refresh, nil
}
