package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/voyago/travel-planner/internal/config"
	"github.com/voyago/travel-planner/internal/model"
	"github.com/voyago/travel-planner/internal/repository"
	"github.com/voyago/travel-planner/internal/utils"
)

type fakeUserStore struct {
	users     map[string]model.User // by email
	createErr error
	nextID    uint64

	updateErr     error
	updatedUserID uint64
	updatedName   string
	updatedEmail  string
	updatedPass   string
}

func (f *fakeUserStore) Create(ctx context.Context, name, email, password string, cost int) (uint64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	return f.nextID, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	u, ok := f.users[email]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (f *fakeUserStore) UpdateProfile(ctx context.Context, id uint64, name, email, newPassword string, cost int) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedUserID = id
	f.updatedName = name
	f.updatedEmail = email
	f.updatedPass = newPassword
	return nil
}

type fakeTokenStore struct {
	stored    map[string]uint64 // hash -> user
	storeErr  error
	revokeErr error
	revoked   []string
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{stored: make(map[string]uint64)}
}

func (f *fakeTokenStore) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	f.stored[tokenHash] = userID
	return nil
}

func (f *fakeTokenStore) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	uid, ok := f.stored[tokenHash]
	if !ok {
		return 0, sql.ErrNoRows
	}
	return uid, nil
}

func (f *fakeTokenStore) RevokeByHash(ctx context.Context, tokenHash string) error {
	if f.revokeErr != nil {
		return f.revokeErr
	}
	delete(f.stored, tokenHash)
	f.revoked = append(f.revoked, tokenHash)
	return nil
}

func (f *fakeTokenStore) RevokeAllForUser(ctx context.Context, userID uint64) error {
	for h, uid := range f.stored {
		if uid == userID {
			delete(f.stored, h)
		}
	}
	return nil
}

func testCfg() config.Config {
	return config.Config{
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 30,
		BcryptCost:     bcrypt.MinCost,
	}
}

func TestRegisterSuccess(t *testing.T) {
	tokens := newFakeTokenStore()
	h := NewAuthHandler(testCfg(), &fakeUserStore{}, tokens)

	rec, env := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register",
		`{"name":"Ada","email":"Ada@Example.com","password":"pw123456"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, env["success"])

	user := env["user"].(map[string]interface{})
	assert.Equal(t, float64(1), user["id"])
	assert.Equal(t, "Ada", user["name"])
	assert.Equal(t, "ada@example.com", user["email"], "email is normalized")

	access := env["access"].(map[string]interface{})
	assert.NotEmpty(t, access["token"])
	refresh := env["refresh"].(map[string]interface{})
	assert.NotEmpty(t, refresh["token"])
	assert.Len(t, tokens.stored, 1, "refresh hash persisted")
}

func TestRegisterIncompleteData(t *testing.T) {
	h := NewAuthHandler(testCfg(), &fakeUserStore{}, newFakeTokenStore())

	for _, body := range []string{
		`{"email":"a@b.com","password":"pw"}`,
		`{"name":"Ada","password":"pw"}`,
		`{"name":"Ada","email":"a@b.com"}`,
	} {
		rec, env := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Incomplete data", env["message"])
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := NewAuthHandler(testCfg(), &fakeUserStore{createErr: repository.ErrEmailExists}, newFakeTokenStore())

	rec, env := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register",
		`{"name":"Ada","email":"a@b.com","password":"pw123456"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, CodeConflict, env["code"])
	assert.Equal(t, "Email already exists", env["message"])
}

func TestLoginSuccess(t *testing.T) {
	hash, err := utils.HashPassword("pw123456", bcrypt.MinCost)
	require.NoError(t, err)
	users := &fakeUserStore{users: map[string]model.User{
		"ada@example.com": {ID: 7, Name: "Ada", Email: "ada@example.com", PasswordHash: hash},
	}}
	h := NewAuthHandler(testCfg(), users, newFakeTokenStore())

	rec, env := doJSON(t, h.Login, http.MethodPost, "/v1/auth/login",
		`{"email":"ada@example.com","password":"pw123456"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	user := env["user"].(map[string]interface{})
	assert.Equal(t, float64(7), user["id"])
	assert.Equal(t, "Ada", user["name"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	hash, err := utils.HashPassword("pw123456", bcrypt.MinCost)
	require.NoError(t, err)
	users := &fakeUserStore{users: map[string]model.User{
		"ada@example.com": {ID: 7, Name: "Ada", Email: "ada@example.com", PasswordHash: hash},
	}}
	h := NewAuthHandler(testCfg(), users, newFakeTokenStore())

	// wrong password
	rec, env := doJSON(t, h.Login, http.MethodPost, "/v1/auth/login",
		`{"email":"ada@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, CodeUnauthorized, env["code"])

	// unknown account: indistinguishable from wrong password
	rec, env = doJSON(t, h.Login, http.MethodPost, "/v1/auth/login",
		`{"email":"ghost@example.com","password":"pw123456"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, env["message"], "Invalid credentials")
}

func TestRefreshRotatesToken(t *testing.T) {
	users := &fakeUserStore{users: map[string]model.User{
		"ada@example.com": {ID: 7, Name: "Ada", Email: "ada@example.com"},
	}}
	tokens := newFakeTokenStore()
	tokens.stored[utils.HashRefreshRaw("old-raw-token")] = 7
	h := NewAuthHandler(testCfg(), users, tokens)

	rec, env := doJSON(t, h.Refresh, http.MethodPost, "/v1/auth/refresh",
		`{"refresh_token":"old-raw-token"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, tokens.revoked, utils.HashRefreshRaw("old-raw-token"))
	refresh := env["refresh"].(map[string]interface{})
	assert.NotEqual(t, "old-raw-token", refresh["token"])
	assert.Len(t, tokens.stored, 1, "new hash replaces the revoked one")
}

func TestRefreshFailsWhenRevocationFails(t *testing.T) {
	users := &fakeUserStore{users: map[string]model.User{
		"ada@example.com": {ID: 7, Name: "Ada", Email: "ada@example.com"},
	}}
	tokens := newFakeTokenStore()
	tokens.stored[utils.HashRefreshRaw("old-raw-token")] = 7
	tokens.revokeErr = errors.New("connection reset")
	h := NewAuthHandler(testCfg(), users, tokens)

	rec, env := doJSON(t, h.Refresh, http.MethodPost, "/v1/auth/refresh",
		`{"refresh_token":"old-raw-token"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, CodeInternal, env["code"])
	assert.Contains(t, tokens.stored, utils.HashRefreshRaw("old-raw-token"),
		"no new pair may be issued while the old token is still live")
	assert.Len(t, tokens.stored, 1)
}

func TestLogoutRevokesToken(t *testing.T) {
	tokens := newFakeTokenStore()
	tokens.stored[utils.HashRefreshRaw("raw-token")] = 7
	h := NewAuthHandler(testCfg(), &fakeUserStore{}, tokens)

	rec, _ := doJSON(t, h.Logout, http.MethodPost, "/v1/auth/logout",
		`{"refresh_token":"raw-token"}`)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, tokens.stored)
}

func TestLogoutWithBearerRevokesAllSessions(t *testing.T) {
	tokens := newFakeTokenStore()
	tokens.stored["hash-a"] = 7
	tokens.stored["hash-b"] = 7
	tokens.stored["hash-other"] = 9
	h := NewAuthHandler(testCfg(), &fakeUserStore{}, tokens)

	at, err := utils.NewAccessToken("test-secret", 7, 5)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", strings.NewReader("{}"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Authorization", "Bearer "+at.Token)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Logout(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotContains(t, tokens.stored, "hash-a")
	assert.NotContains(t, tokens.stored, "hash-b")
	assert.Contains(t, tokens.stored, "hash-other", "other users keep their sessions")
}

func TestLogoutWithoutAnyCredentialFails(t *testing.T) {
	h := NewAuthHandler(testCfg(), &fakeUserStore{}, newFakeTokenStore())

	rec, env := doJSON(t, h.Logout, http.MethodPost, "/v1/auth/logout", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeInvalidRequest, env["code"])
}
