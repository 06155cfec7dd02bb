package controller_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rryowa/portfolio-backend/internal/api"
	"github.com/rryowa/portfolio-backend/internal/controller"
	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/service"
	"github.com/rryowa/portfolio-backend/internal/util"
)

const loginTestPassword = "correct-horse-battery"

func newLoginServer(t *testing.T) *echo.Echo {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(loginTestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	creds := service.NewCredentialService(&util.AdminConfig{
		Username:     "admin",
		PasswordHash: string(hash),
	})
	sessions := service.NewSessionService(&util.SessionConfig{
		SecretKey:  []byte("0123456789abcdef0123456789abcdef"),
		SessionTTL: 24 * time.Hour,
	})
	cookies := service.NewCookieCodec(false, 24*time.Hour)
	audit := service.NewAuditLogger(&util.AuditConfig{QueueSize: 64}, zap.NewNop().Sugar())
	t.Cleanup(audit.Close)
	auth := service.NewAuthService(creds, sessions, audit, zap.NewNop().Sugar())

	ctr := controller.NewController(zap.NewNop().Sugar(), auth, cookies, nil, nil, nil, nil)

	e := echo.New()
	e.HTTPErrorHandler = api.ErrorHandler(zap.NewNop().Sugar(), false)
	e.POST("/admin/login", ctr.Login)
	return e
}

func postLogin(t *testing.T, e *echo.Echo, username, password string) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(models.LoginRequest{Username: username, Password: password})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestLoginWrongCredentialsIs401(t *testing.T) {
	e := newLoginServer(t)

	rec := postLogin(t, e, "admin", "wrong-password")

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid credentials", resp.Error)
	assert.Empty(t, rec.Result().Cookies())
}

func TestLoginSuccessSetsSessionCookie(t *testing.T) {
	e := newLoginServer(t)

	rec := postLogin(t, e, "admin", loginTestPassword)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.User)
	assert.Equal(t, "admin", resp.User.Username)

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == models.SessionCookieName {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.NotEmpty(t, session.Value)
	assert.True(t, session.HttpOnly)
}

// Only an authentication failure gets the 401 envelope; other error kinds go
// through the central error handler with their own status.
func TestLoginServerFaultIsNot401(t *testing.T) {
	e := newLoginServer(t)
	e.POST("/boom", func(c echo.Context) error {
		return util.NewAppError(util.KindInternal, "session signing failed")
	})

	req := httptest.NewRequest(http.MethodPost, "/boom", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"reason":"internal server error"}`, rec.Body.String())
}
