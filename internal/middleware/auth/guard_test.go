package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hoangminh-dev/streetstore/internal/models"
	"github.com/hoangminh-dev/streetstore/internal/repo"
	"github.com/hoangminh-dev/streetstore/internal/service/token"
)

func newGuard(t *testing.T) (*Guard, *gorm.DB, *token.Service) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	tokens, err := token.New([]byte("test-secret"))
	require.NoError(t, err)

	return &Guard{Users: &repo.UserRepo{DB: db}, Tokens: tokens}, db, tokens
}

func seedUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		Username:     "bob",
		Email:        "bob@example.com",
		PasswordHash: "hashed",
		Role:         role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// run pushes a request through the given middleware chain ending in a
// probe handler that records the attached user.
func run(t *testing.T, header string, mws ...echo.MiddlewareFunc) (int, *models.User) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var attached *models.User
	h := func(c echo.Context) error {
		attached, _ = CurrentUser(c)
		return c.NoContent(http.StatusOK)
	}
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}

	if err := h(c); err != nil {
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok, "expected HTTPError, got %v", err)
		return he.Code, attached
	}
	return rec.Code, attached
}

func TestAuthenticateMissingToken(t *testing.T) {
	g, _, _ := newGuard(t)

	code, _ := run(t, "", g.Authenticate)
	require.Equal(t, http.StatusUnauthorized, code)

	// A malformed scheme counts as missing too.
	code, _ = run(t, "Basic abc123", g.Authenticate)
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	g, _, _ := newGuard(t)

	code, _ := run(t, "Bearer not.a.token", g.Authenticate)
	require.Equal(t, http.StatusForbidden, code)
}

func TestAuthenticateAttachesUser(t *testing.T) {
	g, db, tokens := newGuard(t)
	u := seedUser(t, db, models.RoleUser)

	signed, err := tokens.Issue(u)
	require.NoError(t, err)

	code, attached := run(t, "Bearer "+signed, g.Authenticate)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, attached)
	require.Equal(t, u.ID, attached.ID)
}

func TestAuthenticateDeletedUser(t *testing.T) {
	g, db, tokens := newGuard(t)
	u := seedUser(t, db, models.RoleUser)

	signed, err := tokens.Issue(u)
	require.NoError(t, err)

	require.NoError(t, db.Delete(&models.User{}, u.ID).Error)

	code, _ := run(t, "Bearer "+signed, g.Authenticate)
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestRequireRole(t *testing.T) {
	g, db, tokens := newGuard(t)

	user := seedUser(t, db, models.RoleUser)
	userToken, err := tokens.Issue(user)
	require.NoError(t, err)

	code, _ := run(t, "Bearer "+userToken, g.Authenticate, g.Require(models.RoleAdmin))
	require.Equal(t, http.StatusForbidden, code)

	code, _ = run(t, "Bearer "+userToken, g.Authenticate, g.Require(models.RoleUser))
	require.Equal(t, http.StatusOK, code)

	admin := &models.User{Username: "root", Email: "root@example.com", PasswordHash: "h", Role: models.RoleAdmin}
	require.NoError(t, db.Create(admin).Error)
	adminToken, err := tokens.Issue(admin)
	require.NoError(t, err)

	code, _ = run(t, "Bearer "+adminToken, g.Authenticate, g.Require(models.RoleAdmin))
	require.Equal(t, http.StatusOK, code)
	code, _ = run(t, "Bearer "+adminToken, g.Authenticate, g.Require(models.RoleUser))
	require.Equal(t, http.StatusOK, code)
}

// A token's embedded role is only a snapshot: demoting a user must take
// effect on their very next request.
func TestRequireRoleUsesCurrentRole(t *testing.T) {
	g, db, tokens := newGuard(t)

	u := seedUser(t, db, models.RoleAdmin)
	signed, err := tokens.Issue(u)
	require.NoError(t, err)

	code, _ := run(t, "Bearer "+signed, g.Authenticate, g.Require(models.RoleAdmin))
	require.Equal(t, http.StatusOK, code)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", u.ID).
		Update("role", models.RoleUser).Error)

	code, _ = run(t, "Bearer "+signed, g.Authenticate, g.Require(models.RoleAdmin))
	require.Equal(t, http.StatusForbidden, code)
}
