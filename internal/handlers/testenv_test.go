package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/hoangminh-dev/streetstore/internal/handlers"
	"github.com/hoangminh-dev/streetstore/internal/hash"
	authmw "github.com/hoangminh-dev/streetstore/internal/middleware/auth"
	"github.com/hoangminh-dev/streetstore/internal/middleware/ratelimit"
	"github.com/hoangminh-dev/streetstore/internal/models"
	"github.com/hoangminh-dev/streetstore/internal/mykafka"
	"github.com/hoangminh-dev/streetstore/internal/repo"
	"github.com/hoangminh-dev/streetstore/internal/service/token"
	httpserver "github.com/hoangminh-dev/streetstore/internal/transport/http"
)

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	DB     *gorm.DB
	Tokens *token.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	tokens, err := token.New([]byte("test-secret"))
	require.NoError(t, err)

	users := &repo.UserRepo{DB: db}
	products := &repo.ProductRepo{DB: db}
	cart := &repo.CartRepo{DB: db}
	orders := &repo.OrderRepo{DB: db}
	producer := mykafka.NewProducer(nil)

	deps := &httpserver.Deps{
		Auth:         &handlers.AuthHandler{Users: users, Tokens: tokens, Producer: producer},
		Products:     &handlers.ProductHandler{Products: products, Producer: producer},
		Cart:         &handlers.CartHandler{Cart: cart, Orders: orders, Producer: producer},
		Admin:        &handlers.AdminHandler{Users: users, Products: products, Orders: orders},
		Guard:        &authmw.Guard{Users: users, Tokens: tokens},
		LoginLimiter: ratelimit.New(rate.Inf, 1),
	}

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	httpserver.Register(e, deps)

	return &testEnv{T: t, E: e, DB: db, Tokens: tokens}
}

// do serves a request through the full router, middleware included.
func (env *testEnv) do(method, path, bearer string, body any) *httptest.ResponseRecorder {
	env.T.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(env.T, err)
		rd = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) decode(rec *httptest.ResponseRecorder) map[string]any {
	env.T.Helper()
	var out map[string]any
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (env *testEnv) createUser(username, email, password string, role models.Role) *models.User {
	env.T.Helper()
	h, err := hash.HashPassword(password)
	require.NoError(env.T, err)
	u := &models.User{Username: username, Email: email, PasswordHash: h, Role: role}
	require.NoError(env.T, env.DB.Create(u).Error)
	return u
}

func (env *testEnv) tokenFor(u *models.User) string {
	env.T.Helper()
	signed, err := env.Tokens.Issue(u)
	require.NoError(env.T, err)
	return signed
}
