package middleware

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"erp-pdv-api/internal/model"
	"erp-pdv-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByID(id uint) (*model.User, error) {
	args := m.Called(id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) FindByEmail(string) (*model.User, error)            { panic("unused") }
func (m *mockUserRepo) Create(*model.User) error                          { panic("unused") }
func (m *mockUserRepo) Update(*model.User) error                          { panic("unused") }
func (m *mockUserRepo) Delete(uint, string) error                         { panic("unused") }
func (m *mockUserRepo) UpdatePassword(uint, string) error                 { panic("unused") }
func (m *mockUserRepo) UpdatePrivileges(uint, []model.Privilege) error    { panic("unused") }
func (m *mockUserRepo) FindAll() ([]model.User, error)                    { panic("unused") }
func (m *mockUserRepo) UpdateTokenVersion(uint, string) error             { panic("unused") }

const secret = "0123456789abcdef0123456789abcdef"

func newUser(id uint, version string, active bool, privileges ...string) *model.User {
	u := &model.User{Email: "ana@shop.test", FullName: "Ana", IsActive: active, TokenVersion: version}
	u.ID = id
	for _, p := range privileges {
		u.Privileges = append(u.Privileges, model.Privilege{Code: p})
	}
	return u
}

func newApp(tokens *jwt.Manager, repo *mockUserRepo) *fiber.App {
	app := fiber.New()
	app.Get("/me", RequireAuth(tokens, repo), func(c *fiber.Ctx) error {
		return c.JSON(Actor(c))
	})
	app.Post("/sales", RequireAuth(tokens, repo), RequirePrivilege(model.PrivSaleCreate), func(c *fiber.Ctx) error {
		return c.SendStatus(201)
	})
	app.Get("/reports", RequireAuth(tokens, repo), RequireAnyPrivilege(model.PrivReportView, model.PrivStockAdjust), func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, path, token string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRequireAuth(t *testing.T) {
	tokens := jwt.NewManager(secret, time.Hour)
	repo := new(mockUserRepo)
	app := newApp(tokens, repo)

	repo.On("FindByID", uint(1)).Return(newUser(1, "v2", true, model.PrivSaleCreate), nil)
	repo.On("FindByID", uint(2)).Return(newUser(2, "v1", false), nil)
	repo.On("FindByID", uint(3)).Return(nil, errors.New("record not found"))

	current, err := tokens.GenerateToken(1, "ana@shop.test", "Ana", "SELLER", nil, "v2")
	require.NoError(t, err)
	stale, err := tokens.GenerateToken(1, "ana@shop.test", "Ana", "SELLER", nil, "v1")
	require.NoError(t, err)
	inactive, err := tokens.GenerateToken(2, "bo@shop.test", "Bo", "SELLER", nil, "v1")
	require.NoError(t, err)
	ghost, err := tokens.GenerateToken(3, "x@shop.test", "X", "SELLER", nil, "v1")
	require.NoError(t, err)

	assert.Equal(t, 401, do(t, app, "GET", "/me", ""))
	assert.Equal(t, 401, do(t, app, "GET", "/me", "not-a-jwt"))
	assert.Equal(t, 401, do(t, app, "GET", "/me", stale))
	assert.Equal(t, 401, do(t, app, "GET", "/me", inactive))
	assert.Equal(t, 401, do(t, app, "GET", "/me", ghost))

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Token "+current)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+current)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var actor model.Actor
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&actor))
	assert.Equal(t, model.Actor{UserID: 1, Name: "Ana", Email: "ana@shop.test"}, actor)
}

func TestRequirePrivilege(t *testing.T) {
	tokens := jwt.NewManager(secret, time.Hour)
	repo := new(mockUserRepo)
	app := newApp(tokens, repo)

	repo.On("FindByID", uint(1)).Return(newUser(1, "v1", true, model.PrivSaleCreate), nil)
	repo.On("FindByID", uint(2)).Return(newUser(2, "v1", true, model.PrivStockAdjust), nil)

	seller, err := tokens.GenerateToken(1, "ana@shop.test", "Ana", "SELLER", nil, "v1")
	require.NoError(t, err)
	stocker, err := tokens.GenerateToken(2, "bo@shop.test", "Bo", "MANAGER", nil, "v1")
	require.NoError(t, err)

	assert.Equal(t, 201, do(t, app, "POST", "/sales", seller))
	assert.Equal(t, 403, do(t, app, "POST", "/sales", stocker))
	assert.Equal(t, 403, do(t, app, "GET", "/reports", seller))
	assert.Equal(t, 200, do(t, app, "GET", "/reports", stocker))
}

func TestActorDefaultsToSystem(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return c.JSON(Actor(c)) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	var actor model.Actor
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&actor))
	assert.Equal(t, model.SystemActor, actor)
}
