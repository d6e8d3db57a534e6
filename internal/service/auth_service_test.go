package service

import (
	"testing"
	"time"

	"erp-pdv-api/internal/model"
	"erp-pdv-api/internal/repository"
	"erp-pdv-api/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	adminEmail    = "admin@shop.test"
	adminPassword = "secret123"
)

type authEnv struct {
	db         *gorm.DB
	users      repository.UserRepository
	roles      repository.RoleRepository
	privileges repository.PrivilegeRepository
	audits     repository.AuditRepository
	tokens     *jwt.Manager
	auth       AuthService
	userSvc    UserService
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()
	db := setupTestDB(t)
	env := &authEnv{
		db:         db,
		users:      repository.NewUserRepo(db),
		roles:      repository.NewRoleRepo(db),
		privileges: repository.NewPrivilegeRepo(db),
		audits:     repository.NewAuditRepo(db),
		tokens:     jwt.NewManager("0123456789abcdef0123456789abcdef", time.Hour),
	}
	require.NoError(t, SeedAccessControl(env.privileges, env.roles, env.users, adminEmail, adminPassword))
	env.auth = NewAuthService(env.users, env.tokens)
	env.userSvc = NewUserService(db, env.users, env.privileges, env.roles, env.audits)
	return env
}

func (e *authEnv) role(t *testing.T, code string) *model.Role {
	t.Helper()
	role, err := e.roles.FindByCode(code)
	require.NoError(t, err)
	return role
}

func TestSeedAccessControl(t *testing.T) {
	env := newAuthEnv(t)

	// running again changes nothing
	require.NoError(t, SeedAccessControl(env.privileges, env.roles, env.users, adminEmail, adminPassword))

	all, err := env.privileges.FindAll()
	require.NoError(t, err)
	assert.Len(t, all, len(model.DefaultPrivileges))

	assert.Len(t, env.role(t, model.RoleAdmin).Privileges, len(model.DefaultPrivileges))
	assert.Len(t, env.role(t, model.RoleManager).Privileges, len(model.DefaultPrivileges)-4)
	assert.Len(t, env.role(t, model.RoleSeller).Privileges, 3)

	admin, err := env.users.FindByEmail(adminEmail)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.RoleCode())
	assert.True(t, admin.HasPrivilege(model.PrivUserCreate))
	assert.True(t, admin.CheckPassword(adminPassword))

	users, err := env.users.FindAll()
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestAuthService_LoginAndValidate(t *testing.T) {
	env := newAuthEnv(t)

	_, err := env.auth.Login(adminEmail, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.auth.Login("nobody@shop.test", adminPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	first, err := env.auth.Login(adminEmail, adminPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, first.Token)
	assert.Contains(t, first.Privileges, model.PrivSaleCancel)
	assert.Equal(t, model.RoleAdmin, first.Role.Code)

	claims, err := env.tokens.ValidateToken(first.Token)
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, claims.UserID)
	assert.Equal(t, model.RoleAdmin, claims.RoleCode)

	validated, err := env.auth.ValidateToken(first.Token)
	require.NoError(t, err)
	assert.Equal(t, adminEmail, validated.User.Email)

	// a second login replaces the first session
	_, err = env.auth.Login(adminEmail, adminPassword)
	require.NoError(t, err)
	_, err = env.auth.ValidateToken(first.Token)
	assert.ErrorIs(t, err, ErrSessionReplaced)

	_, err = env.auth.ValidateToken("garbage")
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	me, err := env.auth.Me(first.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Administrator", me.User.FullName)
	_, err = env.auth.Me(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthService_InactiveUser(t *testing.T) {
	env := newAuthEnv(t)
	seller := env.role(t, model.RoleSeller)

	user, err := env.userSvc.CreateUser(&CreateUserRequest{
		Email: "bia@shop.test", Password: "caixa01", FullName: "Bia", RoleID: seller.ID,
	}, model.SystemActor)
	require.NoError(t, err)

	login, err := env.auth.Login("bia@shop.test", "caixa01")
	require.NoError(t, err)

	inactive := false
	_, err = env.userSvc.UpdateUser(user.ID, &UpdateUserRequest{
		Email: "bia@shop.test", FullName: "Bia", RoleID: seller.ID, IsActive: &inactive,
	}, model.SystemActor)
	require.NoError(t, err)

	_, err = env.auth.ValidateToken(login.Token)
	assert.ErrorIs(t, err, ErrUserInactive)
	_, err = env.auth.Login("bia@shop.test", "caixa01")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestAuthService_ResetPassword(t *testing.T) {
	env := newAuthEnv(t)
	login, err := env.auth.Login(adminEmail, adminPassword)
	require.NoError(t, err)

	assert.ErrorIs(t, env.auth.ResetPassword(adminEmail, "nope", "newpass1"), ErrInvalidRequest)
	assert.ErrorIs(t, env.auth.ResetPassword("ghost@shop.test", "x", "newpass1"), ErrNotFound)

	require.NoError(t, env.auth.ResetPassword(adminEmail, adminPassword, "newpass1"))

	_, err = env.auth.ValidateToken(login.Token)
	assert.ErrorIs(t, err, ErrSessionReplaced)
	_, err = env.auth.Login(adminEmail, adminPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.auth.Login(adminEmail, "newpass1")
	assert.NoError(t, err)
}
