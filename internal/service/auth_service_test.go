package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-stonestock-ws/internal/model"
	"go-stonestock-ws/pkg/jwt"
)

func TestBootstrapAndLogin(t *testing.T) {
	env := setupTestEnv(t)

	needed, err := env.auth.NeedsBootstrap()
	require.NoError(t, err)
	assert.True(t, needed)

	resp, err := env.auth.BootstrapAdmin("boss", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "boss", resp.User.Username)

	claims, err := jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, claims.RoleCode)
	assert.Contains(t, claims.Privileges, "user:create")

	// Bootstrap is single-shot.
	needed, err = env.auth.NeedsBootstrap()
	require.NoError(t, err)
	assert.False(t, needed)
	_, err = env.auth.BootstrapAdmin("other", "secret123")
	require.Error(t, err)

	_, err = env.auth.Login("boss", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredential)
	_, err = env.auth.Login("nobody", "secret123")
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestLoginEnforcesSingleSession(t *testing.T) {
	env := setupTestEnv(t)
	first, err := env.auth.BootstrapAdmin("boss", "secret123")
	require.NoError(t, err)

	second, err := env.auth.Login("boss", "secret123")
	require.NoError(t, err)

	firstClaims, err := jwt.ValidateToken(first.Token)
	require.NoError(t, err)
	secondClaims, err := jwt.ValidateToken(second.Token)
	require.NoError(t, err)

	// The earlier token no longer matches the stored version.
	_, err = env.auth.ValidateSession(firstClaims)
	require.ErrorIs(t, err, jwt.ErrInvalidToken)
	user, err := env.auth.ValidateSession(secondClaims)
	require.NoError(t, err)
	assert.Equal(t, "boss", user.Username)
}

func TestUserManagementRolesAndPrivileges(t *testing.T) {
	env := setupTestEnv(t)
	boot, err := env.auth.BootstrapAdmin("boss", "secret123")
	require.NoError(t, err)

	admin := model.Actor{
		UserID:     boot.User.ID,
		Username:   boot.User.Username,
		RoleCode:   model.RoleAdmin,
		Privileges: adminActor().Privileges,
	}

	staff, err := env.users.Create(admin, &CreateUserRequest{
		Username: "clerk",
		Password: "clerk1234",
		RoleCode: model.RoleStaff,
	})
	require.NoError(t, err)

	// STAFF gets transaction privileges but no user management.
	staffLogin, err := env.auth.Login("clerk", "clerk1234")
	require.NoError(t, err)
	claims, err := jwt.ValidateToken(staffLogin.Token)
	require.NoError(t, err)
	assert.Contains(t, claims.Privileges, "transaction:create")
	assert.NotContains(t, claims.Privileges, "user:create")
	assert.NotContains(t, claims.Privileges, "location:manage")

	// Non-admins cannot manage accounts.
	staffActor := model.Actor{UserID: staff.ID, Username: "clerk", RoleCode: model.RoleStaff, Privileges: claims.Privileges}
	_, err = env.users.Create(staffActor, &CreateUserRequest{Username: "x", Password: "xxxxxx", RoleCode: model.RoleViewer})
	require.ErrorIs(t, err, ErrPermissionDenied)

	// Trimming a user down to a custom privilege set.
	updated, err := env.users.SetPrivileges(admin, staff.ID, []string{"item:view", "report:view"})
	require.NoError(t, err)
	assert.Len(t, updated.Privileges, 2)

	_, err = env.users.SetPrivileges(admin, staff.ID, []string{"not:a:privilege"})
	require.Error(t, err)

	// Self-deletion is blocked, deleting others works.
	require.Error(t, env.users.Delete(admin, admin.UserID))
	require.NoError(t, env.users.Delete(admin, staff.ID))
	_, err = env.auth.Login("clerk", "clerk1234")
	require.ErrorIs(t, err, ErrUserInactive)
}

func TestResetPasswordInvalidatesSession(t *testing.T) {
	env := setupTestEnv(t)
	resp, err := env.auth.BootstrapAdmin("boss", "secret123")
	require.NoError(t, err)

	require.NoError(t, env.auth.ResetPassword("boss", "newsecret"))

	_, err = env.auth.Login("boss", "secret123")
	require.ErrorIs(t, err, ErrInvalidCredential)

	claims, err := jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	_, err = env.auth.ValidateSession(claims)
	require.ErrorIs(t, err, jwt.ErrInvalidToken)

	_, err = env.auth.Login("boss", "newsecret")
	require.NoError(t, err)

	require.Error(t, env.auth.ResetPassword("ghost", "whatever"))
}
