package service

import (
	"context"
	"testing"

	"github.com/Dan9191/eco-market/internal/common"
	"github.com/Dan9191/eco-market/internal/models"
	"github.com/Dan9191/eco-market/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfile_LeavesAbsentFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u, err := env.svc.Register(ctx, models.Signup{Username: "alice", Password: "pw", Email: "a@x.com", Address: "Main st"})
	require.NoError(t, err)

	updated, err := env.svc.UpdateProfile(ctx, u.ID, models.ProfileUpdate{Username: strPtr("bob")})
	require.NoError(t, err)

	assert.Equal(t, "bob", updated.Username)
	assert.Equal(t, "a@x.com", updated.Email)
	assert.Equal(t, "Main st", updated.Address)
	assert.Equal(t, u.PasswordHash, updated.PasswordHash)
}

func TestUpdateProfile_EmptyFieldsFallBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u, err := env.svc.Register(ctx, models.Signup{Username: "alice", Password: "pw", Email: "a@x.com"})
	require.NoError(t, err)

	updated, err := env.svc.UpdateProfile(ctx, u.ID, models.ProfileUpdate{
		Username: strPtr(""),
		Email:    strPtr(""),
		Password: strPtr(""),
		Address:  strPtr("New st"),
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", updated.Username)
	assert.Equal(t, "a@x.com", updated.Email)
	assert.Equal(t, "New st", updated.Address)
	assert.True(t, utils.CheckPassword("pw", updated.PasswordHash))
}

func TestUpdateProfile_Password(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "alice", "oldpass")

	_, err := env.svc.UpdateProfile(ctx, u.ID, models.ProfileUpdate{Password: strPtr("newpass")})
	require.NoError(t, err)

	stored, err := env.repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "newpass", stored.PasswordHash)
	assert.True(t, utils.CheckPassword("newpass", stored.PasswordHash))
	assert.False(t, utils.CheckPassword("oldpass", stored.PasswordHash))

	_, err = env.svc.Login(ctx, "alice", "newpass")
	assert.NoError(t, err)
	_, err = env.svc.Login(ctx, "alice", "oldpass")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestUpdateProfile_DuplicateUsernameIsAtomic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "pw")
	env.register(t, "bob", "pw")

	_, err := env.svc.UpdateProfile(ctx, alice.ID, models.ProfileUpdate{
		Username: strPtr("bob"),
		Email:    strPtr("alice@new.com"),
		Password: strPtr("changed"),
	})
	assert.ErrorIs(t, err, common.ErrDuplicateUsername)

	stored, err := env.repo.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Username)
	assert.Empty(t, stored.Email)
	assert.True(t, utils.CheckPassword("pw", stored.PasswordHash))
}

func TestUpdateProfile_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "alice", "pw")

	_, err := env.svc.UpdateProfile(ctx, u.ID, models.ProfileUpdate{Email: strPtr("nope")})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = env.svc.UpdateProfile(ctx, u.ID, models.ProfileUpdate{Username: strPtr("ab")})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestUpdateProfile_NothingToChange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "alice", "pw")

	got, err := env.svc.UpdateProfile(ctx, u.ID, models.ProfileUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.UpdateProfile(context.Background(), "missing", models.ProfileUpdate{Email: strPtr("a@x.com")})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdateProfile_TrimsUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "alice", "pw")

	updated, err := env.svc.UpdateProfile(ctx, u.ID, models.ProfileUpdate{Username: strPtr(" dave ")})
	require.NoError(t, err)
	assert.Equal(t, "dave", updated.Username)

	_, err = env.svc.Login(ctx, " dave ", "pw")
	assert.NoError(t, err)
	_, err = env.svc.Login(ctx, "dave", "pw")
	assert.NoError(t, err)
}

func TestUpdateProfile_BlankUsernameKeepsCurrent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "alice", "pw")

	updated, err := env.svc.UpdateProfile(ctx, u.ID, models.ProfileUpdate{Username: strPtr("   "), Address: strPtr("Elm st")})
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.Username)
	assert.Equal(t, "Elm st", updated.Address)

	_, err = env.svc.Login(ctx, "alice", "pw")
	assert.NoError(t, err)
}
