package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andklim/contacts-be/internal/apperr"
)

func TestUserService_CreateAndLookup(t *testing.T) {
	t.Parallel()
	users := NewUserService(newTestDB(t))
	ctx := context.Background()

	created := mustCreateUser(t, users, "alice", "alice@example.com")
	assert.NotZero(t, created.ID)
	assert.False(t, created.Confirmed)
	assert.False(t, created.CreatedAt.IsZero())

	byID, err := users.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byUsername, err := users.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byUsername.ID)

	byEmail, err := users.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = users.GetUserByUsername(ctx, "nobody")
	assert.Equal(t, apperr.CodeUserNotFound, apperr.Code(err))
}

func TestUserService_UniqueConstraints(t *testing.T) {
	t.Parallel()
	users := NewUserService(newTestDB(t))
	ctx := context.Background()

	mustCreateUser(t, users, "alice", "alice@example.com")

	// Same email, different username.
	_, err := users.CreateUser(ctx, "alice2", "alice@example.com", "hash", "")
	assert.Equal(t, apperr.CodeEmailExists, apperr.Code(err))

	// Same username, different email.
	_, err = users.CreateUser(ctx, "alice", "other@example.com", "hash", "")
	assert.Equal(t, apperr.CodeUsernameExists, apperr.Code(err))
}

func TestUserService_ConfirmEmail(t *testing.T) {
	t.Parallel()
	users := NewUserService(newTestDB(t))
	ctx := context.Background()

	mustCreateUser(t, users, "alice", "alice@example.com")

	require.NoError(t, users.ConfirmEmail(ctx, "alice@example.com"))
	user, err := users.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, user.Confirmed)

	// Idempotent, and the flag never reverts.
	require.NoError(t, users.ConfirmEmail(ctx, "alice@example.com"))
	user, err = users.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, user.Confirmed)

	// Missing user: silent no-op.
	require.NoError(t, users.ConfirmEmail(ctx, "ghost@example.com"))
}

func TestUserService_UpdateAvatar(t *testing.T) {
	t.Parallel()
	users := NewUserService(newTestDB(t))

	mustCreateUser(t, users, "alice", "alice@example.com")

	updated, err := users.UpdateAvatar(context.Background(), "alice@example.com", "https://cdn.example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.png", updated.Avatar)
}

func TestUserService_ListConfirmedUsers(t *testing.T) {
	t.Parallel()
	users := NewUserService(newTestDB(t))
	ctx := context.Background()

	mustCreateUser(t, users, "alice", "alice@example.com")
	mustCreateUser(t, users, "bob", "bob@example.com")
	require.NoError(t, users.ConfirmEmail(ctx, "bob@example.com"))

	confirmed, err := users.ListConfirmedUsers(ctx)
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, "bob", confirmed[0].Username)
}
