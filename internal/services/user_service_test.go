package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mixing-service/internal/testsupport"
)

func TestCreateUserAndAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, token, err := f.users.CreateUser(ctx, NewUser{Username: " alice ", IsStaff: true})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Len(t, token, 64)
	assert.Equal(t, HashToken(token), user.TokenHash)
	assert.Zero(t, testsupport.Credit(t, f.db, user.ID))

	found, err := f.users.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.True(t, found.IsStaff)

	_, err = f.users.Authenticate(ctx, "wrong")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = f.users.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, _, err = f.users.CreateUser(ctx, NewUser{Username: "alice"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	byName, err := f.users.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
	_, err = f.users.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
