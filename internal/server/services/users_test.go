package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/racelog/internal/common"
	"github.com/dmitrijs2005/racelog/internal/server/auth"
	"github.com/dmitrijs2005/racelog/internal/server/repositories"
	"github.com/dmitrijs2005/racelog/internal/server/store"
)

func newTestUserService(t *testing.T) (*UserService, *auth.SessionManager, *repositories.Manager) {
	t.Helper()
	repos := newTestRepos(t)
	sessions := auth.NewSessionManager(time.Hour)
	cascade := NewCascadeEngine(repos, testLogger())
	return NewUserService(repos, sessions, cascade, testLogger()), sessions, repos
}

func TestRegisterAndLogin(t *testing.T) {
	svc, sessions, _ := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", user.PasswordHash)

	loggedIn, token, err := svc.Login(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	userID, err := sessions.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "secret")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Register(ctx, "alice", "")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestLogin_BadCredentialsIndistinguishable(t *testing.T) {
	svc, _, _ := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret")
	require.NoError(t, err)

	_, _, errWrongPassword := svc.Login(ctx, "alice", "nope")
	_, _, errUnknownUser := svc.Login(ctx, "mallory", "nope")

	assert.ErrorIs(t, errWrongPassword, common.ErrUnauthorized)
	assert.Equal(t, errWrongPassword, errUnknownUser)
}

func TestLogin_CorruptUsersStoreIsNotACredentialFailure(t *testing.T) {
	st := store.NewMemoryStore()
	require.NoError(t, st.Save("users", []json.RawMessage{json.RawMessage(`{"id":`)}))

	repos := repositories.NewManager(st)
	sessions := auth.NewSessionManager(time.Hour)
	cascade := NewCascadeEngine(repos, testLogger())
	svc := NewUserService(repos, sessions, cascade, testLogger())

	_, _, err := svc.Login(context.Background(), "alice", "secret")
	assert.ErrorIs(t, err, common.ErrCorruptStore)
	assert.NotErrorIs(t, err, common.ErrUnauthorized)
}

func TestChangePassword_DestroysSessions(t *testing.T) {
	svc, sessions, _ := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "old")
	require.NoError(t, err)
	_, token, err := svc.Login(ctx, "alice", "old")
	require.NoError(t, err)

	require.ErrorIs(t, svc.ChangePassword(ctx, user.ID, "wrong", "new"), common.ErrUnauthorized)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "old", "new"))

	_, err = sessions.Verify(token)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	_, _, err = svc.Login(ctx, "alice", "new")
	assert.NoError(t, err)
}

func TestDeleteAccount_RequiresPassword(t *testing.T) {
	svc, _, repos := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "secret")
	require.NoError(t, err)
	mustCreateCar(t, repos, user.ID, "MX-5")

	require.ErrorIs(t, svc.DeleteAccount(ctx, user.ID, "wrong"), common.ErrUnauthorized)

	// Nothing was touched by the failed attempt.
	cars, err := repos.Cars.List(user.ID)
	require.NoError(t, err)
	assert.Len(t, cars, 1)

	require.NoError(t, svc.DeleteAccount(ctx, user.ID, "secret"))

	cars, err = repos.Cars.List(user.ID)
	require.NoError(t, err)
	assert.Empty(t, cars)
	_, err = repos.Users.GetByID(user.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
