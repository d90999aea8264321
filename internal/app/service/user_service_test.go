package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftbook/internal/domain"
	"shiftbook/internal/repository/sqlite"
)

func newUserService(t *testing.T) (*UserService, *countingRecorder) {
	t.Helper()
	rec := newCountingRecorder()
	return NewUserService(sqlite.NewSqliteUserRepo(newTestDB(t)), rec), rec
}

func TestSignUp(t *testing.T) {
	users, _ := newUserService(t)
	ctx := context.Background()

	ok, err := users.SignUp(ctx, "alice", "pw", 25, 80000)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = users.SignUp(ctx, " alice ", "other", 31, 0)
	require.NoError(t, err)
	assert.False(t, ok, "duplicate username")
}

func TestSignUp_InvalidInput(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		password   string
		closingDay int
		goal       int64
	}{
		{"empty username", "  ", "pw", 25, 0},
		{"empty password", "alice", "", 25, 0},
		{"closing day zero", "alice", "pw", 0, 0},
		{"closing day 32", "alice", "pw", 32, 0},
		{"negative goal", "alice", "pw", 25, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, _ := newUserService(t)
			ok, err := users.SignUp(context.Background(), tt.username, tt.password, tt.closingDay, tt.goal)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestLogin(t *testing.T) {
	users, rec := newUserService(t)
	ctx := context.Background()

	ok, err := users.SignUp(ctx, "alice", "pw", 25, 80000)
	require.NoError(t, err)
	require.True(t, ok)

	id, ok, err := users.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Positive(t, id)

	_, ok, err = users.Login(ctx, "alice", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = users.Login(ctx, "nobody", "pw")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 1, rec.logins[true])
	assert.Equal(t, 2, rec.logins[false])
}

func TestWithdraw_FreesUsername(t *testing.T) {
	users, _ := newUserService(t)
	ctx := context.Background()

	_, err := users.SignUp(ctx, "alice", "pw", 25, 80000)
	require.NoError(t, err)
	id, _, err := users.Login(ctx, "alice", "pw")
	require.NoError(t, err)

	require.NoError(t, users.Withdraw(ctx, id))

	_, ok, err := users.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = users.GetUser(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = users.SignUp(ctx, "alice", "new", 31, 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdateSettings(t *testing.T) {
	users, _ := newUserService(t)
	ctx := context.Background()

	_, err := users.SignUp(ctx, "alice", "pw", 25, 80000)
	require.NoError(t, err)
	_, err = users.SignUp(ctx, "bob", "pw", 25, 80000)
	require.NoError(t, err)
	aliceID, _, err := users.Login(ctx, "alice", "pw")
	require.NoError(t, err)

	alice, ok, err := users.GetUser(ctx, aliceID)
	require.NoError(t, err)
	require.True(t, ok)

	alice.ClosingDay = 10
	alice.GoalAmount = 120000
	ok, err = users.UpdateSettings(ctx, alice)
	require.NoError(t, err)
	assert.True(t, ok, "keeping own username is allowed")

	got, _, err := users.GetUser(ctx, aliceID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.ClosingDay)
	assert.Equal(t, int64(120000), got.GoalAmount)

	alice.Username = "bob"
	ok, err = users.UpdateSettings(ctx, alice)
	require.NoError(t, err)
	assert.False(t, ok, "username taken by another user")

	alice.Username = "alice"
	alice.ClosingDay = 40
	ok, err = users.UpdateSettings(ctx, alice)
	require.NoError(t, err)
	assert.False(t, ok, "closing day out of range")

	ok, err = users.UpdateSettings(ctx, domain.User{ID: 999, Username: "ghost", Password: "pw", ClosingDay: 1})
	require.NoError(t, err)
	assert.False(t, ok, "missing user")
}
