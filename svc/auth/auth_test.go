package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/acme/gemaelde/svc/auth"
)

type issuerMock struct {
	mock.Mock
}

func (m *issuerMock) Generate(username string, roles ...string) (string, time.Time, error) {
	args := m.Called(username, roles)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestParseUsers(t *testing.T) {
	t.Parallel()

	h := hash(t, "p")

	t.Run("entries with roles", func(t *testing.T) {
		t.Parallel()

		users, err := auth.ParseUsers([]string{"admin:" + h + ":admin|mitarbeiter", " ", "gast:" + h})
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "admin", users[0].Username)
		assert.Equal(t, []string{"admin", "mitarbeiter"}, users[0].Roles)
		assert.Empty(t, users[1].Roles)
	})

	t.Run("invalid entries", func(t *testing.T) {
		t.Parallel()

		for _, entries := range [][]string{
			{"admin"},
			{":" + h},
			{"admin:not-a-hash:admin"},
			{"admin:" + h, "admin:" + h},
		} {
			_, err := auth.ParseUsers(entries)
			assert.ErrorIs(t, err, auth.ErrInvalidUserEntry, entries)
		}
	})
}

func TestService_Login(t *testing.T) {
	t.Parallel()

	users := []auth.User{{Username: "admin", PasswordHash: []byte(hash(t, "p")), Roles: []string{"admin"}}}
	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()

		issuer := &issuerMock{}
		issuer.On("Generate", "admin", []string{"admin"}).Return("signed", expires, nil).Once()

		token, err := auth.NewService(users, issuer).Login(context.Background(), "admin", "p")
		require.NoError(t, err)
		assert.Equal(t, auth.Token{AccessToken: "signed", TokenType: "Bearer", ExpiresAt: expires, Roles: []string{"admin"}}, token)
		issuer.AssertExpectations(t)
	})

	t.Run("wrong password and unknown user", func(t *testing.T) {
		t.Parallel()

		issuer := &issuerMock{}
		svc := auth.NewService(users, issuer)

		_, err := svc.Login(context.Background(), "admin", "falsch")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

		_, err = svc.Login(context.Background(), "niemand", "gemaelde")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		issuer.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("signing failure", func(t *testing.T) {
		t.Parallel()

		issuer := &issuerMock{}
		issuer.On("Generate", "admin", []string{"admin"}).Return("", time.Time{}, errors.New("boom"))

		_, err := auth.NewService(users, issuer).Login(context.Background(), "admin", "p")
		assert.ErrorIs(t, err, auth.ErrIssueToken)
	})
}

func TestHashPassword(t *testing.T) {
	t.Parallel()

	h, err := auth.HashPassword("geheim")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("geheim")))
}
