package authController

import (
	"context"
	"errors"
	"testing"

	"mygamelist/config"
	. "mygamelist/internal/models"
	"mygamelist/internal/repositories/mocks"
	"mygamelist/internal/services"
	"mygamelist/internal/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newController(repo *mocks.UserRepository) *AuthController {
	cfg := config.Config{JWTSecret: "0123456789abcdef0123", JWTExpiryHours: 1, StoreTimeoutSeconds: 5}
	return NewAuthController(repo, services.NewTokenService(cfg, nil), cfg)
}

func notFound() error {
	return types.Wrap(types.ErrNotFound, "user not found")
}

func TestSignup_Validation(t *testing.T) {
	testCases := []struct {
		name  string
		req   SignupRequest
		field string
	}{
		{name: "short username", req: SignupRequest{Username: "ab", Email: "a@b.co", Password: "secret"}, field: "username"},
		{name: "bad email", req: SignupRequest{Username: "ana", Email: "nope", Password: "secret"}, field: "email"},
		{name: "short password", req: SignupRequest{Username: "ana", Email: "a@b.co", Password: "123"}, field: "password"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mocks.UserRepository{}

			_, err := newController(repo).Signup(context.Background(), tc.req, nil)

			var fieldErr *types.FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tc.field, fieldErr.Field)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestSignup_TakenUsername(t *testing.T) {
	repo := &mocks.UserRepository{}
	repo.On("GetByUsername", mock.Anything, "ana").Return(&User{Username: "ana"}, nil)

	_, err := newController(repo).Signup(context.Background(), SignupRequest{
		Username: "ana", Email: "ana@example.com", Password: "secret",
	}, nil)

	var fieldErr *types.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "username", fieldErr.Field)
}

func TestSignup_AdminFlag(t *testing.T) {
	admin := true
	testCases := []struct {
		name   string
		caller *User
		want   bool
	}{
		{name: "anonymous cannot create admin", caller: nil, want: false},
		{name: "regular user cannot create admin", caller: &User{IsAdmin: false}, want: false},
		{name: "admin can create admin", caller: &User{IsAdmin: true}, want: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mocks.UserRepository{}
			repo.On("GetByUsername", mock.Anything, "ana").Return(nil, notFound())
			repo.On("GetByEmail", mock.Anything, "ana@example.com").Return(nil, notFound())
			repo.On("Create", mock.Anything, mock.Anything).Return(nil)

			user, err := newController(repo).Signup(context.Background(), SignupRequest{
				Username: "ana", Email: "ana@example.com", Password: "secret", IsAdmin: &admin,
			}, tc.caller)

			require.NoError(t, err)
			assert.Equal(t, tc.want, user.IsAdmin)
			assert.True(t, user.CheckPassword("secret"))
		})
	}
}

func TestSignup_StorageFailure(t *testing.T) {
	repo := &mocks.UserRepository{}
	repo.On("GetByUsername", mock.Anything, "ana").Return(nil, types.StorageError("get user", errors.New("down")))

	_, err := newController(repo).Signup(context.Background(), SignupRequest{
		Username: "ana", Email: "ana@example.com", Password: "secret",
	}, nil)

	assert.ErrorIs(t, err, types.ErrStorage)
}

func TestLogin(t *testing.T) {
	user := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}, Email: "ana@example.com"}
	require.NoError(t, user.SetPassword("secret"))

	t.Run("success issues a token", func(t *testing.T) {
		repo := &mocks.UserRepository{}
		repo.On("GetByEmail", mock.Anything, "ana@example.com").Return(user, nil)
		controller := newController(repo)

		result, err := controller.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "secret"})

		require.NoError(t, err)
		claims, err := controller.tokens.Parse(result.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := &mocks.UserRepository{}
		repo.On("GetByEmail", mock.Anything, "ana@example.com").Return(user, nil)

		_, err := newController(repo).Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "nope"})

		assert.ErrorIs(t, err, types.ErrValidation)
		assert.EqualError(t, err, invalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := &mocks.UserRepository{}
		repo.On("GetByEmail", mock.Anything, "who@example.com").Return(nil, notFound())

		_, err := newController(repo).Login(context.Background(), LoginRequest{Email: "who@example.com", Password: "secret"})

		assert.ErrorIs(t, err, types.ErrValidation)
		assert.EqualError(t, err, invalidCredentials)
	})

	t.Run("lookup runs under the store deadline", func(t *testing.T) {
		repo := &mocks.UserRepository{}
		repo.On("GetByEmail", mock.MatchedBy(func(ctx context.Context) bool {
			_, ok := ctx.Deadline()
			return ok
		}), "ana@example.com").Return(user, nil)

		_, err := newController(repo).Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "secret"})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestLogout_RevokesToken(t *testing.T) {
	controller := newController(&mocks.UserRepository{})
	user := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}}

	_, claims, err := controller.tokens.Issue(user)
	require.NoError(t, err)

	require.NoError(t, controller.Logout(context.Background(), claims))

	revoked, err := controller.tokens.IsRevoked(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}
