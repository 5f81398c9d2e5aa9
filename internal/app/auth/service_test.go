package auth_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/diillson/cotizai-api/internal/adapter/memstore"
	"github.com/diillson/cotizai-api/internal/app/auth"
	"github.com/diillson/cotizai-api/internal/domain/model"
	"github.com/diillson/cotizai-api/internal/mocks"
	"github.com/diillson/cotizai-api/internal/testutils"
	"github.com/diillson/cotizai-api/pkg/cache"
	apierrors "github.com/diillson/cotizai-api/pkg/errors"
	"github.com/diillson/cotizai-api/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T, revoked cache.Cache) (*auth.AuthService, *memstore.UserRepository) {
	t.Helper()
	logger := testutils.TestLogger(t)
	km, err := security.NewKeyManager(testutils.TestJWTSecret, logger)
	require.NoError(t, err)

	users := memstore.NewUserRepository()
	svc := auth.NewAuthService(km, users, revoked, auth.Options{
		TokenExpiration: time.Hour,
		BcryptCost:      4,
	}, logger, nil)
	return svc, users
}

func register(t *testing.T, svc *auth.AuthService, username, password, rol string) *model.User {
	t.Helper()
	user, err := svc.Register(context.Background(), auth.RegisterInput{
		Nombre:   username,
		Username: username,
		Password: password,
		Rol:      rol,
		Area:     "Comercial",
	})
	require.NoError(t, err)
	return user
}

func TestAuthService_Register(t *testing.T) {
	svc, users := newService(t, nil)
	ctx := context.Background()

	user := register(t, svc, "ana", "secreta", "")
	assert.Equal(t, model.RolCotizador, user.Rol)
	assert.Empty(t, user.Password)

	stored, err := users.GetUserByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.NotEqual(t, "secreta", stored.Password)

	t.Run("duplicate keeps the original credentials", func(t *testing.T) {
		_, err := svc.Register(ctx, auth.RegisterInput{Username: "ana", Password: "otra"})
		apiErr := apierrors.AsAPIError(err)
		assert.Equal(t, http.StatusBadRequest, apiErr.Code)
		assert.Equal(t, apierrors.MsgUserExists, apiErr.Message)

		resp, err := svc.Authenticate(ctx, "ana", "secreta", "")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Register(ctx, auth.RegisterInput{Username: "  ", Password: "x"})
		assert.Equal(t, http.StatusBadRequest, apierrors.AsAPIError(err).Code)
	})

	t.Run("unknown rol", func(t *testing.T) {
		_, err := svc.Register(ctx, auth.RegisterInput{Username: "root", Password: "x", Rol: "superuser"})
		assert.Equal(t, http.StatusBadRequest, apierrors.AsAPIError(err).Code)
	})
}

func TestAuthService_ValidateUser(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()
	register(t, svc, "admin", "12345", "admin")

	user, err := svc.ValidateUser(ctx, "admin", "12345")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Empty(t, user.Password)

	user, err = svc.ValidateUser(ctx, "admin", "wrong")
	assert.NoError(t, err)
	assert.Nil(t, user)

	user, err = svc.ValidateUser(ctx, "nobody", "12345")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestAuthService_Authenticate(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()
	created := register(t, svc, "admin", "12345", "admin")

	t.Run("selected area overrides the stored one", func(t *testing.T) {
		resp, err := svc.Authenticate(ctx, "admin", "12345", "Marketing")
		require.NoError(t, err)
		assert.Equal(t, "Marketing", resp.User.Area)

		claims, err := svc.ValidateToken(ctx, resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Username)
		assert.Equal(t, "admin", claims.Rol)
		assert.Equal(t, "Marketing", claims.Area)

		id, err := claims.UserID()
		require.NoError(t, err)
		assert.Equal(t, created.ID, id)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "admin", "nope", "")
		apiErr := apierrors.AsAPIError(err)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Code)
		assert.Equal(t, apierrors.MsgBadCredentials, apiErr.Message)
	})

	t.Run("repository failure", func(t *testing.T) {
		logger := zap.NewNop()
		km, err := security.NewKeyManager(testutils.TestJWTSecret, logger)
		require.NoError(t, err)

		repo := new(mocks.MockUserRepository)
		repo.On("GetUserByUsername", mock.Anything, "admin").Return(nil, errors.New("db down")).Once()

		broken := auth.NewAuthService(km, repo, nil, auth.Options{}, logger, nil)
		_, err = broken.Authenticate(ctx, "admin", "12345", "")
		assert.Equal(t, http.StatusInternalServerError, apierrors.AsAPIError(err).Code)
		repo.AssertExpectations(t)
	})
}

func TestAuthService_Logout(t *testing.T) {
	revoked := cache.NewMemoryCache(time.Hour, 0, nil, zap.NewNop())
	svc, _ := newService(t, revoked)
	ctx := context.Background()
	register(t, svc, "ana", "secreta", "")

	resp, err := svc.Authenticate(ctx, "ana", "secreta", "")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, resp.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims))

	_, err = svc.ValidateToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)

	t.Run("claims without jti", func(t *testing.T) {
		err := svc.Logout(ctx, &security.Claims{})
		assert.Equal(t, http.StatusUnauthorized, apierrors.AsAPIError(err).Code)
	})
}

func TestAuthService_ValidateToken_CacheFailure(t *testing.T) {
	mockCache := new(mocks.MockCache)
	svc, _ := newService(t, mockCache)
	ctx := context.Background()
	register(t, svc, "ana", "secreta", "")

	resp, err := svc.Authenticate(ctx, "ana", "secreta", "")
	require.NoError(t, err)

	mockCache.OnRevocationLookup(false, errors.New("redis down")).Once()

	claims, err := svc.ValidateToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ana", claims.Username)
	mockCache.AssertExpectations(t)
}

func TestAuthService_Users(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()
	admin := register(t, svc, "admin", "12345", "admin")
	ana := register(t, svc, "ana", "secreta", "")

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.Password)
	}

	t.Run("update password and rol", func(t *testing.T) {
		pass, rol := "nueva", "admin"
		updated, err := svc.UpdateUser(ctx, ana.ID, auth.UserUpdate{Password: &pass, Rol: &rol})
		require.NoError(t, err)
		assert.Equal(t, model.RolAdmin, updated.Rol)

		_, err = svc.Authenticate(ctx, "ana", "nueva", "")
		assert.NoError(t, err)
	})

	t.Run("rename to existing username", func(t *testing.T) {
		name := "admin"
		_, err := svc.UpdateUser(ctx, ana.ID, auth.UserUpdate{Username: &name})
		assert.Equal(t, http.StatusBadRequest, apierrors.AsAPIError(err).Code)
	})

	t.Run("delete and profile", func(t *testing.T) {
		require.NoError(t, svc.DeleteUser(ctx, admin.ID))

		profile, err := svc.GetProfile(ctx, admin.ID)
		require.NoError(t, err)
		assert.Nil(t, profile)

		err = svc.DeleteUser(ctx, admin.ID)
		assert.Equal(t, http.StatusNotFound, apierrors.AsAPIError(err).Code)
	})
}
