package memstore_test

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/diillson/cotizai-api/internal/adapter/memstore"
	"github.com/diillson/cotizai-api/internal/domain/model"
	"github.com/diillson/cotizai-api/internal/domain/repository"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := memstore.NewUserRepository()

	admin := &model.User{Username: "admin", Password: "h", Rol: model.RolAdmin}
	require.NoError(t, repo.CreateUser(ctx, admin))
	assert.Equal(t, uint(1), admin.ID)

	t.Run("duplicate username", func(t *testing.T) {
		err := repo.CreateUser(ctx, &model.User{Username: "admin"})
		assert.ErrorIs(t, err, repository.ErrUserExists)
	})

	t.Run("lookup returns a copy", func(t *testing.T) {
		got, err := repo.GetUserByUsername(ctx, "admin")
		require.NoError(t, err)
		got.Rol = model.RolCotizador

		again, err := repo.GetUserByID(ctx, admin.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RolAdmin, again.Rol)
	})

	t.Run("update rename collision", func(t *testing.T) {
		other := &model.User{Username: "cotizador"}
		require.NoError(t, repo.CreateUser(ctx, other))

		other.Username = "admin"
		assert.ErrorIs(t, repo.UpdateUser(ctx, other), repository.ErrUserExists)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteUser(ctx, admin.ID))
		_, err := repo.GetUserByID(ctx, admin.ID)
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
		assert.ErrorIs(t, repo.DeleteUser(ctx, admin.ID), repository.ErrUserNotFound)
	})
}

func TestOperacionRepository_ListOperaciones(t *testing.T) {
	ctx := context.Background()
	repo := memstore.NewOperacionRepository()

	for i := 1; i <= 25; i++ {
		area := "Comercial"
		if i%5 == 0 {
			area = "TI"
		}
		op := &model.Operacion{Nombre: fmt.Sprintf("op-%d", i), Estado: model.EstadoEnRevision, Area: area}
		require.NoError(t, repo.CreateOperacion(ctx, op))
	}

	t.Run("second page newest first", func(t *testing.T) {
		ops, total, err := repo.ListOperaciones(ctx, repository.OperacionFilter{Offset: 10, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(25), total)

		var ids []uint
		for _, op := range ops {
			ids = append(ids, op.ID)
		}
		want := []uint{15, 14, 13, 12, 11, 10, 9, 8, 7, 6}
		if diff := cmp.Diff(want, ids); diff != "" {
			t.Errorf("ids mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("area filter", func(t *testing.T) {
		ops, total, err := repo.ListOperaciones(ctx, repository.OperacionFilter{Area: "TI", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		for _, op := range ops {
			assert.Equal(t, "TI", op.Area)
		}
	})

	t.Run("offset past end", func(t *testing.T) {
		ops, total, err := repo.ListOperaciones(ctx, repository.OperacionFilter{Offset: 100, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(25), total)
		assert.Empty(t, ops)
	})

	t.Run("extreme bounds do not overflow", func(t *testing.T) {
		ops, total, err := repo.ListOperaciones(ctx, repository.OperacionFilter{Offset: 2, Limit: math.MaxInt})
		require.NoError(t, err)
		assert.Equal(t, int64(25), total)
		assert.Len(t, ops, 23)

		ops, _, err = repo.ListOperaciones(ctx, repository.OperacionFilter{Offset: math.MaxInt, Limit: math.MaxInt})
		require.NoError(t, err)
		assert.Empty(t, ops)

		// offset negativo é ignorado, como no gorm
		ops, _, err = repo.ListOperaciones(ctx, repository.OperacionFilter{Offset: -5, Limit: 3})
		require.NoError(t, err)
		assert.Len(t, ops, 3)
	})

	t.Run("distinct areas", func(t *testing.T) {
		areas, err := repo.DistinctAreas(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Comercial", "TI"}, areas)
	})
}

func TestOperacionRepository_Mutations(t *testing.T) {
	ctx := context.Background()
	repo := memstore.NewOperacionRepository()

	op := &model.Operacion{Nombre: "Landing", Estado: model.EstadoEnRevision, UserID: 2, Data: json.RawMessage(`{"a":1}`)}
	require.NoError(t, repo.CreateOperacion(ctx, op))

	stored, err := repo.GetOperacionByID(ctx, op.ID)
	require.NoError(t, err)
	stored.Data[2] = 'b'

	again, err := repo.GetOperacionByID(ctx, op.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(again.Data))

	again.Estado = model.EstadoAprobado
	require.NoError(t, repo.UpdateOperacion(ctx, again))
	updated, err := repo.GetOperacionByID(ctx, op.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoAprobado, updated.Estado)
	assert.Equal(t, op.CreatedAt, updated.CreatedAt)

	byUser, err := repo.ListOperacionesByUserID(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	require.NoError(t, repo.DeleteOperacion(ctx, op.ID))
	assert.ErrorIs(t, repo.UpdateOperacion(ctx, again), repository.ErrOperacionNotFound)
	count, err := repo.CountOperaciones(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestOperacionRepository_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	repo := memstore.NewOperacionRepository()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.CreateOperacion(ctx, &model.Operacion{Nombre: "x", Estado: model.EstadoEnRevision})
		}()
	}
	wg.Wait()

	count, err := repo.CountOperaciones(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(50), count)
}
