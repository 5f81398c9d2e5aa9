package model_test

import (
	"encoding/json"
	"testing"

	"github.com/diillson/cotizai-api/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEstado(t *testing.T) {
	tests := []struct {
		in   string
		want model.Estado
	}{
		{"en_revision", model.EstadoEnRevision},
		{"aprobado", model.EstadoAprobado},
		{"desestimado", model.EstadoDesestimado},
		{"  APROBADO ", model.EstadoAprobado},
		{"pendiente", model.EstadoEnRevision},
		{"en_proceso", model.EstadoEnRevision},
		{"completada", model.EstadoAprobado},
		{"cancelada", model.EstadoDesestimado},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := model.ParseEstado(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := model.ParseEstado("archivado")
		assert.ErrorIs(t, err, model.ErrEstadoInvalido)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := model.ParseEstado("")
		assert.ErrorIs(t, err, model.ErrEstadoInvalido)
	})
}

func TestOperacion_Validate(t *testing.T) {
	valid := model.Operacion{Nombre: "Cotización", Estado: model.EstadoEnRevision, Data: json.RawMessage(`{"a":1}`)}
	require.NoError(t, valid.Validate())

	noName := valid
	noName.Nombre = "  "
	assert.Error(t, noName.Validate())

	badEstado := valid
	badEstado.Estado = "x"
	assert.ErrorIs(t, badEstado.Validate(), model.ErrEstadoInvalido)

	badData := valid
	badData.Data = json.RawMessage(`{nope`)
	assert.Error(t, badData.Validate())
}

func TestOperacionEntity_RoundTrip(t *testing.T) {
	op := &model.Operacion{
		ID:     7,
		Nombre: "Landing",
		Estado: model.EstadoAprobado,
		UserID: 3,
		Area:   "TI",
		Data:   json.RawMessage(`{"rubro":"Retail"}`),
	}

	var entity model.OperacionEntity
	entity.FromOperacion(op)
	assert.Equal(t, "operaciones", entity.TableName())
	assert.Equal(t, "aprobado", entity.Estado)

	back := entity.ToOperacion()
	assert.Equal(t, op.ID, back.ID)
	assert.Equal(t, op.Estado, back.Estado)
	assert.JSONEq(t, string(op.Data), string(back.Data))
}

func TestParseRol(t *testing.T) {
	rol, ok := model.ParseRol("")
	assert.True(t, ok)
	assert.Equal(t, model.RolCotizador, rol)

	rol, ok = model.ParseRol("admin")
	assert.True(t, ok)
	assert.Equal(t, model.RolAdmin, rol)

	_, ok = model.ParseRol("root")
	assert.False(t, ok)
}

func TestUser_Public(t *testing.T) {
	u := &model.User{ID: 1, Username: "admin", Password: "hash", Rol: model.RolAdmin}

	pub := u.Public()
	assert.Empty(t, pub.Password)
	assert.Equal(t, "hash", u.Password)
	assert.True(t, pub.IsAdmin())

	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hash")

	var nilUser *model.User
	assert.Nil(t, nilUser.Public())
	assert.False(t, nilUser.IsAdmin())
}
