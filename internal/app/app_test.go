package app_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diillson/cotizai-api/internal/adapter/memstore"
	"github.com/diillson/cotizai-api/internal/adapter/webpage"
	"github.com/diillson/cotizai-api/internal/app"
	"github.com/diillson/cotizai-api/internal/app/analyzer"
	"github.com/diillson/cotizai-api/internal/app/generator"
	"github.com/diillson/cotizai-api/internal/app/seed"
	"github.com/diillson/cotizai-api/internal/domain/model"
	"github.com/diillson/cotizai-api/internal/mocks"
	"github.com/diillson/cotizai-api/internal/testutils"
	"github.com/diillson/cotizai-api/pkg/cache"
	apierrors "github.com/diillson/cotizai-api/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type loginResponse struct {
	AccessToken string     `json:"access_token"`
	User        model.User `json:"user"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type testServer struct {
	router  *gin.Engine
	fetcher *mocks.MockFetcher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := testutils.TestConfig()
	cfg.Seed.Enabled = true
	cfg.Seed.Operaciones = true

	fetcher := new(mocks.MockFetcher)
	a, err := app.NewAppWithDeps(context.Background(), testutils.TestLogger(t), cfg, app.Deps{
		Users:       memstore.NewUserRepository(),
		Operaciones: memstore.NewOperacionRepository(),
		Fetcher:     fetcher,
		Cache:       cache.NewMemoryCache(time.Hour, 0, nil, testutils.TestLogger(t)),
	})
	require.NoError(t, err)

	router := testutils.SetupTestRouter(t)
	a.RegisterRoutes(router)
	return &testServer{router: router, fetcher: fetcher}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httpResult {
	t.Helper()
	var headers map[string]string
	if token != "" {
		headers = testutils.BearerHeader(token)
	}
	return &httpResult{t: t, resp: testutils.MakeRequest(t, s.router, method, path, body, headers)}
}

func (s *testServer) login(t *testing.T, username, area string) string {
	t.Helper()
	res := s.do(t, http.MethodPost, "/auth/login", gin.H{
		"username": username,
		"password": seed.DefaultPassword,
		"area":     area,
	}, "")
	res.status(http.StatusOK)

	var body loginResponse
	res.decode(&body)
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

func TestNewAppWithDeps_RequiresRepositories(t *testing.T) {
	_, err := app.NewAppWithDeps(context.Background(), testutils.TestLogger(t), testutils.TestConfig(), app.Deps{})
	assert.Error(t, err)
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t)

	t.Run("login", func(t *testing.T) {
		res := s.do(t, http.MethodPost, "/auth/login", gin.H{"username": "admin", "password": seed.DefaultPassword}, "")
		res.status(http.StatusOK)
		testutils.RequireJSONContentType(t, res.resp)

		var body loginResponse
		res.decode(&body)
		assert.Equal(t, "admin", body.User.Username)
		assert.Equal(t, model.RolAdmin, body.User.Rol)
		assert.NotContains(t, res.resp.Body.String(), "password")
	})

	t.Run("bad credentials", func(t *testing.T) {
		res := s.do(t, http.MethodPost, "/auth/login", gin.H{"username": "admin", "password": "errada"}, "")
		res.status(http.StatusUnauthorized)
		assert.Equal(t, apierrors.MsgBadCredentials, res.errorMessage())
	})

	t.Run("malformed body", func(t *testing.T) {
		res := s.do(t, http.MethodPost, "/auth/login", "{", "")
		res.status(http.StatusBadRequest)
	})

	t.Run("register and duplicate", func(t *testing.T) {
		user := gin.H{"nombre": "Ana", "username": "ana", "password": "segredo", "area": "Marketing"}
		res := s.do(t, http.MethodPost, "/auth/register", user, "")
		res.status(http.StatusCreated)

		res = s.do(t, http.MethodPost, "/auth/register", user, "")
		res.status(http.StatusBadRequest)
		assert.Equal(t, apierrors.MsgUserExists, res.errorMessage())
	})

	t.Run("profile validate and logout", func(t *testing.T) {
		token := s.login(t, "cotizador", "Marketing")

		res := s.do(t, http.MethodGet, "/auth/profile", nil, token)
		res.status(http.StatusOK)
		var profile struct {
			User model.User `json:"user"`
		}
		res.decode(&profile)
		assert.Equal(t, "cotizador", profile.User.Username)

		res = s.do(t, http.MethodGet, "/auth/validate", nil, token)
		res.status(http.StatusOK)
		var validated struct {
			Valid bool `json:"valid"`
			User  struct {
				Area string `json:"area"`
			} `json:"user"`
		}
		res.decode(&validated)
		assert.True(t, validated.Valid)
		assert.Equal(t, "Marketing", validated.User.Area)

		s.do(t, http.MethodPost, "/auth/logout", nil, token).status(http.StatusOK)

		res = s.do(t, http.MethodGet, "/auth/profile", nil, token)
		res.status(http.StatusUnauthorized)
		assert.Equal(t, apierrors.MsgTokenInvalid, res.errorMessage())
	})

	t.Run("missing token", func(t *testing.T) {
		res := s.do(t, http.MethodGet, "/auth/profile", nil, "")
		res.status(http.StatusUnauthorized)
		assert.Equal(t, apierrors.MsgTokenRequired, res.errorMessage())
	})
}

func TestOperacionRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "")
	cotizador := s.login(t, "cotizador", "TI")

	t.Run("list seeded operaciones", func(t *testing.T) {
		res := s.do(t, http.MethodGet, "/auth/operaciones?pagina=1&porPagina=2", nil, cotizador)
		res.status(http.StatusOK)

		var page struct {
			Operaciones      []model.Operacion `json:"operaciones"`
			TotalOperaciones int64             `json:"totalOperaciones"`
			TotalPaginas     int               `json:"totalPaginas"`
			PaginaActual     int               `json:"paginaActual"`
		}
		res.decode(&page)
		assert.Len(t, page.Operaciones, 2)
		assert.EqualValues(t, 3, page.TotalOperaciones)
		assert.Equal(t, 2, page.TotalPaginas)
		assert.Equal(t, 1, page.PaginaActual)
	})

	t.Run("area filter", func(t *testing.T) {
		res := s.do(t, http.MethodGet, "/auth/operaciones?area=Marketing", nil, cotizador)
		res.status(http.StatusOK)
		assert.Contains(t, res.resp.Body.String(), "Desarrollo E-commerce Retail")
		assert.NotContains(t, res.resp.Body.String(), "Landing Page Financiera")
	})

	t.Run("areas", func(t *testing.T) {
		res := s.do(t, http.MethodGet, "/auth/areas", nil, cotizador)
		res.status(http.StatusOK)
		var body struct {
			Areas []string `json:"areas"`
		}
		res.decode(&body)
		assert.ElementsMatch(t, []string{"Comercial", "Marketing", "TI"}, body.Areas)
	})

	t.Run("guardar cotizacion uses token area", func(t *testing.T) {
		res := s.do(t, http.MethodPost, "/auth/guardar-cotizacion", gin.H{
			"nombre": "Portal Clínica",
			"data":   gin.H{"rubro": "Salud", "servicio": "Web Corporativa"},
		}, cotizador)
		res.status(http.StatusCreated)

		var body struct {
			Operacion model.Operacion `json:"operacion"`
		}
		res.decode(&body)
		assert.Equal(t, "TI", body.Operacion.Area)
		assert.Equal(t, model.EstadoEnRevision, body.Operacion.Estado)
	})

	t.Run("admin only routes", func(t *testing.T) {
		res := s.do(t, http.MethodPost, "/auth/operaciones", gin.H{"nombre": "Nova"}, cotizador)
		res.status(http.StatusForbidden)
		assert.Equal(t, apierrors.MsgAdminRequired, res.errorMessage())

		s.do(t, http.MethodGet, "/auth/usuarios", nil, cotizador).status(http.StatusForbidden)
	})

	t.Run("admin crud", func(t *testing.T) {
		res := s.do(t, http.MethodPost, "/auth/operaciones", gin.H{"nombre": "Nova", "area": "Medios"}, admin)
		res.status(http.StatusCreated)
		var created struct {
			Operacion model.Operacion `json:"operacion"`
		}
		res.decode(&created)
		path := fmt.Sprintf("/auth/operaciones/%d", created.Operacion.ID)

		s.do(t, http.MethodGet, path, nil, admin).status(http.StatusOK)

		res = s.do(t, http.MethodPatch, path+"/estado", gin.H{"estado": "aprobado"}, admin)
		res.status(http.StatusOK)
		assert.Contains(t, res.resp.Body.String(), string(model.EstadoAprobado))

		s.do(t, http.MethodPatch, path+"/estado", gin.H{"estado": "perdido"}, admin).status(http.StatusBadRequest)
		s.do(t, http.MethodDelete, path, nil, admin).status(http.StatusOK)

		res = s.do(t, http.MethodGet, path, nil, admin)
		res.status(http.StatusNotFound)
		s.do(t, http.MethodGet, "/auth/operaciones/abc", nil, admin).status(http.StatusBadRequest)
	})

	t.Run("list users", func(t *testing.T) {
		res := s.do(t, http.MethodGet, "/auth/usuarios", nil, admin)
		res.status(http.StatusOK)
		assert.Contains(t, res.resp.Body.String(), `"username":"cotizador"`)
	})
}

func TestAnalysisRoutes(t *testing.T) {
	s := newTestServer(t)

	t.Run("fetch failure answers 200 with fallback", func(t *testing.T) {
		s.fetcher.On("Fetch", mock.Anything, "https://caido.example", mock.Anything).
			Return(nil, errors.New("dns")).Once()

		res := s.do(t, http.MethodPost, "/auth/analizar-estructura-web", gin.H{
			"url":      "https://caido.example",
			"rubro":    "Retail",
			"servicio": "E-Commerce",
		}, "")
		res.status(http.StatusOK)

		var body struct {
			Success bool                      `json:"success"`
			Data    analyzer.WebsiteStructure `json:"data"`
		}
		res.decode(&body)
		assert.False(t, body.Success)
		assert.Equal(t, "https://caido.example", body.Data.URL)
		assert.NotEmpty(t, body.Data.MissingSections)
	})

	t.Run("crawler on fetched page", func(t *testing.T) {
		doc, err := webpage.Parse("https://tienda.example", []byte(`<html><head><title>Tienda</title>
<meta name="description" content="Tienda online"></head>
<body><h1>Bienvenido</h1><form><input type="email"></form></body></html>`))
		require.NoError(t, err)
		s.fetcher.On("Fetch", mock.Anything, "https://tienda.example", mock.Anything).Return(doc, nil).Once()

		res := s.do(t, http.MethodPost, "/auth/analizar-web", gin.H{"url": "https://tienda.example"}, "")
		res.status(http.StatusOK)

		var body struct {
			Success bool                    `json:"success"`
			Data    analyzer.AnalysisResult `json:"data"`
		}
		res.decode(&body)
		assert.True(t, body.Success)
		assert.Equal(t, "Tienda", body.Data.Title)
		assert.True(t, body.Data.SEOAnalysis.HasMetaDescription)
		assert.True(t, body.Data.TechnicalAnalysis.HasSSL)
	})

	t.Run("missing url answers 200 with fallback", func(t *testing.T) {
		for _, path := range []string{"/auth/analizar-web", "/auth/analizar-web-avanzado", "/auth/analizar-estructura-web"} {
			res := s.do(t, http.MethodPost, path, gin.H{"rubro": "Retail", "servicio": "E-Commerce"}, "")
			res.status(http.StatusOK)

			var body errorResponse
			res.decode(&body)
			assert.False(t, body.Success, path)
			assert.Equal(t, analyzer.MsgURLRequired, body.Error, path)
		}
	})

	t.Run("malformed body still answers 200", func(t *testing.T) {
		res := s.do(t, http.MethodPost, "/auth/analizar-web", "{", "")
		res.status(http.StatusOK)
		assert.Contains(t, res.resp.Body.String(), `"success":false`)

		res = s.do(t, http.MethodPost, "/auth/analizar-tiempo-desarrollo", "{", "")
		res.status(http.StatusOK)
		assert.Contains(t, res.resp.Body.String(), "tiempoAnalizado")
	})

	t.Run("bearer token is accepted but not required", func(t *testing.T) {
		token := s.login(t, "cotizador", "")
		res := s.do(t, http.MethodPost, "/auth/mejorar-requerimientos", gin.H{"requerimientos": "login"}, token)
		res.status(http.StatusOK)

		res = s.do(t, http.MethodPost, "/auth/mejorar-requerimientos", gin.H{"requerimientos": "login"}, "invalid")
		res.status(http.StatusOK)
	})

	t.Run("generators fall back without ai", func(t *testing.T) {
		res := s.do(t, http.MethodPost, "/auth/mejorar-requerimientos", gin.H{"requerimientos": "login"}, "")
		res.status(http.StatusOK)
		var improved struct {
			Requerimientos string `json:"requerimientosMejorados"`
		}
		res.decode(&improved)
		assert.Equal(t, generator.FallbackRequirements(), improved.Requerimientos)

		res = s.do(t, http.MethodPost, "/auth/analizar-tiempo-desarrollo", gin.H{"tiempoDesarrollo": "3 meses"}, "")
		res.status(http.StatusOK)
		assert.Contains(t, res.resp.Body.String(), "tiempoAnalizado")

		res = s.do(t, http.MethodPost, "/auth/generar-descripcion-proyecto", gin.H{"rubro": "Retail", "servicio": "E-Commerce"}, "")
		res.status(http.StatusOK)
		var desc struct {
			Descripcion string `json:"descripcion"`
		}
		res.decode(&desc)
		assert.Equal(t, generator.FallbackDescription("Retail", "E-Commerce"), desc.Descripcion)
	})

	s.fetcher.AssertExpectations(t)
}

func TestInfraRoutes(t *testing.T) {
	s := newTestServer(t)

	s.do(t, http.MethodGet, "/", nil, "").status(http.StatusOK)
	s.do(t, http.MethodGet, "/health/liveness", nil, "").status(http.StatusOK)

	res := s.do(t, http.MethodGet, "/health", nil, "")
	res.status(http.StatusOK)
	assert.Contains(t, res.resp.Body.String(), `"cache"`)

	res = s.do(t, http.MethodGet, "/metrics", nil, "")
	res.status(http.StatusOK)
	assert.True(t, strings.Contains(res.resp.Body.String(), "cotizai_requests_total"))

	res = s.do(t, http.MethodGet, "/nao-existe", nil, "")
	res.status(http.StatusNotFound)
	assert.Equal(t, "Ruta no encontrada", res.errorMessage())
}

type httpResult struct {
	t    *testing.T
	resp *httptest.ResponseRecorder
}

func (r *httpResult) status(code int) {
	r.t.Helper()
	testutils.RequireHTTPStatus(r.t, r.resp, code)
}

func (r *httpResult) decode(dst any) {
	r.t.Helper()
	testutils.ParseResponse(r.t, r.resp, dst)
}

func (r *httpResult) errorMessage() string {
	r.t.Helper()
	var body errorResponse
	r.decode(&body)
	assert.False(r.t, body.Success)
	return body.Error
}
