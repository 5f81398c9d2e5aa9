package webpage_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diillson/cotizai-api/internal/adapter/webpage"
	"github.com/diillson/cotizai-api/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title> Inmobiliaria Sol </title>
  <meta name="Description" content="Proyectos en Lima">
  <meta name="viewport" content="width=device-width">
</head>
<body>
  <header><a href="/">Inicio</a></header>
  <nav class="menu main"><a href="/p">Proyectos</a><a href="/c">Contacto</a></nav>
  <img src="a.png" alt="a"><img src="b.png">
  <p>Hola <span>mundo</span></p>
  <a href="/x">Fuera</a>
</body>
</html>`

func TestParse(t *testing.T) {
	doc, err := webpage.Parse("https://sol.pe", []byte(samplePage))
	require.NoError(t, err)

	assert.Equal(t, "https://sol.pe", doc.URL)
	assert.Equal(t, "Inmobiliaria Sol", doc.Title())
	assert.Equal(t, "Proyectos en Lima", doc.Meta("description"))
	assert.Empty(t, doc.Meta("keywords"))
	assert.True(t, doc.Contains("nada", "proyectos"))
	assert.False(t, doc.Contains("carrito"))
	assert.Equal(t, "Hola mundo", doc.Text(webpage.Tag("p")))
}

func TestMatchers(t *testing.T) {
	doc, err := webpage.Parse("https://sol.pe", []byte(samplePage))
	require.NoError(t, err)

	assert.Equal(t, 2, doc.Count(webpage.Tag("img")))
	assert.Equal(t, 1, doc.Count(webpage.HasAttr("img", "alt")))
	assert.Equal(t, 1, doc.Count(webpage.Class("menu")))
	assert.Equal(t, 0, doc.Count(webpage.Class("men")))
	assert.Equal(t, 1, doc.Count(webpage.AttrEquals("meta", "name", "viewport")))
	assert.Equal(t, 2, doc.Count(webpage.AttrContains("img", "src", ".png")))

	navLinks := webpage.Within(webpage.Any(webpage.Tag("nav"), webpage.Tag("header")), webpage.Tag("a"))
	assert.Equal(t, 3, doc.Count(navLinks))
	assert.Equal(t, 4, doc.Count(webpage.Tag("a")))

	// um elemento que casa com dois matchers aparece uma vez
	assert.Equal(t, 2, doc.Count(webpage.Tag("img"), webpage.HasAttr("img", "alt")))
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://sol.pe", webpage.NormalizeURL(" sol.pe "))
	assert.Equal(t, "http://sol.pe", webpage.NormalizeURL("http://sol.pe"))
	assert.Equal(t, "https://sol.pe/x", webpage.NormalizeURL("https://sol.pe/x"))
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			userAgent = r.Header.Get("User-Agent")
			_, _ = w.Write([]byte(samplePage))
		case "/big":
			_, _ = w.Write([]byte("<html><title>" + strings.Repeat("x", 4096) + "</title></html>"))
		case "/slow":
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(samplePage))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	fetcher := webpage.NewHTTPFetcher(webpage.HTTPFetcherConfig{MaxBodyBytes: 1024}, testutils.TestLogger(t), nil)

	t.Run("ok", func(t *testing.T) {
		doc, err := fetcher.Fetch(context.Background(), server.URL+"/ok", time.Second)
		require.NoError(t, err)
		assert.Equal(t, "Inmobiliaria Sol", doc.Title())
		assert.Equal(t, webpage.DefaultUserAgent, userAgent)
	})

	t.Run("non 2xx", func(t *testing.T) {
		_, err := fetcher.Fetch(context.Background(), server.URL+"/missing", time.Second)
		assert.ErrorIs(t, err, webpage.ErrUnexpectedStatus)
	})

	t.Run("body is truncated", func(t *testing.T) {
		doc, err := fetcher.Fetch(context.Background(), server.URL+"/big", time.Second)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(doc.Title()), 1024)
	})

	t.Run("timeout", func(t *testing.T) {
		_, err := fetcher.Fetch(context.Background(), server.URL+"/slow", 20*time.Millisecond)
		assert.Error(t, err)
	})
}
