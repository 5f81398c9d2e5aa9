package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/diillson/cotizai-api/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenExpiration)
	assert.Equal(t, "gemini-2.0-flash", cfg.AI.Model)
	assert.Equal(t, 15*time.Second, cfg.Analyzer.StructureTimeout)
	assert.Equal(t, 10*time.Second, cfg.Analyzer.CrawlerTimeout)
	assert.Equal(t, "12345", cfg.Seed.AdminPassword)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: 8080
database:
  driver: memory
ratelimit:
  loginLimit: 3
`)
	t.Setenv("COTIZAI_SERVER_HOST", "127.0.0.1")
	t.Setenv("COTIZAI_AUTH_JWTSECRET", "")
	t.Setenv("JWT_SECRET", "segredo-legado-com-mais-de-32-bytes!!")
	t.Setenv("GEMINI_API_KEY", "chave")

	cfg, err := config.LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 3, cfg.RateLimit.LoginLimit)
	assert.Equal(t, "segredo-legado-com-mais-de-32-bytes!!", cfg.Auth.JWTSecret)
	assert.Equal(t, "chave", cfg.AI.APIKey)
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := map[string]string{
		"driver":     "database:\n  driver: oracle\n",
		"cache type": "cache:\n  enabled: true\n  type: memcached\n",
		"backend":    "ratelimit:\n  enabled: true\n  backend: etcd\n",
		"bcrypt":     "auth:\n  bcryptCost: 99\n",
		"tls":        "server:\n  tls: true\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	_, err := config.LoadConfig(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)
}
