package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config representa a configuração completa da aplicação
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	AI        AIConfig
	Analyzer  AnalyzerConfig
	Metrics   MetricsConfig
	Logging   LoggingConfig
	Tracing   TracingConfig
	Seed      SeedConfig
}

// ServerConfig contém configurações do servidor HTTP
type ServerConfig struct {
	Port           int
	Host           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	TLS            bool
	CertFile       string
	KeyFile        string
	BaseURL        string
	Domains        []string
	AllowedOrigins []string
}

// DatabaseConfig contém configurações do banco de dados.
// Driver "memory" usa o armazenamento em memória, sem GORM.
type DatabaseConfig struct {
	Driver          string
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
	SlowThreshold   time.Duration
	MigrationDir    string
	SkipMigrations  bool
}

// RedisOptions contém configurações específicas para Redis
type RedisOptions struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	DialTimeout  time.Duration
	PoolTimeout  time.Duration
	IdleTimeout  time.Duration
	MaxConnAge   time.Duration
}

// CacheConfig contém configurações do cache
type CacheConfig struct {
	Enabled bool
	Type    string // redis, memory
	TTL     time.Duration
	Redis   RedisOptions
}

// AuthConfig contém configurações de autenticação
type AuthConfig struct {
	JWTSecret       string
	TokenExpiration time.Duration
	BcryptCost      int
}

// RateLimitConfig limita login e rotas de análise por IP
type RateLimitConfig struct {
	Enabled        bool
	Backend        string // memory, redis
	LoginLimit     int
	LoginPeriod    time.Duration
	AnalysisLimit  int
	AnalysisPeriod time.Duration
	BurstFactor    float64
}

// AIConfig configura o provedor de IA generativa
type AIConfig struct {
	Enabled         bool
	APIKey          string
	Model           string
	Timeout         time.Duration
	Temperature     float64
	TopK            float64
	TopP            float64
	MaxOutputTokens int
	CircuitBreaker  CircuitBreakerConfig
}

// CircuitBreakerConfig configura o disjuntor na frente do provedor de IA
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	ResetTimeout     time.Duration
	HalfOpenRequests int
}

// AnalyzerConfig configura a busca das páginas analisadas
type AnalyzerConfig struct {
	StructureTimeout time.Duration
	CrawlerTimeout   time.Duration
	MaxBodyBytes     int64
	UserAgent        string
}

// MetricsConfig contém configurações de métricas
type MetricsConfig struct {
	Enabled        bool
	PrometheusPath string
}

// LoggingConfig contém configurações de logging
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// TracingConfig contém configurações de rastreamento
type TracingConfig struct {
	Enabled       bool
	Endpoint      string
	ServiceName   string
	SamplingRatio float64
}

// SeedConfig controla a carga inicial de usuários e operações de exemplo
type SeedConfig struct {
	Enabled       bool
	AdminPassword string
	Operaciones   bool
}

// LoadConfig carrega a configuração de diversas fontes (arquivos, env, defaults)
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/cotizai")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("erro ao ler arquivo de configuração: %w", err)
		}
	}

	// Variáveis de ambiente com prefixo COTIZAI_, ex.: COTIZAI_DATABASE_DRIVER
	v.SetEnvPrefix("COTIZAI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("erro ao mapear configuração: %w", err)
	}

	applyEnvFallbacks(&config)

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Default retorna a configuração padrão, sem arquivo nem ambiente
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	// os defaults são sempre decodificáveis
	_ = v.Unmarshal(&config)
	return &config
}

// applyEnvFallbacks aceita as variáveis históricas JWT_SECRET e GEMINI_API_KEY
func applyEnvFallbacks(config *Config) {
	if config.Auth.JWTSecret == "" {
		config.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if config.AI.APIKey == "" {
		config.AI.APIKey = os.Getenv("GEMINI_API_KEY")
	}
}

// setDefaults define valores padrão para a configuração
func setDefaults(v *viper.Viper) {
	// Servidor
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.readTimeout", "10s")
	v.SetDefault("server.writeTimeout", "60s")
	v.SetDefault("server.idleTimeout", "120s")
	v.SetDefault("server.maxHeaderBytes", 1<<20)
	v.SetDefault("server.tls", false)
	v.SetDefault("server.allowedOrigins", []string{"*"})

	// Banco de dados
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./data/cotizai.db")
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.maxOpenConns", 10)
	v.SetDefault("database.connMaxLifetime", "1h")
	v.SetDefault("database.logLevel", "warn")
	v.SetDefault("database.slowThreshold", "200ms")
	v.SetDefault("database.migrationDir", "")
	v.SetDefault("database.skipMigrations", false)

	// Cache
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.redis.address", "localhost:6379")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.poolSize", 10)
	v.SetDefault("cache.redis.minIdleConns", 2)
	v.SetDefault("cache.redis.maxRetries", 3)
	v.SetDefault("cache.redis.readTimeout", "3s")
	v.SetDefault("cache.redis.writeTimeout", "3s")
	v.SetDefault("cache.redis.dialTimeout", "5s")
	v.SetDefault("cache.redis.poolTimeout", "4s")
	v.SetDefault("cache.redis.idleTimeout", "5m")
	v.SetDefault("cache.redis.maxConnAge", "30m")

	// Autenticação
	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.tokenExpiration", "24h")
	v.SetDefault("auth.bcryptCost", 10)

	// Rate limiting
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.backend", "memory")
	v.SetDefault("ratelimit.loginLimit", 10)
	v.SetDefault("ratelimit.loginPeriod", "1m")
	v.SetDefault("ratelimit.analysisLimit", 20)
	v.SetDefault("ratelimit.analysisPeriod", "1m")
	v.SetDefault("ratelimit.burstFactor", 1.0)

	// IA generativa
	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout", "30s")
	v.SetDefault("ai.temperature", 0.1)
	v.SetDefault("ai.topK", 32)
	v.SetDefault("ai.topP", 1.0)
	v.SetDefault("ai.maxOutputTokens", 8192)
	v.SetDefault("ai.circuitBreaker.enabled", true)
	v.SetDefault("ai.circuitBreaker.failureThreshold", 5)
	v.SetDefault("ai.circuitBreaker.resetTimeout", "30s")
	v.SetDefault("ai.circuitBreaker.halfOpenRequests", 1)

	// Analisador
	v.SetDefault("analyzer.structureTimeout", "15s")
	v.SetDefault("analyzer.crawlerTimeout", "10s")
	v.SetDefault("analyzer.maxBodyBytes", 2<<20)
	v.SetDefault("analyzer.userAgent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	// Métricas
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.prometheusPath", "/metrics")

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Tracing
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4317")
	v.SetDefault("tracing.serviceName", "cotizai-api")
	v.SetDefault("tracing.samplingRatio", 0.1)

	// Seed
	v.SetDefault("seed.enabled", true)
	v.SetDefault("seed.adminPassword", "12345")
	v.SetDefault("seed.operaciones", true)
}

// validateConfig valida a configuração
func validateConfig(config *Config) error {
	if config.Server.TLS && len(config.Server.Domains) == 0 {
		if config.Server.CertFile == "" || config.Server.KeyFile == "" {
			return fmt.Errorf("TLS habilitado, mas CertFile ou KeyFile não estão definidos")
		}
	}

	validDrivers := map[string]bool{"sqlite": true, "mysql": true, "postgres": true, "memory": true}
	if !validDrivers[config.Database.Driver] {
		return fmt.Errorf("driver de banco de dados inválido: %s", config.Database.Driver)
	}

	if config.Cache.Enabled {
		validTypes := map[string]bool{"memory": true, "redis": true}
		if !validTypes[config.Cache.Type] {
			return fmt.Errorf("tipo de cache inválido: %s", config.Cache.Type)
		}
		if config.Cache.Type == "redis" && config.Cache.Redis.Address == "" {
			return fmt.Errorf("tipo de cache redis requer um endereço")
		}
	}

	if config.RateLimit.Enabled {
		if config.RateLimit.Backend != "memory" && config.RateLimit.Backend != "redis" {
			return fmt.Errorf("backend de rate limit inválido: %s", config.RateLimit.Backend)
		}
		if config.RateLimit.LoginLimit <= 0 || config.RateLimit.AnalysisLimit <= 0 {
			return fmt.Errorf("limites de rate limit devem ser maiores que zero")
		}
	}

	if config.Auth.TokenExpiration <= 0 {
		return fmt.Errorf("auth.tokenExpiration deve ser positivo")
	}
	if config.Auth.BcryptCost < 4 || config.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcryptCost fora do intervalo permitido: %d", config.Auth.BcryptCost)
	}

	if config.Analyzer.MaxBodyBytes <= 0 {
		return fmt.Errorf("analyzer.maxBodyBytes deve ser positivo")
	}

	return nil
}
