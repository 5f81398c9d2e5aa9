package main

import (
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/diillson/cotizai-api/internal/app"
	"github.com/diillson/cotizai-api/pkg/config"
	"github.com/diillson/cotizai-api/pkg/logging"
	"github.com/diillson/cotizai-api/pkg/telemetry"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"
)

func main() {
	configPath := flag.String("config", "./config", "Diretório do config.yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Erro ao carregar configuração: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Erro ao inicializar logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Tracing.Enabled {
		tp, err := telemetry.NewTracerProvider(context.Background(), cfg.Tracing, logger)
		if err != nil {
			logger.Error("Falha ao inicializar tracer", zap.Error(err))
		} else {
			defer tp.Shutdown(context.Background())
		}
	}

	if os.Getenv("ENV") != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	application, err := app.NewApp(context.Background(), logger, cfg)
	if err != nil {
		logger.Fatal("Falha ao inicializar aplicação", zap.Error(err))
	}
	defer application.Close()

	router := gin.New()
	application.RegisterRoutes(router)

	server := setupServer(router, cfg, logger)

	go func() {
		var err error
		switch {
		case server.TLSConfig != nil && cfg.Server.CertFile != "" && cfg.Server.KeyFile != "":
			logger.Info("Iniciando servidor HTTPS com certificados próprios", zap.String("addr", server.Addr))
			err = server.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile)
		case server.TLSConfig != nil:
			logger.Info("Iniciando servidor HTTPS com Let's Encrypt", zap.String("addr", server.Addr))
			err = server.ListenAndServeTLS("", "")
		default:
			logger.Info("Iniciando servidor HTTP", zap.String("addr", server.Addr))
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Erro ao iniciar servidor", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Encerrando servidor...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Erro ao encerrar servidor", zap.Error(err))
	}

	logger.Info("Servidor encerrado")
}

// setupServer escolhe entre HTTP, HTTPS com certificados próprios e Let's Encrypt
func setupServer(router *gin.Engine, cfg *config.Config, logger *zap.Logger) *http.Server {
	base := &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	if os.Getenv("ENV") == "development" || !cfg.Server.TLS {
		return base
	}

	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}

	if hasCertificates(cfg, logger) {
		base.Addr = ":443"
		base.TLSConfig = tlsConfig
		go startHTTPRedirector(http.HandlerFunc(redirectHTTPS), logger)
		return base
	}

	domains := validDomains(cfg)
	if len(domains) == 0 {
		logger.Warn("Nenhum domínio válido para Let's Encrypt; usando HTTP")
		return base
	}

	certManager := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(domains...),
		Cache:      autocert.DirCache("./certs"),
		Email:      os.Getenv("LETSENCRYPT_EMAIL"),
	}
	tlsConfig.GetCertificate = certManager.GetCertificate

	base.Addr = ":443"
	base.TLSConfig = tlsConfig
	go startHTTPRedirector(certManager.HTTPHandler(http.HandlerFunc(redirectHTTPS)), logger)

	logger.Info("Let's Encrypt configurado", zap.Strings("domains", domains))
	return base
}

func hasCertificates(cfg *config.Config, logger *zap.Logger) bool {
	if cfg.Server.CertFile == "" || cfg.Server.KeyFile == "" {
		return false
	}
	for _, path := range []string{cfg.Server.CertFile, cfg.Server.KeyFile} {
		if _, err := os.Stat(path); err != nil {
			logger.Error("Arquivo TLS não encontrado", zap.String("path", path), zap.Error(err))
			return false
		}
	}
	return true
}

// validDomains prioriza SERVER_DOMAINS e descarta localhost
func validDomains(cfg *config.Config) []string {
	domains := cfg.Server.Domains
	if env := os.Getenv("SERVER_DOMAINS"); env != "" {
		domains = strings.Split(env, ",")
	}

	valid := make([]string, 0, len(domains))
	for _, d := range domains {
		d = strings.TrimSpace(d)
		if d != "" && d != "localhost" && d != "127.0.0.1" {
			valid = append(valid, d)
		}
	}
	return valid
}

// startHTTPRedirector atende a porta 80 para desafios ACME e redirecionamento
func startHTTPRedirector(handler http.Handler, logger *zap.Logger) {
	httpServer := &http.Server{
		Addr:              ":80",
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Erro no servidor de redirecionamento", zap.Error(err))
	}
}

func redirectHTTPS(w http.ResponseWriter, r *http.Request) {
	target := "https://" + r.Host + r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
}
