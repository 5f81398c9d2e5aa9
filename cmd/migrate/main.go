package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/diillson/cotizai-api/internal/adapter/database"
	"github.com/diillson/cotizai-api/pkg/config"
	"github.com/diillson/cotizai-api/pkg/logging"
	"go.uber.org/zap"
)

func main() {
	var (
		action       string
		name         string
		configPath   string
		driver       string
		dsn          string
		migrationDir string
	)

	flag.StringVar(&action, "action", "migrate", "Ação (migrate, create)")
	flag.StringVar(&name, "name", "", "Nome da migração (apenas para action=create)")
	flag.StringVar(&configPath, "config", "./config", "Diretório do config.yaml")
	flag.StringVar(&driver, "driver", "", "Sobrescreve database.driver (sqlite, mysql, postgres)")
	flag.StringVar(&dsn, "dsn", "", "Sobrescreve database.dsn")
	flag.StringVar(&migrationDir, "dir", "./migrations", "Diretório de migrações")
	flag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Erro ao carregar configuração: %v\n", err)
		os.Exit(1)
	}
	if driver != "" {
		cfg.Database.Driver = driver
	}
	if dsn != "" {
		cfg.Database.DSN = dsn
	}

	logger, err := logging.NewLogger("info", "console")
	if err != nil {
		fmt.Printf("Erro ao inicializar logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Database.Driver == "memory" {
		logger.Fatal("O driver memory não possui migrações")
	}

	dbConfig := database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        database.ParseLogLevel("info"),
		SlowThreshold:   cfg.Database.SlowThreshold,
		MigrationDir:    migrationDir,
	}

	ctx := context.Background()

	switch action {
	case "migrate":
		db, err := database.NewDatabase(ctx, dbConfig, logger)
		if err != nil {
			logger.Fatal("Falha ao aplicar migrações", zap.Error(err))
		}
		defer db.Close()

		logger.Info("Migrações aplicadas com sucesso", zap.String("dialect", db.Dialect()))

	case "create":
		if name == "" {
			logger.Fatal("Nome da migração é obrigatório para action=create")
		}

		dbConfig.SkipMigrations = true
		db, err := database.NewDatabase(ctx, dbConfig, logger)
		if err != nil {
			logger.Fatal("Falha ao inicializar banco de dados", zap.Error(err))
		}
		defer db.Close()

		path, err := db.CreateMigration(name)
		if err != nil {
			logger.Fatal("Falha ao criar migração", zap.Error(err))
		}
		logger.Info("Migração criada", zap.String("path", path))

	default:
		logger.Fatal("Ação desconhecida", zap.String("action", action))
	}
}
