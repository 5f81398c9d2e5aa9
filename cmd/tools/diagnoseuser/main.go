package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/diillson/cotizai-api/internal/adapter/database"
	"github.com/diillson/cotizai-api/pkg/config"
	"github.com/diillson/cotizai-api/pkg/logging"
)

func main() {
	var (
		username   string
		configPath string
		verbose    bool
	)

	flag.StringVar(&username, "username", "", "Nome de usuário a ser diagnosticado")
	flag.StringVar(&configPath, "config", "./config", "Diretório do config.yaml")
	flag.BoolVar(&verbose, "verbose", false, "Mostrar logs detalhados")
	flag.Parse()

	if username == "" {
		fmt.Println("Erro: username não pode ser vazio.")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Erro ao carregar configuração: %v\n", err)
		os.Exit(1)
	}

	level := "error"
	if verbose {
		level = "debug"
	}
	logger, err := logging.NewLogger(level, "console")
	if err != nil {
		fmt.Printf("Erro ao inicializar logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxIdleConns:    1,
		MaxOpenConns:    1,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        database.ParseLogLevel(level),
		SlowThreshold:   cfg.Database.SlowThreshold,
		SkipMigrations:  true,
	}, logger)
	if err != nil {
		fmt.Printf("Erro ao conectar ao banco de dados: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	report, err := database.NewUserRepository(db.DB(), logger).DiagnoseUser(ctx, username)
	if err != nil {
		fmt.Printf("Erro ao diagnosticar usuário: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nDIAGNÓSTICO DE ARMAZENAMENTO")
	fmt.Println("----------------------------")
	fmt.Println(report)
}
