package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/diillson/cotizai-api/internal/adapter/database"
	"github.com/diillson/cotizai-api/internal/app/auth"
	"github.com/diillson/cotizai-api/internal/domain/model"
	"github.com/diillson/cotizai-api/internal/domain/repository"
	"github.com/diillson/cotizai-api/pkg/config"
	"github.com/diillson/cotizai-api/pkg/security"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	var (
		username   string
		password   string
		nombre     string
		area       string
		configPath string
		verbose    bool
	)

	flag.StringVar(&username, "username", "", "Nome de usuário do admin")
	flag.StringVar(&password, "password", "", "Senha do admin")
	flag.StringVar(&nombre, "nombre", "Administrador", "Nome de exibição")
	flag.StringVar(&area, "area", "Administración", "Área do admin")
	flag.StringVar(&configPath, "config", "./config", "Diretório do config.yaml")
	flag.BoolVar(&verbose, "verbose", false, "Mostrar logs detalhados")
	flag.Parse()

	if username == "" || password == "" {
		fmt.Println("Erro: username e password não podem ser vazios.")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Erro ao carregar configuração: %v\n", err)
		os.Exit(1)
	}
	if cfg.Database.Driver == "memory" {
		fmt.Println("Erro: o driver memory não persiste usuários.")
		os.Exit(1)
	}

	logger := toolLogger(verbose)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxIdleConns:    1,
		MaxOpenConns:    1,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        database.ParseLogLevel(cfg.Database.LogLevel),
		SlowThreshold:   cfg.Database.SlowThreshold,
	}, logger)
	if err != nil {
		fmt.Printf("Erro ao conectar ao banco de dados: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	users := database.NewUserRepository(db.DB(), logger)
	existing, err := users.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		fmt.Printf("Usuário '%s' já existe. Deseja promovê-lo a admin e trocar a senha? (s/n): ", username)
		var response string
		_, _ = fmt.Scanln(&response)
		if response != "s" && response != "S" {
			fmt.Println("Operação cancelada.")
			return
		}
		hash, err := security.HashPassword(password, cfg.Auth.BcryptCost)
		if err != nil {
			fmt.Printf("Erro ao processar senha: %v\n", err)
			os.Exit(1)
		}
		existing.Password = hash
		existing.Rol = model.RolAdmin
		if err := users.UpdateUser(ctx, existing); err != nil {
			fmt.Printf("Erro ao atualizar usuário: %v\n", err)
			os.Exit(1)
		}
		printUser("Usuário admin atualizado", existing)
		return
	case !errors.Is(err, repository.ErrUserNotFound):
		fmt.Printf("Erro ao verificar usuário existente: %v\n", err)
		os.Exit(1)
	}

	service := auth.NewAuthService(nil, users, nil, auth.Options{BcryptCost: cfg.Auth.BcryptCost}, logger, nil)
	user, err := service.Register(ctx, auth.RegisterInput{
		Nombre:   nombre,
		Username: username,
		Password: password,
		Rol:      string(model.RolAdmin),
		Area:     area,
	})
	if err != nil {
		fmt.Printf("Erro ao criar usuário: %v\n", err)
		os.Exit(1)
	}
	printUser("Usuário admin criado", user)
}

func printUser(title string, user *model.User) {
	fmt.Println()
	fmt.Println(title)
	fmt.Println("------------------------------------------")
	fmt.Printf("ID:       %d\n", user.ID)
	fmt.Printf("Username: %s\n", user.Username)
	fmt.Printf("Rol:      %s\n", user.Rol)
	fmt.Printf("Área:     %s\n", user.Area)
	fmt.Println("\nGere um token de acesso com:")
	fmt.Printf("go run ./cmd/tools/gentoken -user_id=%d -username=%s\n\n", user.ID, user.Username)
}

func toolLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
		cfg.OutputPaths = []string{"stderr"}
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
