package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/diillson/cotizai-api/internal/domain/model"
	"github.com/diillson/cotizai-api/pkg/config"
	"github.com/diillson/cotizai-api/pkg/security"
	"go.uber.org/zap"
)

func main() {
	var (
		userID     uint
		username   string
		rol        string
		area       string
		configPath string
		duration   time.Duration
	)

	flag.UintVar(&userID, "user_id", 0, "ID numérico do usuário")
	flag.StringVar(&username, "username", "admin", "Username gravado no token")
	flag.StringVar(&rol, "rol", string(model.RolAdmin), "Rol (admin, cotizador)")
	flag.StringVar(&area, "area", "Administración", "Área da sessão")
	flag.StringVar(&configPath, "config", "./config", "Diretório do config.yaml")
	flag.DurationVar(&duration, "duration", 0, "Validade do token; 0 usa auth.tokenExpiration")
	flag.Parse()

	if userID == 0 {
		fmt.Println("Erro: o ID do usuário não pode ser vazio.")
		fmt.Println("Uso: go run ./cmd/tools/gentoken -user_id=<ID> -username=<username>")
		os.Exit(1)
	}
	if _, ok := model.ParseRol(rol); !ok {
		fmt.Printf("Erro: rol inválido %q\n", rol)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Erro ao carregar configuração: %v\n", err)
		os.Exit(1)
	}
	if cfg.Auth.JWTSecret == "" {
		fmt.Println("Erro: defina auth.jwtSecret, COTIZAI_AUTH_JWTSECRET ou JWT_SECRET.")
		fmt.Println("Sem segredo fixo o servidor gera uma chave aleatória e o token não seria aceito.")
		os.Exit(1)
	}
	if duration <= 0 {
		duration = cfg.Auth.TokenExpiration
	}

	km, err := security.NewKeyManager(cfg.Auth.JWTSecret, zap.NewNop())
	if err != nil {
		fmt.Printf("Erro ao criar gerenciador de chaves: %v\n", err)
		os.Exit(1)
	}

	token, claims, err := km.GenerateToken(userID, username, rol, area, duration)
	if err != nil {
		fmt.Printf("Erro ao gerar token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nToken JWT gerado:")
	fmt.Println("------------------------------------------")
	fmt.Println(token)
	fmt.Println("------------------------------------------")
	fmt.Printf("Usuário: %d (%s)\n", userID, username)
	fmt.Printf("Rol:     %s\n", rol)
	fmt.Printf("Área:    %s\n", area)
	fmt.Printf("JTI:     %s\n", claims.ID)
	fmt.Printf("Expira:  %s\n", claims.ExpiresAt.Time.Format(time.RFC3339))
	fmt.Println("\nUse no cabeçalho Authorization:")
	fmt.Printf("Authorization: Bearer %s\n", token)
}
