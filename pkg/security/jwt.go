package security

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MinSecretLength é o tamanho mínimo aceito para o segredo HMAC
const MinSecretLength = 32

var (
	ErrTokenExpired = errors.New("token expirado")
	ErrTokenInvalid = errors.New("token inválido")
)

// Claims é o payload dos tokens de acesso.
// Subject carrega o ID do usuário e ID (jti) identifica o token para revogação.
type Claims struct {
	Username string `json:"username"`
	Rol      string `json:"rol"`
	Area     string `json:"area"`
	jwt.RegisteredClaims
}

// UserID converte o subject no ID numérico do usuário
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("subject inválido %q: %w", c.Subject, err)
	}
	return uint(id), nil
}

// KeyManager assina e verifica tokens HS256
type KeyManager struct {
	secretKey []byte
	logger    *zap.Logger
	now       func() time.Time
}

// NewKeyManager cria o gerenciador de chaves. Um segredo vazio gera uma chave
// aleatória válida apenas enquanto o processo estiver de pé.
func NewKeyManager(secret string, logger *zap.Logger) (*KeyManager, error) {
	key := []byte(secret)
	if secret == "" {
		logger.Warn("JWT secret não definido, usando chave temporária; tokens não sobrevivem a reinícios")
		key = make([]byte, MinSecretLength)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("falha ao gerar chave temporária: %w", err)
		}
	}

	if len(key) < MinSecretLength {
		return nil, fmt.Errorf("jwt secret key muito curta: mínimo de %d bytes", MinSecretLength)
	}

	return &KeyManager{
		secretKey: key,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// GenerateToken emite um token para o usuário com a duração informada
func (km *KeyManager) GenerateToken(userID uint, username, rol, area string, duration time.Duration) (string, *Claims, error) {
	now := km.now()

	claims := &Claims{
		Username: username,
		Rol:      rol,
		Area:     area,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(km.secretKey)
	if err != nil {
		km.logger.Error("falha ao gerar token JWT", zap.Error(err))
		return "", nil, err
	}

	return tokenString, claims, nil
}

// VerifyToken valida assinatura, algoritmo e validade temporal
func (km *KeyManager) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", token.Header["alg"])
		}
		return km.secretKey, nil
	}, jwt.WithTimeFunc(km.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		km.logger.Debug("falha ao validar token JWT", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
