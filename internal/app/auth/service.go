package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diillson/cotizai-api/internal/domain/model"
	"github.com/diillson/cotizai-api/internal/domain/repository"
	"github.com/diillson/cotizai-api/internal/infra/metrics"
	"github.com/diillson/cotizai-api/pkg/cache"
	apierrors "github.com/diillson/cotizai-api/pkg/errors"
	"github.com/diillson/cotizai-api/pkg/security"
	"go.uber.org/zap"
)

// ErrTokenRevoked indica um token encerrado por logout
var ErrTokenRevoked = errors.New("token revogado")

// Options agrupa os parâmetros configuráveis do serviço
type Options struct {
	TokenExpiration time.Duration
	BcryptCost      int
}

// LoginResponse é o corpo devolvido pelo login
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	User        *model.User `json:"user"`
}

// RegisterInput são os dados de cadastro de um usuário
type RegisterInput struct {
	Nombre   string `json:"nombre"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Rol      string `json:"rol"`
	Area     string `json:"area"`
}

// UserUpdate é uma atualização parcial; campos nil não mudam
type UserUpdate struct {
	Nombre   *string `json:"nombre"`
	Username *string `json:"username"`
	Password *string `json:"password"`
	Rol      *string `json:"rol"`
	Area     *string `json:"area"`
}

// AuthService gerencia operações de autenticação e de usuários
type AuthService struct {
	keyManager *security.KeyManager
	users      repository.UserRepository
	revoked    cache.Cache
	opts       Options
	logger     *zap.Logger
	metrics    *metrics.APIMetrics
}

// NewAuthService cria um novo serviço de autenticação. revoked nil desativa o logout.
func NewAuthService(keyManager *security.KeyManager, users repository.UserRepository, revoked cache.Cache, opts Options, logger *zap.Logger, m *metrics.APIMetrics) *AuthService {
	if opts.TokenExpiration <= 0 {
		opts.TokenExpiration = 24 * time.Hour
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = security.DefaultBcryptCost
	}
	if revoked == nil {
		revoked = &cache.NoOpCache{}
	}
	return &AuthService{
		keyManager: keyManager,
		users:      users,
		revoked:    revoked,
		opts:       opts,
		logger:     logger,
		metrics:    m,
	}
}

// ValidateUser confere as credenciais. Usuário inexistente e senha errada retornam (nil, nil).
func (s *AuthService) ValidateUser(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}

	ok, err := security.CheckPassword(user.Password, password)
	if err != nil {
		return nil, fmt.Errorf("falha ao comparar senha: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return user.Public(), nil
}

// Login emite o token. A área escolhida substitui a do usuário, sem verificar pertencimento.
func (s *AuthService) Login(ctx context.Context, user *model.User, selectedArea string) (*LoginResponse, error) {
	area := user.Area
	if strings.TrimSpace(selectedArea) != "" {
		area = selectedArea
	}

	token, _, err := s.keyManager.GenerateToken(user.ID, user.Username, string(user.Rol), area, s.opts.TokenExpiration)
	if err != nil {
		return nil, apierrors.NewInternalServerError("", err)
	}

	public := user.Public()
	public.Area = area

	s.logger.Info("Login bem-sucedido",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("area", area))
	return &LoginResponse{AccessToken: token, User: public}, nil
}

// Authenticate valida as credenciais e faz o login em um único passo
func (s *AuthService) Authenticate(ctx context.Context, username, password, area string) (*LoginResponse, error) {
	user, err := s.ValidateUser(ctx, username, password)
	if err != nil {
		s.logger.Error("Falha ao validar credenciais", zap.String("username", username), zap.Error(err))
		s.metrics.LoginAttempt(false)
		return nil, apierrors.NewInternalServerError("", err)
	}
	if user == nil {
		s.logger.Warn("Falha na autenticação", zap.String("username", username))
		s.metrics.LoginAttempt(false)
		return nil, apierrors.NewUnauthorizedError(apierrors.MsgBadCredentials, nil)
	}

	resp, err := s.Login(ctx, user, area)
	s.metrics.LoginAttempt(err == nil)
	return resp, err
}

// Register cria um usuário com a senha em hash. Username repetido é um erro de validação.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, apierrors.NewBadRequestError("username y password son obligatorios", nil)
	}

	rol, ok := model.ParseRol(input.Rol)
	if !ok {
		return nil, apierrors.NewBadRequestError(fmt.Sprintf("rol inválido: %s", input.Rol), nil)
	}

	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, apierrors.NewBadRequestError(apierrors.MsgUserExists, apierrors.ErrDuplicate)
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, apierrors.NewInternalServerError("", err)
	}

	hash, err := security.HashPassword(input.Password, s.opts.BcryptCost)
	if err != nil {
		return nil, apierrors.NewInternalServerError("", err)
	}

	user := &model.User{
		Nombre:   input.Nombre,
		Username: username,
		Password: hash,
		Rol:      rol,
		Area:     input.Area,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// corrida entre a verificação e o insert cai no índice único
		if errors.Is(err, repository.ErrUserExists) {
			return nil, apierrors.NewBadRequestError(apierrors.MsgUserExists, apierrors.ErrDuplicate)
		}
		return nil, apierrors.NewInternalServerError("", err)
	}

	s.logger.Info("Usuário registrado", zap.Uint("user_id", user.ID), zap.String("username", username))
	return user.Public(), nil
}

// GetProfile retorna o usuário sem a senha, ou nil quando não existe
func (s *AuthService) GetProfile(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user.Public(), nil
}

// ValidateToken verifica assinatura, algoritmo, validade e revogação
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*security.Claims, error) {
	claims, err := s.keyManager.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.ID != "" {
		var revoked bool
		found, err := s.revoked.Get(ctx, cache.RevokedTokenKey(claims.ID), &revoked)
		if err != nil {
			// cache indisponível não derruba a autenticação
			s.logger.Warn("falha ao consultar revogação de token", zap.Error(err))
		} else if found && revoked {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

// Logout revoga o token até o seu próprio vencimento
func (s *AuthService) Logout(ctx context.Context, claims *security.Claims) error {
	if claims == nil || claims.ID == "" {
		return apierrors.NewUnauthorizedError(apierrors.MsgTokenInvalid, nil)
	}

	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}

	if err := s.revoked.Set(ctx, cache.RevokedTokenKey(claims.ID), true, ttl); err != nil {
		return apierrors.NewInternalServerError("", err)
	}
	s.logger.Info("Token revogado", zap.String("subject", claims.Subject), zap.Duration("ttl", ttl))
	return nil
}

// ListUsers retorna todos os usuários sem senha
func (s *AuthService) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, apierrors.NewInternalServerError("", err)
	}
	out := make([]*model.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

// UpdateUser aplica a atualização parcial. Nova senha é gravada em hash.
func (s *AuthService) UpdateUser(ctx context.Context, id uint, update UserUpdate) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apierrors.NewNotFoundError("Usuario no encontrado", err)
		}
		return nil, apierrors.NewInternalServerError("", err)
	}

	if update.Nombre != nil {
		user.Nombre = *update.Nombre
	}
	if update.Username != nil && *update.Username != user.Username {
		username := strings.TrimSpace(*update.Username)
		if username == "" {
			return nil, apierrors.NewBadRequestError("username no puede estar vacío", nil)
		}
		user.Username = username
	}
	if update.Rol != nil {
		rol, ok := model.ParseRol(*update.Rol)
		if !ok {
			return nil, apierrors.NewBadRequestError(fmt.Sprintf("rol inválido: %s", *update.Rol), nil)
		}
		user.Rol = rol
	}
	if update.Area != nil {
		user.Area = *update.Area
	}
	if update.Password != nil && *update.Password != "" {
		hash, err := security.HashPassword(*update.Password, s.opts.BcryptCost)
		if err != nil {
			return nil, apierrors.NewInternalServerError("", err)
		}
		user.Password = hash
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserExists):
			return nil, apierrors.NewBadRequestError(apierrors.MsgUserExists, apierrors.ErrDuplicate)
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, apierrors.NewNotFoundError("Usuario no encontrado", err)
		}
		return nil, apierrors.NewInternalServerError("", err)
	}
	return user.Public(), nil
}

// DeleteUser remove o usuário; as operações dele permanecem
func (s *AuthService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.users.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apierrors.NewNotFoundError("Usuario no encontrado", err)
		}
		return apierrors.NewInternalServerError("", err)
	}
	s.logger.Info("Usuário removido", zap.Uint("user_id", id))
	return nil
}
