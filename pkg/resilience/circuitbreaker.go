package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/diillson/cotizai-api/internal/infra/metrics"
	"go.uber.org/zap"
)

var (
	// ErrCircuitOpen é retornado quando o circuit breaker está aberto
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// CircuitState representa os estados possíveis do circuit breaker
type CircuitState int

const (
	StateClosed CircuitState = iota
	StateOpen
	StateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// CircuitBreakerConfig contém a configuração do circuit breaker
type CircuitBreakerConfig struct {
	Name            string
	MaxRequestsFail int           // Falhas consecutivas antes de abrir o circuito
	Timeout         time.Duration // Tempo que o circuito fica aberto antes de tentar half-open
	MaxRequests     int           // Requisições simultâneas permitidas no estado half-open
}

// CircuitBreaker implementa o pattern Circuit Breaker
type CircuitBreaker struct {
	name        string
	maxFails    int
	timeout     time.Duration
	maxRequests int

	mutex               sync.Mutex
	state               CircuitState
	failCount           int
	lastStateChangeTime time.Time
	nextAttemptTime     time.Time
	halfOpenRequests    int

	now     func() time.Time
	logger  *zap.Logger
	metrics *metrics.APIMetrics
}

// NewCircuitBreaker cria um novo circuit breaker
func NewCircuitBreaker(config CircuitBreakerConfig, logger *zap.Logger, metrics *metrics.APIMetrics) *CircuitBreaker {
	if config.MaxRequestsFail <= 0 {
		config.MaxRequestsFail = 5
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxRequests <= 0 {
		config.MaxRequests = 1
	}

	return &CircuitBreaker{
		name:                config.Name,
		maxFails:            config.MaxRequestsFail,
		timeout:             config.Timeout,
		maxRequests:         config.MaxRequests,
		state:               StateClosed,
		lastStateChangeTime: time.Now(),
		now:                 time.Now,
		logger:              logger,
		metrics:             metrics,
	}
}

// Execute executa fn sob o circuit breaker. Com o circuito aberto fn não é chamada.
func Execute[T any](ctx context.Context, cb *CircuitBreaker, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if !cb.allowRequest() {
		return zero, ErrCircuitOpen
	}

	result, err := fn(ctx)
	// cancelamento do chamador não conta como falha do serviço protegido
	cb.recordResult(err == nil || errors.Is(err, context.Canceled))
	return result, err
}

// allowRequest verifica se a requisição deve ser permitida com base no estado atual
func (cb *CircuitBreaker) allowRequest() bool {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	now := cb.now()

	switch cb.state {
	case StateClosed:
		return true

	case StateOpen:
		if !now.Before(cb.nextAttemptTime) {
			cb.toHalfOpen(now)
			cb.halfOpenRequests++
			return true
		}
		return false

	case StateHalfOpen:
		if cb.halfOpenRequests < cb.maxRequests {
			cb.halfOpenRequests++
			return true
		}
		return false
	}

	return false
}

// recordResult atualiza o estado do circuit breaker com base no resultado da requisição
func (cb *CircuitBreaker) recordResult(success bool) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	now := cb.now()

	switch cb.state {
	case StateClosed:
		if success {
			cb.failCount = 0
			return
		}
		cb.failCount++
		cb.logger.Debug("circuit breaker registrou falha",
			zap.String("name", cb.name),
			zap.Int("failCount", cb.failCount),
			zap.Int("maxFails", cb.maxFails))
		if cb.failCount >= cb.maxFails {
			cb.toOpen(now)
		}

	case StateHalfOpen:
		if success {
			cb.toClosed(now)
		} else {
			cb.toOpen(now)
		}
	}
}

func (cb *CircuitBreaker) toOpen(now time.Time) {
	cb.state = StateOpen
	cb.lastStateChangeTime = now
	cb.nextAttemptTime = now.Add(cb.timeout)
	cb.halfOpenRequests = 0
	cb.metrics.CircuitBreakerStateChanged(cb.name, true)

	cb.logger.Warn("circuit breaker mudou para estado aberto",
		zap.String("name", cb.name),
		zap.Time("nextAttempt", cb.nextAttemptTime))
}

func (cb *CircuitBreaker) toHalfOpen(now time.Time) {
	cb.state = StateHalfOpen
	cb.lastStateChangeTime = now
	cb.halfOpenRequests = 0
	cb.logger.Info("circuit breaker mudou para estado meio-aberto", zap.String("name", cb.name))
}

func (cb *CircuitBreaker) toClosed(now time.Time) {
	cb.state = StateClosed
	cb.lastStateChangeTime = now
	cb.failCount = 0
	cb.halfOpenRequests = 0
	cb.metrics.CircuitBreakerStateChanged(cb.name, false)

	cb.logger.Info("circuit breaker mudou para estado fechado", zap.String("name", cb.name))
}

// State retorna o estado atual do circuit breaker
func (cb *CircuitBreaker) State() CircuitState {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.state
}

// Reset reseta o circuit breaker para o estado fechado
func (cb *CircuitBreaker) Reset() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	cb.toClosed(cb.now())
}
