package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Tipos de erro comuns
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrUnauthorized   = errors.New("no autorizado")
	ErrForbidden      = errors.New("acceso denegado")
	ErrInternalServer = errors.New("error interno del servidor")
	ErrDuplicate      = errors.New("recurso ya existe")
)

// Mensagens fixas expostas aos clientes
const (
	MsgTokenRequired   = "Token de autenticación requerido"
	MsgTokenInvalid    = "Token inválido"
	MsgBadCredentials  = "Credenciales inválidas"
	MsgAdminRequired   = "Acceso denegado. Se requieren permisos de administrador."
	MsgInternal        = "Error interno del servidor"
	MsgAnalysisFailure = "Error interno del servidor al analizar la página web"
	MsgUserExists      = "El usuario ya existe"
)

// APIError representa um erro da API com o status HTTP correspondente
type APIError struct {
	Code        int         `json:"-"`
	Message     string      `json:"message"`
	Details     interface{} `json:"details,omitempty"`
	OriginalErr error       `json:"-"`
}

// Error implementa a interface error
func (e *APIError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.OriginalErr)
	}
	return e.Message
}

// Unwrap permite usar errors.Is e errors.As
func (e *APIError) Unwrap() error {
	return e.OriginalErr
}

// New cria um novo APIError
func New(code int, message string, err error) *APIError {
	return &APIError{
		Code:        code,
		Message:     message,
		OriginalErr: err,
	}
}

// WithDetails adiciona detalhes ao erro
func (e *APIError) WithDetails(details interface{}) *APIError {
	e.Details = details
	return e
}

// NewNotFoundError cria um erro 404
func NewNotFoundError(message string, err error) *APIError {
	if message == "" {
		message = "Recurso no encontrado"
	}
	if err == nil {
		err = ErrNotFound
	}
	return New(http.StatusNotFound, message, err)
}

// NewBadRequestError cria um erro 400 (ValidationError)
func NewBadRequestError(message string, err error) *APIError {
	if err == nil {
		err = ErrInvalidInput
	}
	return New(http.StatusBadRequest, message, err)
}

// NewUnauthorizedError cria um erro 401 (AuthenticationError)
func NewUnauthorizedError(message string, err error) *APIError {
	if message == "" {
		message = MsgTokenRequired
	}
	if err == nil {
		err = ErrUnauthorized
	}
	return New(http.StatusUnauthorized, message, err)
}

// NewForbiddenError cria um erro 403 (AuthorizationError)
func NewForbiddenError(message string, err error) *APIError {
	if message == "" {
		message = MsgAdminRequired
	}
	if err == nil {
		err = ErrForbidden
	}
	return New(http.StatusForbidden, message, err)
}

// NewInternalServerError cria um erro 500 (ServerError)
func NewInternalServerError(message string, err error) *APIError {
	if message == "" {
		message = MsgInternal
	}
	if err == nil {
		err = ErrInternalServer
	}
	return New(http.StatusInternalServerError, message, err)
}

// AsAPIError extrai um APIError da cadeia de erros.
// Erros desconhecidos viram um 500 com a mensagem genérica.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewInternalServerError("", err)
}
