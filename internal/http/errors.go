package http

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Códigos de error expuestos por el API. Los nombres son parte del
// contrato con el cliente y no deben cambiar.
const (
	CodeMissingFields       = "MISSING_REQUIRED_FIELDS"
	CodePasswordTooShort    = "PASSWORD_TOO_SHORT"
	CodeUserAlreadyExists   = "USER_ALREADY_EXISTS"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeAuthTokenMissing    = "AUTH_TOKEN_MISSING"
	CodeAuthTokenInvalid    = "AUTH_TOKEN_INVALID"
	CodeAuthUserNotFound    = "AUTH_USER_NOT_FOUND"
	CodeUnauthorizedUpdate  = "UNAUTHORIZED_UPDATE"
	CodeNoUpdateFields      = "NO_UPDATE_FIELDS"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeInvalidImpactPoints = "INVALID_IMPACT_POINTS"
	CodeInternalServerError = "INTERNAL_SERVER_ERROR"
)

// ErrorEnvelope es la forma uniforme de todo cuerpo de error. Los nombres
// de campo deben reproducirse byte a byte por compatibilidad de clientes.
type ErrorEnvelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
	Details   any    `json:"details,omitempty"`
	Timestamp string `json:"timestamp"`
}

func newErrorEnvelope(message, code string) ErrorEnvelope {
	return ErrorEnvelope{
		Success:   false,
		Message:   message,
		ErrorCode: code,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// respondError escribe el envelope sin diagnóstico.
func respondError(c *gin.Context, status int, message, code string) {
	c.JSON(status, newErrorEnvelope(message, code))
}

// abortError corta la cadena de middlewares con el envelope.
func abortError(c *gin.Context, status int, message, code string) {
	c.AbortWithStatusJSON(status, newErrorEnvelope(message, code))
}

// respondInternalError mapea fallas inesperadas a 500. El detalle del error
// solo se expone con debug habilitado; en producción queda redactado.
func respondInternalError(c *gin.Context, err error, debug bool) {
	env := newErrorEnvelope("Internal server error", CodeInternalServerError)
	if debug && err != nil {
		env.Details = gin.H{"message": err.Error()}
	}
	c.JSON(500, env)
}
