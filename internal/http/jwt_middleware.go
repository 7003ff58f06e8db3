package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"ecotrack/internal/domain"
	"ecotrack/internal/repository"
	"ecotrack/internal/service"
)

const currentUserKey = "current_user"

// AuthMiddleware valida el bearer token y carga el usuario en el contexto.
// La verificación del token es del TokenService; la existencia del usuario
// se confirma acá con una lectura al store por cada request protegido.
func AuthMiddleware(tokenSvc *service.TokenService, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c.GetHeader("Authorization"))
		if token == "" {
			abortError(c, http.StatusUnauthorized, "Access token required", CodeAuthTokenMissing)
			return
		}

		claims, err := tokenSvc.Verify(token)
		if err != nil {
			abortError(c, http.StatusForbidden, "Invalid or expired token", CodeAuthTokenInvalid)
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				abortError(c, http.StatusUnauthorized, "Invalid token - user not found", CodeAuthUserNotFound)
				return
			}
			abortError(c, http.StatusInternalServerError, "Internal server error", CodeInternalServerError)
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser obtiene el usuario autenticado desde el contexto.
func CurrentUser(c *gin.Context) (domain.User, bool) {
	val, ok := c.Get(currentUserKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := val.(domain.User)
	return user, ok
}

func extractBearer(header string) string {
	header = strings.TrimSpace(header)
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[len("Bearer "):])
}
