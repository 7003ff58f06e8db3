package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ecotrack/internal/domain"
	"ecotrack/internal/repository"
	"ecotrack/internal/service"
)

// UserHandler mantiene dependencias para endpoints de cuentas y perfiles.
type UserHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
	tokens   *service.TokenService
	debug    bool
}

// NewUserHandler crea una instancia de UserHandler con dependencias necesarias.
func NewUserHandler(logger *zap.Logger, userServ *service.UserService, tokens *service.TokenService, debug bool) *UserHandler {
	return &UserHandler{
		logger:   logger,
		userServ: userServ,
		tokens:   tokens,
		debug:    debug,
	}
}

type registerResponse struct {
	domain.UserProfile
	AuthToken string `json:"auth_token"`
}

type loginResponse struct {
	CurrentUser domain.UserProfile `json:"current_user"`
	AuthToken   string             `json:"auth_token"`
}

// Register maneja POST /api/users (y su alias POST /api/auth/signup).
func (h *UserHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Location string `json:"location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest,
			"All fields (email, password, name, location) are required", CodeMissingFields)
		return
	}

	user, err := h.userServ.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Location: req.Location,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			respondError(c, http.StatusBadRequest,
				"All fields (email, password, name, location) are required", CodeMissingFields)
		case errors.Is(err, service.ErrPasswordTooShort):
			respondError(c, http.StatusBadRequest,
				"Password must be at least 6 characters long", CodePasswordTooShort)
		case errors.Is(err, service.ErrDuplicateEmail):
			respondError(c, http.StatusBadRequest,
				"User with this email already exists", CodeUserAlreadyExists)
		default:
			h.logger.Error("register failed", zap.Error(err))
			respondInternalError(c, err, h.debug)
		}
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		h.logger.Error("token issue failed", zap.Error(err))
		respondInternalError(c, err, h.debug)
		return
	}

	c.JSON(http.StatusCreated, registerResponse{
		UserProfile: user.Profile(),
		AuthToken:   token,
	})
}

// Login maneja POST /api/auth/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Email and password are required", CodeMissingFields)
		return
	}

	user, err := h.userServ.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			respondError(c, http.StatusBadRequest, "Email and password are required", CodeMissingFields)
		case errors.Is(err, service.ErrInvalidCredentials):
			// Mismo mensaje para email desconocido y password incorrecto.
			respondError(c, http.StatusUnauthorized, "Invalid email or password", CodeInvalidCredentials)
		default:
			h.logger.Error("login failed", zap.Error(err))
			respondInternalError(c, err, h.debug)
		}
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		h.logger.Error("token issue failed", zap.Error(err))
		respondInternalError(c, err, h.debug)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		CurrentUser: user.Profile(),
		AuthToken:   token,
	})
}

// GetUser maneja GET /api/users/:user_id.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userServ.GetUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "User not found", CodeUserNotFound)
			return
		}
		h.logger.Error("get user failed", zap.Error(err))
		respondInternalError(c, err, h.debug)
		return
	}

	c.JSON(http.StatusOK, user.Profile())
}

// UpdateUser maneja PATCH /api/users/:user_id. Solo el propio usuario puede
// modificar su perfil, y solo los campos presentes en el body se aplican.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	targetID := c.Param("user_id")

	authUser, ok := CurrentUser(c)
	if !ok {
		abortError(c, http.StatusUnauthorized, "Access token required", CodeAuthTokenMissing)
		return
	}
	if authUser.ID != targetID {
		respondError(c, http.StatusForbidden, "You can only update your own profile", CodeUnauthorizedUpdate)
		return
	}

	var req struct {
		Name     *string  `json:"name"`
		Location *string  `json:"location"`
		EcoGoals []string `json:"eco_goals"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "No valid fields to update", CodeNoUpdateFields)
		return
	}

	user, err := h.userServ.UpdateProfile(c.Request.Context(), targetID, repository.UserPatch{
		Name:     req.Name,
		Location: req.Location,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoUpdateFields):
			respondError(c, http.StatusBadRequest, "No valid fields to update", CodeNoUpdateFields)
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "User not found", CodeUserNotFound)
		default:
			h.logger.Error("update user failed", zap.Error(err))
			respondInternalError(c, err, h.debug)
		}
		return
	}

	profile := user.Profile()
	if req.EcoGoals != nil {
		// El source hace eco de eco_goals del request sin persistirlos.
		profile.EcoGoals = req.EcoGoals
	}
	c.JSON(http.StatusOK, profile)
}
