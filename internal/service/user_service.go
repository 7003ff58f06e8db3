package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"ecotrack/internal/domain"
	"ecotrack/internal/repository"
)

// UserService coordina reglas de negocio para usuarios.
type UserService struct {
	logger     *zap.Logger
	users      repository.UserRepository
	bcryptCost int
}

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrDuplicateEmail     = repository.ErrDuplicateEmail
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoUpdateFields     = errors.New("no update fields")
)

const minPasswordLength = 6

// dummyHash se compara cuando el email no existe, para que login con email
// desconocido y login con password incorrecto tengan el mismo perfil de costo.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("ecotrack-timing-pad"), bcrypt.MinCost)

func NewUserService(logger *zap.Logger, users repository.UserRepository, bcryptCost int) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		logger:     logger,
		users:      users,
		bcryptCost: bcryptCost,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Location string
}

// Register valida la entrada, digiere el secreto y persiste el usuario.
// La unicidad del email la garantiza la restricción en el store: el
// conflicto de escritura es la señal de duplicado, no un pre-chequeo.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	email := repository.NormalizeEmail(input.Email)
	password := input.Password
	name := strings.TrimSpace(input.Name)
	location := strings.TrimSpace(input.Location)

	if email == "" || password == "" || name == "" || location == "" {
		return domain.User{}, ErrMissingFields
	}
	if len(password) < minPasswordLength {
		return domain.User{}, ErrPasswordTooShort
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashBytes),
		Name:         name,
		Location:     location,
		CreatedAt:    time.Now().UTC(),
		IsActive:     true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return domain.User{}, ErrDuplicateEmail
		}
		return domain.User{}, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// Authenticate verifica el secreto contra el digest almacenado. Email
// desconocido y password incorrecto devuelven el mismo error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	email = repository.NormalizeEmail(email)
	if email == "" || password == "" {
		return domain.User{}, ErrMissingFields
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// UpdateProfile aplica un parche parcial de name/location. Campos ausentes
// quedan intactos.
func (s *UserService) UpdateProfile(ctx context.Context, id string, patch repository.UserPatch) (domain.User, error) {
	user, err := s.users.Update(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmptyPatch):
			return domain.User{}, ErrNoUpdateFields
		case errors.Is(err, pgx.ErrNoRows):
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	s.logger.Info("profile updated", zap.String("user_id", id))
	return user, nil
}
