package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"ecotrack/internal/domain"
)

// ErrDuplicateEmail indica que la restricción de unicidad de email rechazó el insert.
var ErrDuplicateEmail = errors.New("duplicate email")

// ErrEmptyPatch indica un update sin campos presentes.
var ErrEmptyPatch = errors.New("empty patch")

// UserPatch es un parche disperso: solo los campos no-nil se aplican.
type UserPatch struct {
	Name     *string
	Location *string
}

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	Update(ctx context.Context, id string, patch UserPatch) (domain.User, error)
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = "id, email, password_hash, name, location, created_at, is_active"

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, email, password_hash, name, location, created_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		NormalizeEmail(user.Email),
		user.PasswordHash,
		user.Name,
		user.Location,
		user.CreatedAt,
		user.IsActive,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, NormalizeEmail(email)))
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

// Update aplica un parche disperso. Los nombres de columna están fijos en
// código: el input solo aporta valores, nunca identificadores SQL.
func (r *PgUserRepository) Update(ctx context.Context, id string, patch UserPatch) (domain.User, error) {
	sets := make([]string, 0, 2)
	args := make([]any, 0, 3)

	if patch.Name != nil {
		args = append(args, *patch.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if patch.Location != nil {
		args = append(args, *patch.Location)
		sets = append(sets, fmt.Sprintf("location = $%d", len(args)))
	}
	if len(sets) == 0 {
		return domain.User{}, ErrEmptyPatch
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE users SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), userColumns,
	)
	return r.scanUser(r.pool.QueryRow(ctx, query, args...))
}

func (r *PgUserRepository) scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Location,
		&u.CreatedAt,
		&u.IsActive,
	)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// NormalizeEmail aplica la comparación canónica de emails: minúsculas y sin
// espacios alrededor.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
