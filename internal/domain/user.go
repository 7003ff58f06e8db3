package domain

import "time"

// User representa una cuenta registrada. PasswordHash nunca sale por el wire.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	CreatedAt    time.Time `json:"created_at"`
	IsActive     bool      `json:"is_active"`
}

// UserProfile es la proyección pública de un usuario. Los campos de
// colecciones son salida fija de colaboradores externos: se emiten
// vacíos y ningún subsistema los calcula.
type UserProfile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
	IsActive     bool      `json:"is_active"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	EcoGoals     []string  `json:"eco_goals"`
	ImpactScore  int       `json:"impact_score"`
	Achievements []string  `json:"achievements"`
	Challenges   []string  `json:"challenges"`
	Reports      []string  `json:"reports"`
}

// Profile construye la proyección pública del usuario.
func (u User) Profile() UserProfile {
	return UserProfile{
		ID:           u.ID,
		Email:        u.Email,
		CreatedAt:    u.CreatedAt,
		IsActive:     u.IsActive,
		Name:         u.Name,
		Location:     u.Location,
		EcoGoals:     []string{},
		ImpactScore:  0,
		Achievements: []string{},
		Challenges:   []string{},
		Reports:      []string{},
	}
}
