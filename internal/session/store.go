package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"

	"go.uber.org/zap"

	"ecotrack/internal/domain"
)

// Store es el contenedor de estado de sesión del cliente. Las operaciones
// corren como tareas independientes contra un único State compartido; cada
// transición se aplica bajo lock.
type Store struct {
	mu          sync.Mutex
	state       State
	client      *Client
	logger      *zap.Logger
	persistPath string
}

// persistedState es el subconjunto que sobrevive reinicios: usuario y
// token, nunca los flags. Authenticated vuelve a true recién cuando
// CheckSession confirma el token contra el servidor.
type persistedState struct {
	CurrentUser *domain.UserProfile `json:"current_user"`
	Token       string              `json:"auth_token"`
}

// NewStore crea el store y rehidrata el subconjunto persistido si existe.
// persistPath vacío deshabilita la persistencia.
func NewStore(client *Client, logger *zap.Logger, persistPath string) *Store {
	s := &Store{
		client:      client,
		logger:      logger,
		persistPath: persistPath,
	}
	s.rehydrate()
	return s
}

// Snapshot devuelve una copia del estado actual.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Login autentica y actualiza el estado. Loading se limpia en toda salida.
// Logins concurrentes no se serializan: el último en completar gana.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.apply(loginStarted)

	user, token, err := s.client.Login(ctx, email, password)
	if err != nil {
		msg := "Login failed"
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		s.apply(func(st State) State { return loginFailed(st, msg) })
		return err
	}

	s.apply(func(st State) State { return loginSucceeded(st, user, token) })
	s.persist()
	return nil
}

// Register crea la cuenta y deja la sesión iniciada, igual que Login.
func (s *Store) Register(ctx context.Context, email, password, name, location string) error {
	s.apply(loginStarted)

	user, token, err := s.client.Register(ctx, email, password, name, location)
	if err != nil {
		msg := "Registration failed"
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		s.apply(func(st State) State { return loginFailed(st, msg) })
		return err
	}

	s.apply(func(st State) State { return loginSucceeded(st, user, token) })
	s.persist()
	return nil
}

// Logout es síncrono e inmediato: limpia la identidad sin tocar la red,
// antes de que resuelva cualquier request en vuelo.
func (s *Store) Logout() {
	s.apply(loggedOut)
	if s.persistPath != "" {
		if err := os.Remove(s.persistPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("remove persisted session failed", zap.Error(err))
		}
	}
}

// CheckSession revalida el token rehidratado contra el servidor. Un rechazo
// de autenticación (401/403) limpia la identidad; fallas de transporte
// dejan el estado como estaba.
func (s *Store) CheckSession(ctx context.Context) error {
	s.mu.Lock()
	token := s.state.Token
	user := s.state.CurrentUser
	s.mu.Unlock()

	if token == "" || user == nil {
		return nil
	}

	s.apply(loginStarted)
	fresh, err := s.client.GetUser(ctx, token, user.ID)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == 401 || apiErr.StatusCode == 403) {
			s.apply(sessionCheckFailed)
			s.persist()
			return err
		}
		s.apply(func(st State) State {
			st.Loading = false
			return st
		})
		return err
	}

	s.apply(func(st State) State { return sessionChecked(st, fresh) })
	s.persist()
	return nil
}

func (s *Store) apply(transition func(State) State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = transition(s.state)
}

func (s *Store) persist() {
	if s.persistPath == "" {
		return
	}
	s.mu.Lock()
	snapshot := persistedState{
		CurrentUser: s.state.CurrentUser,
		Token:       s.state.Token,
	}
	s.mu.Unlock()

	if snapshot.Token == "" && snapshot.CurrentUser == nil {
		_ = os.Remove(s.persistPath)
		return
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Warn("encode persisted session failed", zap.Error(err))
		return
	}
	if err := os.WriteFile(s.persistPath, payload, 0o600); err != nil {
		s.logger.Warn("write persisted session failed", zap.Error(err))
	}
}

func (s *Store) rehydrate() {
	if s.persistPath == "" {
		return
	}
	payload, err := os.ReadFile(s.persistPath)
	if err != nil {
		return
	}
	var saved persistedState
	if err := json.Unmarshal(payload, &saved); err != nil {
		s.logger.Warn("decode persisted session failed", zap.Error(err))
		return
	}
	s.mu.Lock()
	s.state.CurrentUser = saved.CurrentUser
	s.state.Token = saved.Token
	s.mu.Unlock()
}
