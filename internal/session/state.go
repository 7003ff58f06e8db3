package session

import "ecotrack/internal/domain"

// State es el espejo cliente del estado de autenticación. Invariante:
// Authenticated == true implica CurrentUser != nil y Token != "".
type State struct {
	CurrentUser   *domain.UserProfile
	Token         string
	Authenticated bool
	Loading       bool
	ErrMessage    string
}

// Las transiciones son funciones puras sobre State: el Store las aplica
// bajo lock y las operaciones asíncronas deciden cuál corresponde. Así el
// orden y las garantías de limpieza se prueban sin red ni framework.

func loginStarted(s State) State {
	s.Loading = true
	s.ErrMessage = ""
	return s
}

func loginSucceeded(s State, user domain.UserProfile, token string) State {
	s.CurrentUser = &user
	s.Token = token
	s.Authenticated = true
	s.Loading = false
	s.ErrMessage = ""
	return s
}

// loginFailed limpia los tres campos de identidad en una sola transición.
func loginFailed(s State, msg string) State {
	s.CurrentUser = nil
	s.Token = ""
	s.Authenticated = false
	s.Loading = false
	s.ErrMessage = msg
	return s
}

func loggedOut(State) State {
	return State{}
}

func sessionChecked(s State, user domain.UserProfile) State {
	s.CurrentUser = &user
	s.Authenticated = true
	s.Loading = false
	s.ErrMessage = ""
	return s
}

// sessionCheckFailed descarta la identidad cuando el servidor rechazó el
// token. Fallas de transporte no pasan por acá: dejan el estado intacto.
func sessionCheckFailed(s State) State {
	s.CurrentUser = nil
	s.Token = ""
	s.Authenticated = false
	s.Loading = false
	return s
}
