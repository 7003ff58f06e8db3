package session

// Decision es el resultado de evaluar una navegación: renderizar,
// esperar a que termine una operación de sesión, o redirigir.
type Decision struct {
	Allow      bool
	Pending    bool
	RedirectTo string
}

// signUpPath es el destino de redirección para vistas protegidas sin sesión.
const signUpPath = "/sign-up"

// protectedPaths replica la tabla de rutas protegidas de la SPA.
var protectedPaths = map[string]bool{
	"/dashboard":        true,
	"/activity-log":     true,
	"/impact-dashboard": true,
	"/profile":          true,
}

// Guard decide navegación en base al estado del Store.
type Guard struct {
	store *Store
}

func NewGuard(store *Store) *Guard {
	return &Guard{store: store}
}

// Decide evalúa una ruta contra el estado de sesión actual.
func (g *Guard) Decide(path string) Decision {
	if !protectedPaths[path] {
		return Decision{Allow: true}
	}

	st := g.store.Snapshot()
	if st.Loading {
		return Decision{Pending: true}
	}
	if !st.Authenticated {
		return Decision{RedirectTo: signUpPath}
	}
	return Decision{Allow: true}
}
