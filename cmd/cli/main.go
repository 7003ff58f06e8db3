package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"ecotrack/internal/session"
)

// CLI de prueba contra un servidor corriendo: ejercita el store de sesión
// del cliente (login, logout, checkSession, guard) desde la terminal.
func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	logger := zap.NewExample()
	defer logger.Sync()

	home, _ := os.UserHomeDir()
	persistPath := filepath.Join(home, ".ecotrack-session.json")

	client := session.NewClient(baseURL, 10*time.Second)
	store := session.NewStore(client, logger, persistPath)
	guard := session.NewGuard(store)

	if st := store.Snapshot(); st.Token != "" {
		fmt.Println("Sesión persistida encontrada, revalidando...")
		if err := store.CheckSession(ctx); err != nil {
			fmt.Printf("Revalidación falló: %v\n", err)
		}
	}

	for {
		st := store.Snapshot()
		if st.Authenticated {
			fmt.Printf("\n--- Sesión: %s ---\n", st.CurrentUser.Email)
		} else {
			fmt.Println("\n--- Sin sesión ---")
		}
		fmt.Println("[1] Registrarse")
		fmt.Println("[2] Login")
		fmt.Println("[3] Quién soy (checkSession)")
		fmt.Println("[4] Actualizar perfil")
		fmt.Println("[5] Registrar eco-acción")
		fmt.Println("[6] Probar guard de rutas")
		fmt.Println("[7] Logout")
		fmt.Println("[8] Salir")
		fmt.Print("Selecciona una opción: ")

		line, _ := reader.ReadString('\n')
		switch strings.TrimSpace(line) {
		case "1":
			registerFlow(ctx, reader, store)
		case "2":
			loginFlow(ctx, reader, store)
		case "3":
			whoamiFlow(ctx, store)
		case "4":
			updateFlow(ctx, reader, store, client)
		case "5":
			activityFlow(ctx, reader, store, client)
		case "6":
			guardFlow(reader, guard)
		case "7":
			store.Logout()
			fmt.Println("Sesión cerrada.")
		case "8":
			os.Exit(0)
		default:
			fmt.Println("Opción inválida.")
		}
	}
}

func readLine(reader *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func registerFlow(ctx context.Context, reader *bufio.Reader, store *session.Store) {
	email := readLine(reader, "Email: ")
	password := readLine(reader, "Password: ")
	name := readLine(reader, "Nombre: ")
	location := readLine(reader, "Ubicación: ")

	if err := store.Register(ctx, email, password, name, location); err != nil {
		fmt.Printf("Registro falló: %v\n", err)
		return
	}
	fmt.Println("Cuenta creada y sesión iniciada.")
}

func loginFlow(ctx context.Context, reader *bufio.Reader, store *session.Store) {
	email := readLine(reader, "Email: ")
	password := readLine(reader, "Password: ")

	if err := store.Login(ctx, email, password); err != nil {
		fmt.Printf("Login falló: %v\n", err)
		return
	}
	fmt.Println("Sesión iniciada.")
}

func whoamiFlow(ctx context.Context, store *session.Store) {
	if err := store.CheckSession(ctx); err != nil {
		fmt.Printf("checkSession falló: %v\n", err)
		return
	}
	st := store.Snapshot()
	if st.CurrentUser == nil {
		fmt.Println("No hay sesión activa.")
		return
	}
	fmt.Printf("Usuario: %s (%s), %s\n", st.CurrentUser.Name, st.CurrentUser.Email, st.CurrentUser.Location)
}

func updateFlow(ctx context.Context, reader *bufio.Reader, store *session.Store, client *session.Client) {
	st := store.Snapshot()
	if !st.Authenticated {
		fmt.Println("Iniciá sesión primero.")
		return
	}

	var patch session.ProfilePatch
	if name := readLine(reader, "Nuevo nombre (vacío para no cambiar): "); name != "" {
		patch.Name = &name
	}
	if location := readLine(reader, "Nueva ubicación (vacío para no cambiar): "); location != "" {
		patch.Location = &location
	}

	profile, err := client.UpdateUser(ctx, st.Token, st.CurrentUser.ID, patch)
	if err != nil {
		fmt.Printf("Update falló: %v\n", err)
		return
	}
	fmt.Printf("Perfil actualizado: %s, %s\n", profile.Name, profile.Location)
}

func activityFlow(ctx context.Context, reader *bufio.Reader, store *session.Store, client *session.Client) {
	st := store.Snapshot()
	if !st.Authenticated {
		fmt.Println("Iniciá sesión primero.")
		return
	}

	actionType := readLine(reader, "Tipo de acción (ej: recycling): ")
	points, err := strconv.Atoi(readLine(reader, "Puntos de impacto: "))
	if err != nil {
		fmt.Println("Puntos inválidos.")
		return
	}

	activity, err := client.LogActivity(ctx, st.Token, st.CurrentUser.ID, actionType, points)
	if err != nil {
		fmt.Printf("Registro falló: %v\n", err)
		return
	}
	fmt.Printf("Acción registrada: %s (%d puntos) a las %s\n", activity.ActionType, activity.ImpactPoints, activity.Timestamp)
}

func guardFlow(reader *bufio.Reader, guard *session.Guard) {
	path := readLine(reader, "Ruta a navegar (ej: /dashboard): ")
	decision := guard.Decide(path)
	switch {
	case decision.Pending:
		fmt.Println("Sesión cargando: esperar.")
	case decision.RedirectTo != "":
		fmt.Printf("Redirigir a %s\n", decision.RedirectTo)
	default:
		fmt.Println("Navegación permitida.")
	}
}
