package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"ecotrack/internal/domain"
	"ecotrack/internal/repository"
	"ecotrack/internal/service"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	email := repository.NormalizeEmail(user.Email)
	if _, ok := m.usersByEmail[email]; ok {
		return repository.ErrDuplicateEmail
	}
	user.Email = email
	m.usersByID[user.ID] = user
	m.usersByEmail[email] = user.ID
	return nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[repository.NormalizeEmail(email)]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.usersByID[id], nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) Update(_ context.Context, id string, patch repository.UserPatch) (domain.User, error) {
	if patch.Name == nil && patch.Location == nil {
		return domain.User{}, repository.ErrEmptyPatch
	}
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Location != nil {
		user.Location = *patch.Location
	}
	m.usersByID[id] = user
	return user, nil
}

func (m *mockUserRepo) delete(id string) {
	user, ok := m.usersByID[id]
	if !ok {
		return
	}
	delete(m.usersByID, id)
	delete(m.usersByEmail, user.Email)
}

func setupRouter(repo repository.UserRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	tokenSvc := service.NewTokenService("test-secret")
	userSvc := service.NewUserService(logger, repo, bcrypt.MinCost)
	userH := NewUserHandler(logger, userSvc, tokenSvc, false)
	activityH := NewActivityHandler(logger)
	contentH := NewContentHandler(logger, "", false)
	return NewRouter(logger, RouterOptions{FrontendURL: "http://localhost:5173"},
		AuthMiddleware(tokenSvc, repo), userH, activityH, contentH)
}

func performRequest(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v (%s)", err, rec.Body.String())
	}
	return body
}

func registerUser(t *testing.T, r http.Handler, email, password, name, location string) (id, token string) {
	t.Helper()
	rec := performRequest(r, http.MethodPost, "/api/users", "", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
		"location": location,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	return body["id"].(string), body["auth_token"].(string)
}

func TestRegister_Success(t *testing.T) {
	r := setupRouter(newMockUserRepo())

	rec := performRequest(r, http.MethodPost, "/api/users", "", map[string]string{
		"email":    "a@x.com",
		"password": "secret1",
		"name":     "A",
		"location": "NYC",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["email"] != "a@x.com" {
		t.Fatalf("expected email a@x.com, got %v", body["email"])
	}
	if body["impact_score"] != float64(0) {
		t.Fatalf("expected impact_score 0, got %v", body["impact_score"])
	}
	if body["auth_token"] == "" || body["auth_token"] == nil {
		t.Fatalf("expected auth_token in response")
	}
	if _, ok := body["password"]; ok {
		t.Fatalf("credential material leaked in response")
	}
}

func TestRegister_TokenVerifiesBackToSameUser(t *testing.T) {
	r := setupRouter(newMockUserRepo())
	id, token := registerUser(t, r, "a@x.com", "secret1", "A", "NYC")

	claims, err := service.NewTokenService("test-secret").Verify(token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if claims.UserID != id {
		t.Fatalf("token user %s does not match registered %s", claims.UserID, id)
	}
}

func TestRegister_ValidationFailures(t *testing.T) {
	r := setupRouter(newMockUserRepo())

	rec := performRequest(r, http.MethodPost, "/api/users", "", map[string]string{
		"email": "a@x.com", "password": "secret1", "name": "A",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing field: expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error_code"] != CodeMissingFields {
		t.Fatalf("expected %s, got %v", CodeMissingFields, body["error_code"])
	}

	rec = performRequest(r, http.MethodPost, "/api/users", "", map[string]string{
		"email": "a@x.com", "password": "12345", "name": "A", "location": "NYC",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("short password: expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error_code"] != CodePasswordTooShort {
		t.Fatalf("expected %s, got %v", CodePasswordTooShort, body["error_code"])
	}
}

func TestRegister_DuplicateEmailConflict(t *testing.T) {
	r := setupRouter(newMockUserRepo())
	registerUser(t, r, "a@x.com", "secret1", "A", "NYC")

	rec := performRequest(r, http.MethodPost, "/api/users", "", map[string]string{
		"email": " A@X.com ", "password": "secret2", "name": "B", "location": "LA",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error_code"] != CodeUserAlreadyExists {
		t.Fatalf("expected %s, got %v", CodeUserAlreadyExists, body["error_code"])
	}
}

func TestRegister_SignupAlias(t *testing.T) {
	r := setupRouter(newMockUserRepo())

	rec := performRequest(r, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "a@x.com", "password": "secret1", "name": "A", "location": "NYC",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestLogin_SuccessAndFailureParity(t *testing.T) {
	r := setupRouter(newMockUserRepo())
	registerUser(t, r, "a@x.com", "secret1", "A", "NYC")

	rec := performRequest(r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "secret1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	currentUser, ok := body["current_user"].(map[string]any)
	if !ok || currentUser["email"] != "a@x.com" {
		t.Fatalf("expected current_user.email a@x.com, got %v", body["current_user"])
	}
	if body["auth_token"] == nil {
		t.Fatalf("expected auth_token")
	}

	recWrong := performRequest(r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "wrong-password",
	})
	recUnknown := performRequest(r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nobody@x.com", "password": "secret1",
	})
	if recWrong.Code != http.StatusUnauthorized || recUnknown.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on both, got %d and %d", recWrong.Code, recUnknown.Code)
	}
	// El mensaje debe ser idéntico: no hay oráculo de existencia de usuario.
	msgWrong := decodeBody(t, recWrong)["message"]
	msgUnknown := decodeBody(t, recUnknown)["message"]
	if msgWrong != msgUnknown {
		t.Fatalf("message mismatch: %v vs %v", msgWrong, msgUnknown)
	}
}

func TestGetUser_RequiresTokenAndReportsMissing(t *testing.T) {
	repo := newMockUserRepo()
	r := setupRouter(repo)
	id, token := registerUser(t, r, "a@x.com", "secret1", "A", "NYC")

	rec := performRequest(r, http.MethodGet, "/api/users/"+id, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["name"] != "A" || body["location"] != "NYC" {
		t.Fatalf("unexpected projection: %v", body)
	}

	rec = performRequest(r, http.MethodGet, "/api/users/ghost", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error_code"] != CodeUserNotFound {
		t.Fatalf("expected %s, got %v", CodeUserNotFound, body["error_code"])
	}
}

func TestUpdateUser_OwnerPartialPatch(t *testing.T) {
	r := setupRouter(newMockUserRepo())
	id, token := registerUser(t, r, "a@x.com", "secret1", "A", "NYC")

	rec := performRequest(r, http.MethodPatch, "/api/users/"+id, token, map[string]string{
		"location": "LA",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["location"] != "LA" {
		t.Fatalf("expected location LA, got %v", body["location"])
	}
	if body["name"] != "A" {
		t.Fatalf("expected name untouched, got %v", body["name"])
	}
}

func TestUpdateUser_ForbiddenForOtherIdentity(t *testing.T) {
	repo := newMockUserRepo()
	r := setupRouter(repo)
	id, _ := registerUser(t, r, "a@x.com", "secret1", "A", "NYC")
	_, otherToken := registerUser(t, r, "b@x.com", "secret2", "B", "SF")

	rec := performRequest(r, http.MethodPatch, "/api/users/"+id, otherToken, map[string]string{
		"name": "Hacked",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error_code"] != CodeUnauthorizedUpdate {
		t.Fatalf("expected %s, got %v", CodeUnauthorizedUpdate, body["error_code"])
	}

	// Sin mutación: el nombre original sigue.
	user, err := repo.GetByID(context.Background(), id)
	if err != nil || user.Name != "A" {
		t.Fatalf("expected name A untouched, got %q (%v)", user.Name, err)
	}
}

func TestUpdateUser_NoFields(t *testing.T) {
	r := setupRouter(newMockUserRepo())
	id, token := registerUser(t, r, "a@x.com", "secret1", "A", "NYC")

	rec := performRequest(r, http.MethodPatch, "/api/users/"+id, token, map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error_code"] != CodeNoUpdateFields {
		t.Fatalf("expected %s, got %v", CodeNoUpdateFields, body["error_code"])
	}
}

func TestErrorEnvelope_FieldNames(t *testing.T) {
	r := setupRouter(newMockUserRepo())

	rec := performRequest(r, http.MethodGet, "/api/dashboard", "", nil)
	body := decodeBody(t, rec)

	if body["success"] != false {
		t.Fatalf("expected success false, got %v", body["success"])
	}
	for _, field := range []string{"message", "error_code", "timestamp"} {
		if _, ok := body[field]; !ok {
			t.Fatalf("envelope missing field %q: %s", field, rec.Body.String())
		}
	}
}
