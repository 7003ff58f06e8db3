package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ecotrack/internal/domain"
)

// APIError es un error devuelto por el servidor con el envelope uniforme.
type APIError struct {
	StatusCode int
	Message    string `json:"message"`
	ErrorCode  string `json:"error_code"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.ErrorCode, e.Message)
}

// Client es el cliente HTTP del API. Cada request lleva un timeout
// explícito en vez de depender del transporte por defecto.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

const defaultTimeout = 10 * time.Second

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    timeout,
	}
}

type authResponse struct {
	domain.UserProfile
	CurrentUser *domain.UserProfile `json:"current_user"`
	AuthToken   string              `json:"auth_token"`
}

// Login autentica contra POST /api/auth/login.
func (c *Client) Login(ctx context.Context, email, password string) (domain.UserProfile, string, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return domain.UserProfile{}, "", err
	}
	if resp.CurrentUser == nil {
		return domain.UserProfile{}, "", fmt.Errorf("login response without current_user")
	}
	return *resp.CurrentUser, resp.AuthToken, nil
}

// Register crea la cuenta contra POST /api/users. La respuesta ya viene
// autenticada: proyección del usuario más auth_token.
func (c *Client) Register(ctx context.Context, email, password, name, location string) (domain.UserProfile, string, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/api/users", "", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
		"location": location,
	}, &resp)
	if err != nil {
		return domain.UserProfile{}, "", err
	}
	return resp.UserProfile, resp.AuthToken, nil
}

// GetUser lee la proyección de un usuario por id.
func (c *Client) GetUser(ctx context.Context, token, userID string) (domain.UserProfile, error) {
	var profile domain.UserProfile
	err := c.do(ctx, http.MethodGet, "/api/users/"+userID, token, nil, &profile)
	return profile, err
}

// ProfilePatch lleva solo los campos a modificar.
type ProfilePatch struct {
	Name     *string `json:"name,omitempty"`
	Location *string `json:"location,omitempty"`
}

// UpdateUser aplica un parche parcial al perfil propio.
func (c *Client) UpdateUser(ctx context.Context, token, userID string, patch ProfilePatch) (domain.UserProfile, error) {
	var profile domain.UserProfile
	err := c.do(ctx, http.MethodPatch, "/api/users/"+userID, token, patch, &profile)
	return profile, err
}

// LogActivity registra una eco-acción.
func (c *Client) LogActivity(ctx context.Context, token, userID, actionType string, impactPoints int) (domain.Activity, error) {
	var activity domain.Activity
	err := c.do(ctx, http.MethodPost, "/api/activities", token, map[string]any{
		"user_id":       userID,
		"action_type":   actionType,
		"impact_points": impactPoints,
	}, &activity)
	return activity, err
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr != nil {
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
