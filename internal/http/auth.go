// Package http wires the service layer to the request surface: routing,
// authentication middleware and the login, refresh, catalog and health
// handlers.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/streamvault/streamvault/internal/domain"
	"github.com/streamvault/streamvault/internal/service"
	"github.com/streamvault/streamvault/pkg/httpx"
	"github.com/streamvault/streamvault/pkg/slogx"
)

// CookieConfig controls the optional cookie copy of the access token set
// on successful login and refresh.
type CookieConfig struct {
	Enabled  bool
	Name     string
	Path     string
	MaxAge   time.Duration
	Secure   bool
	HTTPOnly bool
	SameSite http.SameSite
}

// AuthHandler serves the credential endpoints.
type AuthHandler struct {
	AuthService *service.AuthService
	Cookie      CookieConfig
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenResponse struct {
	AccessToken    string `json:"accessToken"`
	RefreshToken   string `json:"refreshToken"`
	ExpirationDate string `json:"expirationDate"`
	TokenType      string `json:"tokenType"`
}

// HandleLogin authenticates a username/password pair and returns a fresh
// token pair.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, r, http.StatusBadRequest, "Invalid Request", "Malformed request body")
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		httpx.Fail(w, r, http.StatusBadRequest, "Invalid Request", "Username and password are required")
		return
	}

	pair, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeLoginFailure(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("login succeeded", "username", req.Username)
	h.writeTokenPair(w, r, "Login successful", pair)
}

// HandleRefresh redeems an opaque refresh token for a new token pair,
// consuming the presented token.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, r, http.StatusBadRequest, "Invalid Request", "Malformed request body")
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		httpx.Fail(w, r, http.StatusBadRequest, "Invalid Request", "Refresh token is required")
		return
	}

	pair, err := h.AuthService.RefreshLogin(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			// Unknown and expired tokens are indistinguishable on purpose.
			httpx.Fail(w, r, http.StatusBadRequest, "Invalid Refresh Token", "Invalid Refresh Token")
			return
		}
		h.writeLoginFailure(w, r, err)
		return
	}

	h.writeTokenPair(w, r, "Refresh token successful", pair)
}

func (h *AuthHandler) writeTokenPair(w http.ResponseWriter, r *http.Request, message string, pair domain.TokenPair) {
	if h.Cookie.Enabled {
		http.SetCookie(w, &http.Cookie{
			Name:     h.Cookie.Name,
			Value:    pair.AccessToken,
			Path:     h.Cookie.Path,
			MaxAge:   int(h.Cookie.MaxAge.Seconds()),
			Secure:   h.Cookie.Secure,
			HttpOnly: h.Cookie.HTTPOnly,
			SameSite: h.Cookie.SameSite,
		})
	}

	httpx.OK(w, r, message, tokenResponse{
		AccessToken:    pair.AccessToken,
		RefreshToken:   pair.RefreshToken,
		ExpirationDate: httpx.Instant(pair.ExpiresAt),
		TokenType:      pair.TokenType,
	})
}

func (h *AuthHandler) writeLoginFailure(w http.ResponseWriter, r *http.Request, err error) {
	var message string
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		message = "Invalid username or password"
	case errors.Is(err, service.ErrAccountDisabled):
		message = "User account is disabled"
	case errors.Is(err, service.ErrAccountLocked):
		message = "User account is locked"
	case errors.Is(err, service.ErrAccountExpired):
		message = "User account has expired"
	case errors.Is(err, service.ErrCredentialsExpired):
		message = "User credentials have expired"
	default:
		slogx.FromContext(r.Context()).Error("authentication failed", "error", err)
		httpx.Fail(w, r, http.StatusInternalServerError,
			"Internal Server Error", "Unable to process the request")
		return
	}

	httpx.Fail(w, r, http.StatusUnauthorized, "Unauthorized", message)
}
