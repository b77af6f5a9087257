package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/streamvault/streamvault/internal/domain"
	httpapi "github.com/streamvault/streamvault/internal/http"
	"github.com/streamvault/streamvault/internal/service"
	"github.com/streamvault/streamvault/internal/store"
	"github.com/streamvault/streamvault/internal/store/drivers/sqlite"
	"github.com/streamvault/streamvault/pkg/httpx"
	"github.com/streamvault/streamvault/pkg/jwtx"
)

const testSecret = "handler-test-secret"

type testEnv struct {
	router *httpapi.Router
	store  store.Store
	users  *service.UserService

	reqCount int
}

func newTestEnv(t *testing.T, mutate func(*httpapi.Router)) *testEnv {
	t.Helper()

	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	key, err := jwtx.NewHMACKey(testSecret)
	require.NoError(t, err)
	codec, err := jwtx.NewCodec(key, "streamvault", time.Minute)
	require.NoError(t, err)

	refresh := &service.RefreshTokenService{Store: s, TTL: time.Hour}
	auth := &service.AuthService{
		Store:     s,
		Codec:     codec,
		Refresh:   refresh,
		TokenType: "Bearer",
	}

	router := httpapi.NewRouter(
		"test",
		s,
		slog.New(slog.DiscardHandler),
		httpapi.AuthnConfig{
			Codec:       codec,
			Header:      "Authorization",
			Prefix:      "Bearer",
			CookieName:  "access_token",
			ExemptPaths: []string{"/auth/", "/livez", "/readyz"},
		},
		httpx.CORSConfig{
			AllowedOrigins: []string{"https://app.example.com"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
		},
		httpapi.CookieConfig{},
	)
	router.AuthService = auth
	router.ShowsService = &service.ShowsService{Store: s}
	if mutate != nil {
		mutate(router)
	}
	router.ApplyRoutes()

	return &testEnv{
		router: router,
		store:  s,
		users:  &service.UserService{Store: s},
	}
}

func (e *testEnv) seedUser(t *testing.T, username, password string, mutate func(*domain.User)) domain.User {
	t.Helper()

	u := domain.User{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: "Test",
		LastName:  "User",
		UserType:  domain.UserTypeUserAccount,
		Roles:     []string{domain.RoleUser},
		Enabled:   true,
	}
	if mutate != nil {
		mutate(&u)
	}

	created, err := e.users.Register(t.Context(), u, password)
	require.NoError(t, err)
	return created
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	// Unique client IP per request so per-IP rate limits stay out of the way.
	e.reqCount++
	req.RemoteAddr = fmt.Sprintf("10.1.%d.%d:1234", e.reqCount/200, e.reqCount%200)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func envelopeOf(t *testing.T, rec *httptest.ResponseRecorder) httpx.Envelope {
	t.Helper()

	var env httpx.Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func (e *testEnv) login(t *testing.T, username, password string) map[string]any {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/auth/login", "",
		map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := envelopeOf(t, rec)
	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	return data
}

func TestLoginSuccess(t *testing.T) {
	e := newTestEnv(t, nil)
	e.seedUser(t, "alice", "hunter22", nil)

	rec := e.do(t, http.MethodPost, "/auth/login", "",
		map[string]string{"username": "alice", "password": "hunter22"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := envelopeOf(t, rec)
	require.Equal(t, "Login successful", env.Message)
	require.Empty(t, env.Error)
	require.Equal(t, "/auth/login", env.Path)

	data := env.Data.(map[string]any)
	require.NotEmpty(t, data["accessToken"])
	require.NotEmpty(t, data["refreshToken"])
	require.Equal(t, "Bearer", data["tokenType"])

	exp, err := time.Parse(httpx.InstantLayout, data["expirationDate"].(string))
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)
}

func TestLoginValidationAndFailures(t *testing.T) {
	e := newTestEnv(t, nil)
	past := time.Now().Add(-time.Hour)
	e.seedUser(t, "alice", "hunter22", nil)
	e.seedUser(t, "disabled", "pw", func(u *domain.User) { u.Enabled = false })
	e.seedUser(t, "locked", "pw", func(u *domain.User) { u.Locked = true })
	e.seedUser(t, "stale", "pw", func(u *domain.User) { u.AccountExpiresAt = &past })

	t.Run("empty fields", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/auth/login", "",
			map[string]string{"username": "alice", "password": ""})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Invalid Request", envelopeOf(t, rec).Error)
	})

	cases := []struct {
		name, username, password, message string
	}{
		{"wrong password", "alice", "nope", "Invalid username or password"},
		{"unknown user", "nobody", "pw", "Invalid username or password"},
		{"disabled account", "disabled", "pw", "User account is disabled"},
		{"locked account", "locked", "pw", "User account is locked"},
		{"expired account", "stale", "pw", "User account has expired"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := e.do(t, http.MethodPost, "/auth/login", "",
				map[string]string{"username": tc.username, "password": tc.password})
			require.Equal(t, http.StatusUnauthorized, rec.Code)

			env := envelopeOf(t, rec)
			require.Equal(t, "Unauthorized", env.Error)
			require.Equal(t, tc.message, env.Message)
		})
	}
}

func TestContentTypeGuardRunsBeforeAuth(t *testing.T) {
	e := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/netflix-shows",
		bytes.NewBufferString("title=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	// No Authorization header: the 415 must win over the 401.
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	require.Equal(t, "Unsupported Media Type", envelopeOf(t, rec).Error)
}

func TestExemptPathsSkipAuthentication(t *testing.T) {
	e := newTestEnv(t, nil)

	rec := e.do(t, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Even a garbage token on an exempt path is ignored.
	rec = e.do(t, http.MethodGet, "/livez", "not-a-jwt", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthnFailureMessages(t *testing.T) {
	e := newTestEnv(t, nil)
	e.seedUser(t, "alice", "hunter22", nil)

	signed := func(secret string, exp time.Time) string {
		cl := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			Issuer:    "streamvault",
			ExpiresAt: jwt.NewNumericDate(exp),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}

	cases := []struct {
		name, token, message string
	}{
		{"missing token", "", "JWT token is missing or invalid"},
		{"malformed token", "not-a-jwt", "Malformed or unsupported JWT token"},
		{"expired token", signed(testSecret, time.Now().Add(-time.Hour)), "Token has expired"},
		{"bad signature", signed("other-secret", time.Now().Add(time.Hour)), "Invalid token signature"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := e.do(t, http.MethodGet, "/api/v1/netflix-shows", tc.token, nil)
			require.Equal(t, http.StatusUnauthorized, rec.Code)

			env := envelopeOf(t, rec)
			require.Equal(t, "Unauthorized request", env.Error)
			require.Equal(t, tc.message, env.Message)
		})
	}
}

func TestShowsRequireRole(t *testing.T) {
	e := newTestEnv(t, nil)
	e.seedUser(t, "norole", "pw", func(u *domain.User) { u.Roles = nil })

	token := e.login(t, "norole", "pw")["accessToken"].(string)

	rec := e.do(t, http.MethodGet, "/api/v1/netflix-shows", token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Access Denied", envelopeOf(t, rec).Error)
}

func TestShowsCRUD(t *testing.T) {
	e := newTestEnv(t, nil)
	e.seedUser(t, "alice", "hunter22", nil)
	token := e.login(t, "alice", "hunter22")["accessToken"].(string)

	// Empty catalog is a 404.
	rec := e.do(t, http.MethodGet, "/api/v1/netflix-shows", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Record not found", envelopeOf(t, rec).Message)

	// Create without a title fails.
	rec = e.do(t, http.MethodPost, "/api/v1/netflix-shows", token,
		map[string]any{"showType": "Movie", "title": "  "})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Create.
	rec = e.do(t, http.MethodPost, "/api/v1/netflix-shows", token, map[string]any{
		"showType":    "TV Show",
		"title":       "Mindhunter",
		"director":    "David Fincher",
		"releaseYear": 2017,
		"listedIn":    "Crime TV Shows",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	env := envelopeOf(t, rec)
	require.Equal(t, "Show created successfully", env.Message)
	created := env.Data.(map[string]any)
	require.Equal(t, "alice", created["createdBy"])
	id := int64(created["id"].(float64))

	// Get.
	rec = e.do(t, http.MethodGet, fmt.Sprintf("/api/v1/netflix-shows/%d", id), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := envelopeOf(t, rec).Data.(map[string]any)
	require.Equal(t, "Mindhunter", got["title"])
	require.Equal(t, "TV Show", got["showType"])

	// List now has one entry.
	rec = e.do(t, http.MethodGet, "/api/v1/netflix-shows", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Update.
	rec = e.do(t, http.MethodPut, fmt.Sprintf("/api/v1/netflix-shows/%d", id), token,
		map[string]any{
			"showType":    "TV Show",
			"title":       "Mindhunter (S1)",
			"releaseYear": 2017,
		})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := envelopeOf(t, rec).Data.(map[string]any)
	require.Equal(t, "Mindhunter (S1)", updated["title"])
	require.Equal(t, "alice", updated["updatedBy"])

	// Delete, then reads report 404.
	rec = e.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/netflix-shows/%d", id), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodGet, fmt.Sprintf("/api/v1/netflix-shows/%d", id), token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Record not found", envelopeOf(t, rec).Message)

	// Bad id.
	rec = e.do(t, http.MethodGet, "/api/v1/netflix-shows/banana", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshTokenFlow(t *testing.T) {
	e := newTestEnv(t, nil)
	e.seedUser(t, "alice", "hunter22", nil)
	first := e.login(t, "alice", "hunter22")

	// Redeem.
	rec := e.do(t, http.MethodPost, "/auth/refresh-token", "",
		map[string]string{"refreshToken": first["refreshToken"].(string)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := envelopeOf(t, rec)
	require.Equal(t, "Refresh token successful", env.Message)
	next := env.Data.(map[string]any)
	require.NotEqual(t, first["refreshToken"], next["refreshToken"])

	// The consumed token fails exactly like an unknown one.
	replay := e.do(t, http.MethodPost, "/auth/refresh-token", "",
		map[string]string{"refreshToken": first["refreshToken"].(string)})
	unknown := e.do(t, http.MethodPost, "/auth/refresh-token", "",
		map[string]string{"refreshToken": "no-such-token"})

	require.Equal(t, http.StatusBadRequest, replay.Code)
	require.Equal(t, http.StatusBadRequest, unknown.Code)

	replayEnv, unknownEnv := envelopeOf(t, replay), envelopeOf(t, unknown)
	require.Equal(t, "Invalid Refresh Token", replayEnv.Error)
	require.Equal(t, replayEnv.Error, unknownEnv.Error)
	require.Equal(t, replayEnv.Message, unknownEnv.Message)

	// Empty body field.
	rec = e.do(t, http.MethodPost, "/auth/refresh-token", "",
		map[string]string{"refreshToken": ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid Request", envelopeOf(t, rec).Error)
}

func TestSecondLoginInvalidatesFirstRefreshToken(t *testing.T) {
	e := newTestEnv(t, nil)
	e.seedUser(t, "alice", "hunter22", nil)

	first := e.login(t, "alice", "hunter22")
	second := e.login(t, "alice", "hunter22")
	require.NotEqual(t, first["refreshToken"], second["refreshToken"])

	rec := e.do(t, http.MethodPost, "/auth/refresh-token", "",
		map[string]string{"refreshToken": first["refreshToken"].(string)})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid Refresh Token", envelopeOf(t, rec).Error)
}

func TestCORSRejectionBeforeAuth(t *testing.T) {
	e := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/netflix-shows", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	env := envelopeOf(t, rec)
	require.Equal(t, "CORS Rejected", env.Error)
	require.Equal(t, "CORS policy: Origin not allowed by configuration.", env.Message)
}

func TestCookieResponseMode(t *testing.T) {
	e := newTestEnv(t, func(r *httpapi.Router) {
		r.Cookie = httpapi.CookieConfig{
			Enabled:  true,
			Name:     "access_token",
			Path:     "/",
			MaxAge:   time.Minute,
			HTTPOnly: true,
			SameSite: http.SameSiteLaxMode,
		}
	})
	e.seedUser(t, "alice", "hunter22", nil)

	rec := e.do(t, http.MethodPost, "/auth/login", "",
		map[string]string{"username": "alice", "password": "hunter22"})
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	require.Equal(t, "access_token", c.Name)
	require.NotEmpty(t, c.Value)
	require.True(t, c.HttpOnly)

	// The cookie alone authenticates a request, no header needed.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/netflix-shows", nil)
	req.AddCookie(c)
	out := httptest.NewRecorder()
	e.router.ServeHTTP(out, req)
	require.Equal(t, http.StatusNotFound, out.Code) // empty catalog, but authenticated
}
