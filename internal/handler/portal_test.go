package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brixwork/portal-server/internal/credential"
	"github.com/brixwork/portal-server/internal/middleware"
	"github.com/brixwork/portal-server/internal/model"
	"github.com/brixwork/portal-server/internal/service"
)

// In-memory repo fakes so the login flow can run end to end over httptest.

type fakeContactRepo struct {
	mu       sync.Mutex
	contacts map[string]*model.Contact // keyed by id
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{contacts: make(map[string]*model.Contact)}
}

func (f *fakeContactRepo) FindByID(ctx context.Context, id string) (*model.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.contacts[id], nil
}

func (f *fakeContactRepo) FindByEmail(ctx context.Context, email string) (*model.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.contacts {
		if c.Email != nil && *c.Email == email {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeContactRepo) Create(ctx context.Context, params model.CreateContactParams) (*model.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	contact := &model.Contact{
		ID:        uuid.NewString(),
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Email:     params.Email,
	}
	f.contacts[contact.ID] = contact
	return contact, nil
}

func (f *fakeContactRepo) SetPortalCredentials(ctx context.Context, id, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.contacts[id]; ok {
		c.PortalEnabled = true
		c.PortalPasswordHash = &passwordHash
	}
	return nil
}

func (f *fakeContactRepo) DisablePortal(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.contacts[id]; ok {
		c.PortalEnabled = false
	}
	return nil
}

func (f *fakeContactRepo) UpdateLastLogin(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.contacts[id]; ok {
		now := time.Now()
		c.LastLoginAt = &now
	}
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.PortalSession // keyed by token hash
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*model.PortalSession)}
}

func (f *fakeSessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.PortalSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[tokenHash]
	if !ok || time.Now().After(session.ExpiresAt) {
		return nil, nil
	}
	return session, nil
}

func (f *fakeSessionRepo) Create(ctx context.Context, params model.CreatePortalSessionParams) (*model.PortalSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session := &model.PortalSession{
		ID:        uuid.NewString(),
		TokenHash: params.TokenHash,
		ContactID: params.ContactID,
		Email:     params.Email,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		ExpiresAt: params.ExpiresAt,
		CreatedAt: time.Now(),
	}
	f.sessions[params.TokenHash] = session
	return session, nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for hash, session := range f.sessions {
		if session.ID == id {
			delete(f.sessions, hash)
		}
	}
	return nil
}

func (f *fakeSessionRepo) DeleteByContactID(ctx context.Context, contactID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for hash, session := range f.sessions {
		if session.ContactID == contactID {
			delete(f.sessions, hash)
		}
	}
	return nil
}

func (f *fakeSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for hash, session := range f.sessions {
		if time.Now().After(session.ExpiresAt) {
			delete(f.sessions, hash)
			deleted++
		}
	}
	return deleted, nil
}

const testSessionSecret = "portal-handler-test-secret"

func setupPortalServer(t *testing.T) (*httptest.Server, *fakeContactRepo) {
	t.Helper()

	contactRepo := newFakeContactRepo()
	sessionRepo := newFakeSessionRepo()
	authService := service.NewAuthService(contactRepo, sessionRepo, testSessionSecret, time.Hour)
	sessionMW := middleware.NewPortalSessionMiddleware(sessionRepo, testSessionSecret)

	handler := NewPortalHandler(nil, authService, sessionMW, false)
	server := httptest.NewServer(handler.Routes())
	t.Cleanup(server.Close)
	return server, contactRepo
}

func enableTestContact(t *testing.T, repo *fakeContactRepo, email, password string) *model.Contact {
	t.Helper()

	contact, err := repo.Create(context.Background(), model.CreateContactParams{
		FirstName: "Dana",
		LastName:  "Brick",
		Email:     &email,
	})
	require.NoError(t, err)

	hash, err := credential.Hash(password)
	require.NoError(t, err)
	require.NoError(t, repo.SetPortalCredentials(context.Background(), contact.ID, hash))
	return contact
}

func postLogin(t *testing.T, server *httptest.Server, email, password string) *http.Response {
	t.Helper()

	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	require.NoError(t, err)

	resp, err := http.Post(server.URL+"/api/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.PortalSessionCookie {
			return c
		}
	}
	return nil
}

func TestPortalHandler_Login(t *testing.T) {
	t.Run("valid credentials set the session cookie", func(t *testing.T) {
		server, contactRepo := setupPortalServer(t)
		contact := enableTestContact(t, contactRepo, "dana@example.com", "correct horse battery")

		resp := postLogin(t, server, "dana@example.com", "correct horse battery")
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		cookie := sessionCookie(resp)
		require.NotNil(t, cookie)
		assert.NotEmpty(t, cookie.Value)
		assert.True(t, cookie.HttpOnly)

		var body struct {
			Identity model.ContactIdentity `json:"identity"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, contact.ID, body.Identity.ContactID)
		assert.Equal(t, "dana@example.com", body.Identity.Email)
	})

	t.Run("wrong password and unknown email fail identically", func(t *testing.T) {
		server, contactRepo := setupPortalServer(t)
		enableTestContact(t, contactRepo, "dana@example.com", "correct horse battery")

		readBody := func(resp *http.Response) string {
			defer resp.Body.Close()
			var out map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			data, err := json.Marshal(out)
			require.NoError(t, err)
			return string(data)
		}

		wrongPassword := postLogin(t, server, "dana@example.com", "wrong")
		unknownEmail := postLogin(t, server, "nobody@example.com", "correct horse battery")

		assert.Equal(t, http.StatusUnauthorized, wrongPassword.StatusCode)
		assert.Equal(t, http.StatusUnauthorized, unknownEmail.StatusCode)
		assert.Equal(t, readBody(wrongPassword), readBody(unknownEmail))
	})

	t.Run("disabled portal fails with the same generic error", func(t *testing.T) {
		server, contactRepo := setupPortalServer(t)
		contact := enableTestContact(t, contactRepo, "dana@example.com", "correct horse battery")
		require.NoError(t, contactRepo.DisablePortal(context.Background(), contact.ID))

		resp := postLogin(t, server, "dana@example.com", "correct horse battery")
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("missing fields fail without touching storage", func(t *testing.T) {
		server, _ := setupPortalServer(t)

		resp := postLogin(t, server, "", "")
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestPortalHandler_Me(t *testing.T) {
	t.Run("returns identity for a live session", func(t *testing.T) {
		server, contactRepo := setupPortalServer(t)
		contact := enableTestContact(t, contactRepo, "dana@example.com", "correct horse battery")

		login := postLogin(t, server, "dana@example.com", "correct horse battery")
		login.Body.Close()
		cookie := sessionCookie(login)
		require.NotNil(t, cookie)

		req, err := http.NewRequest(http.MethodGet, server.URL+"/api/me", nil)
		require.NoError(t, err)
		req.AddCookie(cookie)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body struct {
			Identity model.ContactIdentity `json:"identity"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, contact.ID, body.Identity.ContactID)
	})

	t.Run("401 without a session cookie", func(t *testing.T) {
		server, _ := setupPortalServer(t)

		resp, err := http.Get(server.URL + "/api/me")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestPortalHandler_Logout(t *testing.T) {
	t.Run("destroys the session and clears the cookie", func(t *testing.T) {
		server, contactRepo := setupPortalServer(t)
		enableTestContact(t, contactRepo, "dana@example.com", "correct horse battery")

		login := postLogin(t, server, "dana@example.com", "correct horse battery")
		login.Body.Close()
		cookie := sessionCookie(login)
		require.NotNil(t, cookie)

		req, err := http.NewRequest(http.MethodPost, server.URL+"/api/logout", nil)
		require.NoError(t, err)
		req.AddCookie(cookie)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		cleared := sessionCookie(resp)
		require.NotNil(t, cleared)
		assert.Empty(t, cleared.Value)

		// session is gone server-side too
		meReq, err := http.NewRequest(http.MethodGet, server.URL+"/api/me", nil)
		require.NoError(t, err)
		meReq.AddCookie(cookie)

		meResp, err := http.DefaultClient.Do(meReq)
		require.NoError(t, err)
		meResp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, meResp.StatusCode)
	})

	t.Run("logout without a cookie is a no-op", func(t *testing.T) {
		server, _ := setupPortalServer(t)

		resp, err := http.Post(server.URL+"/api/logout", "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
