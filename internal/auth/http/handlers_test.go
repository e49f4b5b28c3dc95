package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslaunch/campus-launch-backend/internal/docstore"
	"github.com/campuslaunch/campus-launch-backend/internal/guard"
	"github.com/campuslaunch/campus-launch-backend/internal/identity"
	"github.com/campuslaunch/campus-launch-backend/internal/session"
	usersrepo "github.com/campuslaunch/campus-launch-backend/internal/users/repository"
)

// fakeSessions is a scriptable session.Store.
type fakeSessions struct {
	signUpErr  error
	signInErr  error
	verified   bool
	sentEmails []string
	resets     []string
	revoked    []string
}

func (f *fakeSessions) SignUp(_ context.Context, email, _ string) (session.Identity, error) {
	if f.signUpErr != nil {
		return session.Identity{}, f.signUpErr
	}
	return session.Identity{UID: "new-uid", Email: email}, nil
}

func (f *fakeSessions) SignIn(_ context.Context, email, _ string) (session.Identity, error) {
	if f.signInErr != nil {
		return session.Identity{}, f.signInErr
	}
	return session.Identity{UID: "uid-1", Email: email, EmailVerified: f.verified, Token: "tok-1"}, nil
}

func (f *fakeSessions) SignInWithProvider(_ context.Context, _ string) (session.Identity, error) {
	return session.Identity{
		UID:           "g-uid",
		Email:         "ravi@gmail.com",
		EmailVerified: true,
		Name:          "Ravi",
		Provider:      session.ProviderGoogle,
		Token:         "tok-g",
	}, nil
}

func (f *fakeSessions) SignOut(_ context.Context, uid string) error {
	f.revoked = append(f.revoked, uid)
	return nil
}

func (f *fakeSessions) SendVerificationEmail(_ context.Context, ident session.Identity) error {
	f.sentEmails = append(f.sentEmails, ident.Email)
	return nil
}

func (f *fakeSessions) SendPasswordReset(_ context.Context, email string) error {
	f.resets = append(f.resets, email)
	return nil
}

func (f *fakeSessions) VerifyToken(_ context.Context, _ string) (session.Identity, error) {
	return session.Identity{}, session.ErrInvalidToken
}

type env struct {
	sessions *fakeSessions
	store    *docstore.MemoryStore
	router   *gin.Engine
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := &fakeSessions{}
	store := docstore.NewMemoryStore()
	users := usersrepo.NewRepository(store)
	resolver := identity.NewResolver(users, nil, zerolog.Nop())

	h := NewHandler(sessions, users, resolver, zerolog.Nop())
	r := gin.New()
	h.Register(r.Group("/auth"))

	return &env{sessions: sessions, store: store, router: r}
}

func (e *env) post(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func validSignUp() map[string]any {
	return map[string]any{
		"name":     "Asha",
		"email":    "asha@example.edu",
		"password": "secret1",
		"college":  "IIT Delhi",
		"domain":   "edtech",
	}
}

func TestSignUpCreatesProfileAndSendsVerification(t *testing.T) {
	e := newEnv(t)

	rr := e.post(t, "/auth/signup", validSignUp())
	require.Equal(t, http.StatusCreated, rr.Code)

	doc, err := e.store.Get(context.Background(), usersrepo.Collection, "new-uid")
	require.NoError(t, err)
	assert.Equal(t, "Asha", doc["name"])
	assert.Equal(t, "IIT Delhi", doc["college"])
	assert.Equal(t, "user", doc["role"])

	assert.Equal(t, []string{"asha@example.edu"}, e.sessions.sentEmails)
}

func TestSignUpDoesNotRevealRegisteredEmails(t *testing.T) {
	e := newEnv(t)
	e.sessions.signUpErr = session.ErrEmailInUse
	inUse := e.post(t, "/auth/signup", validSignUp())

	e2 := newEnv(t)
	e2.sessions.signUpErr = session.ErrWeakPassword
	weak := e2.post(t, "/auth/signup", validSignUp())

	// Same status and same phrasing for both causes.
	assert.Equal(t, http.StatusBadRequest, inUse.Code)
	assert.Equal(t, http.StatusBadRequest, weak.Code)
	assert.Equal(t, msgSignUpFailed, decode(t, inUse)["error"])
	assert.Equal(t, msgSignUpFailed, decode(t, weak)["error"])
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	e := newEnv(t)
	e.sessions.signInErr = session.ErrInvalidCredentials

	rr := e.post(t, "/auth/login", map[string]any{"email": "asha@example.edu", "password": "wrong1"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, msgBadCredentials, decode(t, rr)["error"])
}

func TestSignInBlocksUnverifiedEmail(t *testing.T) {
	e := newEnv(t)
	e.sessions.verified = false

	rr := e.post(t, "/auth/login", map[string]any{"email": "asha@example.edu", "password": "secret1"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, msgVerifyFirst, decode(t, rr)["error"])
}

func TestSignInReturnsTokenAndView(t *testing.T) {
	e := newEnv(t)
	e.sessions.verified = true
	require.NoError(t, e.store.Set(context.Background(), usersrepo.Collection, "uid-1",
		docstore.Document{"name": "Asha", "college": "IIT Delhi"}, false))

	rr := e.post(t, "/auth/login", map[string]any{"email": "asha@example.edu", "password": "secret1"})
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode(t, rr)
	assert.Equal(t, "tok-1", body["token"])
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Asha", user["name"])
}

func TestGoogleSignInCreatesDefaultProfile(t *testing.T) {
	e := newEnv(t)

	rr := e.post(t, "/auth/google", map[string]any{"code": "oauth-code"})
	require.Equal(t, http.StatusOK, rr.Code)

	doc, err := e.store.Get(context.Background(), usersrepo.Collection, "g-uid")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", doc["name"])
}

func TestPasswordResetPhrasingIsUniform(t *testing.T) {
	e := newEnv(t)

	rr := e.post(t, "/auth/password-reset", map[string]any{"email": "ghost@example.edu"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, msgResetSent, decode(t, rr)["message"])
	assert.Equal(t, []string{"ghost@example.edu"}, e.sessions.resets)
}

func TestSignUpValidation(t *testing.T) {
	e := newEnv(t)

	bad := validSignUp()
	bad["password"] = "tiny"
	rr := e.post(t, "/auth/signup", bad)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	missing := validSignUp()
	delete(missing, "college")
	rr = e.post(t, "/auth/signup", missing)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestProtectedRoutesDenyWithoutSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sessions := &fakeSessions{}
	store := docstore.NewMemoryStore()
	users := usersrepo.NewRepository(store)
	resolver := identity.NewResolver(users, nil, zerolog.Nop())

	h := NewHandler(sessions, users, resolver, zerolog.Nop())
	r := gin.New()
	protected := r.Group("/api/v1/auth")
	protected.Use(guard.RequireSession(sessions, resolver))
	h.RegisterProtected(protected)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, guard.SignInPath, body["redirect"])
}
