package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslaunch/campus-launch-backend/internal/audit"
	"github.com/campuslaunch/campus-launch-backend/internal/docstore"
	"github.com/campuslaunch/campus-launch-backend/internal/guard"
	"github.com/campuslaunch/campus-launch-backend/internal/projects/repository"
	"github.com/campuslaunch/campus-launch-backend/internal/projects/service"
	userdomain "github.com/campuslaunch/campus-launch-backend/internal/users/domain"
	usersrepo "github.com/campuslaunch/campus-launch-backend/internal/users/repository"
)

type testEnv struct {
	store  *docstore.MemoryStore
	users  *usersrepo.Repository
	router *gin.Engine
	user   userdomain.UserView
}

func newTestEnv(t *testing.T, u userdomain.UserView) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := docstore.NewMemoryStore()
	users := usersrepo.NewRepository(store)
	require.NoError(t, users.CreateProfile(context.Background(), u.ID, userdomain.Profile{Name: u.Name}, u.Email))

	svc := service.NewProjectService(repository.NewRepository(store), users, audit.NopRecorder{}, nil, zerolog.Nop())

	r := gin.New()
	group := r.Group("/projects")
	group.Use(func(c *gin.Context) { guard.SetCurrentUser(c, u) })
	NewHandler(svc).Register(group)

	return &testEnv{store: store, users: users, router: r, user: u}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func validCreate() map[string]any {
	return map[string]any{
		"title":       "Campus Compost",
		"description": "Composting for hostels",
		"domain":      "sustainability",
	}
}

func TestCreateProject(t *testing.T) {
	e := newTestEnv(t, userdomain.UserView{ID: "creator", Name: "Asha", EmailVerified: true})

	rr := e.do(t, http.MethodPost, "/projects", validCreate())
	require.Equal(t, http.StatusCreated, rr.Code)

	var body struct {
		Project struct {
			ID     string   `json:"id"`
			Team   []string `json:"team"`
			Status string   `json:"status"`
		} `json:"project"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Project.ID)
	assert.Equal(t, []string{"creator"}, body.Project.Team)
	assert.Equal(t, "active", body.Project.Status)
}

func TestCreateProjectValidation(t *testing.T) {
	e := newTestEnv(t, userdomain.UserView{ID: "creator", EmailVerified: true})

	bad := validCreate()
	delete(bad, "title")
	rr := e.do(t, http.MethodPost, "/projects", bad)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestJoinOwnProjectForbidden(t *testing.T) {
	e := newTestEnv(t, userdomain.UserView{ID: "creator", Name: "Asha", EmailVerified: true})

	rr := e.do(t, http.MethodPost, "/projects", validCreate())
	require.Equal(t, http.StatusCreated, rr.Code)
	var created struct {
		Project struct {
			ID string `json:"id"`
		} `json:"project"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = e.do(t, http.MethodPost, "/projects/"+created.Project.ID+"/join", nil)
	require.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "you created this project")
}

func TestJoinMissingProjectIs404(t *testing.T) {
	e := newTestEnv(t, userdomain.UserView{ID: "u1", EmailVerified: true})

	rr := e.do(t, http.MethodPost, "/projects/proj_ghost/join", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestJoinPartialWriteIs500(t *testing.T) {
	// Seed a project owned by someone else, then fail the user-document
	// write.
	e := newTestEnv(t, userdomain.UserView{ID: "member", EmailVerified: true})
	require.NoError(t, e.store.Set(context.Background(), repository.Collection, "proj_1", docstore.Document{
		"title":     "Campus Compost",
		"creatorId": "creator",
		"team":      []any{"creator"},
		"status":    "active",
	}, false))

	e.store.FailUpdate = func(collection, id string) error {
		if collection == usersrepo.Collection {
			return errors.New("store unavailable")
		}
		return nil
	}

	rr := e.do(t, http.MethodPost, "/projects/proj_1/join", nil)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "partially completed")
}
