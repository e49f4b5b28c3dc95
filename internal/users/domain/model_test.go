package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campuslaunch/campus-launch-backend/internal/docstore"
)

func TestViewFromDocumentNilDoc(t *testing.T) {
	v := ViewFromDocument("u1", "asha@example.edu", true, nil)

	assert.Equal(t, "u1", v.ID)
	assert.Equal(t, "asha@example.edu", v.Email)
	assert.True(t, v.EmailVerified)
	assert.Equal(t, RoleUser, v.Role)
	assert.False(t, v.ProfileComplete)
	assert.False(t, v.HasProject())
}

func TestViewFromDocumentJoin(t *testing.T) {
	doc := docstore.Document{
		"name":              "Asha",
		"college":           "IIT Delhi",
		"domain":            "edtech",
		"role":              "investor",
		"currentProject":    "proj_1",
		"enrolledCourses":   []any{"course_go", 42},
		"completedProjects": []any{"proj_0"},
		"createdProjects":   map[string]any{"proj_1": true, "proj_x": "no"},
	}

	v := ViewFromDocument("u1", "asha@example.edu", true, doc)

	assert.Equal(t, "Asha", v.Name)
	assert.Equal(t, RoleInvestor, v.Role)
	assert.Equal(t, "proj_1", v.CurrentProject)
	assert.True(t, v.HasProject())
	// Non-string members are dropped, not mapped to empty strings.
	assert.Equal(t, []string{"course_go"}, v.EnrolledCourses)
	assert.Equal(t, []string{"proj_0"}, v.CompletedProjects)
	assert.Equal(t, map[string]bool{"proj_1": true}, v.CreatedProjects)
	assert.True(t, v.ProfileComplete)
}

func TestViewFromDocumentEmailFallback(t *testing.T) {
	v := ViewFromDocument("u1", "", false, docstore.Document{"email": "stored@example.edu"})
	assert.Equal(t, "stored@example.edu", v.Email)

	// The session email wins when both exist.
	v = ViewFromDocument("u1", "live@example.edu", false, docstore.Document{"email": "stored@example.edu"})
	assert.Equal(t, "live@example.edu", v.Email)
}

func TestIsEnrolled(t *testing.T) {
	v := UserView{EnrolledCourses: []string{"course_go"}}
	assert.True(t, v.IsEnrolled("course_go"))
	assert.False(t, v.IsEnrolled("course_rust"))
}

func TestDefaultProfileDoc(t *testing.T) {
	doc := DefaultProfileDoc("", "ravi@gmail.com")
	assert.Equal(t, "User", doc["name"])
	assert.Equal(t, "ravi@gmail.com", doc["email"])
	assert.Equal(t, "user", doc["role"])
}
