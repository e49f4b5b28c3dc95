package domain

import (
	"errors"

	"github.com/campuslaunch/campus-launch-backend/internal/docstore"
)

var ErrProfileNotFound = errors.New("user profile not found")

type Role string

const (
	RoleUser     Role = "user"
	RoleAdmin    Role = "admin"
	RoleInvestor Role = "investor"
)

// UserView is the merged session identity and profile document. It is the
// single user representation every guard and policy decision works from.
type UserView struct {
	ID            string   `json:"id"`
	Email         string   `json:"email"`
	EmailVerified bool     `json:"emailVerified"`
	Name          string   `json:"name"`
	College       string   `json:"college"`
	Domain        string   `json:"domain"`
	Role          Role     `json:"role"`
	// CurrentProject is empty when the user is not on a project team.
	CurrentProject    string          `json:"currentProject,omitempty"`
	EnrolledCourses   []string        `json:"enrolledCourses"`
	CompletedProjects []string        `json:"completedProjects"`
	CreatedProjects   map[string]bool `json:"createdProjects,omitempty"`
	// ProfileComplete is false until the profile document exists; a fresh
	// sign-up has only session-level fields until the one-time profile step.
	ProfileComplete bool `json:"profileComplete"`
}

// HasProject reports whether the user holds an active project membership.
func (u UserView) HasProject() bool { return u.CurrentProject != "" }

// IsEnrolled reports whether the user is enrolled in the given course.
func (u UserView) IsEnrolled(courseID string) bool {
	for _, id := range u.EnrolledCourses {
		if id == courseID {
			return true
		}
	}
	return false
}

// Profile is the subset of UserView stored in the users collection.
type Profile struct {
	Name    string
	College string
	Domain  string
	Role    Role
}

// DefaultProfileDoc is the document written for a first-time provider
// sign-in. Merge semantics at the store keep it from clobbering an
// existing profile.
func DefaultProfileDoc(name, email string) docstore.Document {
	if name == "" {
		name = "User"
	}
	return docstore.Document{
		"name":              name,
		"email":             email,
		"college":           "",
		"domain":            "",
		"currentProject":    nil,
		"enrolledCourses":   []any{},
		"completedProjects": []any{},
		"role":              string(RoleUser),
	}
}

// ViewFromDocument joins session-level fields with a profile document,
// applying all field defaulting in one place. A nil doc yields a
// session-only view.
func ViewFromDocument(uid, email string, verified bool, doc docstore.Document) UserView {
	view := UserView{
		ID:            uid,
		Email:         email,
		EmailVerified: verified,
		Role:          RoleUser,
	}
	if doc == nil {
		return view
	}

	view.ProfileComplete = true
	view.Name = stringField(doc, "name")
	view.College = stringField(doc, "college")
	view.Domain = stringField(doc, "domain")
	view.CurrentProject = stringField(doc, "currentProject")
	view.EnrolledCourses = stringSliceField(doc, "enrolledCourses")
	view.CompletedProjects = stringSliceField(doc, "completedProjects")
	view.CreatedProjects = boolMapField(doc, "createdProjects")

	if role := stringField(doc, "role"); role != "" {
		view.Role = Role(role)
	}
	if view.Email == "" {
		view.Email = stringField(doc, "email")
	}
	return view
}

func stringField(doc docstore.Document, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}

func stringSliceField(doc docstore.Document, key string) []string {
	raw, ok := doc[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func boolMapField(doc docstore.Document, key string) map[string]bool {
	raw, ok := doc[key].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]bool, len(raw))
	for k, v := range raw {
		if b, ok := v.(bool); ok {
			out[k] = b
		}
	}
	return out
}
