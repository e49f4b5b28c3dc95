// Package policy is the single place mutating actions are authorized.
// Every decision is a pure function of the current UserView and entity
// snapshots; no I/O happens here. Callers supply fresh snapshots and
// perform the actual mutation through the document store.
package policy

import (
	"fmt"

	hackdomain "github.com/campuslaunch/campus-launch-backend/internal/hackathons/domain"
	projdomain "github.com/campuslaunch/campus-launch-backend/internal/projects/domain"
	protodomain "github.com/campuslaunch/campus-launch-backend/internal/prototypes/domain"
	userdomain "github.com/campuslaunch/campus-launch-backend/internal/users/domain"
)

type Action string

const (
	ProjectJoin   Action = "project.join"
	ProjectLeave  Action = "project.leave"
	ProjectEdit   Action = "project.edit"
	ProjectDelete Action = "project.delete"

	HackathonBookSlot      Action = "hackathon.bookSlot"
	HackathonSubmitResults Action = "hackathon.submitResults"

	PrototypeContactCreator Action = "prototype.contactCreator"

	CourseEnroll Action = "course.enroll"
)

// Decision is the outcome of a policy check. A denied decision carries a
// user-presentable reason.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// Err converts a denied decision into a DeniedError; nil when allowed.
func (d Decision) Err(action Action) error {
	if d.Allowed {
		return nil
	}
	return &DeniedError{Action: action, Reason: d.Reason}
}

// DeniedError reports an action blocked by policy. It is a user-visible
// rejection, not a fault.
type DeniedError struct {
	Action Action
	Reason string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("%s denied: %s", e.Action, e.Reason)
}

// ForProject decides project actions.
func ForProject(u userdomain.UserView, p projdomain.Project, action Action) Decision {
	switch action {
	case ProjectJoin:
		if !u.EmailVerified {
			return deny("email not verified")
		}
		if p.CreatorID == u.ID {
			return deny("you created this project")
		}
		if p.HasMember(u.ID) {
			return deny("you are already on this team")
		}
		if p.Status != projdomain.StatusActive {
			return deny("project is not accepting members")
		}
		if u.HasProject() {
			return deny("already in a project")
		}
		return allow()

	case ProjectLeave:
		if !p.HasMember(u.ID) {
			return deny("you are not on this team")
		}
		if p.CreatorID == u.ID {
			return deny("the creator cannot leave their own project")
		}
		return allow()

	case ProjectEdit, ProjectDelete:
		if p.CreatorID != u.ID {
			return deny("only the creator can do this")
		}
		return allow()

	default:
		return deny("unknown project action")
	}
}

// ForHackathon decides hackathon actions.
func ForHackathon(u userdomain.UserView, h hackdomain.Hackathon, action Action) Decision {
	switch action {
	case HackathonBookSlot:
		if h.HasParticipant(u.ID) {
			return deny("you already booked a slot")
		}
		return allow()

	case HackathonSubmitResults:
		if u.Role != userdomain.RoleAdmin {
			return deny("only jury admins can submit results")
		}
		return allow()

	default:
		return deny("unknown hackathon action")
	}
}

// ForPrototype decides prototype actions.
func ForPrototype(u userdomain.UserView, _ protodomain.Prototype, action Action) Decision {
	switch action {
	case PrototypeContactCreator:
		if u.Role != userdomain.RoleInvestor {
			return deny("only investors can contact creators")
		}
		return allow()

	default:
		return deny("unknown prototype action")
	}
}

// ForCourse decides course actions. Enrollment is open to any verified
// user and idempotent: the enrolled set has set semantics.
func ForCourse(u userdomain.UserView, action Action) Decision {
	switch action {
	case CourseEnroll:
		if !u.EmailVerified {
			return deny("email not verified")
		}
		return allow()

	default:
		return deny("unknown course action")
	}
}
