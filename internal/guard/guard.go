// Package guard gates access to protected views. A guard decision is a
// routing outcome, never a fault: denied means "send the visitor to the
// sign-in view".
package guard

import (
	userdomain "github.com/campuslaunch/campus-launch-backend/internal/users/domain"
)

type State int

const (
	// StateResolving holds until the identity resolver has produced a
	// definitive UserView-or-nothing.
	StateResolving State = iota
	StateDenied
	StateGranted
)

func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateDenied:
		return "denied"
	case StateGranted:
		return "granted"
	default:
		return "unknown"
	}
}

const (
	SignInPath     = "/login"
	CourseListPath = "/courses"
)

// Decision is the guard outcome for one navigation attempt. RedirectTo
// is set only for denied decisions.
type Decision struct {
	State      State
	RedirectTo string
}

// Evaluate runs the base session gate: granted only for a resolved,
// email-verified user.
func Evaluate(view *userdomain.UserView, resolved bool) Decision {
	if !resolved {
		return Decision{State: StateResolving}
	}
	if view == nil || !view.EmailVerified {
		return Decision{State: StateDenied, RedirectTo: SignInPath}
	}
	return Decision{State: StateGranted}
}

// RequireEnrollment refines a granted decision for the course content
// view: unenrolled users go back to the course list, not to sign-in.
func RequireEnrollment(view *userdomain.UserView, resolved bool, courseID string) Decision {
	base := Evaluate(view, resolved)
	if base.State != StateGranted {
		return base
	}
	if !view.IsEnrolled(courseID) {
		return Decision{State: StateDenied, RedirectTo: CourseListPath}
	}
	return base
}
