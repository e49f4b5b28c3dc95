// Package identity joins the session identity with its profile document,
// producing the UserView the rest of the platform works from.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/campuslaunch/campus-launch-backend/internal/docstore"
	"github.com/campuslaunch/campus-launch-backend/internal/session"
	userdomain "github.com/campuslaunch/campus-launch-backend/internal/users/domain"
)

var (
	// ErrResolution marks a profile fetch failure. It is distinct from a
	// signed-out state; callers must not silently treat it as
	// unauthenticated.
	ErrResolution = errors.New("identity resolution failed")

	// ErrSuperseded marks an in-flight resolution that lost to a later
	// session-change event. Its result was discarded.
	ErrSuperseded = errors.New("resolution superseded")
)

// ProfileSource supplies profile documents for the join.
type ProfileSource interface {
	GetProfile(ctx context.Context, uid string) (docstore.Document, error)
	EnsureProfile(ctx context.Context, uid, name, email string) error
}

// Resolver tracks the process-wide current user. It is initialized
// unresolved, replaced atomically on each session-change event, and torn
// down on sign-out. Events may supersede in-flight resolutions; the
// last-issued resolution wins.
type Resolver struct {
	profiles ProfileSource
	cache    *Cache
	log      zerolog.Logger

	mu       sync.Mutex
	gen      uint64
	current  *userdomain.UserView
	resolved bool
}

func NewResolver(profiles ProfileSource, cache *Cache, log zerolog.Logger) *Resolver {
	return &Resolver{
		profiles: profiles,
		cache:    cache,
		log:      log.With().Str("component", "identity").Logger(),
	}
}

// Current returns the last committed UserView and whether any resolution
// has completed yet. A nil view with resolved true means signed out.
func (r *Resolver) Current() (*userdomain.UserView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current, r.resolved
}

// OnSessionChange handles a session-change event. A nil identity is a
// sign-out and clears the current view. The returned view is only
// committed if no later event started while this one was resolving;
// stale resolutions return ErrSuperseded and leave the committed view
// untouched.
func (r *Resolver) OnSessionChange(ctx context.Context, ident *session.Identity) (*userdomain.UserView, error) {
	r.mu.Lock()
	r.gen++
	gen := r.gen

	if ident == nil {
		r.current = nil
		r.resolved = true
		r.mu.Unlock()
		if r.cache != nil {
			r.cache.InvalidateAll(ctx)
		}
		return nil, nil
	}
	r.mu.Unlock()

	view, err := r.Resolve(ctx, *ident)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		r.log.Debug().Str("uid", ident.UID).Msg("discarding superseded resolution")
		return nil, ErrSuperseded
	}
	if err != nil {
		// A failed resolution is not a sign-out; keep the state
		// unresolved rather than pretending the visitor left.
		r.resolved = false
		return nil, err
	}

	r.current = &view
	r.resolved = true
	return &view, nil
}

// Resolve performs the session/profile join for one identity without
// touching the committed state. Used both by OnSessionChange and by the
// per-request middleware path, where every request carries its own
// identity.
func (r *Resolver) Resolve(ctx context.Context, ident session.Identity) (userdomain.UserView, error) {
	// First provider sign-in creates the default profile; merge semantics
	// keep an existing document intact.
	if ident.Provider == session.ProviderGoogle {
		if err := r.profiles.EnsureProfile(ctx, ident.UID, ident.Name, ident.Email); err != nil {
			return userdomain.UserView{}, fmt.Errorf("%w: %v", ErrResolution, err)
		}
		if r.cache != nil {
			r.cache.Invalidate(ctx, ident.UID)
		}
	}

	doc, err := r.fetchProfile(ctx, ident.UID)
	if errors.Is(err, userdomain.ErrProfileNotFound) {
		// No profile yet: session-level fields only until the one-time
		// profile step completes.
		return userdomain.ViewFromDocument(ident.UID, ident.Email, ident.EmailVerified, nil), nil
	}
	if err != nil {
		return userdomain.UserView{}, fmt.Errorf("%w: %v", ErrResolution, err)
	}

	return userdomain.ViewFromDocument(ident.UID, ident.Email, ident.EmailVerified, doc), nil
}

func (r *Resolver) fetchProfile(ctx context.Context, uid string) (docstore.Document, error) {
	if r.cache != nil {
		if doc, ok := r.cache.Get(ctx, uid); ok {
			return doc, nil
		}
	}

	doc, err := r.profiles.GetProfile(ctx, uid)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		r.cache.Put(ctx, uid, doc)
	}
	return doc, nil
}

// InvalidateProfile drops any cached profile for uid. Mutating services
// call this after writing to the user document.
func (r *Resolver) InvalidateProfile(ctx context.Context, uid string) {
	if r.cache != nil {
		r.cache.Invalidate(ctx, uid)
	}
}
