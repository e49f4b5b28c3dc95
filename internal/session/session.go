// Package session defines the credential/session issuance collaborator.
// The production implementation is Firebase Authentication.
package session

import (
	"context"
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailInUse         = errors.New("email already in use")
	ErrWeakPassword       = errors.New("password too weak")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrProviderSignIn     = errors.New("provider sign-in failed")
)

// ProviderGoogle is the provider id reported for Google sign-ins.
const ProviderGoogle = "google.com"

// Identity is the signed-in identity issued by the session store.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
	// Provider is the sign-in method ("password" or "google.com").
	Provider string
	// Token is the session ID token issued at sign-in. Empty for
	// identities reconstructed from a verified token.
	Token string
}

// Store issues and tracks signed-in identities.
type Store interface {
	SignUp(ctx context.Context, email, password string) (Identity, error)
	SignIn(ctx context.Context, email, password string) (Identity, error)
	// SignInWithProvider exchanges a Google OAuth authorization code for a
	// session identity.
	SignInWithProvider(ctx context.Context, code string) (Identity, error)
	// SignOut revokes the user's refresh tokens.
	SignOut(ctx context.Context, uid string) error
	SendVerificationEmail(ctx context.Context, ident Identity) error
	SendPasswordReset(ctx context.Context, email string) error
	// VerifyToken validates a session ID token and returns the identity
	// it was issued to.
	VerifyToken(ctx context.Context, idToken string) (Identity, error)
}
