package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const identityToolkitURL = "https://identitytoolkit.googleapis.com/v1"

// FirebaseStore implements Store with the Firebase Admin SDK for token
// verification and revocation, and the Identity Toolkit REST API for
// credential sign-in and out-of-band emails (the Admin SDK has no
// password sign-in).
type FirebaseStore struct {
	auth    *fbauth.Client
	apiKey  string
	oauth   *oauth2.Config
	httpc   *http.Client
	baseURL string
	log     zerolog.Logger
}

func NewFirebaseStore(auth *fbauth.Client, apiKey string, oauth *oauth2.Config, log zerolog.Logger) *FirebaseStore {
	return &FirebaseStore{
		auth:    auth,
		apiKey:  apiKey,
		oauth:   oauth,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		baseURL: identityToolkitURL,
		log:     log.With().Str("component", "session").Logger(),
	}
}

type toolkitResponse struct {
	LocalID       string `json:"localId"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName"`
	IDToken       string `json:"idToken"`
	EmailVerified bool   `json:"emailVerified"`
	Error         *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (s *FirebaseStore) SignUp(ctx context.Context, email, password string) (Identity, error) {
	resp, err := s.post(ctx, "accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return Identity{}, err
	}

	return Identity{
		UID:      resp.LocalID,
		Email:    resp.Email,
		Provider: "password",
		Token:    resp.IDToken,
	}, nil
}

func (s *FirebaseStore) SignIn(ctx context.Context, email, password string) (Identity, error) {
	resp, err := s.post(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return Identity{}, err
	}

	// The sign-in response does not carry the verified flag; look it up.
	user, err := s.auth.GetUser(ctx, resp.LocalID)
	if err != nil {
		return Identity{}, fmt.Errorf("lookup user %s: %w", resp.LocalID, err)
	}

	return Identity{
		UID:           user.UID,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		Name:          user.DisplayName,
		Provider:      "password",
		Token:         resp.IDToken,
	}, nil
}

func (s *FirebaseStore) SignInWithProvider(ctx context.Context, code string) (Identity, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: code exchange: %v", ErrProviderSignIn, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return Identity{}, fmt.Errorf("%w: no id_token in exchange response", ErrProviderSignIn)
	}

	postBody := url.Values{}
	postBody.Set("id_token", rawIDToken)
	postBody.Set("providerId", ProviderGoogle)

	resp, err := s.post(ctx, "accounts:signInWithIdp", map[string]any{
		"postBody":            postBody.Encode(),
		"requestUri":          s.oauth.RedirectURL,
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrProviderSignIn, err)
	}

	user, err := s.auth.GetUser(ctx, resp.LocalID)
	if err != nil {
		return Identity{}, fmt.Errorf("lookup user %s: %w", resp.LocalID, err)
	}

	return Identity{
		UID:           user.UID,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		Name:          user.DisplayName,
		Provider:      ProviderGoogle,
		Token:         resp.IDToken,
	}, nil
}

func (s *FirebaseStore) SignOut(ctx context.Context, uid string) error {
	if err := s.auth.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("revoke refresh tokens for %s: %w", uid, err)
	}
	return nil
}

func (s *FirebaseStore) SendVerificationEmail(ctx context.Context, ident Identity) error {
	if ident.Token == "" {
		return fmt.Errorf("verification email for %s: no session token", ident.UID)
	}

	_, err := s.post(ctx, "accounts:sendOobCode", map[string]any{
		"requestType": "VERIFY_EMAIL",
		"idToken":     ident.Token,
	})
	return err
}

func (s *FirebaseStore) SendPasswordReset(ctx context.Context, email string) error {
	_, err := s.post(ctx, "accounts:sendOobCode", map[string]any{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	})
	return err
}

func (s *FirebaseStore) VerifyToken(ctx context.Context, idToken string) (Identity, error) {
	decoded, err := s.auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	ident := Identity{UID: decoded.UID}
	if email, ok := decoded.Claims["email"].(string); ok {
		ident.Email = email
	}
	if verified, ok := decoded.Claims["email_verified"].(bool); ok {
		ident.EmailVerified = verified
	}
	if name, ok := decoded.Claims["name"].(string); ok {
		ident.Name = name
	}
	if fb, ok := decoded.Claims["firebase"].(map[string]any); ok {
		if provider, ok := fb["sign_in_provider"].(string); ok {
			ident.Provider = provider
		}
	}
	return ident, nil
}

func (s *FirebaseStore) post(ctx context.Context, endpoint string, body map[string]any) (*toolkitResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", endpoint, err)
	}

	reqURL := fmt.Sprintf("%s/%s?key=%s", s.baseURL, endpoint, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := s.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	defer httpResp.Body.Close()

	var resp toolkitResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", endpoint, err)
	}

	if resp.Error != nil {
		s.log.Debug().Str("endpoint", endpoint).Str("code", resp.Error.Message).Msg("identity toolkit error")
		return nil, mapToolkitError(resp.Error.Message)
	}

	return &resp, nil
}

func mapToolkitError(code string) error {
	switch {
	case code == "EMAIL_EXISTS":
		return ErrEmailInUse
	case code == "EMAIL_NOT_FOUND", code == "INVALID_PASSWORD",
		strings.HasPrefix(code, "INVALID_LOGIN_CREDENTIALS"):
		return ErrInvalidCredentials
	case strings.HasPrefix(code, "WEAK_PASSWORD"):
		return ErrWeakPassword
	default:
		return fmt.Errorf("identity toolkit: %s", code)
	}
}
