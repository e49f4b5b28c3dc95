package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/campuslaunch/campus-launch-backend/internal/guard"
	"github.com/campuslaunch/campus-launch-backend/internal/identity"
	"github.com/campuslaunch/campus-launch-backend/internal/session"
	userdomain "github.com/campuslaunch/campus-launch-backend/internal/users/domain"
	usersrepo "github.com/campuslaunch/campus-launch-backend/internal/users/repository"
)

// Friendly, non-leaking messages. Sign-up failures use one phrasing so
// responses do not reveal whether an email is registered.
const (
	msgSignUpFailed     = "could not create your account, check your details and try again"
	msgBadCredentials   = "incorrect email or password"
	msgVerifyFirst      = "please verify your email before signing in"
	msgProviderFailed   = "Google sign-in failed, try again"
	msgSomethingWrong   = "something went wrong"
	msgResetSent        = "if that email is registered, a reset link is on its way"
	msgVerificationSent = "verification email sent, check your inbox"
)

type Handler struct {
	sessions session.Store
	users    *usersrepo.Repository
	resolver *identity.Resolver
	log      zerolog.Logger
}

func NewHandler(sessions session.Store, users *usersrepo.Repository, resolver *identity.Resolver, log zerolog.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		users:    users,
		resolver: resolver,
		log:      log.With().Str("component", "auth").Logger(),
	}
}

func (h *Handler) signUp(c *gin.Context) {
	var req signUpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": msgSignUpFailed})
		return
	}

	ident, err := h.sessions.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// The precise cause (email in use, weak password) stays in the
		// log; the response phrasing is uniform.
		h.log.Info().Err(err).Msg("sign-up rejected")
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": msgSignUpFailed})
		return
	}

	if err := h.users.CreateProfile(c.Request.Context(), ident.UID, userdomain.Profile{
		Name:    req.Name,
		College: req.College,
		Domain:  req.Domain,
	}, req.Email); err != nil {
		h.log.Error().Err(err).Str("uid", ident.UID).Msg("profile creation failed after sign-up")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": msgSomethingWrong})
		return
	}

	if err := h.sessions.SendVerificationEmail(c.Request.Context(), ident); err != nil {
		h.log.Warn().Err(err).Str("uid", ident.UID).Msg("verification email failed")
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "message": "account created, verify your email before signing in"})
}

func (h *Handler) signIn(c *gin.Context) {
	var req signInReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": msgBadCredentials})
		return
	}

	ident, err := h.sessions.SignIn(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, session.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": msgBadCredentials})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("sign-in failed")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": msgSomethingWrong})
		return
	}

	if !ident.EmailVerified {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": msgVerifyFirst})
		return
	}

	view, err := h.resolver.OnSessionChange(c.Request.Context(), &ident)
	if err != nil && !errors.Is(err, identity.ErrSuperseded) {
		h.log.Error().Err(err).Str("uid", ident.UID).Msg("resolution failed at sign-in")
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "could not load your profile, try again"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "token": ident.Token, "user": view})
}

func (h *Handler) signInWithGoogle(c *gin.Context) {
	var req googleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": msgProviderFailed})
		return
	}

	ident, err := h.sessions.SignInWithProvider(c.Request.Context(), req.Code)
	if err != nil {
		h.log.Info().Err(err).Msg("provider sign-in rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": msgProviderFailed})
		return
	}

	// First Google sign-in sends the verification email the way the
	// password path does; Google accounts usually arrive pre-verified.
	if !ident.EmailVerified {
		if err := h.sessions.SendVerificationEmail(c.Request.Context(), ident); err != nil {
			h.log.Warn().Err(err).Str("uid", ident.UID).Msg("verification email failed")
		}
	}

	view, err := h.resolver.OnSessionChange(c.Request.Context(), &ident)
	if err != nil && !errors.Is(err, identity.ErrSuperseded) {
		h.log.Error().Err(err).Str("uid", ident.UID).Msg("resolution failed at provider sign-in")
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "could not load your profile, try again"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "token": ident.Token, "user": view})
}

func (h *Handler) signOut(c *gin.Context) {
	u, ok := guard.CurrentUser(c)
	if ok {
		if err := h.sessions.SignOut(c.Request.Context(), u.ID); err != nil {
			h.log.Warn().Err(err).Str("uid", u.ID).Msg("token revocation failed")
		}
	}

	if _, err := h.resolver.OnSessionChange(c.Request.Context(), nil); err != nil {
		h.log.Warn().Err(err).Msg("sign-out resolution failed")
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) passwordReset(c *gin.Context) {
	var req resetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := h.sessions.SendPasswordReset(c.Request.Context(), req.Email); err != nil {
		// Same phrasing whether or not the email exists.
		h.log.Info().Err(err).Msg("password reset rejected")
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": msgResetSent})
}

func (h *Handler) resendVerification(c *gin.Context) {
	var req resendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	ident, err := h.sessions.SignIn(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, session.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": msgBadCredentials})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": msgSomethingWrong})
		return
	}

	if err := h.sessions.SendVerificationEmail(c.Request.Context(), ident); err != nil {
		h.log.Warn().Err(err).Str("uid", ident.UID).Msg("verification email failed")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": msgSomethingWrong})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": msgVerificationSent})
}

func (h *Handler) me(c *gin.Context) {
	u, ok := guard.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "redirect": guard.SignInPath})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": u})
}
