package http

import "github.com/gin-gonic/gin"

// Register attaches the public auth routes. The caller applies rate
// limiting to the group before registering.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/signup", h.signUp)
	rg.POST("/login", h.signIn)
	rg.POST("/google", h.signInWithGoogle)
	rg.POST("/password-reset", h.passwordReset)
	rg.POST("/verification-email", h.resendVerification)
}

// RegisterProtected attaches the session-guarded auth routes.
func (h *Handler) RegisterProtected(rg *gin.RouterGroup) {
	rg.POST("/logout", h.signOut)
	rg.GET("/me", h.me)
}
