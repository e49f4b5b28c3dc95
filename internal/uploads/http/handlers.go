package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/campuslaunch/campus-launch-backend/internal/guard"
	"github.com/campuslaunch/campus-launch-backend/internal/uploads"
)

type presignReq struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

type Handler struct {
	presigner *uploads.Presigner
	log       zerolog.Logger
}

func NewHandler(presigner *uploads.Presigner, log zerolog.Logger) *Handler {
	return &Handler{presigner: presigner, log: log.With().Str("component", "uploads_http").Logger()}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/presign", h.presign)
}

func (h *Handler) presign(c *gin.Context) {
	u, ok := guard.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "sign in required"})
		return
	}

	var req presignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	url, key, err := h.presigner.PresignImagePut(c.Request.Context(), u.ID, req.Filename, req.ContentType)
	if err != nil {
		h.log.Error().Err(err).Str("uid", u.ID).Msg("presign failed")
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "could not prepare the upload"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "uploadUrl": url, "key": key})
}
