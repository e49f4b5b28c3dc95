package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campuslaunch/campus-launch-backend/internal/guard"
	"github.com/campuslaunch/campus-launch-backend/internal/users/domain"
	"github.com/campuslaunch/campus-launch-backend/internal/users/repository"
)

type Handler struct {
	repo       *repository.Repository
	invalidate func(c *gin.Context, uid string)
}

func NewHandler(repo *repository.Repository, invalidate func(c *gin.Context, uid string)) *Handler {
	if invalidate == nil {
		invalidate = func(*gin.Context, string) {}
	}
	return &Handler{repo: repo, invalidate: invalidate}
}

// Register attaches profile routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.get)
	rg.PUT("", h.update)
}

func (h *Handler) get(c *gin.Context) {
	u, ok := guard.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "redirect": guard.SignInPath})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "profile": u})
}

type updateReq struct {
	Name    string `json:"name" binding:"required"`
	College string `json:"college"`
	Domain  string `json:"domain"`
}

func (h *Handler) update(c *gin.Context) {
	u, _ := guard.CurrentUser(c)

	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	err := h.repo.UpdateProfile(c.Request.Context(), u.ID, domain.Profile{
		Name:    strings.TrimSpace(req.Name),
		College: strings.TrimSpace(req.College),
		Domain:  strings.TrimSpace(req.Domain),
	})
	if errors.Is(err, domain.ErrProfileNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "profile not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "something went wrong"})
		return
	}

	h.invalidate(c, u.ID)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
