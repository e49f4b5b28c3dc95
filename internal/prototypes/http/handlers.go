package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campuslaunch/campus-launch-backend/internal/guard"
	"github.com/campuslaunch/campus-launch-backend/internal/policy"
	"github.com/campuslaunch/campus-launch-backend/internal/prototypes/domain"
	"github.com/campuslaunch/campus-launch-backend/internal/prototypes/service"
)

type Handler struct {
	svc *service.PrototypeService
}

func NewHandler(svc *service.PrototypeService) *Handler {
	return &Handler{svc: svc}
}

// Register attaches prototype routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.upload)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.POST("/:id/contact", h.contact)
}

type uploadReq struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	DemoLink    string `json:"demoLink" binding:"required"`
	ProjectID   string `json:"projectId" binding:"required"`
}

func (h *Handler) upload(c *gin.Context) {
	u, _ := guard.CurrentUser(c)

	var req uploadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.Upload(c.Request.Context(), u, service.UploadInput{
		Title:       req.Title,
		Description: req.Description,
		DemoLink:    req.DemoLink,
		ProjectID:   req.ProjectID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "prototype": p})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "prototypes": items})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "prototype": p})
}

type contactReq struct {
	Message string `json:"message"`
}

func (h *Handler) contact(c *gin.Context) {
	u, _ := guard.CurrentUser(c)

	var req contactReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := h.svc.ContactCreator(c.Request.Context(), u, c.Param("id"), strings.TrimSpace(req.Message)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true})
}

func respondError(c *gin.Context, err error) {
	var denied *policy.DeniedError
	switch {
	case errors.As(err, &denied):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": denied.Reason})
	case errors.Is(err, domain.ErrPrototypeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "prototype not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "something went wrong"})
	}
}
