package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuslaunch/campus-launch-backend/internal/audit"
	"github.com/campuslaunch/campus-launch-backend/internal/guard"
	"github.com/campuslaunch/campus-launch-backend/internal/policy"
	"github.com/campuslaunch/campus-launch-backend/internal/projects/domain"
	"github.com/campuslaunch/campus-launch-backend/internal/projects/service"
)

type Handler struct {
	svc *service.ProjectService
}

func NewHandler(svc *service.ProjectService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) create(c *gin.Context) {
	u, ok := guard.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "redirect": guard.SignInPath})
		return
	}

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), u, service.CreateInput{
		Title:        req.Title,
		Description:  req.Description,
		Domain:       req.Domain,
		DurationDays: req.DurationDays,
		Skills:       req.Skills,
		Stage:        domain.Stage(req.Stage),
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) join(c *gin.Context) {
	u, _ := guard.CurrentUser(c)
	if err := h.svc.Join(c.Request.Context(), u, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) leave(c *gin.Context) {
	u, _ := guard.CurrentUser(c)
	if err := h.svc.Leave(c.Request.Context(), u, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) edit(c *gin.Context) {
	u, _ := guard.CurrentUser(c)

	var req editReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.Edit(c.Request.Context(), u, c.Param("id"), service.CreateInput{
		Title:        req.Title,
		Description:  req.Description,
		Domain:       req.Domain,
		DurationDays: req.DurationDays,
		Skills:       req.Skills,
		Stage:        domain.Stage(req.Stage),
		ImageURL:     req.ImageURL,
	}, domain.Status(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) delete(c *gin.Context) {
	u, _ := guard.CurrentUser(c)
	if err := h.svc.Delete(c.Request.Context(), u, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func respondError(c *gin.Context, err error) {
	var denied *policy.DeniedError
	var partial *audit.PartialWriteError
	switch {
	case errors.As(err, &denied):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": denied.Reason})
	case errors.Is(err, domain.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
	case errors.As(err, &partial):
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "the operation only partially completed; it has been flagged for review"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "something went wrong"})
	}
}
