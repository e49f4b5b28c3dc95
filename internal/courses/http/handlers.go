package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuslaunch/campus-launch-backend/internal/courses/domain"
	"github.com/campuslaunch/campus-launch-backend/internal/courses/service"
	"github.com/campuslaunch/campus-launch-backend/internal/guard"
	"github.com/campuslaunch/campus-launch-backend/internal/policy"
)

type Handler struct {
	svc *service.CourseService
}

func NewHandler(svc *service.CourseService) *Handler {
	return &Handler{svc: svc}
}

// Register attaches course routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.GET("/:id/content", h.content)
	rg.POST("/:id/enroll", h.enroll)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "courses": items})
}

func (h *Handler) get(c *gin.Context) {
	course, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	// The catalog view never exposes content; that is gated by enrollment.
	course.Content = ""
	c.JSON(http.StatusOK, gin.H{"ok": true, "course": course})
}

// content serves the enrolled-only course material. Unenrolled users are
// redirected to the course list, not to sign-in.
func (h *Handler) content(c *gin.Context) {
	u, _ := guard.CurrentUser(c)
	id := c.Param("id")

	if d := guard.RequireEnrollment(&u, true, id); d.State != guard.StateGranted {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "redirect": d.RedirectTo})
		return
	}

	course, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "course": course})
}

func (h *Handler) enroll(c *gin.Context) {
	u, _ := guard.CurrentUser(c)
	if err := h.svc.Enroll(c.Request.Context(), u, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func respondError(c *gin.Context, err error) {
	var denied *policy.DeniedError
	switch {
	case errors.As(err, &denied):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": denied.Reason})
	case errors.Is(err, domain.ErrCourseNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "course not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "something went wrong"})
	}
}
