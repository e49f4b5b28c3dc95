package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campuslaunch/campus-launch-backend/internal/audit"
	"github.com/campuslaunch/campus-launch-backend/internal/guard"
	"github.com/campuslaunch/campus-launch-backend/internal/hackathons/domain"
	"github.com/campuslaunch/campus-launch-backend/internal/hackathons/service"
	"github.com/campuslaunch/campus-launch-backend/internal/policy"
)

type Handler struct {
	svc *service.HackathonService
}

func NewHandler(svc *service.HackathonService) *Handler {
	return &Handler{svc: svc}
}

// Register attaches hackathon routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.POST("/:id/bookings", h.bookSlot)
	rg.POST("/:id/results", h.submitResults)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "hackathons": items})
}

func (h *Handler) get(c *gin.Context) {
	hk, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "hackathon": hk})
}

type bookSlotReq struct {
	Slot string `json:"slot"`
}

func (h *Handler) bookSlot(c *gin.Context) {
	u, _ := guard.CurrentUser(c)

	var req bookSlotReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Slot) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := h.svc.BookSlot(c.Request.Context(), u, c.Param("id"), strings.TrimSpace(req.Slot)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true})
}

type resultsReq struct {
	Winner string `json:"winner"`
}

func (h *Handler) submitResults(c *gin.Context) {
	u, _ := guard.CurrentUser(c)

	var req resultsReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Winner) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := h.svc.SubmitResults(c.Request.Context(), u, c.Param("id"), strings.TrimSpace(req.Winner)); err != nil {
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
	case errors.Is(err, domain.ErrHackathonNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "hackathon not found"})
	case errors.As(err, &partial):
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "the operation only partially completed; it has been flagged for review"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "something went wrong"})
	}
}
