package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.edit)
	rg.DELETE("/:id", h.delete)
	rg.POST("/:id/join", h.join)
	rg.POST("/:id/leave", h.leave)
}
