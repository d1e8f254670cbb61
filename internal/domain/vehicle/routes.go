package vehicle

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	vehicles := r.Group("/vehicles")
	{
		vehicles.GET("", h.List)
		vehicles.GET("/:id", h.GetByID)
	}
}
