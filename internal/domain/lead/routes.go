package lead

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	leads := r.Group("/scored-leads")
	{
		leads.GET("", h.List)
		leads.GET("/:id", h.GetByID)
	}
}
