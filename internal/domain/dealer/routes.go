package dealer

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup) {
	dealers := api.Group("/dealers")
	{
		dealers.POST("/register", h.Register)
		dealers.POST("/login", h.Login)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/dealers/me", h.Me)
}
