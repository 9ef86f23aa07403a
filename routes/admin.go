package routes

import (
	"github.com/VishnuPrakashVP/wedding-app/handlers/admin"
	"github.com/VishnuPrakashVP/wedding-app/middleware"

	"github.com/gin-gonic/gin"
)

func AdminRoutes(r *gin.Engine) {
	adminRoutes := r.Group("/admin")
	adminRoutes.Use(middleware.AdminAuth())
	{
		adminRoutes.GET("/dashboard", admin.Dashboard)
		adminRoutes.GET("/analytics", admin.Analytics)
		adminRoutes.GET("/users", admin.ListUsers)
		adminRoutes.PATCH("/approve-media/:id", admin.ApproveMedia)
		adminRoutes.DELETE("/reject-media/:id", admin.RejectMedia)
	}
}
