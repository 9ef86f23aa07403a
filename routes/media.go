package routes

import (
	"github.com/VishnuPrakashVP/wedding-app/handlers/media"
	"github.com/VishnuPrakashVP/wedding-app/middleware"

	"github.com/gin-gonic/gin"
)

func MediaRoutes(r *gin.Engine) {
	mediaRoutes := r.Group("/media")
	mediaRoutes.Use(middleware.JWTAuth())
	{
		mediaRoutes.POST("/upload/", media.UploadMedia)
		mediaRoutes.GET("/album/:id", media.GetAlbumMedia)
		mediaRoutes.POST("/report/:id", media.ReportMedia)
		mediaRoutes.GET("/flagged", middleware.AdminAuth(), media.GetFlaggedMedia)
	}
}
