package routes

import (
	"github.com/VishnuPrakashVP/wedding-app/handlers/albums"
	"github.com/VishnuPrakashVP/wedding-app/middleware"

	"github.com/gin-gonic/gin"
)

func AlbumsRoutes(r *gin.Engine) {
	albumsRoutes := r.Group("/albums")
	albumsRoutes.Use(middleware.JWTAuth())
	{
		albumsRoutes.GET("/", albums.ListAlbums)
		albumsRoutes.POST("/", albums.CreateAlbum)
		albumsRoutes.GET("/:id", albums.GetAlbum)
		albumsRoutes.PUT("/:id", albums.UpdateAlbum)
	}
}
