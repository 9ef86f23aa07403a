package routes

import (
	"github.com/VishnuPrakashVP/wedding-app/handlers/auth"

	"github.com/gin-gonic/gin"
)

func AuthRoutes(r *gin.Engine) {
	usersRoutes := r.Group("/users")
	{
		usersRoutes.POST("/register", auth.Register)
		usersRoutes.POST("/login", auth.Login)
	}
}
