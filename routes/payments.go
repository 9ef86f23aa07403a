package routes

import (
	"github.com/VishnuPrakashVP/wedding-app/handlers/payments"
	"github.com/VishnuPrakashVP/wedding-app/middleware"

	"github.com/gin-gonic/gin"
)

func PaymentsRoutes(r *gin.Engine) {
	paymentsRoutes := r.Group("/payments")
	paymentsRoutes.Use(middleware.JWTAuth())
	{
		paymentsRoutes.POST("/create-order", payments.CreateOrder)
		paymentsRoutes.POST("/verify-payment", payments.VerifyPayment)
		paymentsRoutes.GET("/payment/:id", payments.GetPayment)
	}
}
