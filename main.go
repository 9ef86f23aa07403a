package main

import (
	"log"
	"os"

	"github.com/VishnuPrakashVP/wedding-app/config"
	"github.com/VishnuPrakashVP/wedding-app/db"
	mediahandlers "github.com/VishnuPrakashVP/wedding-app/handlers/media"
	paymenthandlers "github.com/VishnuPrakashVP/wedding-app/handlers/payments"
	"github.com/VishnuPrakashVP/wedding-app/routes"
	"github.com/VishnuPrakashVP/wedding-app/services/moderation"
	paymentsvc "github.com/VishnuPrakashVP/wedding-app/services/payments"
	"github.com/VishnuPrakashVP/wedding-app/services/screening"
	"github.com/VishnuPrakashVP/wedding-app/services/storage"
	"github.com/VishnuPrakashVP/wedding-app/utils"

	"github.com/gin-gonic/gin"
)

// @title Event Album API
// @version 1.0
// @description Media-sharing backend for event albums: uploads, moderation, plan purchases
// @host localhost:8080
// @BasePath /
// @SecurityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the JWT with the Bearer prefix: Bearer <JWT>
func main() {

	gin.SetMode(gin.ReleaseMode)

	db.InitDB()

	settings := config.Load()
	moderation.ReportFlagThreshold = settings.ReportFlagThreshold

	store, err := storage.NewCloudinaryStore()
	if err != nil {
		log.Printf("Warning: Cloudinary initialization failed: %v", err)
		log.Println("Media uploads will not work correctly.")
	} else {
		mediahandlers.Store = store
	}

	if settings.ScreeningAPIURL != "" {
		mediahandlers.Screener = screening.NewHTTPChecker(settings.ScreeningAPIURL, settings.ScreeningAPIKey)
	}

	gateway := paymentsvc.NewHTTPGateway(settings.GatewayURL, settings.GatewayKeyID, settings.GatewaySecret)
	paymenthandlers.Pipeline = paymentsvc.New(gateway, settings.GatewaySecret, settings.OrderDedupWindow)

	r := routes.SetupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		utils.LogError(err, "Error starting the server")
		log.Fatal("Error starting the server:", err)
	}
}
