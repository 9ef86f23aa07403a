package db

import (
	"errors"
	"os"

	"github.com/VishnuPrakashVP/wedding-app/models"
	"github.com/VishnuPrakashVP/wedding-app/utils"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	if err := godotenv.Load(); err != nil {
		utils.LogError(err, "Warning: impossible to load the .env file")
		utils.LogInfo("The environment variable DB_URL must be defined in the system environment")
	}

	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		utils.LogError(nil, "Variable DB_URL not defined")
		panic("Database URL not configured")
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: utils.GetGormLogger(),
	})
	if err != nil {
		utils.LogError(err, "Error connecting to the database")
		panic("Could not connect to the database")
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Album{},
		&models.Media{},
		&models.MediaReport{},
		&models.Plan{},
		&models.Order{},
		&models.Entitlement{},
	)
	if err != nil {
		utils.LogError(err, "Error migrating database")
		panic("Could not migrate database")
	}

	if err := seedPlans(DB); err != nil {
		utils.LogError(err, "Error seeding plan catalog")
		panic("Could not seed plan catalog")
	}

	utils.LogSuccess("Database connection successful")
}

// seedPlans inserts missing catalog rows. Existing rows are left untouched so
// a price change in code never rewrites order history retroactively.
func seedPlans(db *gorm.DB) error {
	for _, plan := range models.PlanCatalog() {
		var existing models.Plan
		err := db.Where("name = ?", plan.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&plan).Error; err != nil {
			return err
		}
	}
	return nil
}
