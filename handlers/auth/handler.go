package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/VishnuPrakashVP/wedding-app/db"
	"github.com/VishnuPrakashVP/wedding-app/models"
	"github.com/VishnuPrakashVP/wedding-app/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// @Summary Register a new user
// @Description Create a new user account and issue a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param user body models.User true "User information"
// @Success 201 {object} map[string]interface{} "user, token"
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse "Email already used"
// @Failure 500 {object} utils.ErrorResponse
// @Router /users/register [post]
func Register(c *gin.Context) {
	var user models.User

	if err := c.ShouldBindJSON(&user); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidateEmail(user.Email) {
		utils.SendError(c, http.StatusBadRequest, "Invalid email format")
		return
	}

	if len(user.Password) < 6 {
		utils.SendError(c, http.StatusBadRequest, "The password must contain at least 6 characters")
		return
	}

	hasLower := strings.ContainsAny(user.Password, "abcdefghijklmnopqrstuvwxyz")
	hasUpper := strings.ContainsAny(user.Password, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	hasDigit := strings.ContainsAny(user.Password, "0123456789")

	if !hasLower || !hasUpper || !hasDigit {
		utils.SendError(c, http.StatusBadRequest, "The password must contain at least one lowercase, one uppercase and one digit")
		return
	}

	var existingUser models.User
	if err := db.DB.Where("email = ?", user.Email).First(&existingUser).Error; err == nil {
		utils.SendError(c, http.StatusConflict, "This email is already used")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.LogError(err, "Error checking email existence in Register")
		utils.SendError(c, http.StatusInternalServerError, "Error when checking the email existence")
		return
	}

	passwordHash, err := hashPassword(user.Password)
	if err != nil {
		utils.SendError(c, http.StatusUnprocessableEntity, "Error hashing the password")
		return
	}

	user.Password = passwordHash
	// Registration always creates a member; role changes are admin actions.
	user.Role = models.MemberRole

	if err := db.DB.Create(&user).Error; err != nil {
		utils.LogError(err, "Error creating user in Register")
		utils.SendError(c, http.StatusInternalServerError, "Error creating the user")
		return
	}

	token, err := utils.GenerateJWT(user, 24)
	if err != nil {
		utils.SendError(c, http.StatusUnprocessableEntity, "Error generating the token")
		return
	}

	user.Password = ""
	utils.LogSuccessWithUser(user.ID, "User registered in Register")
	c.JSON(http.StatusCreated, gin.H{
		"user":  user,
		"token": token,
	})
}

// @Summary User login
// @Description Authenticate with email and password, returns a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body models.UserCredentials true "Credentials"
// @Success 200 {object} map[string]interface{} "user, token"
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse "Wrong credentials"
// @Router /users/login [post]
func Login(c *gin.Context) {
	var input models.UserCredentials

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var user models.User
	result := db.DB.Where("email = ?", input.Email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.SendError(c, http.StatusUnauthorized, "Wrong credentials")
		} else {
			utils.LogError(result.Error, "Database error in Login")
			utils.SendError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !samePassword(input.Password, user.Password) {
		utils.SendError(c, http.StatusUnauthorized, "Wrong credentials")
		return
	}

	token, err := utils.GenerateJWT(user, 24)
	if err != nil {
		utils.SendError(c, http.StatusUnprocessableEntity, "Error generating the token")
		return
	}

	user.Password = ""
	utils.LogSuccessWithUser(user.ID, "User logged in")
	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"token": token,
	})
}

func hashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

func samePassword(formPassword string, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(formPassword))
	return err == nil
}
