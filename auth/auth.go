package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Prannav-7/electrostore-client-sub000/models"
	"github.com/Prannav-7/electrostore-client-sub000/validators"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterHandler creates the user plus an empty cart and returns a token so
// the storefront can log the customer straight in.
func RegisterHandler(db *gorm.DB, jwtSecret []byte, adminEmail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "name, email and password are required"})
			return
		}

		form := validators.ValidateForm(map[string]string{
			"name":     req.Name,
			"email":    req.Email,
			"password": req.Password,
		}, map[string][]validators.Rule{
			"name":     {validators.Named("name", validators.ValidateName)},
			"email":    {validators.ValidateEmail},
			"password": {validators.ValidatePassword},
		})
		if !form.IsValid {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": firstError(form.Errors), "errors": form.Errors})
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		var existing models.User
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User already exists"})
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to hash password"})
			return
		}

		userID := uuid.NewString()
		user := models.User{
			ID:       userID,
			Email:    email,
			Password: string(hash),
			Name:     strings.TrimSpace(req.Name),
			Cart:     models.Cart{UserID: userID},
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create user"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"token":   issueJWT(jwtSecret, user, roleFor(user.Email, adminEmail)),
			"user":    publicUser(user, adminEmail),
		})
	}
}

// LoginHandler checks credentials and issues a 24h HS256 token.
func LoginHandler(db *gorm.DB, jwtSecret []byte, adminEmail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "email and password are required"})
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"token":   issueJWT(jwtSecret, user, roleFor(user.Email, adminEmail)),
			"user":    publicUser(user, adminEmail),
		})
	}
}

func roleFor(email, adminEmail string) string {
	if strings.EqualFold(email, adminEmail) {
		return "admin"
	}
	return "user"
}

// publicUser is the profile shape persisted client-side; isAdmin is derived
// from the designated admin email, there is no role table.
func publicUser(user models.User, adminEmail string) gin.H {
	return gin.H{
		"id":      user.ID,
		"name":    user.Name,
		"email":   user.Email,
		"phone":   user.Phone,
		"address": user.Address,
		"isAdmin": strings.EqualFold(user.Email, adminEmail),
	}
}

// issueJWT generates a JWT token for a user
func issueJWT(secret []byte, user models.User, role string) string {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    role,
		"name":    user.Name,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(secret)
	if err != nil {
		return ""
	}
	return signedToken
}

func firstError(errs map[string]string) string {
	for _, msg := range errs {
		return msg
	}
	return "validation failed"
}
