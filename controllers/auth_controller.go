package controllers

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nivesh_pathshala/middleware"
	"nivesh_pathshala/models"
	"nivesh_pathshala/services"
)

// phoneRe accepts Indian mobile numbers with an optional +91 prefix.
var phoneRe = regexp.MustCompile(`^(\+91)?[6-9]\d{9}$`)

// AuthController handles OTP login and admin login.
type AuthController struct {
	db  *gorm.DB
	otp *services.OtpService
}

// NewAuthController creates a new auth controller
func NewAuthController(db *gorm.DB, otp *services.OtpService) *AuthController {
	return &AuthController{db: db, otp: otp}
}

// RequestOTP issues a one-time password for a phone number.
// POST /api/auth/otp/request
func (ac *AuthController) RequestOTP(c *gin.Context) {
	var request struct {
		Phone string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !phoneRe.MatchString(request.Phone) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone number"})
		return
	}

	otp, err := ac.otp.Issue(request.Phone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue OTP"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "OTP sent",
		"expires_at": otp.ExpiresAt.Format(time.RFC3339),
	})
}

// VerifyOTP checks the code, upserts the user, and issues a session
// token.
// POST /api/auth/otp/verify
func (ac *AuthController) VerifyOTP(c *gin.Context) {
	var request struct {
		Phone string `json:"phone" binding:"required"`
		Code  string `json:"code" binding:"required"`
		Name  string `json:"name"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ac.otp.Verify(request.Phone, request.Code); err != nil {
		status := http.StatusUnauthorized
		switch {
		case errors.Is(err, services.ErrOtpMaxAttempts):
			status = http.StatusTooManyRequests
		case errors.Is(err, services.ErrOtpNotFound), errors.Is(err, services.ErrOtpExpired):
			status = http.StatusBadRequest
		case errors.Is(err, services.ErrOtpMismatch):
			status = http.StatusUnauthorized
		default:
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	middleware.RecordOtpAttempt(c.ClientIP(), true)

	// Find or create the user for this phone.
	var user models.User
	err := ac.db.Where("phone = ?", request.Phone).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Phone:         request.Phone,
			FullName:      request.Name,
			Role:          "user",
			IsActive:      true,
			PhoneVerified: true,
		}
		if err := ac.db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	now := time.Now()
	user.PhoneVerified = true
	user.LastLoginAt = &now
	if request.Name != "" && user.FullName == "" {
		user.FullName = request.Name
	}
	if err := ac.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	token, err := middleware.IssueSessionToken(user.ID, user.Phone, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue session token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Me returns the authenticated user's profile.
// GET /api/auth/me
func (ac *AuthController) Me(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var user models.User
	if err := ac.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}

// AdminLogin verifies admin credentials and issues an admin token.
// POST /api/admin/login
func (ac *AuthController) AdminLogin(c *gin.Context) {
	var request struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var admin models.AdminUser
	err := ac.db.Where("username = ? AND is_active = ?", request.Username, true).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !admin.CheckPassword(request.Password)) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load admin user"})
		return
	}

	now := time.Now()
	admin.LastLoginAt = &now
	ac.db.Save(&admin)

	token, err := middleware.IssueSessionToken(admin.ID, "", "admin")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue session token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"admin": admin,
	})
}
