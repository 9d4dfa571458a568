package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nivesh_pathshala/middleware"
	"nivesh_pathshala/models"
)

// PaymentController handles course purchase orders.
type PaymentController struct {
	db *gorm.DB
}

// NewPaymentController creates a new payment controller
func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{db: db}
}

// CreateOrder opens a payment in the created state.
// POST /api/payments/order
func (pc *PaymentController) CreateOrder(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var request struct {
		Course      string `json:"course" binding:"required"`
		AmountPaise int64  `json:"amount_paise" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.AmountPaise <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	payment := models.Payment{
		UserID:      userID,
		Course:      request.Course,
		AmountPaise: request.AmountPaise,
		Status:      models.PaymentStatusCreated,
		Reference:   fmt.Sprintf("NP-%d-%d", userID, time.Now().UnixNano()),
	}
	if err := pc.db.Create(&payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": payment})
}

// UpdateStatus moves a payment to success or failed. Terminal
// payments cannot transition again.
// POST /api/payments/:id/status
func (pc *PaymentController) UpdateStatus(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var request struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.Status != models.PaymentStatusSuccess && request.Status != models.PaymentStatusFailed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be success or failed"})
		return
	}

	var payment models.Payment
	if err := pc.db.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&payment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment"})
		return
	}

	if payment.IsTerminal() {
		c.JSON(http.StatusConflict, gin.H{"error": "payment already finalized", "data": payment})
		return
	}

	now := time.Now()
	payment.Status = request.Status
	payment.CompletedAt = &now
	if err := pc.db.Save(&payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
		return
	}

	// A successful course purchase upgrades the learner.
	if payment.Status == models.PaymentStatusSuccess {
		pc.db.Model(&models.User{}).Where("id = ?", userID).Update("role", "premium")
	}

	c.JSON(http.StatusOK, gin.H{"data": payment})
}

// GetMyPayments returns the caller's payment history.
// GET /api/payments
func (pc *PaymentController) GetMyPayments(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var payments []models.Payment
	if err := pc.db.Where("user_id = ?", userID).Order("created_at desc").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  payments,
		"count": len(payments),
	})
}

// GetAllPayments returns payments for the admin dashboard.
// GET /api/admin/payments
func (pc *PaymentController) GetAllPayments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := pc.db.Model(&models.Payment{})
	if status := c.Query("status"); status != "" {
		if !models.IsValidPaymentStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var payments []models.Payment
	if err := query.Preload("User").Order("created_at desc").Limit(limit).Offset(offset).Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": payments,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}
