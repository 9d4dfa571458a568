package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nivesh_pathshala/models"
)

// LeadController handles course enquiries from the website.
type LeadController struct {
	db *gorm.DB
}

// NewLeadController creates a new lead controller
func NewLeadController(db *gorm.DB) *LeadController {
	return &LeadController{db: db}
}

// CreateLead records a course enquiry.
// POST /api/leads
func (lc *LeadController) CreateLead(c *gin.Context) {
	var request struct {
		Name           string `json:"name" binding:"required"`
		Phone          string `json:"phone" binding:"required"`
		Email          string `json:"email"`
		CourseInterest string `json:"course_interest"`
		Message        string `json:"message"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !phoneRe.MatchString(request.Phone) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone number"})
		return
	}

	lead := models.Lead{
		Name:           request.Name,
		Phone:          request.Phone,
		Email:          request.Email,
		CourseInterest: request.CourseInterest,
		Message:        request.Message,
		Status:         "new",
	}
	if err := lc.db.Create(&lead).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save enquiry"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": lead})
}

// GetLeads returns leads for the admin dashboard with pagination.
// GET /api/admin/leads
func (lc *LeadController) GetLeads(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := lc.db.Model(&models.Lead{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var leads []models.Lead
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&leads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leads"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": leads,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// UpdateLeadStatus moves a lead through the pipeline.
// PATCH /api/admin/leads/:id
func (lc *LeadController) UpdateLeadStatus(c *gin.Context) {
	var request struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch request.Status {
	case "new", "contacted", "converted", "dropped":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	var lead models.Lead
	if err := lc.db.First(&lead, c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch lead"})
		return
	}

	lead.Status = request.Status
	if err := lc.db.Save(&lead).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update lead"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": lead})
}
