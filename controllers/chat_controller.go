package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nivesh_pathshala/middleware"
	"nivesh_pathshala/models"
	"nivesh_pathshala/services"
)

// maxChatBodyLength bounds a single chat message.
const maxChatBodyLength = 1000

// ChatController handles the community chat.
type ChatController struct {
	db      *gorm.DB
	archive *services.ChatArchive
}

// NewChatController creates a new chat controller
func NewChatController(db *gorm.DB, archive *services.ChatArchive) *ChatController {
	return &ChatController{db: db, archive: archive}
}

// PostMessage stores a chat message and mirrors it to the archive
// when one is configured.
// POST /api/chat
func (cc *ChatController) PostMessage(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var request struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body := strings.TrimSpace(request.Body)
	if body == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message body is empty"})
		return
	}
	if len(body) > maxChatBodyLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message too long"})
		return
	}

	role, _ := c.Get("user_role")
	message := models.ChatMessage{
		UserID:  userID,
		Body:    body,
		IsAdmin: role == "admin",
	}
	if err := cc.db.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
		return
	}

	if cc.archive != nil {
		phone, _ := middleware.GetPhoneFromContext(c)
		go cc.archive.ArchiveMessage(&message, phone)
	}

	c.JSON(http.StatusCreated, gin.H{"data": message})
}

// GetMessages returns recent chat messages, newest first.
// GET /api/chat
func (cc *ChatController) GetMessages(c *gin.Context) {
	if _, err := middleware.GetUserIDFromContext(c); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var messages []models.ChatMessage
	if err := cc.db.Preload("User").Order("created_at desc").Limit(limit).Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  messages,
		"count": len(messages),
	})
}
