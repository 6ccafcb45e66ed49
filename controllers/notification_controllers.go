package controllers

import (
	"urbanhaven/middleware"
	"urbanhaven/models"
	"urbanhaven/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type NotificationController struct {
	db *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{db: db}
}

// GetNotifications handles GET /notifications, newest first
func (nc *NotificationController) GetNotifications(c *gin.Context) {
	currentUserID, _, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	var notifications []models.Notification
	if err := nc.db.Where("user_id = ?", currentUserID).
		Order("created_at DESC").Limit(50).
		Find(&notifications).Error; err != nil {
		response.ServerError(c)
		return
	}
	response.Success(c, notifications)
}

// MarkNotificationsRead handles PUT /notifications/read
func (nc *NotificationController) MarkNotificationsRead(c *gin.Context) {
	currentUserID, _, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	if err := nc.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", currentUserID, false).
		Update("is_read", true).Error; err != nil {
		response.ServerError(c)
		return
	}
	response.Success(c, gin.H{"message": "Notifications marked as read"})
}
