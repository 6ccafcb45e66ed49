package controllers

import (
	"strconv"

	"urbanhaven/constants"
	"urbanhaven/dto"
	"urbanhaven/middleware"
	"urbanhaven/models"
	"urbanhaven/response"
	"urbanhaven/services"
	"urbanhaven/validator"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReviewController struct {
	db      *gorm.DB
	roomSvc *services.RoomService
}

func NewReviewController(db *gorm.DB, roomSvc *services.RoomService) *ReviewController {
	return &ReviewController{db: db, roomSvc: roomSvc}
}

func convertToReviewResponse(review *models.Review) dto.ReviewResponse {
	var actor dto.ActorResponse
	if review.User != nil {
		actor = dto.ActorResponse{
			Name:        review.User.Name,
			Email:       review.User.Email,
			PhoneNumber: review.User.PhoneNumber,
		}
	}
	return dto.ReviewResponse{
		ID:        review.ID,
		RoomID:    review.RoomID,
		BookingID: review.BookingID,
		User:      actor,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
}

// CreateReview handles POST /reviews. Only the renter of a confirmed booking
// may review, once per booking.
func (rc *ReviewController) CreateReview(c *gin.Context) {
	currentUserID, _, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	var request dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}
	if err := validator.ValidateRating(request.Rating); err != nil {
		handleServiceError(c, err)
		return
	}

	var booking models.Booking
	if err := rc.db.First(&booking, request.BookingID).Error; err != nil {
		response.NotFound(c)
		return
	}
	if booking.UserID != currentUserID {
		response.Forbidden(c)
		return
	}
	if booking.Status != constants.BookingStatusConfirmed {
		response.BadRequest(c, "Only confirmed bookings can be reviewed")
		return
	}
	if booking.HasReview {
		response.Conflict(c, "Booking has already been reviewed")
		return
	}

	review := models.Review{
		RoomID:    booking.RoomID,
		UserID:    currentUserID,
		BookingID: booking.ID,
		Rating:    request.Rating,
		Comment:   request.Comment,
	}

	err := rc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return tx.Model(&models.Booking{}).Where("id = ?", booking.ID).
			Update("has_review", true).Error
	})
	if err != nil {
		response.ServerError(c)
		return
	}

	if err := rc.roomSvc.RecalculateRating(booking.RoomID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, convertToReviewResponse(&review))
}

// GetRoomReviews handles GET /rooms/:id/reviews
func (rc *ReviewController) GetRoomReviews(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid room id")
		return
	}

	page := 0
	limit := 10
	if pageStr := c.Query("page"); pageStr != "" {
		if parsedPage, err := strconv.Atoi(pageStr); err == nil && parsedPage >= 0 {
			page = parsedPage
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	var total int64
	if err := rc.db.Model(&models.Review{}).Where("room_id = ?", roomID).Count(&total).Error; err != nil {
		response.ServerError(c)
		return
	}

	var reviews []models.Review
	if err := rc.db.Preload("User").Where("room_id = ?", roomID).
		Order("created_at DESC").Offset(page * limit).Limit(limit).
		Find(&reviews).Error; err != nil {
		response.ServerError(c)
		return
	}

	reviewResponses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		reviewResponses = append(reviewResponses, convertToReviewResponse(&reviews[i]))
	}
	response.SuccessWithPagination(c, reviewResponses, page, limit, int(total))
}
