package controllers

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"urbanhaven/config"
	"urbanhaven/constants"
	"urbanhaven/dto"
	"urbanhaven/middleware"
	"urbanhaven/models"
	"urbanhaven/response"
	"urbanhaven/services"
	"urbanhaven/validator"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type BookingController struct {
	svc *services.BookingService
	rdb *redis.Client
}

func NewBookingController(svc *services.BookingService, rdb *redis.Client) *BookingController {
	return &BookingController{svc: svc, rdb: rdb}
}

func convertToBookingRoomResponse(room *models.Room) dto.BookingRoomResponse {
	if room == nil {
		return dto.BookingRoomResponse{}
	}
	return dto.BookingRoomResponse{
		ID:     room.ID,
		Title:  room.Title,
		Price:  room.Price,
		City:   room.City,
		Area:   room.Area,
		Status: room.Status,
	}
}

func convertToBookingResponse(booking *models.Booking) dto.BookingResponse {
	var actor dto.ActorResponse
	if booking.User != nil {
		actor = dto.ActorResponse{
			Name:        booking.User.Name,
			Email:       booking.User.Email,
			PhoneNumber: booking.User.PhoneNumber,
		}
	} else {
		actor = dto.ActorResponse{
			Name:        booking.RenterInfo.FirstName + " " + booking.RenterInfo.LastName,
			Email:       booking.RenterInfo.Email,
			PhoneNumber: booking.RenterInfo.Phone,
		}
	}

	return dto.BookingResponse{
		ID:              booking.ID,
		User:            actor,
		Room:            convertToBookingRoomResponse(booking.Room),
		RenterInfo:      booking.RenterInfo,
		StartDate:       booking.StartDate,
		EndDate:         booking.EndDate,
		Duration:        booking.Duration,
		MonthlyRent:     booking.MonthlyRent,
		SecurityDeposit: booking.SecurityDeposit,
		ServiceFee:      booking.ServiceFee,
		Discount:        booking.Discount,
		TotalPrice:      booking.TotalPrice,
		PaymentMethod:   booking.PaymentMethod,
		Status:          booking.Status,
		PaymentStatus:   booking.PaymentStatus,
		HasReview:       booking.HasReview,
		CreatedAt:       booking.CreatedAt,
		UpdatedAt:       booking.UpdatedAt,
	}
}

func (bc *BookingController) invalidateBookingCaches(userID uint) {
	if bc.rdb == nil {
		return
	}
	// Covers bookings:all and every bookings:user:* entry
	if err := services.DeleteKeysByPattern(config.Ctx, bc.rdb, "bookings:*"); err != nil {
		log.Printf("Cannot invalidate booking caches for user %d: %v", userID, err)
	}
	_ = services.DeleteFromRedis(config.Ctx, bc.rdb, "rooms:all")
}

// CreateBooking handles POST /bookings
func (bc *BookingController) CreateBooking(c *gin.Context) {
	currentUserID, _, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	var request dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	startDate, err := ConvertDateToISOFormat(request.StartDate)
	if err != nil {
		response.BadRequest(c, "Invalid start date")
		return
	}
	endDate, err := ConvertDateToISOFormat(request.EndDate)
	if err != nil {
		response.BadRequest(c, "Invalid end date")
		return
	}

	if err := validator.ValidateRenterInfo(request.RenterInfo); err != nil {
		handleServiceError(c, err)
		return
	}

	booking, err := bc.svc.CreateBooking(currentUserID, services.CreateBookingParams{
		RoomID:        request.RoomID,
		StartDate:     startDate,
		EndDate:       endDate,
		Duration:      request.Duration,
		RenterInfo:    request.RenterInfo,
		PaymentMethod: request.PaymentMethod,
		PromoCode:     request.PromoCode,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	bc.invalidateBookingCaches(currentUserID)

	full, err := bc.svc.GetByID(booking.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, convertToBookingResponse(full))
}

// GetMyBookings handles GET /myBookings
func (bc *BookingController) GetMyBookings(c *gin.Context) {
	currentUserID, _, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	cacheKey := fmt.Sprintf("bookings:user:%d", currentUserID)

	var bookings []models.Booking
	if bc.rdb != nil {
		if err := services.GetFromRedis(config.Ctx, bc.rdb, cacheKey, &bookings); err != nil {
			log.Printf("Cannot read booking cache: %v", err)
		}
	}

	if len(bookings) == 0 {
		var err error
		bookings, err = bc.svc.ListByUser(currentUserID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		if bc.rdb != nil && len(bookings) > 0 {
			if err := services.SetToRedis(config.Ctx, bc.rdb, cacheKey, bookings, 10*time.Minute); err != nil {
				log.Printf("Cannot cache bookings: %v", err)
			}
		}
	}

	bookingResponses := make([]dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		bookingResponses = append(bookingResponses, convertToBookingResponse(&bookings[i]))
	}
	response.Success(c, bookingResponses)
}

// GetBookings handles GET /bookings (admin)
func (bc *BookingController) GetBookings(c *gin.Context) {
	bookings, err := bc.svc.ListAll()
	if err != nil {
		handleServiceError(c, err)
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

	statusFilter := c.Query("status")
	filtered := make([]models.Booking, 0, len(bookings))
	for _, booking := range bookings {
		if statusFilter != "" && booking.Status != statusFilter {
			continue
		}
		filtered = append(filtered, booking)
	}

	total := len(filtered)
	start := page * limit
	end := start + limit
	if start >= total {
		filtered = []models.Booking{}
	} else if end > total {
		filtered = filtered[start:]
	} else {
		filtered = filtered[start:end]
	}

	bookingResponses := make([]dto.BookingResponse, 0, len(filtered))
	for i := range filtered {
		bookingResponses = append(bookingResponses, convertToBookingResponse(&filtered[i]))
	}
	response.SuccessWithPagination(c, bookingResponses, page, limit, total)
}

// GetBookingDetail handles GET /bookings/:id
func (bc *BookingController) GetBookingDetail(c *gin.Context) {
	currentUserID, currentUserRole, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid booking id")
		return
	}

	booking, err := bc.svc.GetByID(uint(bookingID))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if booking.UserID != currentUserID && currentUserRole != constants.RoleAdmin {
		response.Forbidden(c)
		return
	}
	response.Success(c, convertToBookingResponse(booking))
}

// CancelBooking handles PUT /bookings/:id/cancel
func (bc *BookingController) CancelBooking(c *gin.Context) {
	currentUserID, _, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid booking id")
		return
	}

	if err := bc.svc.CancelBooking(uint(bookingID), currentUserID); err != nil {
		handleServiceError(c, err)
		return
	}

	bc.invalidateBookingCaches(currentUserID)
	response.Success(c, gin.H{"message": "Booking cancelled successfully"})
}

// ChangeBookingStatus handles PUT /bookingStatus (admin approve/reject)
func (bc *BookingController) ChangeBookingStatus(c *gin.Context) {
	var req dto.BookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	var booking *models.Booking
	var err error
	switch req.Status {
	case constants.BookingStatusConfirmed:
		booking, err = bc.svc.ApproveBooking(req.ID)
	case constants.BookingStatusCancelled:
		booking, err = bc.svc.RejectBooking(req.ID)
	default:
		response.BadRequest(c, "Status must be confirmed or cancelled")
		return
	}
	if err != nil {
		handleServiceError(c, err)
		return
	}

	bc.invalidateBookingCaches(booking.UserID)
	response.Success(c, convertToBookingResponse(booking))
}
