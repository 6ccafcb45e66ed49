package controllers

import (
	"strconv"

	"urbanhaven/dto"
	"urbanhaven/middleware"
	"urbanhaven/models"
	"urbanhaven/response"
	"urbanhaven/services"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	svc *services.PaymentService
}

func NewPaymentController(svc *services.PaymentService) *PaymentController {
	return &PaymentController{svc: svc}
}

func convertToVerifiedBookingResponse(booking *models.Booking) dto.VerifiedBookingResponse {
	roomTitle := "Room"
	if booking.Room != nil {
		roomTitle = booking.Room.Title
	}
	return dto.VerifiedBookingResponse{
		ID:              booking.ID,
		Status:          booking.Status,
		PaymentStatus:   booking.PaymentStatus,
		TotalPrice:      booking.TotalPrice,
		StartDate:       booking.StartDate,
		EndDate:         booking.EndDate,
		Duration:        booking.Duration,
		RoomTitle:       roomTitle,
		TransactionUUID: booking.EsewaTransaction.TransactionUUID,
		RefID:           booking.EsewaTransaction.RefID,
		PaidAt:          booking.EsewaTransaction.PaidAt,
	}
}

// InitiateEsewaPayment handles POST /payment/esewa/initiate
func (pc *PaymentController) InitiateEsewaPayment(c *gin.Context) {
	currentUserID, _, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	var req dto.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	resp, err := pc.svc.InitiatePayment(req.BookingID, currentUserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, resp)
}

// VerifyEsewaPayment handles POST /payment/esewa/verify, the gateway
// callback. Safe to call repeatedly with the same payload.
func (pc *PaymentController) VerifyEsewaPayment(c *gin.Context) {
	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Payment data is required")
		return
	}

	booking, err := pc.svc.VerifyPayment(req.Data)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, convertToVerifiedBookingResponse(booking))
}

// GetPaymentStatus handles GET /payment/status/:bookingId
func (pc *PaymentController) GetPaymentStatus(c *gin.Context) {
	bookingID, err := strconv.ParseUint(c.Param("bookingId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid booking id")
		return
	}

	status, err := pc.svc.GetPaymentStatus(uint(bookingID))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, status)
}
