package dto

import (
	"time"

	"urbanhaven/models"
)

// CreateBookingRequest is the booking creation payload.
// Dates use the dd/mm/yyyy wire format.
type CreateBookingRequest struct {
	RoomID        uint              `json:"roomId" binding:"required"`
	StartDate     string            `json:"startDate" binding:"required"`
	EndDate       string            `json:"endDate" binding:"required"`
	Duration      int               `json:"duration"`
	RenterInfo    models.RenterInfo `json:"renterInfo" binding:"required"`
	PaymentMethod string            `json:"paymentMethod"`
	PromoCode     *string           `json:"promoCode"`
}

// BookingStatusRequest is the admin approve/reject payload
type BookingStatusRequest struct {
	ID     uint   `json:"id" binding:"required"`
	Status string `json:"status" binding:"required"`
}

type BookingRoomResponse struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Price  int    `json:"price"`
	City   string `json:"city"`
	Area   string `json:"area"`
	Status string `json:"status"`
}

type BookingResponse struct {
	ID              uint                `json:"id"`
	User            ActorResponse       `json:"user"`
	Room            BookingRoomResponse `json:"room"`
	RenterInfo      models.RenterInfo   `json:"renterInfo"`
	StartDate       time.Time           `json:"startDate"`
	EndDate         time.Time           `json:"endDate"`
	Duration        int                 `json:"duration"`
	MonthlyRent     int                 `json:"monthlyRent"`
	SecurityDeposit int                 `json:"securityDeposit"`
	ServiceFee      int                 `json:"serviceFee"`
	Discount        int                 `json:"discount"`
	TotalPrice      int                 `json:"totalPrice"`
	PaymentMethod   string              `json:"paymentMethod"`
	Status          string              `json:"status"`
	PaymentStatus   string              `json:"paymentStatus"`
	HasReview       bool                `json:"hasReview"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}
