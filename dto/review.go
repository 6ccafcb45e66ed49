package dto

import "time"

// CreateReviewRequest submits a review for a confirmed booking
type CreateReviewRequest struct {
	BookingID uint   `json:"bookingId" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment"`
}

type ReviewResponse struct {
	ID        uint          `json:"id"`
	RoomID    uint          `json:"roomId"`
	BookingID uint          `json:"bookingId"`
	User      ActorResponse `json:"user"`
	Rating    int           `json:"rating"`
	Comment   string        `json:"comment"`
	CreatedAt time.Time     `json:"createdAt"`
}
