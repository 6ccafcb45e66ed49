package dto

import (
	"encoding/json"
	"time"
)

// CreateRoomRequest is the owner/admin listing payload
type CreateRoomRequest struct {
	Title         string          `json:"title" binding:"required"`
	Description   string          `json:"description"`
	RoomType      string          `json:"roomType" binding:"required"`
	Price         int             `json:"price" binding:"required"`
	Size          int             `json:"size"`
	Beds          int             `json:"beds"`
	Bathrooms     int             `json:"bathrooms"`
	City          string          `json:"city" binding:"required"`
	Area          string          `json:"area" binding:"required"`
	Address       string          `json:"address"`
	Amenities     json.RawMessage `json:"amenities"`
	Images        json.RawMessage `json:"images"`
	AvailableFrom *time.Time      `json:"availableFrom"`
}

// RoomStatusRequest flips a room's availability status
type RoomStatusRequest struct {
	ID     uint   `json:"id" binding:"required"`
	Status string `json:"status" binding:"required"`
}

type RoomResponse struct {
	ID            uint            `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	RoomType      string          `json:"roomType"`
	Price         int             `json:"price"`
	Size          int             `json:"size"`
	Beds          int             `json:"beds"`
	Bathrooms     int             `json:"bathrooms"`
	City          string          `json:"city"`
	Area          string          `json:"area"`
	Address       string          `json:"address"`
	Amenities     json.RawMessage `json:"amenities"`
	Images        json.RawMessage `json:"images"`
	OwnerID       uint            `json:"ownerId"`
	Status        string          `json:"status"`
	RatingAverage float64         `json:"ratingAverage"`
	RatingCount   int             `json:"ratingCount"`
	Views         int             `json:"views"`
	AvailableFrom *time.Time      `json:"availableFrom"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ScoredRoom pairs a room with its fuzzy-search relevance score
type ScoredRoom struct {
	Room  RoomResponse `json:"room"`
	Score int          `json:"score"`
}
