package models

import (
	"encoding/json"
	"fmt"
	"time"

	"urbanhaven/constants"
)

type Room struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	Title         string          `json:"title" gorm:"size:100;not null"`
	Description   string          `json:"description" gorm:"type:text"`
	RoomType      string          `json:"roomType" gorm:"size:20"`
	Price         int             `json:"price"`
	Size          int             `json:"size"`
	Beds          int             `json:"beds" gorm:"default:1"`
	Bathrooms     int             `json:"bathrooms" gorm:"default:1"`
	City          string          `json:"city" gorm:"index"`
	Area          string          `json:"area" gorm:"index"`
	Address       string          `json:"address"`
	Amenities     json.RawMessage `json:"amenities" gorm:"type:json"`
	Images        json.RawMessage `json:"images" gorm:"type:json"`
	OwnerID       uint            `json:"ownerId"`
	Owner         *User           `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Status        string          `json:"status" gorm:"size:20;default:'available';index"`
	IsVerified    bool            `json:"isVerified" gorm:"default:false"`
	IsFeatured    bool            `json:"isFeatured" gorm:"default:false"`
	RatingAverage float64         `json:"ratingAverage" gorm:"default:0"`
	RatingCount   int             `json:"ratingCount" gorm:"default:0"`
	Views         int             `json:"views" gorm:"default:0"`
	AvailableFrom *time.Time      `json:"availableFrom"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (r *Room) ValidateStatus() error {
	switch r.Status {
	case constants.RoomStatusAvailable, constants.RoomStatusPending,
		constants.RoomStatusRented, constants.RoomStatusInactive:
		return nil
	}
	return fmt.Errorf("invalid room status: %s", r.Status)
}
