package models

import "time"

type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	RoomID    uint      `json:"roomId" gorm:"index;not null"`
	UserID    uint      `json:"userId" gorm:"not null"`
	BookingID uint      `json:"bookingId" gorm:"uniqueIndex;not null"` // one review per booking
	Rating    int       `json:"rating"`                                // 1..5
	Comment   string    `json:"comment" gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
