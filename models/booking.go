package models

import (
	"time"
)

type Booking struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	RoomID     uint       `json:"roomId" gorm:"index;not null"`
	Room       *Room      `json:"room,omitempty" gorm:"foreignKey:RoomID"`
	UserID     uint       `json:"userId" gorm:"index;not null"`
	User       *User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	RenterInfo RenterInfo `json:"renterInfo" gorm:"embedded;embeddedPrefix:renter_"`

	BookingDate time.Time `json:"bookingDate" gorm:"autoCreateTime"`
	StartDate   time.Time `json:"startDate" gorm:"index;not null"`
	EndDate     time.Time `json:"endDate" gorm:"index;not null"`
	Duration    int       `json:"duration" gorm:"default:1"` // months

	// Price breakdown, fixed at creation
	MonthlyRent     int     `json:"monthlyRent"`
	SecurityDeposit int     `json:"securityDeposit"`
	ServiceFee      int     `json:"serviceFee" gorm:"default:100"`
	PromoCode       *string `json:"promoCode,omitempty"`
	Discount        int     `json:"discount" gorm:"default:0"`
	TotalPrice      int     `json:"totalPrice"`

	PaymentMethod string `json:"paymentMethod" gorm:"size:10;default:'esewa'"`
	Status        string `json:"status" gorm:"size:10;default:'pending';index"`
	PaymentStatus string `json:"paymentStatus" gorm:"size:10;default:'unpaid'"`

	// Zero TransactionUUID means no payment attempt has been made yet
	EsewaTransaction EsewaTransaction `json:"esewaTransaction" gorm:"embedded;embeddedPrefix:esewa_"`

	HasReview bool `json:"hasReview" gorm:"default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// RenterInfo is the contact block captured with every booking request
type RenterInfo struct {
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	NumberOfOccupants int    `json:"numberOfOccupants" gorm:"default:1"`
}

// EsewaTransaction is created at payment initiation and completed by verify
type EsewaTransaction struct {
	TransactionUUID string     `json:"transactionUuid" gorm:"column:transaction_uuid;index"`
	Amount          int        `json:"amount"`
	RefID           string     `json:"refId,omitempty" gorm:"column:ref_id"`
	PaidAt          *time.Time `json:"paidAt,omitempty"`
}
