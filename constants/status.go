package constants

// Room status
const (
	RoomStatusAvailable = "available"
	RoomStatusPending   = "pending"
	RoomStatusRented    = "rented"
	RoomStatusInactive  = "inactive"
)

// Booking status
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Payment status
const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// Payment method
const (
	PaymentMethodEsewa = "esewa"
	PaymentMethodCash  = "cash"
)

// User roles
const (
	RoleRenter = 0
	RoleOwner  = 1
	RoleAdmin  = 2
)

// Flat service fee charged on every booking
const BookingServiceFee = 100

// Security deposit rate applied to the monthly rent
const SecurityDepositRate = 0.2
