package services

import (
	stderrors "errors"
	"math"
	"time"

	"urbanhaven/constants"
	"urbanhaven/errors"
	"urbanhaven/models"
	"urbanhaven/services/logger"
	"urbanhaven/services/notification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingService owns booking records, the no-overlap invariant and the
// price computation.
type BookingService struct {
	db       *gorm.DB
	notifier *notification.Service
	logger   logger.Logger
}

type BookingServiceOptions struct {
	DB       *gorm.DB
	Notifier *notification.Service
	Logger   logger.Logger
}

func NewBookingService(opts BookingServiceOptions) *BookingService {
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &BookingService{
		db:       opts.DB,
		notifier: opts.Notifier,
		logger:   opts.Logger,
	}
}

// CreateBookingParams is the validated input for CreateBooking
type CreateBookingParams struct {
	RoomID        uint
	StartDate     time.Time
	EndDate       time.Time
	Duration      int
	RenterInfo    models.RenterInfo
	PaymentMethod string
	PromoCode     *string
}

// CreateBooking validates the request, checks for overlapping bookings and
// reserves the room, all inside one transaction. The room row is locked
// first, so two concurrent requests for the same room serialize and the
// loser sees the winner's booking in its overlap check.
//
// Write order inside the transaction: booking row first, then room status.
func (s *BookingService) CreateBooking(userID uint, params CreateBookingParams) (*models.Booking, error) {
	var booking *models.Booking

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := lockForUpdate(tx).First(&room, params.RoomID).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.NewAppError(errors.ErrCodeNotFound, "Room not found", err)
			}
			return errors.NewAppError(errors.ErrCodeDBError, "Cannot load room", err)
		}

		if room.Status != constants.RoomStatusAvailable {
			return errors.NewAppError(errors.ErrCodeConflict, "Room is not available for booking", nil)
		}

		if !params.StartDate.Before(params.EndDate) {
			return errors.NewAppError(errors.ErrCodeInvalidInput, "End date must be after start date", nil)
		}

		if room.AvailableFrom != nil && params.StartDate.Before(*room.AvailableFrom) {
			return errors.NewAppError(errors.ErrCodeInvalidInput, "Room is not available from the selected start date", nil)
		}

		// Half-open interval overlap: [s1,e1) and [s2,e2) collide iff
		// s1 < e2 AND e1 > s2. Touching boundaries do not overlap.
		var overlapping int64
		if err := tx.Model(&models.Booking{}).
			Where("room_id = ? AND status IN ? AND start_date < ? AND end_date > ?",
				room.ID,
				[]string{constants.BookingStatusPending, constants.BookingStatusConfirmed},
				params.EndDate, params.StartDate).
			Count(&overlapping).Error; err != nil {
			return errors.NewAppError(errors.ErrCodeDBError, "Cannot check existing bookings", err)
		}
		if overlapping > 0 {
			return errors.NewAppError(errors.ErrCodeConflict, "Room already booked for the selected dates", nil)
		}

		duration := params.Duration
		if duration < 1 {
			duration = 1
		}
		paymentMethod := params.PaymentMethod
		if paymentMethod == "" {
			paymentMethod = constants.PaymentMethodEsewa
		}

		monthlyRent := room.Price
		securityDeposit := int(math.Round(float64(monthlyRent) * constants.SecurityDepositRate))
		serviceFee := constants.BookingServiceFee
		discount := resolveDiscount(params.PromoCode)
		totalPrice := monthlyRent + securityDeposit + serviceFee - discount

		booking = &models.Booking{
			RoomID:          room.ID,
			UserID:          userID,
			RenterInfo:      params.RenterInfo,
			StartDate:       params.StartDate,
			EndDate:         params.EndDate,
			Duration:        duration,
			MonthlyRent:     monthlyRent,
			SecurityDeposit: securityDeposit,
			ServiceFee:      serviceFee,
			PromoCode:       params.PromoCode,
			Discount:        discount,
			TotalPrice:      totalPrice,
			PaymentMethod:   paymentMethod,
			Status:          constants.BookingStatusPending,
			PaymentStatus:   constants.PaymentStatusUnpaid,
		}
		if err := tx.Create(booking).Error; err != nil {
			return errors.NewAppError(errors.ErrCodeDBError, "Cannot create booking", err)
		}

		if err := tx.Model(&models.Room{}).Where("id = ?", room.ID).
			Update("status", constants.RoomStatusPending).Error; err != nil {
			return errors.NewAppError(errors.ErrCodeDBError, "Cannot reserve room", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking %d created for room %d (%s - %s)",
		booking.ID, booking.RoomID,
		booking.StartDate.Format("02/01/2006"), booking.EndDate.Format("02/01/2006"))

	if s.notifier != nil {
		s.notifier.BookingCreated(booking)
	}
	return booking, nil
}

// lockForUpdate takes a row lock on dialects that support it. SQLite
// serializes writers on its own and rejects the clause.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// resolveDiscount is the promo-code seam. Promo validation is not
// implemented; the field and computation slot are kept.
func resolveDiscount(promoCode *string) int {
	return 0
}

// CancelBooking cancels the caller's own booking and releases the room
func (s *BookingService) CancelBooking(bookingID, actingUserID uint) error {
	var booking models.Booking

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.NewAppError(errors.ErrCodeNotFound, "Booking not found", err)
			}
			return errors.NewAppError(errors.ErrCodeDBError, "Cannot load booking", err)
		}

		if booking.UserID != actingUserID {
			return errors.NewAppError(errors.ErrCodeForbidden, "Not authorized to cancel this booking", nil)
		}

		state := models.GetBookingState(booking.Status)
		if err := state.Cancel(&booking); err != nil {
			return errors.NewAppError(errors.ErrCodeInvalidState, err.Error(), nil)
		}

		if err := tx.Model(&models.Booking{}).Where("id = ?", booking.ID).
			Update("status", booking.Status).Error; err != nil {
			return errors.NewAppError(errors.ErrCodeDBError, "Cannot cancel booking", err)
		}

		// Restore availability unconditionally; the reconciliation job
		// re-derives the truth if an admin flipped the room meanwhile.
		if err := tx.Model(&models.Room{}).Where("id = ?", booking.RoomID).
			Update("status", constants.RoomStatusAvailable).Error; err != nil {
			return errors.NewAppError(errors.ErrCodeDBError, "Cannot release room", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("booking %d cancelled by user %d", booking.ID, actingUserID)
	if s.notifier != nil {
		s.notifier.BookingCancelled(&booking)
	}
	return nil
}

// ApproveBooking confirms a pending booking (admin action) and marks the
// room rented
func (s *BookingService) ApproveBooking(bookingID uint) (*models.Booking, error) {
	return s.adminTransition(bookingID, constants.BookingStatusConfirmed, constants.RoomStatusRented)
}

// RejectBooking cancels a pending booking (admin action) and releases the
// room
func (s *BookingService) RejectBooking(bookingID uint) (*models.Booking, error) {
	return s.adminTransition(bookingID, constants.BookingStatusCancelled, constants.RoomStatusAvailable)
}

func (s *BookingService) adminTransition(bookingID uint, bookingStatus, roomStatus string) (*models.Booking, error) {
	var booking models.Booking

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.NewAppError(errors.ErrCodeNotFound, "Booking not found", err)
			}
			return errors.NewAppError(errors.ErrCodeDBError, "Cannot load booking", err)
		}

		// Approve/reject are only legal from pending
		if booking.Status != constants.BookingStatusPending {
			return errors.NewAppError(errors.ErrCodeInvalidState,
				"Booking is not pending", nil)
		}

		booking.Status = bookingStatus
		if err := tx.Model(&models.Booking{}).Where("id = ?", booking.ID).
			Update("status", bookingStatus).Error; err != nil {
			return errors.NewAppError(errors.ErrCodeDBError, "Cannot update booking", err)
		}

		if err := tx.Model(&models.Room{}).Where("id = ?", booking.RoomID).
			Update("status", roomStatus).Error; err != nil {
			return errors.NewAppError(errors.ErrCodeDBError, "Cannot update room status", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if bookingStatus == constants.BookingStatusConfirmed {
			s.notifier.BookingConfirmed(&booking)
		} else {
			s.notifier.BookingCancelled(&booking)
		}
	}
	return &booking, nil
}

// GetByID loads one booking with its room
func (s *BookingService) GetByID(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.Preload("Room").Preload("User").First(&booking, bookingID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeNotFound, "Booking not found", err)
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot load booking", err)
	}
	return &booking, nil
}

// ListByUser returns a user's bookings, newest first
func (s *BookingService) ListByUser(userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.db.Preload("Room").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot list bookings", err)
	}
	return bookings, nil
}

// ListAll returns every booking (admin)
func (s *BookingService) ListAll() ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.db.Preload("Room").Preload("User").
		Order("updated_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot list bookings", err)
	}
	return bookings, nil
}
