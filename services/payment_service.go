package services

import (
	stderrors "errors"
	"strconv"
	"strings"
	"time"

	"urbanhaven/constants"
	"urbanhaven/dto"
	"urbanhaven/errors"
	"urbanhaven/models"
	"urbanhaven/services/logger"
	"urbanhaven/services/notification"

	"gorm.io/gorm"
)

// PaymentService ties gateway callbacks to booking and room state
type PaymentService struct {
	db       *gorm.DB
	esewa    *EsewaService
	notifier *notification.Service
	logger   logger.Logger
	strict   bool // production mode: gateway re-check failures are fatal
}

type PaymentServiceOptions struct {
	DB       *gorm.DB
	Esewa    *EsewaService
	Notifier *notification.Service
	Logger   logger.Logger
	Strict   bool
}

func NewPaymentService(opts PaymentServiceOptions) *PaymentService {
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &PaymentService{
		db:       opts.DB,
		esewa:    opts.Esewa,
		notifier: opts.Notifier,
		logger:   opts.Logger,
		strict:   opts.Strict,
	}
}

// InitiatePayment generates a transaction id, stores it on the booking and
// returns the signed payment form. In dev mode it also returns a synthetic
// COMPLETE callback so verify can be exercised locally.
func (s *PaymentService) InitiatePayment(bookingID, actingUserID uint) (*dto.InitiatePaymentResponse, error) {
	var booking models.Booking
	if err := s.db.First(&booking, bookingID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeNotFound, "Booking not found", err)
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot load booking", err)
	}

	if booking.UserID != actingUserID {
		return nil, errors.NewAppError(errors.ErrCodeForbidden, "Not authorized to pay for this booking", nil)
	}

	if booking.PaymentStatus == constants.PaymentStatusPaid {
		return nil, errors.NewAppError(errors.ErrCodeAlreadyPaid, "Booking is already paid", nil)
	}

	transactionUUID := s.esewa.NewTransactionUUID(booking.ID)
	if err := s.db.Model(&models.Booking{}).Where("id = ?", booking.ID).
		Updates(map[string]interface{}{
			"esewa_transaction_uuid": transactionUUID,
			"esewa_amount":           booking.TotalPrice,
		}).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot store transaction", err)
	}

	resp := &dto.InitiatePaymentResponse{
		PaymentURL:  s.esewa.Config().PaymentURL,
		PaymentData: s.esewa.CreatePaymentPayload(booking.TotalPrice, transactionUUID),
	}

	if s.esewa.Config().DevMode {
		mock := s.esewa.BuildMockCallback(booking.TotalPrice, transactionUUID)
		resp.DevMode = true
		resp.MockData = s.esewa.EncodeCallback(mock)
	}

	s.logger.Info("payment initiated for booking %d, transaction %s", booking.ID, transactionUUID)
	return resp, nil
}

// VerifyPayment authenticates a gateway callback and, on success, flips the
// booking to confirmed/paid and the room to rented in one transaction.
//
// The call is idempotent: re-verifying an already-paid booking with a
// covering amount returns success without touching state. Signature, status
// and amount failures never mutate anything, and a callback for a cancelled
// booking is rejected outright.
func (s *PaymentService) VerifyPayment(data string) (*models.Booking, error) {
	cb, err := s.esewa.DecodeCallback(data)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidInput, "Payment data is malformed", err)
	}

	var booking models.Booking
	if err := s.db.Preload("Room").
		Where("esewa_transaction_uuid = ?", cb.TransactionUUID).
		First(&booking).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeNotFound, "Booking not found for this transaction", err)
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot load booking", err)
	}

	// Cancelled is terminal. A late gateway callback must not resurrect the
	// booking; the dates may already be held by someone else.
	if booking.Status == constants.BookingStatusCancelled {
		s.logger.Error("callback for cancelled booking %d, transaction %s", booking.ID, cb.TransactionUUID)
		return nil, errors.NewAppError(errors.ErrCodeConflict, "Booking has been cancelled", nil)
	}

	isMock := IsMockTransaction(cb.TransactionCode)

	if !isMock {
		if !s.esewa.VerifyCallbackSignature(cb) {
			s.logger.Error("signature mismatch for transaction %s", cb.TransactionUUID)
			return nil, errors.NewAppError(errors.ErrCodeInvalidSignature, "Invalid payment signature", nil)
		}
	}

	if cb.Status != "COMPLETE" {
		return nil, errors.NewAppError(errors.ErrCodePaymentFailed,
			"Payment "+strings.ToLower(cb.Status), nil)
	}

	paidAmount, err := parseAmount(cb.TotalAmount)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidInput, "Payment amount is malformed", err)
	}
	if paidAmount < float64(booking.TotalPrice) {
		return nil, errors.NewAppError(errors.ErrCodeAmountMismatch, "Payment amount mismatch", nil)
	}

	// Gateway retries deliver the same callback more than once
	if booking.PaymentStatus == constants.PaymentStatusPaid {
		s.logger.Info("transaction %s already verified, returning stored state", cb.TransactionUUID)
		return &booking, nil
	}

	if !isMock {
		status, err := s.esewa.CheckTransactionStatus(cb.TotalAmount, cb.TransactionUUID)
		if err != nil {
			if s.strict {
				return nil, errors.NewAppError(errors.ErrCodePaymentFailed, "Payment verification failed", err)
			}
			s.logger.Error("gateway status check failed for %s, continuing: %v", cb.TransactionUUID, err)
		} else if status != "COMPLETE" {
			return nil, errors.NewAppError(errors.ErrCodePaymentFailed, "Payment verification failed", nil)
		}
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Booking{}).Where("id = ?", booking.ID).
			Updates(map[string]interface{}{
				"payment_status": constants.PaymentStatusPaid,
				"status":         constants.BookingStatusConfirmed,
				"esewa_ref_id":   cb.TransactionCode,
				"esewa_paid_at":  now,
			}).Error; err != nil {
			return errors.NewAppError(errors.ErrCodeDBError, "Cannot update booking", err)
		}

		if err := tx.Model(&models.Room{}).Where("id = ?", booking.RoomID).
			Update("status", constants.RoomStatusRented).Error; err != nil {
			return errors.NewAppError(errors.ErrCodeDBError, "Cannot update room status", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	booking.PaymentStatus = constants.PaymentStatusPaid
	booking.Status = constants.BookingStatusConfirmed
	booking.EsewaTransaction.RefID = cb.TransactionCode
	booking.EsewaTransaction.PaidAt = &now
	if booking.Room != nil {
		booking.Room.Status = constants.RoomStatusRented
	}

	s.logger.Info("payment verified for booking %d, transaction %s", booking.ID, cb.TransactionUUID)
	if s.notifier != nil {
		s.notifier.PaymentReceived(&booking)
		s.notifier.BookingConfirmed(&booking)
	}
	return &booking, nil
}

// GetPaymentStatus answers the payment status query for a booking
func (s *PaymentService) GetPaymentStatus(bookingID uint) (*dto.PaymentStatusResponse, error) {
	var booking models.Booking
	if err := s.db.First(&booking, bookingID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeNotFound, "Booking not found", err)
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot load booking", err)
	}

	return &dto.PaymentStatusResponse{
		Status:          booking.PaymentStatus,
		BookingStatus:   booking.Status,
		TotalPrice:      booking.TotalPrice,
		TransactionUUID: booking.EsewaTransaction.TransactionUUID,
		RefID:           booking.EsewaTransaction.RefID,
		PaidAt:          booking.EsewaTransaction.PaidAt,
	}, nil
}

// parseAmount accepts the gateway's formatted amounts ("1,300.0")
func parseAmount(raw string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
}
