package services

import (
	"fmt"

	"urbanhaven/constants"
	"urbanhaven/models"
	"urbanhaven/services/logger"
	"urbanhaven/services/notification"

	"gorm.io/gorm"
)

// ReconcileService repairs drift between booking state and the room status
// it implies. Room status is a projection of the active bookings; when the
// two disagree (partial failure, manual edit) the job corrects the room and
// reports it. Inconsistencies are never silently ignored.
type ReconcileService struct {
	db      *gorm.DB
	emitter notification.Emitter
	logger  logger.Logger
}

func NewReconcileService(db *gorm.DB, emitter notification.Emitter, log logger.Logger) *ReconcileService {
	if log == nil {
		log = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &ReconcileService{db: db, emitter: emitter, logger: log}
}

// Run scans every room and corrects its status where it no longer matches
// the booking ledger. Returns the number of corrections applied.
func (s *ReconcileService) Run() (int, error) {
	var rooms []models.Room
	if err := s.db.Find(&rooms).Error; err != nil {
		return 0, fmt.Errorf("cannot load rooms: %w", err)
	}

	corrected := 0
	for _, room := range rooms {
		// Inactive is an owner/admin decision, orthogonal to bookings
		if room.Status == constants.RoomStatusInactive {
			continue
		}

		expected, err := s.expectedRoomStatus(room.ID)
		if err != nil {
			s.logger.Error("reconcile: cannot derive status for room %d: %v", room.ID, err)
			continue
		}
		if expected == room.Status {
			continue
		}

		if err := s.db.Model(&models.Room{}).Where("id = ?", room.ID).
			Update("status", expected).Error; err != nil {
			s.logger.Error("reconcile: cannot correct room %d: %v", room.ID, err)
			continue
		}

		corrected++
		msg := fmt.Sprintf("⚠️ Room %d status corrected from %s to %s", room.ID, room.Status, expected)
		s.logger.Info("%s", msg)
		if s.emitter != nil {
			if err := s.emitter.Emit(msg); err != nil {
				s.logger.Error("reconcile: broadcast failed: %v", err)
			}
		}
	}

	// A successful verify always flips status together with paymentStatus;
	// promote any (pending, paid) row that slipped through a partial write.
	res := s.db.Model(&models.Booking{}).
		Where("status = ? AND payment_status = ?",
			constants.BookingStatusPending, constants.PaymentStatusPaid).
		Update("status", constants.BookingStatusConfirmed)
	if res.Error != nil {
		s.logger.Error("reconcile: cannot promote paid bookings: %v", res.Error)
	} else if res.RowsAffected > 0 {
		corrected += int(res.RowsAffected)
		s.logger.Info("reconcile: promoted %d paid pending booking(s) to confirmed", res.RowsAffected)
	}

	return corrected, nil
}

// expectedRoomStatus derives the projection: rented when a confirmed
// booking is active, pending when one awaits payment/approval, otherwise
// available.
func (s *ReconcileService) expectedRoomStatus(roomID uint) (string, error) {
	var confirmed int64
	if err := s.db.Model(&models.Booking{}).
		Where("room_id = ? AND status = ?", roomID, constants.BookingStatusConfirmed).
		Count(&confirmed).Error; err != nil {
		return "", err
	}
	if confirmed > 0 {
		return constants.RoomStatusRented, nil
	}

	var pending int64
	if err := s.db.Model(&models.Booking{}).
		Where("room_id = ? AND status = ?", roomID, constants.BookingStatusPending).
		Count(&pending).Error; err != nil {
		return "", err
	}
	if pending > 0 {
		return constants.RoomStatusPending, nil
	}

	return constants.RoomStatusAvailable, nil
}
