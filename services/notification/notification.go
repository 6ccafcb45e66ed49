package notification

import (
	"fmt"

	"urbanhaven/models"
	"urbanhaven/services/logger"

	"github.com/olahol/melody"
	"gorm.io/gorm"
)

// Emitter pushes a message to connected clients
type Emitter interface {
	Emit(message string) error
}

// MelodyEmitter broadcasts over the shared websocket hub
type MelodyEmitter struct {
	m *melody.Melody
}

func NewMelodyEmitter(m *melody.Melody) *MelodyEmitter {
	return &MelodyEmitter{m: m}
}

func (e *MelodyEmitter) Emit(message string) error {
	if e.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return e.m.Broadcast([]byte(message))
}

// Service persists notifications and emits them best-effort. Failures are
// logged and never propagated to the triggering operation.
type Service struct {
	db      *gorm.DB
	emitter Emitter
	logger  logger.Logger
}

func NewService(db *gorm.DB, emitter Emitter, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &Service{db: db, emitter: emitter, logger: log}
}

// Notify stores a notification row for userID and broadcasts the message
func (s *Service) Notify(userID uint, message, description string) {
	if s.db != nil {
		n := models.Notification{
			UserID:      userID,
			Message:     message,
			Description: description,
		}
		if err := s.db.Create(&n).Error; err != nil {
			s.logger.Error("failed to persist notification for user %d: %v", userID, err)
		}
	}

	if s.emitter == nil {
		return
	}
	if err := s.emitter.Emit(message); err != nil {
		s.logger.Error("failed to broadcast notification: %v", err)
	}
}

func (s *Service) BookingCreated(b *models.Booking) {
	s.Notify(b.UserID,
		fmt.Sprintf("🔔 Booking #%d created, awaiting payment.", b.ID),
		fmt.Sprintf("Room %d reserved from %s to %s, total %d.",
			b.RoomID, b.StartDate.Format("02/01/2006"), b.EndDate.Format("02/01/2006"), b.TotalPrice))
}

func (s *Service) BookingConfirmed(b *models.Booking) {
	s.Notify(b.UserID,
		fmt.Sprintf("✅ Booking #%d confirmed.", b.ID),
		fmt.Sprintf("Room %d is now yours for %d month(s).", b.RoomID, b.Duration))
}

func (s *Service) BookingCancelled(b *models.Booking) {
	s.Notify(b.UserID,
		fmt.Sprintf("❌ Booking #%d cancelled.", b.ID),
		fmt.Sprintf("Room %d is available again.", b.RoomID))
}

func (s *Service) PaymentReceived(b *models.Booking) {
	s.Notify(b.UserID,
		fmt.Sprintf("💰 Payment of %d received for booking #%d.", b.TotalPrice, b.ID),
		fmt.Sprintf("Transaction %s.", b.EsewaTransaction.TransactionUUID))
}
