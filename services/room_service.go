package services

import (
	stderrors "errors"

	"urbanhaven/constants"
	"urbanhaven/errors"
	"urbanhaven/models"
	"urbanhaven/services/logger"

	"gorm.io/gorm"
)

// RoomService is the room directory: lookups, status flips and the rating
// aggregate.
type RoomService struct {
	db     *gorm.DB
	logger logger.Logger
}

func NewRoomService(db *gorm.DB, log logger.Logger) *RoomService {
	if log == nil {
		log = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &RoomService{db: db, logger: log}
}

// Get loads a room by id
func (s *RoomService) Get(roomID uint) (*models.Room, error) {
	var room models.Room
	if err := s.db.First(&room, roomID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeNotFound, "Room not found", err)
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot load room", err)
	}
	return &room, nil
}

// SetStatus flips a room's availability status (owner/admin action)
func (s *RoomService) SetStatus(roomID uint, status string) error {
	room := models.Room{Status: status}
	if err := room.ValidateStatus(); err != nil {
		return errors.NewAppError(errors.ErrCodeInvalidInput, err.Error(), nil)
	}

	res := s.db.Model(&models.Room{}).Where("id = ?", roomID).Update("status", status)
	if res.Error != nil {
		return errors.NewAppError(errors.ErrCodeDBError, "Cannot update room status", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.NewAppError(errors.ErrCodeNotFound, "Room not found", nil)
	}
	return nil
}

// Create persists a new listing in available status
func (s *RoomService) Create(room *models.Room) error {
	if room.Price < 0 {
		return errors.NewAppError(errors.ErrCodeInvalidInput, "Price cannot be negative", nil)
	}
	if room.Status == "" {
		room.Status = constants.RoomStatusAvailable
	}
	if err := room.ValidateStatus(); err != nil {
		return errors.NewAppError(errors.ErrCodeInvalidInput, err.Error(), nil)
	}
	if err := s.db.Create(room).Error; err != nil {
		return errors.NewAppError(errors.ErrCodeDBError, "Cannot create room", err)
	}
	return nil
}

// IncrementViews bumps the detail-view counter, best-effort
func (s *RoomService) IncrementViews(roomID uint) {
	if err := s.db.Model(&models.Room{}).Where("id = ?", roomID).
		Update("views", gorm.Expr("views + 1")).Error; err != nil {
		s.logger.Error("cannot bump views for room %d: %v", roomID, err)
	}
}

// RecalculateRating recomputes the room's rating aggregate from its
// reviews. Called explicitly after every review create/delete instead of a
// model lifecycle hook.
func (s *RoomService) RecalculateRating(roomID uint) error {
	var result struct {
		Average float64
		Count   int64
	}
	if err := s.db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("room_id = ?", roomID).
		Scan(&result).Error; err != nil {
		return errors.NewAppError(errors.ErrCodeDBError, "Cannot aggregate reviews", err)
	}

	if err := s.db.Model(&models.Room{}).Where("id = ?", roomID).
		Updates(map[string]interface{}{
			"rating_average": result.Average,
			"rating_count":   result.Count,
		}).Error; err != nil {
		return errors.NewAppError(errors.ErrCodeDBError, "Cannot update room rating", err)
	}
	return nil
}
