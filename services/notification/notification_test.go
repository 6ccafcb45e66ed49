package notification

import (
	"errors"
	"testing"

	"urbanhaven/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeEmitter struct {
	messages []string
	err      error
}

func (f *fakeEmitter) Emit(message string) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, message)
	return nil
}

func setupNotificationDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Notification{}))
	return db
}

func TestNotifyPersistsAndBroadcasts(t *testing.T) {
	db := setupNotificationDB(t)
	emitter := &fakeEmitter{}
	svc := NewService(db, emitter, nil)

	svc.Notify(7, "hello", "details")

	var stored []models.Notification
	require.NoError(t, db.Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, uint(7), stored[0].UserID)
	assert.Equal(t, "hello", stored[0].Message)
	assert.False(t, stored[0].IsRead)

	assert.Equal(t, []string{"hello"}, emitter.messages)
}

func TestNotifySurvivesBroadcastFailure(t *testing.T) {
	db := setupNotificationDB(t)
	emitter := &fakeEmitter{err: errors.New("hub down")}
	svc := NewService(db, emitter, nil)

	svc.Notify(7, "hello", "")

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestBookingCreatedMessageMentionsBooking(t *testing.T) {
	emitter := &fakeEmitter{}
	svc := NewService(nil, emitter, nil)

	svc.BookingCreated(&models.Booking{ID: 12, RoomID: 3, TotalPrice: 1300})

	require.Len(t, emitter.messages, 1)
	assert.Contains(t, emitter.messages[0], "#12")
}
