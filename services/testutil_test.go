package services

import (
	"testing"
	"time"

	"urbanhaven/constants"
	"urbanhaven/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Room{}, &models.Booking{},
		&models.Review{}, &models.Notification{},
	))
	return db
}

func createTestRoom(t *testing.T, db *gorm.DB, price int) *models.Room {
	t.Helper()

	room := &models.Room{
		Title:    "Sunny studio in Lazimpat",
		RoomType: "studio",
		Price:    price,
		City:     "Kathmandu",
		Area:     "Lazimpat",
		OwnerID:  1,
		Status:   constants.RoomStatusAvailable,
	}
	require.NoError(t, db.Create(room).Error)
	return room
}

func testRenterInfo() models.RenterInfo {
	return models.RenterInfo{
		FirstName:         "Asha",
		LastName:          "Shrestha",
		Email:             "asha@example.com",
		Phone:             "9841000000",
		NumberOfOccupants: 1,
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
