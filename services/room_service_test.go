package services

import (
	"testing"

	"urbanhaven/constants"
	"urbanhaven/errors"
	"urbanhaven/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomSetStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRoomService(db, nil)
	room := createTestRoom(t, db, 1000)

	require.NoError(t, svc.SetStatus(room.ID, constants.RoomStatusInactive))

	stored, err := svc.Get(room.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.RoomStatusInactive, stored.Status)

	err = svc.SetStatus(room.ID, "demolished")
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidInput))

	err = svc.SetStatus(999, constants.RoomStatusAvailable)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestRoomCreateRejectsNegativePrice(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRoomService(db, nil)

	err := svc.Create(&models.Room{Title: "Bad listing", Price: -1})
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidInput))
}

func TestRecalculateRating(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRoomService(db, nil)
	room := createTestRoom(t, db, 1000)

	reviews := []models.Review{
		{RoomID: room.ID, UserID: 7, BookingID: 1, Rating: 5},
		{RoomID: room.ID, UserID: 8, BookingID: 2, Rating: 4},
		{RoomID: room.ID, UserID: 9, BookingID: 3, Rating: 3},
	}
	for i := range reviews {
		require.NoError(t, db.Create(&reviews[i]).Error)
	}

	require.NoError(t, svc.RecalculateRating(room.ID))

	stored, err := svc.Get(room.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, stored.RatingAverage, 0.001)
	assert.Equal(t, 3, stored.RatingCount)
}

func TestRecalculateRatingNoReviews(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRoomService(db, nil)
	room := createTestRoom(t, db, 1000)

	require.NoError(t, svc.RecalculateRating(room.ID))

	stored, err := svc.Get(room.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, stored.RatingAverage)
	assert.Equal(t, 0, stored.RatingCount)
}

func TestIncrementViews(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRoomService(db, nil)
	room := createTestRoom(t, db, 1000)

	svc.IncrementViews(room.ID)
	svc.IncrementViews(room.ID)

	stored, err := svc.Get(room.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Views)
}
