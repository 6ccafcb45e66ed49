package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"urbanhaven/constants"
	"urbanhaven/middleware"
	"urbanhaven/models"
	"urbanhaven/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupControllerDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Room{}, &models.Booking{}))
	return db
}

func bearerToken(t *testing.T, userID uint, role int) string {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"userinfo": map[string]interface{}{"userid": userID, "role": role},
	})
	require.NoError(t, err)
	header := jwt.EncodeSegment([]byte(`{"alg":"HS256","typ":"JWT"}`))
	return "Bearer " + header + "." + jwt.EncodeSegment(payload) + "." + jwt.EncodeSegment([]byte("sig"))
}

func newRoomStatusRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	rc := NewRoomController(services.NewRoomService(db, nil), nil)
	router.PUT("/roomStatus",
		middleware.AuthMiddleware(constants.RoleOwner, constants.RoleAdmin),
		rc.ChangeRoomStatus)
	return router
}

func putRoomStatus(t *testing.T, router *gin.Engine, token string, roomID uint, status string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{"id": roomID, "status": status})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/roomStatus", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	router.ServeHTTP(w, req)
	return w
}

func TestChangeRoomStatusDeactivatesListing(t *testing.T) {
	db := setupControllerDB(t)
	router := newRoomStatusRouter(db)

	room := models.Room{Title: "Attic room", Price: 800, OwnerID: 5, Status: constants.RoomStatusAvailable}
	require.NoError(t, db.Create(&room).Error)

	w := putRoomStatus(t, router, bearerToken(t, 5, constants.RoleOwner), room.ID, constants.RoomStatusInactive)
	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.Room
	require.NoError(t, db.First(&stored, room.ID).Error)
	assert.Equal(t, constants.RoomStatusInactive, stored.Status)
}

func TestChangeRoomStatusForbiddenForOtherOwner(t *testing.T) {
	db := setupControllerDB(t)
	router := newRoomStatusRouter(db)

	room := models.Room{Title: "Attic room", Price: 800, OwnerID: 5, Status: constants.RoomStatusAvailable}
	require.NoError(t, db.Create(&room).Error)

	w := putRoomStatus(t, router, bearerToken(t, 6, constants.RoleOwner), room.ID, constants.RoomStatusInactive)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var stored models.Room
	require.NoError(t, db.First(&stored, room.ID).Error)
	assert.Equal(t, constants.RoomStatusAvailable, stored.Status)
}

func TestChangeRoomStatusRejectsUnknownStatus(t *testing.T) {
	db := setupControllerDB(t)
	router := newRoomStatusRouter(db)

	room := models.Room{Title: "Attic room", Price: 800, OwnerID: 5, Status: constants.RoomStatusAvailable}
	require.NoError(t, db.Create(&room).Error)

	w := putRoomStatus(t, router, bearerToken(t, 5, constants.RoleOwner), room.ID, "demolished")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
