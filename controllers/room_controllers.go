package controllers

import (
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"urbanhaven/config"
	"urbanhaven/constants"
	"urbanhaven/dto"
	"urbanhaven/middleware"
	"urbanhaven/models"
	"urbanhaven/response"
	"urbanhaven/services"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
	"golang.org/x/text/unicode/norm"
)

type RoomController struct {
	svc *services.RoomService
	rdb *redis.Client
}

func NewRoomController(svc *services.RoomService, rdb *redis.Client) *RoomController {
	return &RoomController{svc: svc, rdb: rdb}
}

func convertToRoomResponse(room *models.Room) dto.RoomResponse {
	return dto.RoomResponse{
		ID:            room.ID,
		Title:         room.Title,
		Description:   room.Description,
		RoomType:      room.RoomType,
		Price:         room.Price,
		Size:          room.Size,
		Beds:          room.Beds,
		Bathrooms:     room.Bathrooms,
		City:          room.City,
		Area:          room.Area,
		Address:       room.Address,
		Amenities:     room.Amenities,
		Images:        room.Images,
		OwnerID:       room.OwnerID,
		Status:        room.Status,
		RatingAverage: room.RatingAverage,
		RatingCount:   room.RatingCount,
		Views:         room.Views,
		AvailableFrom: room.AvailableFrom,
		CreatedAt:     room.CreatedAt,
	}
}

// GetAllRooms handles GET /rooms with filters and pagination
func (rc *RoomController) GetAllRooms(c *gin.Context) {
	cacheKey := "rooms:all"

	var allRooms []models.Room
	if rc.rdb != nil {
		if err := services.GetFromRedis(config.Ctx, rc.rdb, cacheKey, &allRooms); err != nil {
			log.Printf("Cannot read room cache: %v", err)
		}
	}

	if len(allRooms) == 0 {
		if err := config.DB.Order("is_featured DESC, created_at DESC").Find(&allRooms).Error; err != nil {
			response.ServerError(c)
			return
		}
		if rc.rdb != nil && len(allRooms) > 0 {
			if err := services.SetToRedis(config.Ctx, rc.rdb, cacheKey, allRooms, 10*time.Minute); err != nil {
				log.Printf("Cannot cache rooms: %v", err)
			}
		}
	}

	page := 0
	limit := 10
	if pageStr := c.Query("page"); pageStr != "" {
		if parsedPage, err := strconv.Atoi(pageStr); err == nil && parsedPage >= 0 {
			page = parsedPage
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	cityFilter := normalizeInput(c.Query("city"))
	typeFilter := normalizeInput(c.Query("roomType"))
	statusFilter := c.Query("status")
	maxPriceStr := c.Query("maxPrice")

	filtered := make([]models.Room, 0, len(allRooms))
	for _, room := range allRooms {
		if cityFilter != "" && normalizeInput(room.City) != cityFilter {
			continue
		}
		if typeFilter != "" && normalizeInput(room.RoomType) != typeFilter {
			continue
		}
		if statusFilter != "" && room.Status != statusFilter {
			continue
		}
		if maxPriceStr != "" {
			if maxPrice, err := strconv.Atoi(maxPriceStr); err == nil && room.Price > maxPrice {
				continue
			}
		}
		filtered = append(filtered, room)
	}

	total := len(filtered)
	start := page * limit
	end := start + limit
	if start >= total {
		filtered = []models.Room{}
	} else if end > total {
		filtered = filtered[start:]
	} else {
		filtered = filtered[start:end]
	}

	roomResponses := make([]dto.RoomResponse, 0, len(filtered))
	for i := range filtered {
		roomResponses = append(roomResponses, convertToRoomResponse(&filtered[i]))
	}
	response.SuccessWithPagination(c, roomResponses, page, limit, total)
}

// GetRoomDetail handles GET /rooms/:id
func (rc *RoomController) GetRoomDetail(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid room id")
		return
	}

	room, err := rc.svc.Get(uint(roomID))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	rc.svc.IncrementViews(room.ID)
	room.Views++
	response.Success(c, convertToRoomResponse(room))
}

// CreateRoom handles POST /rooms (owner/admin)
func (rc *RoomController) CreateRoom(c *gin.Context) {
	currentUserID, _, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	var request dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	room := models.Room{
		Title:         request.Title,
		Description:   request.Description,
		RoomType:      request.RoomType,
		Price:         request.Price,
		Size:          request.Size,
		Beds:          request.Beds,
		Bathrooms:     request.Bathrooms,
		City:          request.City,
		Area:          request.Area,
		Address:       request.Address,
		Amenities:     request.Amenities,
		Images:        request.Images,
		OwnerID:       currentUserID,
		Status:        constants.RoomStatusAvailable,
		AvailableFrom: request.AvailableFrom,
	}
	if err := rc.svc.Create(&room); err != nil {
		handleServiceError(c, err)
		return
	}

	services.IndexRoom(&room)
	if rc.rdb != nil {
		_ = services.DeleteFromRedis(config.Ctx, rc.rdb, "rooms:all")
	}
	response.Created(c, convertToRoomResponse(&room))
}

// ChangeRoomStatus handles PUT /roomStatus (owner/admin)
func (rc *RoomController) ChangeRoomStatus(c *gin.Context) {
	currentUserID, currentUserRole, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	var req dto.RoomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	room, err := rc.svc.Get(req.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if room.OwnerID != currentUserID && currentUserRole != constants.RoleAdmin {
		response.Forbidden(c)
		return
	}

	if err := rc.svc.SetStatus(req.ID, req.Status); err != nil {
		handleServiceError(c, err)
		return
	}

	room.Status = req.Status
	if req.Status == constants.RoomStatusInactive {
		// Deactivated listings leave the search index entirely
		services.DeleteRoomFromIndex(room.ID)
	} else {
		services.IndexRoom(room)
	}
	if rc.rdb != nil {
		_ = services.DeleteFromRedis(config.Ctx, rc.rdb, "rooms:all")
	}
	response.Success(c, gin.H{"message": "Room status updated"})
}

// SearchRooms handles GET /rooms/search?q=. The elasticsearch index is
// preferred when connected; otherwise rooms are scored in-process with the
// fuzzy matcher.
func (rc *RoomController) SearchRooms(c *gin.Context) {
	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		response.BadRequest(c, "Search query is required")
		return
	}

	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	var rooms []models.Room
	if err := config.DB.Where("status = ?", constants.RoomStatusAvailable).Find(&rooms).Error; err != nil {
		response.ServerError(c)
		return
	}

	if services.RoomIndexEnabled() {
		ids, err := services.SearchRoomIDs(query, limit)
		if err == nil {
			byID := make(map[uint]*models.Room, len(rooms))
			for i := range rooms {
				byID[rooms[i].ID] = &rooms[i]
			}
			results := make([]dto.RoomResponse, 0, len(ids))
			for _, id := range ids {
				if room, ok := byID[id]; ok {
					results = append(results, convertToRoomResponse(room))
				}
			}
			response.Success(c, results)
			return
		}
		log.Printf("Index search failed, falling back to fuzzy match: %v", err)
	}

	scored := scoreRooms(query, rooms)
	if len(scored) > limit {
		scored = scored[:limit]
	}
	response.Success(c, scored)
}

// normalizeInput folds accents and case for fuzzy comparisons
func normalizeInput(input string) string {
	input = strings.TrimSpace(norm.NFC.String(input))
	return strings.ToLower(unidecode.Unidecode(input))
}

func createMatcher(keywords []string) *closestmatch.ClosestMatch {
	return closestmatch.New(keywords, []int{2, 3})
}

// calculateSimilarity maps levenshtein distance to 0..1
func calculateSimilarity(a, b string) float64 {
	distance := levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
	maxLen := float64(len(a))
	if float64(len(b)) > maxLen {
		maxLen = float64(len(b))
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/maxLen
}

func prepareUniqueList(rooms []models.Room, field string) []string {
	uniqueValues := make(map[string]bool)
	for _, room := range rooms {
		var value string
		switch field {
		case "city":
			value = room.City
		case "area":
			value = room.Area
		}
		if value != "" {
			uniqueValues[normalizeInput(value)] = true
		}
	}

	uniqueList := make([]string, 0, len(uniqueValues))
	for val := range uniqueValues {
		uniqueList = append(uniqueList, val)
	}
	return uniqueList
}

func calculateRoomScore(query string, room *models.Room, cmCity, cmArea *closestmatch.ClosestMatch) int {
	score := 0

	if cmCity.Closest(query) == normalizeInput(room.City) && room.City != "" {
		score += 13
	}
	if cmArea.Closest(query) == normalizeInput(room.Area) && room.Area != "" {
		score += 5
	}

	normalizedType := normalizeInput(room.RoomType)
	if normalizedType != "" && strings.Contains(query, normalizedType) {
		score += 20
	}

	for _, word := range strings.Fields(normalizeInput(room.Title)) {
		if len(word) < 3 {
			continue
		}
		if strings.Contains(query, word) || calculateSimilarity(query, word) > 0.7 {
			score += 4
		}
	}
	return score
}

func scoreRooms(query string, rooms []models.Room) []dto.ScoredRoom {
	normalizedQuery := normalizeInput(query)
	cmCity := createMatcher(prepareUniqueList(rooms, "city"))
	cmArea := createMatcher(prepareUniqueList(rooms, "area"))

	scored := make([]dto.ScoredRoom, 0, len(rooms))
	for i := range rooms {
		score := calculateRoomScore(normalizedQuery, &rooms[i], cmCity, cmArea)
		if score > 0 {
			scored = append(scored, dto.ScoredRoom{
				Room:  convertToRoomResponse(&rooms[i]),
				Score: score,
			})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
