package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"urbanhaven/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
)

const roomIndexName = "rooms"

var es *elasticsearch.Client

// ConnectElastic wires the optional room search index. Without
// ELASTICSEARCH_URL the rest of the app works unchanged and search falls
// back to the in-process fuzzy matcher.
func ConnectElastic() {
	addr := os.Getenv("ELASTICSEARCH_URL")
	if addr == "" {
		log.Println("Elasticsearch not configured, room index disabled")
		return
	}

	cfg := elasticsearch.Config{
		Addresses: []string{addr},
		Username:  os.Getenv("ELASTICSEARCH_USER"),
		Password:  os.Getenv("ELASTICSEARCH_PASSWORD"),
	}
	var err error
	es, err = elasticsearch.NewClient(cfg)
	if err != nil {
		log.Printf("Cannot connect to Elasticsearch, room index disabled: %v", err)
		es = nil
		return
	}
	log.Println("Elasticsearch connected")
}

// RoomIndexEnabled reports whether the index is available
func RoomIndexEnabled() bool {
	return es != nil
}

// IndexRoom upserts one room document, best-effort
func IndexRoom(room *models.Room) {
	if es == nil {
		return
	}

	doc := map[string]interface{}{
		"id":            room.ID,
		"title":         room.Title,
		"description":   room.Description,
		"roomType":      room.RoomType,
		"price":         room.Price,
		"city":          room.City,
		"area":          room.Area,
		"address":       room.Address,
		"status":        room.Status,
		"ratingAverage": room.RatingAverage,
	}

	res, err := es.Index(
		roomIndexName,
		esutil.NewJSONReader(doc),
		es.Index.WithDocumentID(fmt.Sprintf("%d", room.ID)),
	)
	if err != nil {
		log.Printf("Cannot index room %d: %v", room.ID, err)
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		log.Printf("Room %d indexing returned %s", room.ID, res.Status())
	}
}

// SearchRoomIDs queries the index and returns matching room ids by relevance
func SearchRoomIDs(query string, limit int) ([]uint, error) {
	if es == nil {
		return nil, fmt.Errorf("room index disabled")
	}

	body := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"title^3", "city^2", "area^2", "description", "roomType"},
				"fuzziness": "AUTO",
			},
		},
	}

	res, err := es.Search(
		es.Search.WithIndex(roomIndexName),
		es.Search.WithBody(esutil.NewJSONReader(body)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search returned %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source struct {
					ID uint `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		ids = append(ids, hit.Source.ID)
	}
	return ids, nil
}

// DeleteRoomFromIndex drops a room document, best-effort
func DeleteRoomFromIndex(roomID uint) {
	if es == nil {
		return
	}
	res, err := es.Delete(roomIndexName, fmt.Sprintf("%d", roomID))
	if err != nil {
		log.Printf("Cannot remove room %d from index: %v", roomID, err)
		return
	}
	res.Body.Close()
}
