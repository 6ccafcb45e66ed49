package dto

// ActorResponse carries the user info echoed back on booking payloads
type ActorResponse struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}
