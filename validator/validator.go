package validator

import (
	"urbanhaven/errors"
	"urbanhaven/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type renterInfoRules struct {
	FirstName         string `validate:"required"`
	LastName          string `validate:"required"`
	Email             string `validate:"required,email"`
	Phone             string `validate:"required,min=7,max=15"`
	NumberOfOccupants int    `validate:"min=0"`
}

// ValidateRenterInfo checks the contact block of a booking request
func ValidateRenterInfo(info models.RenterInfo) error {
	rules := renterInfoRules{
		FirstName:         info.FirstName,
		LastName:          info.LastName,
		Email:             info.Email,
		Phone:             info.Phone,
		NumberOfOccupants: info.NumberOfOccupants,
	}
	if err := validate.Struct(rules); err != nil {
		return errors.NewAppError(errors.ErrCodeValidation, "Renter info is incomplete or invalid", err)
	}
	return nil
}

// ValidateRating checks a review rating is within 1..5
func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return errors.NewAppError(errors.ErrCodeValidation, "Rating must be between 1 and 5", nil)
	}
	return nil
}
