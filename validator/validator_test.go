package validator

import (
	"testing"

	"urbanhaven/errors"
	"urbanhaven/models"

	"github.com/stretchr/testify/assert"
)

func TestValidateRenterInfo(t *testing.T) {
	valid := models.RenterInfo{
		FirstName:         "Asha",
		LastName:          "Shrestha",
		Email:             "asha@example.com",
		Phone:             "9841000000",
		NumberOfOccupants: 2,
	}
	assert.NoError(t, ValidateRenterInfo(valid))

	missingName := valid
	missingName.FirstName = ""
	assert.True(t, errors.HasCode(ValidateRenterInfo(missingName), errors.ErrCodeValidation))

	badEmail := valid
	badEmail.Email = "not-an-email"
	assert.True(t, errors.HasCode(ValidateRenterInfo(badEmail), errors.ErrCodeValidation))

	shortPhone := valid
	shortPhone.Phone = "123"
	assert.True(t, errors.HasCode(ValidateRenterInfo(shortPhone), errors.ErrCodeValidation))
}

func TestValidateRating(t *testing.T) {
	assert.NoError(t, ValidateRating(1))
	assert.NoError(t, ValidateRating(5))
	assert.Error(t, ValidateRating(0))
	assert.Error(t, ValidateRating(6))
}
