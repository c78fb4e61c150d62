package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Email    string `json:"email" validate:"required,email"`
	NewEmail string `json:"newEmail,omitempty" validate:"omitempty,email"`
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Validate(sample{Email: "a@b.co"}))

	errs := Validate(sample{NewEmail: "nope"})
	assert.Equal(t, map[string]string{"email": "required", "newEmail": "email"}, errs)
}

func TestValidate_NotAStruct(t *testing.T) {
	errs := Validate("plain string")
	assert.Contains(t, errs, "_")
}
