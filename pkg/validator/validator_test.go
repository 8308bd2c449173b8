package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	playground "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type phoneHolder struct {
	Number string `binding:"waphone"`
}

func TestWAPhoneValidation(t *testing.T) {
	require.NoError(t, RegisterCustomValidators())
	v, ok := binding.Validator.Engine().(*playground.Validate)
	require.True(t, ok)

	valid := []string{
		"628123456789",
		"14155552671",
		"491701234567",
	}
	for _, number := range valid {
		assert.NoError(t, v.Struct(phoneHolder{Number: number}), "number %s", number)
	}

	invalid := []string{
		"",
		"0812345678",
		"+628123456789",
		"62812",
		"62812345678901234",
		"62812abc789",
	}
	for _, number := range invalid {
		assert.Error(t, v.Struct(phoneHolder{Number: number}), "number %s", number)
	}
}
