package response

import (
	"errors"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	resp := Error("Evento no encontrado")

	assert.Equal(t, "Evento no encontrado", resp.Error)
	assert.Empty(t, resp.Details)
}

func TestWithDetails(t *testing.T) {
	resp := WithDetails("Error al crear la inscripción", errors.New("db down"))
	assert.Equal(t, "Error al crear la inscripción", resp.Error)
	assert.Equal(t, "db down", resp.Details)

	resp = WithDetails("Error", nil)
	assert.Empty(t, resp.Details)
}

func TestValidationError(t *testing.T) {
	type event struct {
		Title    string `validate:"required"`
		City     string `validate:"required"`
		Email    string `validate:"omitempty,email"`
		Status   string `validate:"omitempty,oneof=UPCOMING CANCELLED"`
		Capacity int    `validate:"gte=0"`
	}

	err := validator.New().Struct(event{Email: "nope", Status: "X", Capacity: -1})
	require.Error(t, err)

	resp := ValidationError("Faltan campos requeridos para crear el evento", err)

	assert.Equal(t, "Faltan campos requeridos para crear el evento", resp.Error)
	assert.Contains(t, resp.Details, "field Title is a required field")
	assert.Contains(t, resp.Details, "field City is a required field")
	assert.Contains(t, resp.Details, "field Email must be a valid email")
	assert.Contains(t, resp.Details, "field Status must be one of [UPCOMING CANCELLED]")
	assert.Contains(t, resp.Details, "field Capacity must be greater than or equal to 0")
}

func TestValidationError_NotValidatorError(t *testing.T) {
	resp := ValidationError("Datos no válidos", errors.New("boom"))

	assert.Equal(t, "Datos no válidos", resp.Error)
	assert.Equal(t, "boom", resp.Details)
}
