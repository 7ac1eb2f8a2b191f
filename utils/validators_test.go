package utils

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validatedBody struct {
	Title    string `json:"title" binding:"required" validate:"required"`
	Priority string `json:"priority" validate:"omitempty,priority"`
	Status   string `json:"status" validate:"omitempty,taskstatus"`
	DueDate  string `json:"due_date" validate:"omitempty,duedate"`
	Password string `json:"password" validate:"omitempty,password"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	RegisterCustomValidators(v)
	return v
}

func TestCustomValidators(t *testing.T) {
	v := newValidator()

	require.NoError(t, v.Struct(validatedBody{
		Title: "ok", Priority: "urgent", Status: "in_progress", DueDate: "2026-01-31", Password: "abc123",
	}))
	require.NoError(t, v.Struct(validatedBody{Title: "ok", DueDate: "2026-01-31T10:00:00Z"}))

	cases := map[string]validatedBody{
		"priority": {Title: "x", Priority: "critical"},
		"status":   {Title: "x", Status: "done"},
		"due_date": {Title: "x", DueDate: "31/01/2026"},
		"password": {Title: "x", Password: "12345"},
	}
	for field, body := range cases {
		err := v.Struct(body)
		require.Error(t, err, field)
		assert.Contains(t, FormatValidationError(err), field)
	}
}

func TestFormatValidationErrorRequired(t *testing.T) {
	err := newValidator().Struct(validatedBody{})
	require.Error(t, err)
	assert.Equal(t, "title is required", FormatValidationError(err))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("secret"))
	assert.False(t, ValidatePassword("short"))
	assert.False(t, ValidatePassword("       "))
}
