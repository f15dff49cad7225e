package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name  string `form:"name" validate:"notblank"`
	Email string `form:"email" validate:"notblank,looseemail"`
}

var sampleMessages = Messages{
	"name":             "Name is required",
	"email.notblank":   "Email is required",
	"email.looseemail": "Invalid email format",
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name     string
		input    sample
		expected FieldErrors
	}{
		{
			name:     "valid",
			input:    sample{Name: "Ann", Email: "ann@example.com"},
			expected: FieldErrors{},
		},
		{
			name:     "whitespace name is blank",
			input:    sample{Name: "   ", Email: "ann@example.com"},
			expected: FieldErrors{"name": "Name is required"},
		},
		{
			name:     "blank email reports required, not format",
			input:    sample{Name: "Ann", Email: " "},
			expected: FieldErrors{"email": "Email is required"},
		},
		{
			name:     "malformed email",
			input:    sample{Name: "Ann", Email: "not-an-email"},
			expected: FieldErrors{"email": "Invalid email format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Struct(tt.input, sampleMessages))
		})
	}
}

func TestIsLooseEmail(t *testing.T) {
	assert.True(t, IsLooseEmail("a@b.com"))
	assert.True(t, IsLooseEmail("first.last@sub.example.co.zw"))
	assert.False(t, IsLooseEmail("a@b"))
	assert.False(t, IsLooseEmail("@b.com"))
	assert.False(t, IsLooseEmail("a b@c d"))
}

func TestFieldErrorsAddKeepsFirst(t *testing.T) {
	fe := FieldErrors{}
	fe.Add("name", "first")
	fe.Add("name", "second")
	assert.Equal(t, "first", fe.Get("name"))
	assert.False(t, fe.Empty())
	assert.Equal(t, "validation failed: name: first", fe.Error())
}
