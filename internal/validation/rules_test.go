package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/secretdrop/secretdrop/internal/errors"
)

func TestWrapValidationError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, WrapValidationError(nil))
	})

	t.Run("wraps as invalid input", func(t *testing.T) {
		err := WrapValidationError(errors.New("secret: cannot be blank."))
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		assert.Contains(t, err.Error(), "secret: cannot be blank.")
	})
}

func TestNotBlank(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{name: "text", input: "hello", shouldErr: false},
		{name: "surrounded by spaces", input: "  hello  ", shouldErr: false},
		{name: "only spaces", input: "   ", shouldErr: true},
		{name: "tabs and newlines", input: "\t\n", shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(tt.input, NotBlank)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAccessKey(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{name: "random uuid", input: uuid.NewString(), shouldErr: false},
		{name: "upper case", input: strings.ToUpper(uuid.NewString()), shouldErr: true},
		{name: "garbage", input: "not-a-key", shouldErr: true},
		{name: "sql fragment", input: "' OR 1=1 --", shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(tt.input, AccessKey)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMaxBytes(t *testing.T) {
	t.Run("within limit", func(t *testing.T) {
		assert.NoError(t, validation.Validate("abcd", MaxBytes(4)))
	})

	t.Run("counts bytes not runes", func(t *testing.T) {
		err := validation.Validate("ééé", MaxBytes(4))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at most 4 bytes")
	})

	t.Run("zero disables the check", func(t *testing.T) {
		assert.NoError(t, validation.Validate(strings.Repeat("x", 1<<16), MaxBytes(0)))
	})

	t.Run("non string", func(t *testing.T) {
		assert.Error(t, validation.Validate(42, MaxBytes(4)))
	})
}
