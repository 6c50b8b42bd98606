package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htol/libcat/book"
)

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(book.NewAuthor{Name: "George Orwell"}))

	err := Struct(book.NewAuthor{Name: "   "})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "name is required")

	err = Struct(book.NewBook{Title: "1984"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "isbn is required")
}

func TestValidateRequired(t *testing.T) {
	assert.NoError(t, ValidateRequired("title", "1984"))
	err := ValidateRequired("title", "")
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "validation failed: title is required")
	assert.ErrorIs(t, ValidateRequired("search term", "  \t"), ErrValidation)
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID(1))
	assert.ErrorIs(t, ValidateID(0), ErrValidation)
	assert.ErrorIs(t, ValidateID(-3), ErrValidation)
}
