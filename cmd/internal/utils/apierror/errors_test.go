package apierror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type titled struct {
	Title string `validate:"required,max=5"`
}

func TestFromValidationError(t *testing.T) {
	validate := validator.New()

	resp := FromValidationError(validate.Struct(&titled{Title: "longer than five"}))
	structured, ok := resp.(*StructuredError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, structured.Code())
	assert.Equal(t, []string{"Value is too long, max: 5"}, structured.Errors["title"])
}

func TestFromValidationError_OtherErrors(t *testing.T) {
	validate := validator.New()

	// Struct on a non-struct value is a misuse, not a client mistake.
	resp := FromValidationError(validate.Struct("not a struct"))
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusInternalServerError, resp.Code())

	resp = FromValidationError(errors.New("boom"))
	assert.Equal(t, InternalServerError, resp)
}
