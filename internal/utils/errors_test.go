package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorIsSurvivesWithCause(t *testing.T) {
	sentinel := NewBadRequestError("Please upload all documents")
	err := fmt.Errorf("generate: %w", sentinel.WithCause(errors.New("eob missing")))

	assert.ErrorIs(t, err, sentinel)
	assert.NotErrorIs(t, err, NewBadRequestError("something else"))
}

func TestAsAppError(t *testing.T) {
	appErr := AsAppError(fmt.Errorf("wrapped: %w", NewNotFoundError("Appeal not found")))
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode)
	assert.Equal(t, "Appeal not found", appErr.Message)

	plain := AsAppError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, plain.StatusCode)
	assert.Equal(t, "Internal server error", plain.Message)
	assert.EqualError(t, plain.Unwrap(), "boom")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("WARNING").String())
	assert.Equal(t, "INFO", parseLevel("nonsense").String())
}
