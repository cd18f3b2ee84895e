package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneMatchesSentinel(t *testing.T) {
	err := Clone(ErrCapacityExceeded, "lesson Art is full")

	assert.True(t, errors.Is(err, ErrCapacityExceeded))
	assert.False(t, errors.Is(err, ErrNotEnrolled))
	assert.Equal(t, "lesson Art is full", err.Error())
	assert.Equal(t, "lesson is at full capacity", ErrCapacityExceeded.Message)
}

func TestWrappedCloneStillMatches(t *testing.T) {
	err := fmt.Errorf("enroll: %w", Clone(ErrAlreadyEnrolled, ""))

	assert.True(t, errors.Is(err, ErrAlreadyEnrolled))
	appErr := FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, ErrAlreadyEnrolled.Code, appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.Status)
}

func TestFromErrorFallsBackToInternal(t *testing.T) {
	appErr := FromError(errors.New("boom"))

	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Contains(t, appErr.Error(), "boom")
	assert.Nil(t, FromError(nil))
}

func TestWrapAsKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapAs(cause, ErrIOFailure, "")

	assert.True(t, errors.Is(err, ErrIOFailure))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "could not save data to disk: disk full", err.Error())
}
