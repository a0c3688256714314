package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Unauthorized("no token"), http.StatusUnauthorized},
		{Forbidden("not yours"), http.StatusForbidden},
		{NotFound("missing"), http.StatusNotFound},
		{Conflict("duplicate"), http.StatusConflict},
		{Internal("boom", errors.New("cause")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.Status(), tc.err.Message)
	}
}

func TestFromDB(t *testing.T) {
	err := FromDB(gorm.ErrRecordNotFound, "Course not found")
	assert.Equal(t, KindNotFound, err.Kind)
	assert.Equal(t, "Course not found", err.Message)

	err = FromDB(gorm.ErrDuplicatedKey, "unused")
	assert.Equal(t, KindConflict, err.Kind)

	err = FromDB(gorm.ErrForeignKeyViolated, "Course not found")
	assert.Equal(t, KindNotFound, err.Kind)

	cause := errors.New("connection reset")
	err = FromDB(cause, "unused")
	assert.Equal(t, KindInternal, err.Kind)
	assert.ErrorIs(t, err, cause)
}

func TestIsUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("loading course: %w", NotFound("Course not found"))
	assert.True(t, Is(wrapped, KindNotFound))
	assert.False(t, Is(wrapped, KindConflict))
	assert.False(t, Is(errors.New("plain"), KindNotFound))
}
