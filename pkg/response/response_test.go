package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"farmwork/pkg/apperror"
)

func TestDescribe(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
		msg    string
	}{
		{"not found", apperror.NotFound("Worker", "w-1"), 404, CodeNotFound, "Worker with id w-1 not found"},
		{"wrapped not found", fmt.Errorf("load: %w", apperror.NotFound("Assignment", "a-1")), 404, CodeNotFound, "Assignment with id a-1 not found"},
		{"overlap", apperror.TimeOverlap("a-9"), 409, CodeConflict, "Time conflict with existing assignment on this land plot"},
		{"completed", apperror.CompletedDeletion(), 409, CodeConflict, "Cannot delete completed assignment"},
		{"validation", apperror.Validation("landArea", "must be positive"), 400, CodeValidation, "landArea: must be positive"},
		{"transition", &apperror.TransitionError{From: "COMPLETED", To: "ASSIGNED"}, 409, CodeInvalidTransition, "cannot move assignment from COMPLETED to ASSIGNED"},
		{"unauthorized", echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token"), 401, CodeUnauthorized, "missing bearer token"},
		{"route", echo.ErrNotFound, 404, CodeNotFound, "Not Found"},
		{"internal", errors.New("database is locked"), 500, CodeInternal, "Internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := Describe(tc.err, "/api/v1/assignments")
			assert.False(t, f.Success)
			assert.Equal(t, tc.status, f.StatusCode)
			assert.Equal(t, tc.code, f.Error)
			assert.Equal(t, tc.msg, f.Message)
			assert.Equal(t, "/api/v1/assignments", f.Path)
			assert.NotEmpty(t, f.Timestamp)
		})
	}
}

func TestDescribeCarriesDetail(t *testing.T) {
	f := Describe(apperror.TimeOverlap("a-9"), "/x")
	assert.Equal(t, "a-9", f.ConflictingID)

	f = Describe(apperror.Validation("endTime", "must be after startTime"), "/x")
	assert.Equal(t, "endTime", f.Field)
}
