package apperror_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"go-hrms/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps its status and code", func(t *testing.T) {
		appErr := apperror.New(apperror.CodeConflict, "already decided", http.StatusConflict)

		httpErr := apperror.ToHTTP(appErr)

		assert.Equal(t, http.StatusConflict, httpErr.Status)
		assert.Equal(t, apperror.CodeConflict, httpErr.Code)
		assert.Equal(t, "already decided", httpErr.Message)
	})

	t.Run("json decode errors map to bad request", func(t *testing.T) {
		var payload struct {
			LeaveType string `json:"leave_type"`
		}

		for _, body := range []string{
			`{"leave_type": "ANNUAL", "start_date":`,
			`{"leave_type": 7}`,
			`not json at all`,
		} {
			err := json.Unmarshal([]byte(body), &payload)
			assert.Error(t, err, body)

			httpErr := apperror.ToHTTP(err)
			assert.Equal(t, http.StatusBadRequest, httpErr.Status, body)
			assert.Equal(t, apperror.CodeInvalidInput, httpErr.Code, body)
		}
	})

	t.Run("empty body decode maps to bad request", func(t *testing.T) {
		httpErr := apperror.ToHTTP(io.EOF)

		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		assert.Equal(t, apperror.CodeInvalidInput, httpErr.Code)
	})

	t.Run("unknown error hides behind internal error", func(t *testing.T) {
		httpErr := apperror.ToHTTP(errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
		assert.Equal(t, apperror.CodeInternalError, httpErr.Code)
		assert.Equal(t, "An unexpected error occurred", httpErr.Message)
	})
}
