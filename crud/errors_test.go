package crud

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFound(t *testing.T) {
	err := NotFound("Category", 42)
	assert.EqualError(t, err, "Category 42 not found")
	assert.True(t, IsNotFound(err))
	assert.True(t, errors.Is(fmt.Errorf("wrap: %w", err), ErrNotFound))

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Category", nf.Entity)
	assert.Equal(t, 42, nf.Key)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusOK, StatusOf(nil))
	assert.Equal(t, http.StatusNotFound, StatusOf(NotFound("Student", 1)))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
}

func TestBindPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query     string
		wantSize  int
		wantToken int
	}{
		{"", DefaultPageSize, DefaultPageToken},
		{"?pageSize=5&pageToken=3", 5, 3},
		{"?pageSize=abc&pageToken=-2", DefaultPageSize, DefaultPageToken},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/items/filter"+tt.query, nil)

		req := BindPagination(c)
		assert.Equal(t, tt.wantSize, req.PageSize(), tt.query)
		assert.Equal(t, tt.wantToken, req.PageToken(), tt.query)
	}
}

func TestAbortWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	AbortWithError(c, NotFound("Student", 7))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Student 7 not found"}`, w.Body.String())
	assert.True(t, c.IsAborted())
}
