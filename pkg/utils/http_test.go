package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		raw     string
		want    uint
		wantErr bool
	}{
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"99999999999999999999999", 0, true},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "id", Value: tt.raw}}
		got, err := ParseIDParam(c, "id")
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidID, tt.raw)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseQueryUintParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	query := func(q string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/api/audit/logs"+q, nil)
		return c
	}

	_, err := ParseQueryUintParam(query(""), "user_id")
	assert.ErrorIs(t, err, ErrEmptyParameter)

	_, err = ParseQueryUintParam(query("?user_id=x"), "user_id")
	assert.ErrorIs(t, err, ErrInvalidID)

	v, err := ParseQueryUintParam(query("?user_id=7"), "user_id")
	assert.NoError(t, err)
	assert.Equal(t, uint(7), v)
}
