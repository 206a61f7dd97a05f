package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

var (
	ErrEmptyParameter = errors.New("empty parameter")
	ErrInvalidID      = errors.New("invalid id")
)

// parseID accepts positive base-10 row ids that fit a uint.
func parseID(s string) (uint, error) {
	v, err := strconv.ParseUint(s, 10, strconv.IntSize)
	if err != nil || v == 0 {
		return 0, ErrInvalidID
	}
	return uint(v), nil
}

// ParseIDParam reads a row id from the route, e.g. /api/tickets/:id.
func ParseIDParam(c *gin.Context, param string) (uint, error) {
	return parseID(c.Param(param))
}

// ParseQueryUintParam reads an optional id filter. An absent value is
// ErrEmptyParameter so callers can skip the filter.
func ParseQueryUintParam(c *gin.Context, param string) (uint, error) {
	valStr := c.Query(param)
	if valStr == "" {
		return 0, ErrEmptyParameter
	}
	return parseID(valStr)
}
