package httputil

import (
	"errors"
	"io"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidBody      = errors.New("the body of your request contains invalid or un-parseable data. Please check and try again")
	ErrRequestBodyEmpty = errors.New("the request body must not be empty")
	ErrInvalidTime      = errors.New("times must be specified as RFC3339 timestamps or as dates in YYYY-MM-DD format")
)

// BindData binds the data from the request to the struct passed in the interface.
func BindData(c *gin.Context, data interface{}) error {
	if err := c.ShouldBindJSON(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrRequestBodyEmpty
		}

		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		return ErrInvalidBody
	}

	return nil
}

// ParseTime parses a query parameter as RFC3339 timestamp, falling back to a
// plain date. An empty string returns a nil time.
func ParseTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	for _, pattern := range []string{time.RFC3339, "2006-01-02"} {
		t, err := time.Parse(pattern, value)
		if err == nil {
			t = t.In(time.UTC)
			return &t, nil
		}
	}

	return nil, ErrInvalidTime
}

// ParseUntil parses an end bound like ParseTime. A plain date is widened to
// the last second of that day, so the bound includes the whole day.
func ParseUntil(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.In(time.UTC)
		return &t, nil
	}

	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, ErrInvalidTime
	}

	t = t.AddDate(0, 0, 1).Add(-time.Second).In(time.UTC)
	return &t, nil
}
