package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrEmptyBody    = errors.New("empty request body")
	ErrBodyTooLarge = errors.New("request body too large")
)

// BindStrict decodes the JSON request body into v, rejecting any key that
// v doesn't declare. Used for payloads that are turned straight into
// database rows.
func BindStrict(c *gin.Context, v any) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var mbe *http.MaxBytesError

		switch {
		case errors.As(err, &mbe):
			return ErrBodyTooLarge
		case errors.Is(err, io.EOF):
			return ErrEmptyBody
		default:
			return fmt.Errorf("invalid request body, %w", err)
		}
	}

	if dec.More() {
		return errors.New("invalid request body, trailing data")
	}

	return nil
}

// BindStatus is the response code for an error returned by BindStrict
func BindStatus(err error) int {
	if errors.Is(err, ErrBodyTooLarge) {
		return http.StatusRequestEntityTooLarge
	}

	return http.StatusBadRequest
}
