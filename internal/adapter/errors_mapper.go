package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/utils"
)

func mapHTTPError(resp *resty.Response) error {
	return mapStatus(resp.StatusCode(), resp.Body())
}

func mapStatus(status int, rawBody []byte) error {
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		return nil
	}

	body := errorMessage(rawBody)

	switch {
	case status == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, body)
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body)
	case status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, body)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body)
	case status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: http %d: %s", ErrServerError, status, body)
	default:
		if body == "" {
			body = http.StatusText(status)
		}
		return fmt.Errorf("http %d: %s", status, body)
	}
}

// errorMessage prefers the "error" field of a JSON error body.
func errorMessage(rawBody []byte) string {
	var parsed utils.ErrorResponse
	if err := json.Unmarshal(rawBody, &parsed); err == nil && parsed.Error != "" {
		return parsed.Error
	}
	return strings.TrimSpace(string(rawBody))
}

// isPermanent reports whether err will not go away by retrying with the same
// credentials.
func isPermanent(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ErrNotAuthenticated)
}
