package backend

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// mapHTTPError translates an HTTP response into the package's sentinel
// errors. 404s are refined by the resource hint so callers can distinguish a
// missing zone from a missing record without parsing body text themselves.
func mapHTTPError(resp *resty.Response, resource string) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, body)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrPermissionDenied, body)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", notFoundSentinel(resource), body)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, body)
	case http.StatusTooManyRequests, http.StatusInsufficientStorage:
		return fmt.Errorf("%w: %s", ErrQuotaExceeded, body)
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", ErrNetworkUnavailable, body)
	case http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", ErrInternalServerError, body)
	default:
		if body == "" {
			body = http.StatusText(resp.StatusCode())
		}
		return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
	}
}

func notFoundSentinel(resource string) error {
	switch resource {
	case "record":
		return ErrRecordNotFound
	case "share":
		return ErrShareNotFound
	case "zone":
		return ErrZoneNotFound
	default:
		return ErrNotFound
	}
}
