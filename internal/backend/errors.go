package backend

import "errors"

// Transport-level sentinel errors. mapHTTPError wraps these with the
// response body so callers can branch with errors.Is and still see the
// backend's detail message.
var (
	ErrNetworkUnavailable  = errors.New("backend unreachable")
	ErrQuotaExceeded       = errors.New("backend quota exceeded")
	ErrNotFound            = errors.New("remote object not found")
	ErrRecordNotFound      = errors.New("remote record not found")
	ErrShareNotFound       = errors.New("remote share not found")
	ErrZoneNotFound        = errors.New("remote zone not found")
	ErrConflict            = errors.New("remote change tag conflict")
	ErrPermissionDenied    = errors.New("backend permission denied")
	ErrBadRequest          = errors.New("bad request")
	ErrInternalServerError = errors.New("backend internal error")
)
