package service

import "errors"

// Classified coordinator errors. Transient ones (see [IsTransient]) are
// retried locally up to the configured attempt budget; everything else
// surfaces immediately to the caller or observer.
var (
	ErrNetworkUnavailable = errors.New("network unavailable")
	ErrOperationTimeout   = errors.New("operation timed out")
	ErrQuotaExceeded      = errors.New("remote quota exceeded")

	ErrAccountStatusUnavailable      = errors.New("account status could not be determined")
	ErrNoAccount                     = errors.New("no account signed in")
	ErrAccountRestricted             = errors.New("account is restricted")
	ErrAccountTemporarilyUnavailable = errors.New("account temporarily unavailable")

	ErrSyncNotInitialized   = errors.New("sync is not initialized")
	ErrZoneCreationFailed   = errors.New("collaboration zone creation failed")
	ErrZoneRequired         = errors.New("collaboration zone required")
	ErrShareCreationFailed  = errors.New("share creation failed")
	ErrShareNotFound        = errors.New("share not found")
	ErrInvalidShareMetadata = errors.New("invalid share metadata")
	ErrInvalidShareRecord   = errors.New("invalid share record")
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrShareURLNotAvailable = errors.New("share URL not available")

	// ErrRootRecordNotSynced translates the backend's "root record does not
	// exist" into what it actually means for the user: the trip has not
	// finished its first sync yet. A common race right after creating a
	// trip.
	ErrRootRecordNotSynced = errors.New("trip is not yet synced; try again shortly")
)

// IsTransient reports whether the error is worth retrying locally. Unknown
// errors are never retried.
func IsTransient(err error) bool {
	return errors.Is(err, ErrNetworkUnavailable) ||
		errors.Is(err, ErrOperationTimeout) ||
		errors.Is(err, ErrQuotaExceeded)
}
