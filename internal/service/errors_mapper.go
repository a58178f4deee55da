package service

import (
	"errors"
	"fmt"

	"github.com/beforetheshoes/traveling-snails/internal/backend"
	"github.com/beforetheshoes/traveling-snails/models"
)

// mapBackendError translates the backend's transport error into a
// coordinator business error. Unrecognised errors pass through wrapped so
// the original detail survives for logs; callers treat them as unknown and
// never retry them.
func mapBackendError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, backend.ErrNetworkUnavailable):
		return fmt.Errorf("%w: %s", ErrNetworkUnavailable, err)
	case errors.Is(err, backend.ErrQuotaExceeded):
		return fmt.Errorf("%w: %s", ErrQuotaExceeded, err)
	case errors.Is(err, backend.ErrShareNotFound):
		return fmt.Errorf("%w: %s", ErrShareNotFound, err)
	case errors.Is(err, backend.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", ErrRootRecordNotSynced, err)
	case errors.Is(err, backend.ErrZoneNotFound):
		return fmt.Errorf("%w: %s", ErrZoneRequired, err)
	default:
		return err
	}
}

// mapAccountStatus translates a non-available account status into the
// corresponding business error, or nil for an available account.
func mapAccountStatus(status models.AccountStatus) error {
	switch status {
	case models.AccountStatusAvailable:
		return nil
	case models.AccountStatusNoAccount:
		return ErrNoAccount
	case models.AccountStatusRestricted:
		return ErrAccountRestricted
	case models.AccountStatusTemporarilyUnavailable:
		return ErrAccountTemporarilyUnavailable
	default:
		return ErrAccountStatusUnavailable
	}
}
