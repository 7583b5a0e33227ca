package career

import "github.com/cockroachdb/errors"

// Sentinel references for the error classes the core surfaces. Callers are
// expected to classify failures with the Is* helpers rather than matching
// message text.
var (
	// ErrNotFound marks errors for entities absent from both cache and store.
	ErrNotFound = errors.New("not found")

	// ErrBadRequest marks malformed identifiers, unknown categories, and
	// ambiguous or empty patch payloads. Never retryable.
	ErrBadRequest = errors.New("bad request")

	// ErrQuotaExceeded marks plan-limit violations. Logically permanent until
	// the user upgrades or deletes resources.
	ErrQuotaExceeded = errors.New("quota exceeded")
)

// NotFoundf returns an error marked as ErrNotFound.
func NotFoundf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrNotFound)
}

// BadRequestf returns an error marked as ErrBadRequest.
func BadRequestf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrBadRequest)
}

// QuotaExceeded returns an error marked as ErrQuotaExceeded naming the
// collection whose ceiling was hit, e.g. "organizations" or "achievements".
func QuotaExceeded(collection string) error {
	return errors.Mark(
		errors.Newf("you have reached the maximum number of %s", collection),
		ErrQuotaExceeded,
	)
}

// IsNotFound reports whether err is marked as ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsBadRequest reports whether err is marked as ErrBadRequest.
func IsBadRequest(err error) bool { return errors.Is(err, ErrBadRequest) }

// IsQuotaExceeded reports whether err is marked as ErrQuotaExceeded.
func IsQuotaExceeded(err error) bool { return errors.Is(err, ErrQuotaExceeded) }
