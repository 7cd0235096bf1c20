package httperr

import "errors"

// Kind classifies a business failure so handlers can map it to one HTTP
// status without inspecting individual codes.
type Kind int

const (
	KindValidation Kind = iota
	KindState
	KindNotFound
	KindConflict
)

type BusinessError struct {
	Code string
	Kind Kind
}

func (e BusinessError) Error() string {
	return e.Code
}

// ErrBusiness is a client-caused validation failure with a stable code.
func ErrBusiness(code string) error {
	return BusinessError{Code: code, Kind: KindValidation}
}

// ErrState marks an action attempted from an illegal booking state.
func ErrState(code string) error {
	return BusinessError{Code: code, Kind: KindState}
}

// ErrNotFound marks an id that did not resolve.
func ErrNotFound(code string) error {
	return BusinessError{Code: code, Kind: KindNotFound}
}

// ErrConflict marks a concurrency conflict that survived all retries.
func ErrConflict(code string) error {
	return BusinessError{Code: code, Kind: KindConflict}
}

// ErrConcurrentUpdate signals that a version-checked conditional update
// matched zero rows. The transition engine retries on it; it is never
// surfaced to clients directly.
var ErrConcurrentUpdate = errors.New("concurrent_update")

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func KindOf(err error) (Kind, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind, true
	}
	return 0, false
}
