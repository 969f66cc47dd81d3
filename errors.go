package portal

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedConfiguration means the requested pixel format, version or flags cannot
	// be satisfied by the backend. Callers may retry with different parameters.
	ErrUnsupportedConfiguration = errors.New("unsupported configuration")

	// ErrNotSupported means the backend permanently lacks the capability.
	ErrNotSupported = errors.New("not supported by this backend")

	// ErrPlatform means a native call failed.
	ErrPlatform = errors.New("platform error")

	// ErrUseAfterDispose means an operation was attempted on a closed factory.
	ErrUseAfterDispose = errors.New("use after dispose")
)

var kinds = []error{ErrUnsupportedConfiguration, ErrNotSupported, ErrPlatform, ErrUseAfterDispose}

// Error is returned by every factory operation. It matches both its Kind and its cause
// with errors.Is.
type Error struct {
	Op      string
	Backend string
	Kind    error
	Err     error
}

func (e *Error) Error() string {
	prefix := fmt.Sprintf("%s: %s %s", ModuleName, e.Backend, e.Op)
	switch {
	case e.Err == nil:
		return fmt.Sprintf("%s: %v", prefix, e.Kind)
	case errors.Is(e.Err, e.Kind):
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	default:
		return fmt.Sprintf("%s: %v: %v", prefix, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Unsupported builds an ErrUnsupportedConfiguration cause for backends.
func Unsupported(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedConfiguration, fmt.Sprintf(format, a...))
}

// KindOf returns the taxonomy kind of err, or nil when err is nil. Errors carrying no known
// kind are classified as ErrPlatform.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrPlatform
}

func wrap(op string, backend string, err error) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	return &Error{Op: op, Backend: backend, Kind: KindOf(err), Err: err}
}
