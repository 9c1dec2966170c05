package windowing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration marks a malformed size specification or session
	// config. It is returned before any range computation happens.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrIndexOutOfRange marks an index outside [0, itemCount-1].
	ErrIndexOutOfRange = errors.New("index out of range")
)

// IndexError reports an index outside the valid range of a session.
type IndexError struct {
	Index int
	Count int
}

func (e *IndexError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("invalid index %d: collection is empty", e.Index)
	}
	return fmt.Sprintf("invalid index %d: not within the range 0 - %d", e.Index, e.Count-1)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

func checkIndex(index, count int) error {
	if index < 0 || index >= count {
		return &IndexError{Index: index, Count: count}
	}
	return nil
}

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}
