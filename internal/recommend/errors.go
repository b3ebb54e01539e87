package recommend

import (
	"errors"
	"fmt"
)

// Kind classifies a recommendation failure.
type Kind int

const (
	// KindInternal is an unexpected failure while scoring.
	KindInternal Kind = iota
	// KindNotFound means the requested job posting does not exist.
	KindNotFound
	// KindDataAccess means a historical store read failed.
	KindDataAccess
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindDataAccess:
		return "data_access"
	default:
		return "internal"
	}
}

// Error is returned by Engine.Recommend. Soft "no data" conditions are never
// reported as errors; they select the cold-start path instead.
type Error struct {
	Kind  Kind
	JobID int64
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("recommend: job %d: %s failed (%s): %v", e.JobID, e.Stage, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err (or any error in its chain) is a KindNotFound Error.
func IsNotFound(err error) bool {
	return kindOf(err) == KindNotFound
}

// IsDataAccess reports whether err (or any error in its chain) is a KindDataAccess Error.
func IsDataAccess(err error) bool {
	return kindOf(err) == KindDataAccess
}

func kindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return -1
}
