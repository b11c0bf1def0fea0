package container

import "errors"

var (
	// ErrIO matches every file system failure while reading or writing a container.
	ErrIO = errors.New("dvcsettings: i/o failure")

	// ErrMalformed is returned when a container is not valid BSON or lacks
	// a group or entry, or an entry has the wrong type.
	ErrMalformed = errors.New("dvcsettings: malformed container")

	// ErrNoPath is returned when a Writer is created without an output path.
	ErrNoPath = errors.New("dvcsettings: output path is required")
)

// IOError records a failed file system operation on a container path.
// It matches ErrIO and unwraps to the underlying error.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return "dvcsettings: " + e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error { return e.Err }

// Is reports whether target is ErrIO.
func (e *IOError) Is(target error) bool { return target == ErrIO }
