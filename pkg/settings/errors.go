package settings

import (
	"errors"
	"fmt"
)

// Validation errors can be checked with errors.Is. Every error returned by
// Validate or the factories matches ErrInvalidConfig.
var (
	// ErrInvalidConfig is returned when a field violates its constraint.
	ErrInvalidConfig = errors.New("dvcsettings: invalid configuration")

	// ErrImageSizeRequired is returned when the reference image is raw and no
	// image size was given. Raw volumes carry no header, so readers need it.
	ErrImageSizeRequired = fmt.Errorf("%w: image size is required for a raw reference image", ErrInvalidConfig)
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}
