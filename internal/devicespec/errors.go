package devicespec

import "errors"

// Domain errors for the devicespec package.
//
// Parse errors wrap one of these sentinels and always carry the offending
// token and the full input string, so they can be checked with errors.Is()
// and still read well in logs:
//
//	if errors.Is(err, devicespec.ErrUnknownAttribute) {
//	    // reject the input
//	}
var (
	// ErrInvalidFormat is returned when a numeric sub-token (replica, task,
	// or device index) is not parseable as an integer.
	ErrInvalidFormat = errors.New("devicespec: invalid format")

	// ErrDuplicateDeviceType is returned when a device kind appears more
	// than once within a single parse, in either the short or long form.
	ErrDuplicateDeviceType = errors.New("devicespec: multiple device types")

	// ErrUnknownAttribute is returned when a segment matches none of the
	// recognized grammar forms.
	ErrUnknownAttribute = errors.New("devicespec: unknown attribute")
)
