package devicespec

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse converts a specifier string into a Spec.
//
// The input is split on "/" into segments and each segment on ":" into
// tokens. Recognized segment forms:
//
//	job:<name>
//	replica:<int>
//	task:<int>
//	CPU | GPU | cpu:<int|*> | gpu:<int|*>   (kind matched case-insensitively)
//	device:<kind>:<int|*>                   (kind preserved verbatim)
//
// The keyword forms are case-sensitive; only the short device-kind token is
// matched case-insensitively (and upper-cased on store). Fields may appear
// in any order and job/replica/task may repeat, with the last occurrence
// winning; a device kind may appear at most once across both device forms.
// Empty segments from leading, trailing, or doubled slashes are ignored.
//
// Segments are processed left to right and the first violation aborts the
// parse: ErrInvalidFormat for a non-integer numeric token,
// ErrDuplicateDeviceType for a repeated device kind, ErrUnknownAttribute
// for anything else. On error the zero Spec is returned.
func Parse(spec string) (Spec, error) {
	var s Spec
	for _, segment := range strings.Split(spec, "/") {
		tokens := strings.Split(segment, ":")
		if tokens[0] == "" {
			// Empty segment ("//", leading or trailing slash) or a
			// segment with no attribute name; both are skipped.
			continue
		}

		switch {
		case len(tokens) == 2 && tokens[0] == "job":
			s.job = &tokens[1]

		case len(tokens) == 2 && tokens[0] == "replica":
			n, err := strconv.Atoi(tokens[1])
			if err != nil {
				return Spec{}, fmt.Errorf("%w: replica %q in %q", ErrInvalidFormat, tokens[1], spec)
			}
			s.replica = &n

		case len(tokens) == 2 && tokens[0] == "task":
			n, err := strconv.Atoi(tokens[1])
			if err != nil {
				return Spec{}, fmt.Errorf("%w: task %q in %q", ErrInvalidFormat, tokens[1], spec)
			}
			s.task = &n

		case len(tokens) <= 2 && isShortDeviceToken(tokens[0]):
			if s.deviceType != nil {
				return Spec{}, fmt.Errorf("%w: %q in %q", ErrDuplicateDeviceType, tokens[0], spec)
			}
			kind := strings.ToUpper(tokens[0])
			s.deviceType = &kind
			if len(tokens) == 2 && tokens[1] != "*" {
				n, err := strconv.Atoi(tokens[1])
				if err != nil {
					return Spec{}, fmt.Errorf("%w: device index %q in %q", ErrInvalidFormat, tokens[1], spec)
				}
				s.deviceIndex = &n
			}

		case len(tokens) == 3 && tokens[0] == "device":
			if s.deviceType != nil {
				return Spec{}, fmt.Errorf("%w: %q in %q", ErrDuplicateDeviceType, tokens[1], spec)
			}
			// The long form preserves the kind verbatim; no case folding.
			s.deviceType = &tokens[1]
			if tokens[2] != "*" {
				n, err := strconv.Atoi(tokens[2])
				if err != nil {
					return Spec{}, fmt.Errorf("%w: device index %q in %q", ErrInvalidFormat, tokens[2], spec)
				}
				s.deviceIndex = &n
			}

		default:
			return Spec{}, fmt.Errorf("%w: %q in %q", ErrUnknownAttribute, tokens[0], spec)
		}
	}
	return s, nil
}

// isShortDeviceToken reports whether a token is the short device-kind form.
func isShortDeviceToken(token string) bool {
	upper := strings.ToUpper(token)
	return upper == "CPU" || upper == "GPU"
}

// ParseFrom parses a specifier string into the receiver.
//
// The receiver is replaced wholesale on success and left unchanged on
// failure — a failed parse never leaves partially-populated state behind.
// Not internally synchronized; see the package documentation.
func (s *Spec) ParseFrom(spec string) error {
	parsed, err := Parse(spec)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// CheckValid parses a specifier string purely for validation, discarding
// the result. It returns nil when the string is well-formed and the parse
// error otherwise.
func CheckValid(spec string) error {
	_, err := Parse(spec)
	return err
}
