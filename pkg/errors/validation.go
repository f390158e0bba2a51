package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxSurfaceWidth bounds the container width accepted from callers. Anything
// wider is almost certainly a unit mix-up (pixels vs points).
const MaxSurfaceWidth = 4096

// ValidateWidth validates a container width supplied by a caller.
//
// The engine itself tolerates degenerate widths (spacing clamps to 0), but
// external entry points reject values that cannot describe a screen:
//   - NaN or infinite values
//   - Non-positive values
//   - Values above MaxSurfaceWidth
func ValidateWidth(width float64) error {
	if math.IsNaN(width) || math.IsInf(width, 0) {
		return New(ErrCodeInvalidWidth, "width must be a finite number")
	}
	if width <= 0 {
		return New(ErrCodeInvalidWidth, "width must be positive, got %g", width)
	}
	if width > MaxSurfaceWidth {
		return New(ErrCodeInvalidWidth, "width too large (max %d), got %g", MaxSurfaceWidth, width)
	}
	return nil
}

// ValidateInset validates a bottom safe-area inset.
func ValidateInset(inset float64) error {
	if math.IsNaN(inset) || math.IsInf(inset, 0) {
		return New(ErrCodeInvalidInput, "inset must be a finite number")
	}
	if inset < 0 {
		return New(ErrCodeInvalidInput, "inset cannot be negative, got %g", inset)
	}
	return nil
}

// ValidateScenarioName validates a scenario name for use in output file names
// and cache keys.
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 128 characters
//   - No control characters
//   - No path separators or traversal sequences
func ValidateScenarioName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidScenario, "scenario name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidScenario, "scenario name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidScenario, "scenario name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidScenario, "scenario name contains invalid characters: %q", pattern)
		}
	}

	return nil
}
