package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateName validates a project or design name.
// Names become path components (input/<project>/<project>_<design>.csv) and
// store keys, so the rules reject anything that could escape a directory:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateName(kind, name string) error {
	if name == "" {
		return New(ErrCodeMalformedInput, "%s name cannot be empty", kind)
	}

	if len(name) > 128 {
		return New(ErrCodeMalformedInput, "%s name too long (max 128 characters)", kind)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeMalformedInput, "%s name contains invalid control characters", kind)
		}
	}

	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeMalformedInput, "%s name contains invalid characters: %q", kind, pattern)
		}
	}

	return nil
}

// shapeNameRegex matches catalog shape names such as "SRAM_ARRAY_4" or "TSV".
var shapeNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._+-]*$`)

// ValidateShapeName validates a shape name read from a catalog.
func ValidateShapeName(name string) error {
	if name == "" {
		return New(ErrCodeMissingConfig, "shape name cannot be empty")
	}
	if !shapeNameRegex.MatchString(name) {
		return New(ErrCodeMissingConfig, "invalid shape name: %q", name)
	}
	return nil
}
