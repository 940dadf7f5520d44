package errors

import (
	"math"
	"strings"
	"unicode"
)

// Standard reinforcing bar diameters in millimetres.
var standardDiameters = map[int]bool{
	6: true, 8: true, 10: true, 12: true, 14: true, 16: true, 18: true,
	20: true, 22: true, 25: true, 28: true, 32: true, 36: true, 40: true,
}

// ValidateGroupName validates a beam group name.
//
// Group names key the cross-beam neighbor map and appear in CLI output and
// HTTP responses, so the rules are conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 64 characters
func ValidateGroupName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidBeam, "beam group name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidBeam, "beam group name too long (max 64 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidBeam, "beam group name contains invalid control characters")
		}
	}

	return nil
}

// ValidateDiameter checks that d is a standard bar diameter in millimetres.
func ValidateDiameter(d int) error {
	if !standardDiameters[d] {
		return New(ErrCodeInvalidDiameter, "unsupported bar diameter: %d mm", d)
	}
	return nil
}

// ValidateDiameters checks every diameter in ds and rejects an empty list.
func ValidateDiameters(field string, ds []int) error {
	if len(ds) == 0 {
		return New(ErrCodeInvalidSettings, "%s must list at least one diameter", field)
	}
	for _, d := range ds {
		if err := ValidateDiameter(d); err != nil {
			return Wrap(ErrCodeInvalidSettings, err, "%s", field)
		}
	}
	return nil
}

// ValidatePositive rejects zero or negative values for a named field.
func ValidatePositive(field string, v float64) error {
	if !finite(v) {
		return New(ErrCodeInvalidSettings, "%s must be a finite number, got %g", field, v)
	}
	if v <= 0 {
		return New(ErrCodeInvalidSettings, "%s must be positive, got %g", field, v)
	}
	return nil
}

// ValidateNonNegative rejects negative values for a named field.
func ValidateNonNegative(field string, v float64) error {
	if !finite(v) {
		return New(ErrCodeInvalidSettings, "%s must be a finite number, got %g", field, v)
	}
	if v < 0 {
		return New(ErrCodeInvalidSettings, "%s cannot be negative, got %g", field, v)
	}
	return nil
}

// ValidateAreas checks a left/mid/right triple of required areas.
func ValidateAreas(field string, areas [3]float64) error {
	for i, a := range areas {
		if !finite(a) {
			return New(ErrCodeInvalidSpan, "%s[%d] must be a finite number, got %g", field, i, a)
		}
		if a < 0 {
			return New(ErrCodeInvalidSpan, "%s[%d] cannot be negative, got %g", field, i, a)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
