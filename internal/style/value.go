package style

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Errors returned when parsing style values.
var (
	// ErrUnsupportedUnit indicates the value uses a unit other than px or em.
	ErrUnsupportedUnit = errors.New("unsupported style unit")

	// ErrInvalidValue indicates the numeric part of the value is malformed.
	ErrInvalidValue = errors.New("invalid style value")
)

// Unit identifies the measurement unit of a style value.
type Unit uint8

const (
	// UnitPixel is an absolute pixel measurement.
	UnitPixel Unit = iota

	// UnitEm is a relative measurement scaled by the parent font size.
	UnitEm
)

// String returns the CSS suffix for the unit.
func (u Unit) String() string {
	switch u {
	case UnitPixel:
		return "px"
	case UnitEm:
		return "em"
	default:
		return "unknown"
	}
}

// Step returns the increment one font-size adjustment moves in this unit.
func (u Unit) Step() float64 {
	if u == UnitEm {
		return 0.1
	}
	return 1
}

// MinSize returns the smallest usable font size in this unit. Shrinking a
// font to or below this threshold is refused.
func (u Unit) MinSize() float64 {
	if u == UnitEm {
		return 0.1
	}
	return 1
}

// Value is a parsed style measurement such as "14px" or "1.2em".
type Value struct {
	// Magnitude is the numeric portion of the value.
	Magnitude float64

	// Unit is the measurement unit.
	Unit Unit
}

// Parse converts a CSS-style measurement string into a Value. Only px and
// em units are recognized; anything else returns ErrUnsupportedUnit. A
// recognized unit with a malformed or missing number returns
// ErrInvalidValue.
func Parse(s string) (Value, error) {
	trimmed := strings.TrimSpace(s)

	var unit Unit
	var num string
	switch {
	case strings.HasSuffix(trimmed, "px"):
		unit = UnitPixel
		num = strings.TrimSpace(strings.TrimSuffix(trimmed, "px"))
	case strings.HasSuffix(trimmed, "em"):
		unit = UnitEm
		num = strings.TrimSpace(strings.TrimSuffix(trimmed, "em"))
	default:
		return Value{}, ErrUnsupportedUnit
	}

	if num == "" {
		return Value{}, ErrInvalidValue
	}

	magnitude, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Value{}, ErrInvalidValue
	}

	return Value{Magnitude: magnitude, Unit: unit}, nil
}

// MustParse is like Parse but panics on error. Intended for literals in
// defaults and tests.
func MustParse(s string) Value {
	v, err := Parse(s)
	if err != nil {
		panic("style: MustParse(" + strconv.Quote(s) + "): " + err.Error())
	}
	return v
}

// Add returns the value shifted by delta in the same unit. The result is
// rounded to four decimal places so repeated fractional steps don't
// accumulate float noise.
func (v Value) Add(delta float64) Value {
	m := math.Round((v.Magnitude+delta)*1e4) / 1e4
	return Value{Magnitude: m, Unit: v.Unit}
}

// String renders the value back to its CSS form.
func (v Value) String() string {
	return strconv.FormatFloat(v.Magnitude, 'f', -1, 64) + v.Unit.String()
}

// Pixels converts the value to pixels. Relative units are resolved against
// the given base pixel size.
func (v Value) Pixels(basePx float64) float64 {
	if v.Unit == UnitEm {
		return v.Magnitude * basePx
	}
	return v.Magnitude
}
