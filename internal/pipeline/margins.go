package pipeline

import (
	"math"
	"strconv"
)

// Margin units.
const (
	UnitMillimetre = "mm"
	UnitCentimetre = "cm"
	UnitInch       = "in"
)

// Conversion factors to millimetres.
const (
	mmPerCentimetre = 10.0
	mmPerInch       = 25.4
)

// Upper bounds per unit, as offered by the editing surface.
const (
	MaxMarginMillimetres = 50.0
	MaxMarginCentimetres = 5.0
	MaxMarginInches      = 5.0
)

// MarginData holds the four page margins in a single unit.
type MarginData struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Unit   string  `json:"unit"`
}

// MaxMargin returns the bound for unit, or 0 for an unknown unit.
func MaxMargin(unit string) float64 {
	switch unit {
	case UnitMillimetre:
		return MaxMarginMillimetres
	case UnitCentimetre:
		return MaxMarginCentimetres
	case UnitInch:
		return MaxMarginInches
	}
	return 0
}

// IsKnownUnit reports whether unit is mm, cm or in.
func IsKnownUnit(unit string) bool {
	return MaxMargin(unit) > 0
}

// ClampMargins bounds every value to [0, MaxMargin(m.Unit)].
// NaN becomes 0. Unknown units are only floored at 0.
func ClampMargins(m MarginData) MarginData {
	limit := MaxMargin(m.Unit)
	clamp := func(v float64) float64 {
		if math.IsNaN(v) || v < 0 {
			return 0
		}
		if limit > 0 && v > limit {
			return limit
		}
		return v
	}
	return MarginData{
		Top:    clamp(m.Top),
		Right:  clamp(m.Right),
		Bottom: clamp(m.Bottom),
		Left:   clamp(m.Left),
		Unit:   m.Unit,
	}
}

// ConvertMargins re-expresses m in unit and clamps to that unit's bound.
// Unknown source or target units leave the values untouched.
func ConvertMargins(m MarginData, unit string) MarginData {
	from := toMillimetres(m.Unit)
	to := toMillimetres(unit)
	if from == 0 || to == 0 {
		m.Unit = unit
		return ClampMargins(m)
	}

	convert := func(v float64) float64 { return v * from / to }
	return ClampMargins(MarginData{
		Top:    convert(m.Top),
		Right:  convert(m.Right),
		Bottom: convert(m.Bottom),
		Left:   convert(m.Left),
		Unit:   unit,
	})
}

// NormalizeMargins converts m to millimetres, the only unit the paginator
// accepts. Values are not clamped here; unknown units pass through unchanged.
func NormalizeMargins(m MarginData) MarginData {
	factor := toMillimetres(m.Unit)
	if factor == 0 || m.Unit == UnitMillimetre {
		return m
	}
	return MarginData{
		Top:    m.Top * factor,
		Right:  m.Right * factor,
		Bottom: m.Bottom * factor,
		Left:   m.Left * factor,
		Unit:   UnitMillimetre,
	}
}

// FormatMargin renders a value with its unit, e.g. "25.4mm".
func FormatMargin(v float64, unit string) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + unit
}

// Strings returns top, right, bottom and left formatted with FormatMargin.
func (m MarginData) Strings() [4]string {
	return [4]string{
		FormatMargin(m.Top, m.Unit),
		FormatMargin(m.Right, m.Unit),
		FormatMargin(m.Bottom, m.Unit),
		FormatMargin(m.Left, m.Unit),
	}
}

// MillimetresToInches converts for Chrome's print API, which takes inches.
func MillimetresToInches(mm float64) float64 {
	return mm / mmPerInch
}

func toMillimetres(unit string) float64 {
	switch unit {
	case UnitMillimetre:
		return 1
	case UnitCentimetre:
		return mmPerCentimetre
	case UnitInch:
		return mmPerInch
	}
	return 0
}
