package detect

// Sensitivity selects one of three detection threshold presets.
type Sensitivity int

const (
	SensitivityLow Sensitivity = iota
	SensitivityMedium
	SensitivityHigh
)

// ParseSensitivity maps the API strings "low", "medium" and "high" onto a
// Sensitivity. Unknown values default to medium.
func ParseSensitivity(s string) Sensitivity {
	switch s {
	case "low":
		return SensitivityLow
	case "high":
		return SensitivityHigh
	default:
		return SensitivityMedium
	}
}

func (s Sensitivity) String() string {
	switch s {
	case SensitivityLow:
		return "low"
	case SensitivityHigh:
		return "high"
	default:
		return "medium"
	}
}

// Settings are the numeric detection thresholds. They start from a
// sensitivity preset and are then adapted to the subject's skin tone:
// wound-vs-skin contrast varies by more than 2x across the Fitzpatrick
// range, so no threshold here is ever static.
type Settings struct {
	// HueTolerance is the half-width in degrees of the red hue band
	// considered wound-like.
	HueTolerance float64

	// MinSaturation is the lowest HSV saturation accepted for a wound pixel.
	MinSaturation float64

	// RedDominance is the minimum ratio of red over green and blue for a
	// pixel to count as red-dominant.
	RedDominance float64
}

// SettingsFor returns the threshold preset for a sensitivity level.
func SettingsFor(s Sensitivity) Settings {
	switch s {
	case SensitivityLow:
		return Settings{HueTolerance: 20, MinSaturation: 0.20, RedDominance: 1.35}
	case SensitivityHigh:
		return Settings{HueTolerance: 40, MinSaturation: 0.10, RedDominance: 1.12}
	default:
		return Settings{HueTolerance: 30, MinSaturation: 0.15, RedDominance: 1.25}
	}
}

// Skin luminance bands used for threshold adaptation.
const (
	darkSkinLuminance   = 80
	mediumSkinLuminance = 120
)

// AdaptToSkin shrinks the red-dominance ratio and minimum saturation as the
// skin-tone luminance decreases. Fixed thresholds systematically
// under-detect wounds on darker skin.
func (s Settings) AdaptToSkin(skinLuminance float64) Settings {
	switch {
	case skinLuminance < darkSkinLuminance:
		s.RedDominance = 1 + (s.RedDominance-1)*0.55
		s.MinSaturation *= 0.55
		s.HueTolerance *= 1.3
	case skinLuminance < mediumSkinLuminance:
		s.RedDominance = 1 + (s.RedDominance-1)*0.75
		s.MinSaturation *= 0.75
		s.HueTolerance *= 1.15
	}
	return s
}

// isZero reports whether the settings are the zero value, meaning the caller
// never picked a preset.
func (s Settings) isZero() bool {
	return s.HueTolerance == 0 && s.MinSaturation == 0 && s.RedDominance == 0
}
