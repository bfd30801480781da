package chart

// MaxChannels is the number of digital channels carried by every sample.
const MaxChannels = 8

// DigitalDurationLimitUs is the longest window for which digital channels are
// decimated. Longer windows draw the analog trace only.
const DigitalDurationLimitUs = 4.5e6

// levelSwing is the peak-to-peak height of a digital trace inside its row.
const levelSwing = 0.8

// ActiveChannels returns how many digital channels to produce for a window of
// the given duration.
func ActiveChannels(enabled bool, durationUs float64) int {
	if !enabled || durationUs > DigitalDurationLimitUs {
		return 0
	}
	return MaxChannels
}

// Level maps bit ch of a digital mask to its square-wave value, -0.4 for low
// and +0.4 for high.
func Level(bits uint8, ch int) float64 {
	return (float64((bits>>uint(ch))&1) - 0.5) * levelSwing
}
