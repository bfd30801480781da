package chart

// Point is one plot vertex. Invalid points are gaps in the trace.
type Point struct {
	Time  float64
	Value float64
	Valid bool
}

// Mode identifies which decimation path produced an Output.
type Mode int

const (
	// HoldMode emits every raw sample, holding the last valid value over gaps.
	HoldMode Mode = iota
	// EnvelopeMode emits a min/max pair per output column.
	EnvelopeMode
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case HoldMode:
		return "hold"
	case EnvelopeMode:
		return "envelope"
	default:
		return "unknown"
	}
}

// Output holds the series produced by one Decimate call. It is owned by the
// caller and reused across calls: every call truncates and refills it, so
// slices returned by earlier calls must not be kept.
type Output struct {
	Mode     Mode
	Step     float64
	Analog   []Point
	Bits     [MaxChannels][]Point
	Channels int
}

// NewOutput returns an Output sized for the largest supported width.
func NewOutput() *Output {
	o := &Output{Analog: make([]Point, 0, 2*MaxWidth)}
	for ch := range o.Bits {
		o.Bits[ch] = make([]Point, 0, 64)
	}
	return o
}

// Digital returns the series of channel ch, or nil when the channel was not
// produced by the last call.
func (o *Output) Digital(ch int) []Point {
	if ch < 0 || ch >= o.Channels {
		return nil
	}
	return o.Bits[ch]
}

// Len returns the total number of points across all series.
func (o *Output) Len() int {
	n := len(o.Analog)
	for ch := range o.Channels {
		n += len(o.Bits[ch])
	}
	return n
}

func (o *Output) reset(channels int) {
	o.Analog = o.Analog[:0]
	for ch := range o.Bits {
		o.Bits[ch] = o.Bits[ch][:0]
	}
	o.Channels = channels
	o.Step = 0
}
