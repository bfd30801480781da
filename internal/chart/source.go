// Package chart turns a time window over the sample ring into bounded,
// plot-ready series and summary statistics.
//
// Nothing here renders. The UI resolves a Window into a Range, calls Decimate
// with the plot width and Aggregate with the statistics range, then draws the
// resulting Output.
package chart

// Source is the read-only sample view the engine consumes. Logical indices
// outside the held range alias into valid slots; implementations never fault.
type Source interface {
	Capacity() int
	Value(index int64) float32
	Bits(index int64) uint8
	TimeToIndex(us float64) float64
	IndexToTime(index float64) float64
}
