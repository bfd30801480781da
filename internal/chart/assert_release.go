//go:build !debug

package chart

// checkRange replaces an empty range with the minimal interval at its start.
func checkRange(r Range) Range {
	if !r.Valid() {
		return minimalRange(r.Begin)
	}
	return r
}
