//go:build debug

package chart

import "fmt"

// checkRange panics on an empty range. Debug builds treat it as a resolver
// bug that must surface immediately.
func checkRange(r Range) Range {
	if !r.Valid() {
		panic(fmt.Sprintf("chart: empty window [%v, %v)", r.Begin, r.End))
	}
	return r
}
