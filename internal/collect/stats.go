package collect

import (
	"math"
	"sort"
)

// NoData is what Summarize reports for an empty result set.
var NoData = math.NaN()

// IsNoData reports whether v is the NoData sentinel.
func IsNoData(v float64) bool { return math.IsNaN(v) }

// Summarize returns the arithmetic mean of the draw counts, or NoData when
// there is nothing to average.
func Summarize(results []int) float64 {
	if len(results) == 0 {
		return NoData
	}
	var sum float64
	for _, v := range results {
		sum += float64(v)
	}
	return sum / float64(len(results))
}

// Stats summarizes simulation results.
type Stats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Var    float64 `json:"var"`
	StdDev float64 `json:"stddev"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`
}

// Empty reports whether the stats were built from zero results.
func (s Stats) Empty() bool { return s.Count == 0 }

// CalcStats computes mean/variance/percentiles for integer samples.
// For no samples every float field is NoData.
func CalcStats(xs []int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{Mean: NoData, Var: NoData, StdDev: NoData, P50: NoData, P90: NoData, P99: NoData}
	}
	mean := Summarize(xs)

	// variance (population)
	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}
	variance := acc / float64(n)

	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
			return float64(cp[0])
		}
		if p >= 1 {
			return float64(cp[n-1])
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return float64(cp[i])
		}
		return float64(cp[i])*(1-f) + float64(cp[i+1])*f
	}

	return Stats{
		Count:  n,
		Mean:   mean,
		Var:    variance,
		StdDev: math.Sqrt(variance),
		Min:    cp[0],
		Max:    cp[n-1],
		P50:    percentile(0.50),
		P90:    percentile(0.90),
		P99:    percentile(0.99),
	}
}
