package eval

import (
	"math"

	"github.com/grd/stat"
)

// Summary holds descriptive statistics of one feature's values.
type Summary struct {
	Count    int
	Mean     float64
	StdDev   float64
	Variance float64
	Min      float64
	Max      float64
}

// Summarize computes descriptive statistics. Variance and StdDev are the
// sample estimates and stay zero below two values.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	data := stat.Float64Slice(values)
	s := Summary{
		Count: len(values),
		Mean:  stat.Mean(data),
	}
	s.Min, _ = stat.Min(data)
	s.Max, _ = stat.Max(data)
	if len(values) > 1 {
		s.Variance = stat.Variance(data)
		s.StdDev = math.Sqrt(s.Variance)
	}
	return s
}
