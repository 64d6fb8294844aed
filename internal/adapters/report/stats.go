package report

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// kdeBins is the bin count used to pre-aggregate large samples before smoothing.
	kdeBins = 2048
	// kdePoints is the number of points the density curve is evaluated at.
	kdePoints = 256
	// fallbackBandwidth is used when the sample has no spread.
	fallbackBandwidth = 0.2
)

// Summary holds the statistics drawn on the distribution plot.
type Summary struct {
	N      int
	Top    int     // requested cutoff clamped to N
	Cutoff float64 // score of the Top-th best entry
	Median float64
	StdDev float64 // population standard deviation
}

// Summarize computes the plot statistics of an ascending sample.
func Summarize(sorted []float64, top int) (Summary, error) {
	if len(sorted) == 0 {
		return Summary{}, ErrEmptySample
	}
	top = min(max(top, 1), len(sorted))
	_, std := stat.PopMeanStdDev(sorted, nil)
	return Summary{
		N:      len(sorted),
		Top:    top,
		Cutoff: sorted[top-1],
		Median: median(sorted),
		StdDev: std,
	}, nil
}

// median averages the two middle values of an even-sized sample.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// ScottBandwidth returns sigma * n^(-1/5) with the sample standard deviation.
func ScottBandwidth(sample []float64) float64 {
	if len(sample) < 2 {
		return fallbackBandwidth
	}
	bw := stat.StdDev(sample, nil) * math.Pow(float64(len(sample)), -0.2)
	if bw <= 0 || math.IsNaN(bw) {
		return fallbackBandwidth
	}
	return bw
}

// Density evaluates a Gaussian kernel density estimate of an ascending
// sample at kdePoints points across [lo, hi]. The sample is binned first so
// the cost does not grow with its size.
func Density(sorted []float64, bandwidth, lo, hi float64) (xs, ys []float64) {
	if lo > hi {
		lo, hi = hi, lo
	}
	xs = make([]float64, kdePoints)
	ys = make([]float64, kdePoints)
	floats.Span(xs, lo, hi)
	if len(sorted) == 0 {
		return xs, ys
	}

	first, last := sorted[0], sorted[len(sorted)-1]
	dividers := make([]float64, kdeBins+1)
	floats.Span(dividers, first, math.Nextafter(last, math.Inf(1))+1e-9)
	counts := stat.Histogram(nil, dividers, sorted, nil)

	kernel := distuv.Normal{Mu: 0, Sigma: bandwidth}
	n := float64(len(sorted))
	for b, c := range counts {
		if c == 0 {
			continue
		}
		center := (dividers[b] + dividers[b+1]) / 2
		w := c / n
		for i, x := range xs {
			ys[i] += w * kernel.Prob(x-center)
		}
	}
	return xs, ys
}

// IsSorted reports whether the sample is ascending.
func IsSorted(sample []float64) bool {
	return sort.Float64sAreSorted(sample)
}
