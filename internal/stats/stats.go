// Copyright (C) 2026 The flatfield authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package stats provides basic statistics and histogram-based location
// estimation for pixel buffers.
package stats

import (
	"fmt"
	"math"

	"github.com/pixfilt/flatfield/internal/qsort"
)

// Basic statistics on data arrays
type Stats struct {
	Min    float32 // Minimum
	Max    float32 // Maximum
	Mean   float32 // Mean (average)
	StdDev float32 // Standard deviation (norm 2, sigma)
}

// Pretty print basic stats to string
func (s *Stats) String() string {
	return fmt.Sprintf("Min %.6g Max %.6g Mean %.6g StdDev %.6g",
		s.Min, s.Max, s.Mean, s.StdDev)
}

// Calculate basic statistics for a data array.
func Calc(data []float32) (s *Stats) {
	s = &Stats{}
	s.Min, s.Mean, s.Max = calcMinMeanMax(data)

	variance := calcVariance(data, s.Mean)
	s.StdDev = float32(math.Sqrt(variance))

	return s
}

// Calculate minimum, mean and maximum of given data
func calcMinMeanMax(data []float32) (min, mean, max float32) {
	mmin, mmean, mmax := data[0], float64(0), data[0]
	for _, v := range data {
		if v < mmin {
			mmin = v
		}
		if v > mmax {
			mmax = v
		}
		mmean += float64(v)
	}
	return mmin, float32(mmean / float64(len(data))), mmax
}

// Calculate variance of given data from provided mean
func calcVariance(data []float32, mean float32) (result float64) {
	variance := float64(0)
	for _, v := range data {
		diff := float64(v - mean)
		variance += diff * diff
	}
	return variance / float64(len(data))
}

// Returns the sigma clipped median of the data. Does not change the data.
func SigmaClippedMedian(data []float32, sigmaLow, sigmaHigh float32) float32 {
	tmp := make([]float32, len(data))
	copy(tmp, data)
	remaining := tmp
	for {
		median := qsort.QSelectMedianFloat32(remaining) // reorders, doesnt matter

		// calculate std deviation w.r.t. median
		stdDev := float32(0)
		for _, r := range remaining {
			diff := r - median
			stdDev += diff * diff
		}
		stdDev /= float32(len(remaining))
		stdDev = float32(math.Sqrt(float64(stdDev)))

		// reject outliers based on sigma
		lowBound := median - sigmaLow*stdDev
		highBound := median + sigmaHigh*stdDev
		kept := 0
		for _, r := range remaining {
			if r >= lowBound && r <= highBound {
				remaining[kept] = r
				kept++
			}
		}

		// terminate once no more values are rejected
		if kept == len(remaining) || kept == 0 {
			return median
		}
		remaining = remaining[:kept]
	}
}
