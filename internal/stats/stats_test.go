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

package stats

import (
	"math"
	"testing"
)

func TestCalc(t *testing.T) {
	data := []float32{2, 4, 4, 4, 5, 5, 7, 9}
	s := Calc(data)
	if s.Min != 2 {
		t.Errorf("min %f expected 2", s.Min)
	}
	if s.Max != 9 {
		t.Errorf("max %f expected 9", s.Max)
	}
	if s.Mean != 5 {
		t.Errorf("mean %f expected 5", s.Mean)
	}
	if math.Abs(float64(s.StdDev-2)) > 1e-6 {
		t.Errorf("stdDev %f expected 2", s.StdDev)
	}
}

func TestSigmaClippedMedian(t *testing.T) {
	data := make([]float32, 100)
	for i := range data {
		data[i] = 10
	}
	data[17] = 10000
	data[63] = -10000
	med := SigmaClippedMedian(data, 2, 2)
	if med != 10 {
		t.Errorf("median %f expected 10", med)
	}
	if data[17] != 10000 {
		t.Errorf("input data was modified")
	}
}

func TestHistogram(t *testing.T) {
	data := []float32{0, 0.25, 0.5, 0.75, 1, 1, 1}
	bins := make([]int32, 5)
	Histogram(data, 0, 1, bins)
	expected := []int32{1, 1, 1, 1, 3}
	for i := range bins {
		if bins[i] != expected[i] {
			t.Errorf("bin %d count %d expected %d", i, bins[i], expected[i])
		}
	}
}

func TestGetPeak(t *testing.T) {
	bins := []int32{1, 2, 9, 3, 1}
	x, y := GetPeak(bins, 0, 1)
	if y != 9 {
		t.Errorf("peak value %f expected 9", y)
	}
	expectedX := float32(2.5) / 4
	if math.Abs(float64(x-expectedX)) > 1e-6 {
		t.Errorf("peak location %f expected %f", x, expectedX)
	}
}

func TestModeStdDevFromHistogram(t *testing.T) {
	// synthesize exact gaussian bin counts around mu=0.4 sigma=0.05
	mu, sigma := float32(0.4), float32(0.05)
	numBins := 256
	bins := make([]int32, numBins)
	for i := range bins {
		x := (float32(i) + 0.5) / float32(numBins-1)
		xms := float64((x - mu) / sigma)
		bins[i] = int32(1000 * math.Exp(-0.5*xms*xms))
	}
	mode, stdDev, err := GetModeStdDevFromHistogram(bins, 0, 1)
	if err != nil {
		t.Fatalf("fit failed: %s", err.Error())
	}
	if math.Abs(float64(mode-mu)) > 0.02 {
		t.Errorf("mode %f expected near %f", mode, mu)
	}
	if math.Abs(float64(stdDev-sigma)) > 0.02 {
		t.Errorf("stdDev %f expected near %f", stdDev, sigma)
	}
}
