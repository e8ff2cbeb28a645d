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

package qsort

import (
	"testing"

	"github.com/valyala/fastrand"
)

func TestSort(t *testing.T) {
	rng := fastrand.RNG{}
	for i := 1; i < 200; i++ {
		arr := permutation(&rng, i)
		QSortFloat32(arr)
		for j, v := range arr {
			if v != float32(j+1) {
				t.Fatalf("sort(1..%d)[%d]=%f; want %f", i, j, v, float32(j+1))
			}
		}
	}
}

func TestMedian(t *testing.T) {
	rng := fastrand.RNG{}
	for i := 1; i < 1000; i++ {
		arr := permutation(&rng, i)

		// calculate expected result
		var expect float32
		if (i & 1) != 0 {
			expect = float32((i + 1) / 2)
		} else {
			expect = 0.5 * (float32(i/2) + float32(i/2+1))
		}

		// calculate actual result and compare
		res := QSelectMedianFloat32(arr)
		if res != expect {
			t.Logf("median(1..%d) got %f expect %f\n", i, res, expect)
			t.Fail()
		}
	}
}

// The select of rank 3 in [9 3 7 1 5] is the true median 5,
// regardless of the initial ordering of the array
func TestSelectKnownArray(t *testing.T) {
	rng := fastrand.RNG{}
	base := []float32{9, 3, 7, 1, 5}
	for i := 0; i < 100; i++ {
		arr := append([]float32(nil), base...)
		shuffle(&rng, arr)
		if res := QSelectFloat32(arr, 3); res != 5 {
			t.Errorf("select(%v, 3)=%f; want 5", arr, res)
		}
	}
}

func TestSelectAllRanks(t *testing.T) {
	rng := fastrand.RNG{}
	for i := 1; i < 100; i++ {
		for k := 1; k <= i; k++ {
			arr := permutation(&rng, i)
			if res := QSelectFloat32(arr, k); res != float32(k) {
				t.Fatalf("select(perm(1..%d), %d)=%f; want %d", i, k, res, k)
			}
		}
	}
}

func TestSelectDuplicates(t *testing.T) {
	arr := []float32{2, 2, 1, 2, 1, 1, 2, 2, 1}
	if res := QSelectFloat32(arr, 5); res != 2 {
		t.Errorf("select with duplicates got %f; want 2", res)
	}
}

func TestFirstQuartile(t *testing.T) {
	rng := fastrand.RNG{}
	arr := permutation(&rng, 99)
	if res := QSelectFirstQuartileFloat32(arr); res != 25 {
		t.Errorf("first quartile of 1..99 got %f; want 25", res)
	}
}

func TestMedianSlice9(t *testing.T) {
	rng := fastrand.RNG{}
	for i := 0; i < 1000; i++ {
		arr := permutation(&rng, 9)
		if res := MedianFloat32Slice9(arr); res != 5 {
			t.Errorf("network median of perm(1..9) got %f; want 5", res)
		}
	}
}

// prepare array of given length with a random permutation of 1..n
func permutation(rng *fastrand.RNG, n int) []float32 {
	arr := make([]float32, n)
	for j := 0; j < len(arr); j++ {
		arr[j] = float32(j + 1)
	}
	shuffle(rng, arr)
	return arr
}

func shuffle(rng *fastrand.RNG, arr []float32) {
	for j := 0; j < len(arr); j++ {
		k := rng.Uint32n(uint32(len(arr)))
		arr[j], arr[k] = arr[k], arr[j]
	}
}
