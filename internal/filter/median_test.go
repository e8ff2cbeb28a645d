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

package filter

import (
	"errors"
	"testing"

	"github.com/pixfilt/flatfield/internal/pad"
	"github.com/pixfilt/flatfield/internal/qsort"
	"github.com/valyala/fastrand"
)

// A 3x3 median over a constant 5x5 image returns the constant everywhere,
// border pixels included, since padding extends a constant as a constant
func TestMedianConstant(t *testing.T) {
	width, height := int32(5), int32(5)
	v := float32(42)
	src := make([]float32, width*height)
	for i := range src {
		src[i] = v
	}
	for _, mode := range []pad.Mode{pad.Symmetric, pad.Antisymmetric} {
		res, err := Median(src, width, height, 3, 3, mode)
		if err != nil {
			t.Fatal(err.Error())
		}
		if len(res) != len(src) {
			t.Fatalf("length %d; want %d", len(res), len(src))
		}
		for i, r := range res {
			if r != v {
				t.Fatalf("%v: median of constant image changed pixel %d to %f", mode, i, r)
			}
		}
	}
}

func TestMedianIdentity(t *testing.T) {
	rng := fastrand.RNG{}
	width, height := int32(13), int32(7)
	src := make([]float32, width*height)
	for i := range src {
		src[i] = float32(rng.Uint32n(1000))
	}
	res, err := Median(src, width, height, 1, 1, pad.Symmetric)
	if err != nil {
		t.Fatal(err.Error())
	}
	for i, v := range res {
		if v != src[i] {
			t.Fatalf("identity median changed pixel %d: got %f want %f", i, v, src[i])
		}
	}
}

// Cross-check arbitrary kernels against a naive pad-gather-sort reference
func TestMedianMatchesNaive(t *testing.T) {
	rng := fastrand.RNG{}
	dims := [][2]int32{{6, 6}, {11, 4}, {3, 17}}
	kernels := [][2]int32{{3, 3}, {5, 1}, {1, 5}, {5, 3}, {7, 7}}

	for _, mode := range []pad.Mode{pad.Symmetric, pad.Antisymmetric} {
		for _, d := range dims {
			width, height := d[0], d[1]
			src := make([]float32, width*height)
			for i := range src {
				src[i] = float32(rng.Uint32n(64))
			}
			for _, k := range kernels {
				filterWidth, filterHeight := k[0], k[1]
				res, err := Median(src, width, height, filterWidth, filterHeight, mode)
				if err != nil {
					t.Fatal(err.Error())
				}
				want := naiveMedian(src, width, height, filterWidth, filterHeight, mode)
				for i := range want {
					if res[i] != want[i] {
						t.Fatalf("%v %dx%d kernel %dx%d pixel %d: got %f want %f",
							mode, width, height, filterWidth, filterHeight, i, res[i], want[i])
					}
				}
			}
		}
	}
}

func naiveMedian(src []float32, width, height, filterWidth, filterHeight int32, mode pad.Mode) []float32 {
	paddedWidth := width + (filterWidth/2)*2
	paddedHeight := height + (filterHeight/2)*2
	padded, err := pad.Pad(src, width, height, paddedWidth, paddedHeight, mode)
	if err != nil {
		panic(err)
	}
	res := make([]float32, len(src))
	gathered := make([]float32, filterWidth*filterHeight)
	for row := int32(0); row < height; row++ {
		for col := int32(0); col < width; col++ {
			i := 0
			for ky := int32(0); ky < filterHeight; ky++ {
				for kx := int32(0); kx < filterWidth; kx++ {
					gathered[i] = padded[(row+ky)*paddedWidth+col+kx]
					i++
				}
			}
			qsort.QSortFloat32(gathered)
			res[row*width+col] = gathered[len(gathered)/2]
		}
	}
	return res
}

// Two runs over the same input must agree exactly despite the row-parallel
// decomposition
func TestMedianDeterministic(t *testing.T) {
	rng := fastrand.RNG{}
	width, height := int32(64), int32(48)
	src := make([]float32, width*height)
	for i := range src {
		src[i] = float32(rng.Uint32n(4096))
	}
	a, err := Median(src, width, height, 5, 5, pad.Symmetric)
	if err != nil {
		t.Fatal(err.Error())
	}
	b, err := Median(src, width, height, 5, 5, pad.Symmetric)
	if err != nil {
		t.Fatal(err.Error())
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("median runs disagree at pixel %d: %f vs %f", i, a[i], b[i])
		}
	}
}

// A salt-and-pepper outlier in a constant field is removed entirely
func TestMedianRemovesOutlier(t *testing.T) {
	width, height := int32(9), int32(9)
	src := make([]float32, width*height)
	for i := range src {
		src[i] = 1
	}
	src[4*width+4] = 1000
	res, err := Median(src, width, height, 3, 3, pad.Symmetric)
	if err != nil {
		t.Fatal(err.Error())
	}
	for i, v := range res {
		if v != 1 {
			t.Fatalf("outlier survived at pixel %d: %f", i, v)
		}
	}
}

func TestMedianEvenKernel(t *testing.T) {
	src := make([]float32, 25)
	if _, err := Median(src, 5, 5, 4, 3, pad.Symmetric); !errors.Is(err, ErrEvenKernel) {
		t.Errorf("even kernel width: got %v", err)
	}
	if _, err := Median(src, 5, 5, 3, 2, pad.Antisymmetric); !errors.Is(err, ErrEvenKernel) {
		t.Errorf("even kernel height: got %v", err)
	}
}

func TestMedianDimensionErrors(t *testing.T) {
	src := make([]float32, 24)
	if _, err := Median(src, 5, 5, 3, 3, pad.Symmetric); !errors.Is(err, ErrDimensions) {
		t.Errorf("length mismatch: got %v", err)
	}
	if _, err := Median(src, 24, 1, 0, 1, pad.Symmetric); !errors.Is(err, ErrDimensions) {
		t.Errorf("zero kernel: got %v", err)
	}
}
