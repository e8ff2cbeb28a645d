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
	"fmt"
	"runtime"

	"github.com/pixfilt/flatfield/internal/pad"
	"github.com/pixfilt/flatfield/internal/qsort"
)

// Median applies a rectangular median filter of the given kernel size and
// returns a freshly allocated result of identical length. The source is
// border-padded in the given mode first, so edge pixels see a full
// neighborhood. For every output pixel the filterWidth x filterHeight
// neighborhood is gathered row-major into a scratch buffer and its rank
// n/2+1 element extracted by quickselect; 3x3 kernels take a sorting
// network fast path instead.
//
// Kernel dimensions must be odd so a unique center pixel exists; even
// dimensions fail with ErrEvenKernel before any allocation.
//
// Output rows are computed in parallel across up to GOMAXPROCS workers.
// Workers write disjoint row ranges and share the padded buffer read-only;
// each owns a private scratch buffer since quickselect reorders it in place.
func Median(src []float32, width, height, filterWidth, filterHeight int32, mode pad.Mode) ([]float32, error) {
	if err := checkDimensions(src, width, height, filterWidth, filterHeight); err != nil {
		return nil, err
	}
	if (filterWidth&1) == 0 || (filterHeight&1) == 0 {
		return nil, fmt.Errorf("%w: kernel %dx%d", ErrEvenKernel, filterWidth, filterHeight)
	}

	extraWidth := (filterWidth / 2) * 2
	extraHeight := (filterHeight / 2) * 2
	paddedWidth, paddedHeight := width+extraWidth, height+extraHeight

	padded, err := pad.Pad(src, width, height, paddedWidth, paddedHeight, mode)
	if err != nil {
		return nil, err
	}

	res := make([]float32, len(src))

	workers := int32(runtime.GOMAXPROCS(0))
	if workers > height {
		workers = height
	}
	chunk := (height + workers - 1) / workers

	limiter := make(chan bool, workers)
	for startRow := int32(0); startRow < height; startRow += chunk {
		endRow := startRow + chunk
		if endRow > height {
			endRow = height
		}
		limiter <- true
		go func(startRow, endRow int32) {
			defer func() { <-limiter }()
			gathered := make([]float32, filterWidth*filterHeight)
			medianRows(res, padded, width, paddedWidth, filterWidth, filterHeight, startRow, endRow, gathered)
		}(startRow, endRow)
	}
	for i := 0; i < cap(limiter); i++ { // wait for workers to finish
		limiter <- true
	}

	return res, nil
}

// Computes output rows [startRow, endRow). The padded buffer is laid out so
// the kernel top-left for output pixel (row, col) sits at (row, col): output
// coordinates and padded window origins coincide.
func medianRows(res, padded []float32, width, paddedWidth, filterWidth, filterHeight, startRow, endRow int32, gathered []float32) {
	filterSize := filterWidth * filterHeight
	k := int(filterSize/2) + 1

	for row := startRow; row < endRow; row++ {
		offset := row * width
		for col := int32(0); col < width; col++ {
			for ky := int32(0); ky < filterHeight; ky++ {
				paddedOffset := (row+ky)*paddedWidth + col
				copy(gathered[ky*filterWidth:(ky+1)*filterWidth], padded[paddedOffset:paddedOffset+filterWidth])
			}
			if filterSize == 9 {
				res[offset+col] = qsort.MedianFloat32Slice9(gathered)
			} else {
				res[offset+col] = qsort.QSelectFloat32(gathered, k)
			}
		}
	}
}
