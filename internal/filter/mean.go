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

// Package filter implements fast mean and median spatial filters over 2-D
// single-channel row-major float32 buffers. Filters never mutate their input;
// they allocate and return a new buffer of identical length.
package filter

import (
	"errors"
	"fmt"

	"github.com/pixfilt/flatfield/internal/pad"
)

var (
	// Non-positive kernel dimensions, or a buffer whose length does not
	// match its stated width and height
	ErrDimensions = errors.New("invalid image or kernel dimensions")

	// Even kernel dimension on the median path, where no unique center
	// pixel exists
	ErrEvenKernel = errors.New("median kernel dimensions must be odd")
)

func checkDimensions(src []float32, width, height, filterWidth, filterHeight int32) error {
	if filterWidth <= 0 || filterHeight <= 0 {
		return fmt.Errorf("%w: kernel %dx%d", ErrDimensions, filterWidth, filterHeight)
	}
	if width <= 0 || height <= 0 || int(width)*int(height) != len(src) {
		return fmt.Errorf("%w: buffer length %d does not match %dx%d", ErrDimensions, len(src), width, height)
	}
	return nil
}

// Mean applies a separable box-mean filter of the given kernel size and
// returns a freshly allocated result of identical length. It runs a
// horizontal and then a vertical 1-D pass, each updating a running window
// sum in O(1) per pixel. Near the edges the window is truncated to the
// in-bounds samples and the divisor shrinks accordingly; no border pixels
// are synthesized. Kernel dimensions of 1 are identity passes.
func Mean(src []float32, width, height, filterWidth, filterHeight int32) ([]float32, error) {
	if err := checkDimensions(src, width, height, filterWidth, filterHeight); err != nil {
		return nil, err
	}
	if filterWidth == 1 && filterHeight == 1 {
		return append([]float32(nil), src...), nil
	}
	res := meanRows(src, width, height, filterWidth)
	res = meanColumns(res, width, height, filterHeight)
	return res, nil
}

// MeanPadded applies the box-mean filter over a border-padded canvas and
// extracts the interior, trading the extra padding cost for exact
// full-window means at the image edges. The window never truncates:
// every output pixel averages filterWidth*filterHeight samples.
func MeanPadded(src []float32, width, height, filterWidth, filterHeight int32, mode pad.Mode) ([]float32, error) {
	if err := checkDimensions(src, width, height, filterWidth, filterHeight); err != nil {
		return nil, err
	}
	extraWidth := (filterWidth / 2) * 2
	extraHeight := (filterHeight / 2) * 2
	paddedWidth, paddedHeight := width+extraWidth, height+extraHeight

	padded, err := pad.Pad(src, width, height, paddedWidth, paddedHeight, mode)
	if err != nil {
		return nil, err
	}
	res := meanRows(padded, paddedWidth, paddedHeight, filterWidth)
	res = meanColumns(res, paddedWidth, paddedHeight, filterHeight)
	return pad.CopyInterior(res, paddedWidth, paddedHeight, width, height)
}

// Horizontal pass: every output pixel is the mean of the window
// [col-filterWidth/2, col+filterWidth/2] clamped to the row. The sum is
// carried along the row; each step adds the sample entering on the right
// and drops the one leaving on the left.
func meanRows(pix []float32, width, height, filterWidth int32) []float32 {
	if filterWidth == 1 {
		return pix
	}
	res := make([]float32, len(pix))
	half := filterWidth / 2

	for row := int32(0); row < height; row++ {
		offset := row * width

		sum, cached := float32(0), int32(0)
		for col := int32(0); col <= half && col < width; col++ {
			sum += pix[offset+col]
			cached++
		}
		res[offset] = sum / float32(cached)

		for col := int32(1); col < width; col++ {
			if enter := col + half; enter < width {
				sum += pix[offset+enter]
				cached++
			}
			// for odd kernels this is col-half-1; even kernels keep the
			// window at filterWidth samples, biased one to the left
			if leave := col + half - filterWidth; leave >= 0 {
				sum -= pix[offset+leave]
				cached--
			}
			res[offset+col] = sum / float32(cached)
		}
	}
	return res
}

// Vertical pass, identical bookkeeping along columns with stride width
func meanColumns(pix []float32, width, height, filterHeight int32) []float32 {
	if filterHeight == 1 {
		return pix
	}
	res := make([]float32, len(pix))
	half := filterHeight / 2

	for col := int32(0); col < width; col++ {
		sum, cached := float32(0), int32(0)
		for row := int32(0); row <= half && row < height; row++ {
			sum += pix[row*width+col]
			cached++
		}
		res[col] = sum / float32(cached)

		for row := int32(1); row < height; row++ {
			if enter := row + half; enter < height {
				sum += pix[enter*width+col]
				cached++
			}
			if leave := row + half - filterHeight; leave >= 0 {
				sum -= pix[leave*width+col]
				cached--
			}
			res[row*width+col] = sum / float32(cached)
		}
	}
	return res
}
