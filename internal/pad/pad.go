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

// Package pad synthesizes image borders so that edge pixels see a
// statistically meaningful neighborhood instead of reading out of bounds.
// Borders are filled ring by ring, outward from the image, by first-order
// extrapolation of the local intensity trend. This keeps local gradients
// continuous across the border instead of folding them, which reduces edge
// artifacts in smoothing and background filters.
package pad

import (
	"errors"
	"fmt"
)

// How the border rings extrapolate the image content
type Mode int32

const (
	// Mirrors intensity values at the border: the first ring outside a ramp
	// 0 1 2 ... reads 1. Inverts the local gradient.
	Antisymmetric Mode = iota

	// Continues the local intensity trend outward: the first ring outside a
	// ramp 0 1 2 ... reads -1. Preserves the local gradient.
	Symmetric
)

func (m Mode) String() string {
	switch m {
	case Antisymmetric:
		return "antisymmetric"
	case Symmetric:
		return "symmetric"
	}
	return fmt.Sprintf("mode(%d)", int32(m))
}

// Parses a padding mode name as used in flags and JSON pipelines
func ParseMode(s string) (Mode, error) {
	switch s {
	case "antisymmetric", "antisym":
		return Antisymmetric, nil
	case "symmetric", "sym":
		return Symmetric, nil
	}
	return 0, fmt.Errorf("unknown padding mode %q", s)
}

// Geometry precondition violations: negative or odd padding margins,
// or a source buffer that does not match its stated dimensions
var ErrGeometry = errors.New("invalid padding geometry")

// Pad copies src, a width x height row-major buffer, into the center of a
// freshly allocated paddedWidth x paddedHeight canvas and fills the border
// by ring-wise extrapolation in the given mode. The margins on each side,
// (paddedWidth-width)/2 and (paddedHeight-height)/2, must be non-negative;
// the total extra extent must be even so the interior is centered exactly.
// src is left untouched.
//
// Rows are padded before columns, so the corner values derive from border
// values the vertical pass has already written.
func Pad(src []float32, width, height, paddedWidth, paddedHeight int32, mode Mode) ([]float32, error) {
	if width <= 0 || height <= 0 || int(width)*int(height) != len(src) {
		return nil, fmt.Errorf("%w: buffer length %d does not match %dx%d", ErrGeometry, len(src), width, height)
	}
	extraWidth, extraHeight := paddedWidth-width, paddedHeight-height
	if extraWidth < 0 || extraHeight < 0 || (extraWidth&1) != 0 || (extraHeight&1) != 0 {
		return nil, fmt.Errorf("%w: cannot pad %dx%d to %dx%d", ErrGeometry, width, height, paddedWidth, paddedHeight)
	}
	halfW, halfH := extraWidth/2, extraHeight/2

	padded := make([]float32, int(paddedWidth)*int(paddedHeight))

	// copy interior
	for row := int32(0); row < height; row++ {
		srcOff := row * width
		dstOff := (row+halfH)*paddedWidth + halfW
		copy(padded[dstOff:dstOff+width], src[srcOff:srcOff+width])
	}

	sign := float32(-1)
	if mode == Symmetric {
		sign = 1
	}

	// Fill top and bottom rings outward, over the interior columns only.
	// Ring r extrapolates from the adjacent already-filled row and the first
	// difference of the mirrored row pair r and r+1 steps inside the image.
	// A single-row image has no pair to difference; extend it flat.
	rowStep := int32(1)
	if height == 1 {
		rowStep = 0
	}
	for r := int32(0); r < halfH; r++ {
		top := halfH - 1 - r
		topInner := halfH + r
		bot := paddedHeight - halfH + r
		botInner := paddedHeight - halfH - 1 - r

		for col := halfW; col < paddedWidth-halfW; col++ {
			diff := padded[topInner*paddedWidth+col] - padded[(topInner+rowStep)*paddedWidth+col]
			padded[top*paddedWidth+col] = padded[(top+1)*paddedWidth+col] + sign*diff

			diff = padded[botInner*paddedWidth+col] - padded[(botInner-rowStep)*paddedWidth+col]
			padded[bot*paddedWidth+col] = padded[(bot-1)*paddedWidth+col] + sign*diff
		}
	}

	// Fill left and right rings outward over the full padded height,
	// deriving the corners from the rows the pass above has written
	colStep := int32(1)
	if width == 1 {
		colStep = 0
	}
	for r := int32(0); r < halfW; r++ {
		left := halfW - 1 - r
		leftInner := halfW + r
		right := paddedWidth - halfW + r
		rightInner := paddedWidth - halfW - 1 - r

		for row := int32(0); row < paddedHeight; row++ {
			offset := row * paddedWidth

			diff := padded[offset+leftInner] - padded[offset+leftInner+colStep]
			padded[offset+left] = padded[offset+left+1] + sign*diff

			diff = padded[offset+rightInner] - padded[offset+rightInner-colStep]
			padded[offset+right] = padded[offset+right-1] + sign*diff
		}
	}

	return padded, nil
}

// CopyInterior extracts the centered width x height interior of a padded
// buffer into a freshly allocated buffer. Inverse of the copy step of Pad.
func CopyInterior(padded []float32, paddedWidth, paddedHeight, width, height int32) ([]float32, error) {
	extraWidth, extraHeight := paddedWidth-width, paddedHeight-height
	if extraWidth < 0 || extraHeight < 0 || (extraWidth&1) != 0 || (extraHeight&1) != 0 ||
		int(paddedWidth)*int(paddedHeight) != len(padded) {
		return nil, fmt.Errorf("%w: cannot extract %dx%d interior from %dx%d buffer of length %d",
			ErrGeometry, width, height, paddedWidth, paddedHeight, len(padded))
	}
	halfW, halfH := extraWidth/2, extraHeight/2

	interior := make([]float32, int(width)*int(height))
	for row := int32(0); row < height; row++ {
		srcOff := (row+halfH)*paddedWidth + halfW
		copy(interior[row*width:(row+1)*width], padded[srcOff:srcOff+width])
	}
	return interior, nil
}
