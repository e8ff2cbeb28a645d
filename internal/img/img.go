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

// Package img holds the single-channel floating point image the filters
// operate on, plus file adapters that convert common raster formats to and
// from it. The filtering core never depends on any image-library type
// hierarchy; it consumes a flat row-major float buffer with dimensions via
// the Source interface.
package img

import (
	"fmt"
)

// A single-channel image. Pixel intensities are float32 in [0,1] when the
// image comes from a file adapter; programmatic images may use any range.
type Image struct {
	ID       int    // Sequential ID number, for log output
	FileName string // Original file name, if any, for log output

	Width  int32
	Height int32

	Data []float32 // row-major, length Width*Height
}

// Any provider of single-channel float pixels. The filtering operators
// consume and produce images exclusively through this surface.
type Source interface {
	PixelsAsFloat() (data []float32, width, height int32)
	SetResult(data []float32)
}

// Creates an image of the given dimensions. Data is not copied, and is
// allocated if nil.
func New(width, height int32, data []float32) *Image {
	if data == nil {
		data = make([]float32, int(width)*int(height))
	}
	return &Image{
		Width:  width,
		Height: height,
		Data:   data,
	}
}

// Creates an image with the same dimensions and metadata as the given one,
// with a freshly allocated data array
func NewFromImage(f *Image) *Image {
	res := New(f.Width, f.Height, nil)
	res.ID, res.FileName = f.ID, f.FileName
	return res
}

func (f *Image) PixelsAsFloat() (data []float32, width, height int32) {
	return f.Data, f.Width, f.Height
}

func (f *Image) SetResult(data []float32) {
	f.Data = data
}

func (f *Image) DimensionsToString() string {
	return fmt.Sprintf("%dx%d", f.Width, f.Height)
}
