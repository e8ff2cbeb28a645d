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

package img

import (
	"bufio"
	"image"
	"image/color"
	_ "image/jpeg" // register decoders
	_ "image/png"
	"io"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
	_ "golang.org/x/image/tiff"
)

// Reads a PNG, JPEG or TIFF file into a single-channel float image
// normalized to [0,1]. Grayscale inputs are taken as-is; color inputs are
// collapsed to HSLuv luminance per pixel.
func NewFromFile(fileName string, id int) (*Image, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	f, err := Read(bufio.NewReader(file))
	if err != nil {
		return nil, err
	}
	f.ID, f.FileName = id, fileName
	return f, nil
}

// Reads any registered raster format from the given reader
func Read(reader io.Reader) (*Image, error) {
	m, _, err := image.Decode(reader)
	if err != nil {
		return nil, err
	}
	return newFromGoImage(m), nil
}

// Converts a Go image into a single-channel float image in [0,1]
func newFromGoImage(m image.Image) *Image {
	bounds := m.Bounds()
	width, height := int32(bounds.Dx()), int32(bounds.Dy())
	f := New(width, height, nil)

	switch cm := m.ColorModel(); cm {
	case color.GrayModel, color.Gray16Model, color.AlphaModel, color.Alpha16Model:
		for y := 0; y < int(height); y++ {
			offset := y * int(width)
			for x := 0; x < int(width); x++ {
				g := color.Gray16Model.Convert(m.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray16)
				f.Data[offset+x] = float32(g.Y) / 65535
			}
		}
	default:
		// collapse color to perceptual luminance
		for y := 0; y < int(height); y++ {
			offset := y * int(width)
			for x := 0; x < int(width); x++ {
				r, g, b, _ := m.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				c := colorful.Color{R: float64(r) / 65535, G: float64(g) / 65535, B: float64(b) / 65535}
				_, _, lum := c.HSLuv()
				f.Data[offset+x] = float32(lum)
			}
		}
	}
	return f
}
