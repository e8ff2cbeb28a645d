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
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/image/tiff"
)

// Writes the image to a file, dispatching on the suffix: .png and
// .tif/.tiff as 16-bit grayscale, .jpg/.jpeg as 8-bit grayscale
func (f *Image) WriteFile(fileName string) error {
	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	switch fnLower := strings.ToLower(fileName); {
	case strings.HasSuffix(fnLower, ".png"):
		return f.WritePNG16(writer)
	case strings.HasSuffix(fnLower, ".tif"), strings.HasSuffix(fnLower, ".tiff"):
		return f.WriteMonoTIFF16(writer)
	case strings.HasSuffix(fnLower, ".jpg"), strings.HasSuffix(fnLower, ".jpeg"):
		return f.WriteMonoJPG(writer, 95)
	}
	return fmt.Errorf("unknown output file suffix in %q", fileName)
}

// Write the image to 16-bit grayscale PNG, clipping values to [0,1]
func (f *Image) WritePNG16(writer io.Writer) error {
	return png.Encode(writer, f.toGray16())
}

// Write the image to uncompressed 16-bit grayscale TIFF, clipping values to [0,1]
func (f *Image) WriteMonoTIFF16(writer io.Writer) error {
	return tiff.Encode(writer, f.toGray16(), &tiff.Options{Compression: tiff.Uncompressed, Predictor: false})
}

// Write the image to 8-bit grayscale JPEG with the given quality,
// clipping values to [0,1]
func (f *Image) WriteMonoJPG(writer io.Writer, quality int) error {
	width, height := int(f.Width), int(f.Height)
	m := image.NewGray(image.Rectangle{image.Point{0, 0}, image.Point{width, height}})
	for y := 0; y < height; y++ {
		offset := y * width
		for x := 0; x < width; x++ {
			m.SetGray(x, y, color.Gray{uint8(clampUnit(f.Data[offset+x]) * 255)})
		}
	}
	return jpeg.Encode(writer, m, &jpeg.Options{Quality: quality})
}

// convert pixels into a 16-bit grayscale Go image
func (f *Image) toGray16() *image.Gray16 {
	width, height := int(f.Width), int(f.Height)
	m := image.NewGray16(image.Rectangle{image.Point{0, 0}, image.Point{width, height}})
	for y := 0; y < height; y++ {
		offset := y * width
		for x := 0; x < width; x++ {
			m.SetGray16(x, y, color.Gray16{uint16(clampUnit(f.Data[offset+x]) * 65535)})
		}
	}
	return m
}

// replace NaNs with zeros for export, else the encoders produce garbage
func clampUnit(v float32) float32 {
	if math.IsNaN(float64(v)) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
