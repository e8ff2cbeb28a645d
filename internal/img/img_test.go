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
	"bytes"
	"math"
	"path/filepath"
	"testing"
)

var _ Source = (*Image)(nil)

func TestPNG16RoundTrip(t *testing.T) {
	width, height := int32(16), int32(8)
	f := New(width, height, nil)
	for i := range f.Data {
		f.Data[i] = float32(i) / float32(len(f.Data)-1)
	}

	buf := &bytes.Buffer{}
	if err := f.WritePNG16(buf); err != nil {
		t.Fatal(err.Error())
	}
	g, err := Read(buf)
	if err != nil {
		t.Fatal(err.Error())
	}
	if g.Width != width || g.Height != height {
		t.Fatalf("round trip dimensions %s; want %dx%d", g.DimensionsToString(), width, height)
	}
	for i := range f.Data {
		if math.Abs(float64(g.Data[i]-f.Data[i])) > 1.5/65535.0 {
			t.Fatalf("pixel %d got %f want %f", i, g.Data[i], f.Data[i])
		}
	}
}

func TestTIFF16FileRoundTrip(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "gradient.tif")
	width, height := int32(9), int32(9)
	f := New(width, height, nil)
	for i := range f.Data {
		f.Data[i] = float32(i%9) / 8
	}
	if err := f.WriteFile(fileName); err != nil {
		t.Fatal(err.Error())
	}
	g, err := NewFromFile(fileName, 7)
	if err != nil {
		t.Fatal(err.Error())
	}
	if g.ID != 7 || g.FileName != fileName {
		t.Errorf("metadata id %d file %q", g.ID, g.FileName)
	}
	for i := range f.Data {
		if math.Abs(float64(g.Data[i]-f.Data[i])) > 1.5/65535.0 {
			t.Fatalf("pixel %d got %f want %f", i, g.Data[i], f.Data[i])
		}
	}
}

func TestWriteClipsOutOfRange(t *testing.T) {
	f := New(2, 2, []float32{-0.5, 0.5, 1.5, float32(math.NaN())})
	buf := &bytes.Buffer{}
	if err := f.WritePNG16(buf); err != nil {
		t.Fatal(err.Error())
	}
	g, err := Read(buf)
	if err != nil {
		t.Fatal(err.Error())
	}
	want := []float32{0, 0.5, 1, 0}
	for i, w := range want {
		if math.Abs(float64(g.Data[i]-w)) > 1.5/65535.0 {
			t.Errorf("pixel %d got %f want %f", i, g.Data[i], w)
		}
	}
}

func TestUnknownSuffix(t *testing.T) {
	f := New(1, 1, []float32{0})
	if err := f.WriteFile(filepath.Join(t.TempDir(), "out.bmp")); err == nil {
		t.Error("expected error for unknown suffix")
	}
}
