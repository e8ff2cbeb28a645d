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

package ops

import (
	"fmt"

	"github.com/pixfilt/flatfield/internal/filter"
	"github.com/pixfilt/flatfield/internal/img"
	"github.com/pixfilt/flatfield/internal/pad"
	"github.com/pixfilt/flatfield/internal/stats"
)

// Applies a separable mean filter with truncated windows at the borders.
// Takes one input, produces one output
type OpMean struct {
	OpUnaryBase
	FilterWidth  int32 `json:"filterWidth"`
	FilterHeight int32 `json:"filterHeight"`
}

func init() { SetOperatorFactory(func() Operator { return NewOpMeanDefault() }) }

func NewOpMeanDefault() *OpMean { return NewOpMean(3, 3) }

func NewOpMean(filterWidth, filterHeight int32) *OpMean {
	op := OpMean{
		OpUnaryBase:  OpUnaryBase{OpBase: OpBase{Type: "mean", Active: true}},
		FilterWidth:  filterWidth,
		FilterHeight: filterHeight,
	}
	op.OpUnaryBase.Apply = op.Apply
	return &op
}

func (op *OpMean) Apply(f *img.Image, c *Context) (result *img.Image, err error) {
	data, err := filter.Mean(f.Data, f.Width, f.Height, op.FilterWidth, op.FilterHeight)
	if err != nil {
		return nil, idError(f.ID, err)
	}
	fmt.Fprintf(c.Log, "%d: Mean filtered %s image with %dx%d kernel\n",
		f.ID, f.DimensionsToString(), op.FilterWidth, op.FilterHeight)
	res := img.NewFromImage(f)
	res.SetResult(data)
	return res, nil
}

// Applies a separable mean filter over a border-padded copy of the image,
// so windows are full-sized everywhere. Takes one input, produces one output
type OpMeanPadded struct {
	OpUnaryBase
	FilterWidth  int32  `json:"filterWidth"`
	FilterHeight int32  `json:"filterHeight"`
	Padding      string `json:"padding"`
}

func init() { SetOperatorFactory(func() Operator { return NewOpMeanPaddedDefault() }) }

func NewOpMeanPaddedDefault() *OpMeanPadded { return NewOpMeanPadded(3, 3, "symmetric") }

func NewOpMeanPadded(filterWidth, filterHeight int32, padding string) *OpMeanPadded {
	op := OpMeanPadded{
		OpUnaryBase:  OpUnaryBase{OpBase: OpBase{Type: "meanPadded", Active: true}},
		FilterWidth:  filterWidth,
		FilterHeight: filterHeight,
		Padding:      padding,
	}
	op.OpUnaryBase.Apply = op.Apply
	return &op
}

func (op *OpMeanPadded) Apply(f *img.Image, c *Context) (result *img.Image, err error) {
	mode, err := pad.ParseMode(op.Padding)
	if err != nil {
		return nil, idError(f.ID, err)
	}
	data, err := filter.MeanPadded(f.Data, f.Width, f.Height, op.FilterWidth, op.FilterHeight, mode)
	if err != nil {
		return nil, idError(f.ID, err)
	}
	fmt.Fprintf(c.Log, "%d: Mean filtered %s image with %dx%d kernel and %s padding\n",
		f.ID, f.DimensionsToString(), op.FilterWidth, op.FilterHeight, mode)
	res := img.NewFromImage(f)
	res.SetResult(data)
	return res, nil
}

// Applies a median filter over a border-padded copy of the image.
// Takes one input, produces one output
type OpMedian struct {
	OpUnaryBase
	FilterWidth  int32  `json:"filterWidth"`
	FilterHeight int32  `json:"filterHeight"`
	Padding      string `json:"padding"`
}

func init() { SetOperatorFactory(func() Operator { return NewOpMedianDefault() }) }

func NewOpMedianDefault() *OpMedian { return NewOpMedian(3, 3, "symmetric") }

func NewOpMedian(filterWidth, filterHeight int32, padding string) *OpMedian {
	op := OpMedian{
		OpUnaryBase:  OpUnaryBase{OpBase: OpBase{Type: "median", Active: true}},
		FilterWidth:  filterWidth,
		FilterHeight: filterHeight,
		Padding:      padding,
	}
	op.OpUnaryBase.Apply = op.Apply
	return &op
}

func (op *OpMedian) Apply(f *img.Image, c *Context) (result *img.Image, err error) {
	mode, err := pad.ParseMode(op.Padding)
	if err != nil {
		return nil, idError(f.ID, err)
	}
	data, err := filter.Median(f.Data, f.Width, f.Height, op.FilterWidth, op.FilterHeight, mode)
	if err != nil {
		return nil, idError(f.ID, err)
	}
	fmt.Fprintf(c.Log, "%d: Median filtered %s image with %dx%d kernel and %s padding\n",
		f.ID, f.DimensionsToString(), op.FilterWidth, op.FilterHeight, mode)
	res := img.NewFromImage(f)
	res.SetResult(data)
	return res, nil
}

// Estimates the large-scale background of an image by median filtering with
// a coarse grid-sized kernel and smoothing the estimate with a mean filter
// of the same size. Optionally subtracts the estimate from the image.
// Takes one input, produces one output
type OpBackground struct {
	OpUnaryBase
	Grid     int32  `json:"grid"`
	Padding  string `json:"padding"`
	Subtract bool   `json:"subtract"`
}

func init() { SetOperatorFactory(func() Operator { return NewOpBackgroundDefault() }) }

func NewOpBackgroundDefault() *OpBackground { return NewOpBackground(0, "symmetric", false) }

func NewOpBackground(grid int32, padding string, subtract bool) *OpBackground {
	op := OpBackground{
		OpUnaryBase: OpUnaryBase{OpBase: OpBase{Type: "background", Active: grid > 0}},
		Grid:        grid,
		Padding:     padding,
		Subtract:    subtract,
	}
	op.OpUnaryBase.Apply = op.Apply
	return &op
}

func (op *OpBackground) Apply(f *img.Image, c *Context) (result *img.Image, err error) {
	if !op.Active || op.Grid <= 0 {
		return f, nil
	}
	mode, err := pad.ParseMode(op.Padding)
	if err != nil {
		return nil, idError(f.ID, err)
	}
	kernel := op.Grid | 1 // median kernels must be odd

	bg, err := filter.Median(f.Data, f.Width, f.Height, kernel, kernel, mode)
	if err != nil {
		return nil, idError(f.ID, err)
	}
	bg, err = filter.MeanPadded(bg, f.Width, f.Height, kernel, kernel, mode)
	if err != nil {
		return nil, idError(f.ID, err)
	}

	res := img.NewFromImage(f)
	if op.Subtract {
		mean := stats.Calc(bg).Mean
		for i, v := range f.Data {
			res.Data[i] = v - bg[i] + mean
		}
		fmt.Fprintf(c.Log, "%d: Subtracted %dx%d grid background from %s image\n",
			f.ID, kernel, kernel, f.DimensionsToString())
	} else {
		res.SetResult(bg)
		fmt.Fprintf(c.Log, "%d: Estimated background of %s image with %dx%d grid\n",
			f.ID, f.DimensionsToString(), kernel, kernel)
	}
	return res, nil
}

// Logs basic statistics of an image and passes it through unchanged.
// Takes one input, produces one output
type OpStats struct {
	OpUnaryBase
}

func init() { SetOperatorFactory(func() Operator { return NewOpStatsDefault() }) }

func NewOpStatsDefault() *OpStats {
	op := OpStats{
		OpUnaryBase: OpUnaryBase{OpBase: OpBase{Type: "stats", Active: true}},
	}
	op.OpUnaryBase.Apply = op.Apply
	return &op
}

func (op *OpStats) Apply(f *img.Image, c *Context) (result *img.Image, err error) {
	s := stats.Calc(f.Data)
	median := stats.SigmaClippedMedian(f.Data, 2, 2)
	line := fmt.Sprintf("%d: %s image %v ClippedMedian %.6g",
		f.ID, f.DimensionsToString(), s, median)

	// the histogram fit needs spread to work with; skip it for flat images
	if s.Max-s.Min > 1e-8 {
		bins := make([]int32, 4096)
		stats.Histogram(f.Data, s.Min, s.Max, bins)
		mode, stdDev, err := stats.GetModeStdDevFromHistogram(bins, s.Min, s.Max)
		if err != nil {
			return nil, idError(f.ID, err)
		}
		line += fmt.Sprintf(" Mode %.6g ModeStdDev %.6g", mode, stdDev)
	}

	fmt.Fprintf(c.Log, "%s\n", line)
	return f, nil
}
