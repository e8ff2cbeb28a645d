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

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/pixfilt/flatfield/internal/logf"
	"github.com/pixfilt/flatfield/internal/ops"
	"github.com/pixfilt/flatfield/internal/rest"
)

const version = "0.1.0"

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
var memprofile = flag.String("memprofile", "", "write memory profile to `file`")

var out = flag.String("out", "out%d.png", "save output with given filename pattern, e.g. `out%d.png`")
var log = flag.String("log", "%auto", "save log output to `file`. `%auto` replaces suffix of output file with .log")

var filterWidth = flag.Int64("filterWidth", 3, "filter kernel width in pixels")
var filterHeight = flag.Int64("filterHeight", 3, "filter kernel height in pixels")
var padding = flag.String("padding", "symmetric", "border padding mode, symmetric or antisymmetric")

var backGrid = flag.Int64("backGrid", 0, "background estimation: grid size in pixels, 0=off")
var backSubtract = flag.Bool("backSubtract", false, "background estimation: subtract estimate from image")

func main() {
	logWriter := logf.Writer()
	start := time.Now()
	flag.Usage = func() {
		fmt.Fprintf(logWriter, `Flatfield Copyright (c) 2026 The flatfield authors
This program comes with ABSOLUTELY NO WARRANTY.
This is free software, and you are welcome to redistribute it under certain conditions.
Refer to https://www.gnu.org/licenses/gpl-3.0.en.html for details.

Usage: %s [-flag value] (stats|mean|meanpadded|median|background|serve|legal) (img0.png ... imgn.png)

Commands:
  stats      Show input image statistics
  mean       Mean filter input images, shrinking windows at the borders
  meanpadded Mean filter input images over padded borders
  median     Median filter input images over padded borders
  background Estimate or subtract large-scale image background
  serve      Run REST API server on port 8080
  legal      Show license and attribution information
  version    Show version information

Flags:
`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// Initialize logging to file in addition to stdout, if selected
	if *log == "%auto" {
		if *out != "" {
			*log = strings.TrimSuffix(*out, filepath.Ext(*out)) + ".log"
			*log = strings.ReplaceAll(*log, "%d", "")
		} else {
			*log = ""
		}
	}
	if *log != "" {
		err := logf.AlsoToFile(*log)
		if err != nil {
			logf.Fatalf("Unable to open logfile '%s'\n", *log)
		}
	}

	// Enable CPU profiling if flagged
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			logf.Fatal("Could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			logf.Fatal("Could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		return
	}

	c := ops.NewContext(logWriter)
	fw, fh := int32(*filterWidth), int32(*filterHeight)

	// assemble the pipeline per command
	var seq *ops.OpSequence
	switch args[0] {
	case "serve":
		rest.Serve()
		return

	case "stats":
		seq = ops.NewOpSequence(ops.NewOpLoadMany(args[1:]), ops.NewOpStatsDefault())

	case "mean":
		seq = ops.NewOpSequence(ops.NewOpLoadMany(args[1:]),
			ops.NewOpMean(fw, fh), ops.NewOpSave(*out))

	case "meanpadded":
		seq = ops.NewOpSequence(ops.NewOpLoadMany(args[1:]),
			ops.NewOpMeanPadded(fw, fh, *padding), ops.NewOpSave(*out))

	case "median":
		seq = ops.NewOpSequence(ops.NewOpLoadMany(args[1:]),
			ops.NewOpMedian(fw, fh, *padding), ops.NewOpSave(*out))

	case "background":
		seq = ops.NewOpSequence(ops.NewOpLoadMany(args[1:]),
			ops.NewOpBackground(int32(*backGrid), *padding, *backSubtract), ops.NewOpSave(*out))

	case "legal":
		fmt.Fprint(logWriter, legal)
		return

	case "version":
		fmt.Fprintf(logWriter, "Version %s\n", version)
		return

	case "help", "?":
		flag.Usage()
		return

	default:
		fmt.Fprintf(logWriter, "Unknown command '%s'\n\n", args[0])
		flag.Usage()
		return
	}

	promises, err := seq.MakePromises(nil, c)
	if err == nil {
		_, err = ops.MaterializeAll(promises, c.MaxThreads)
	}

	elapsed := time.Since(start)
	fmt.Fprintf(logWriter, "\nDone after %v\n", elapsed)

	// Store memory profile if flagged
	if *memprofile != "" {
		f, errProf := os.Create(*memprofile)
		if errProf != nil {
			logf.Fatal("Could not create memory profile: ", errProf)
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if errProf := pprof.Lookup("allocs").WriteTo(f, 0); errProf != nil {
			logf.Fatal("Could not write allocation profile: ", errProf)
		}
	}

	logf.Sync()
	if err != nil {
		fmt.Fprintf(logWriter, "Error: %s\n", err.Error())
		os.Exit(-1)
	}
}
