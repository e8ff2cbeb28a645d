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

// Package rest exposes the filtering pipeline over HTTP. Responses stream
// the pipeline log as plain text while the work runs.
package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pixfilt/flatfield/internal/ops"
)

func Serve() {
	r := gin.Default()
	api := r.Group("/api")
	{
		v1 := api.Group("/v1")
		{
			v1.GET("/ping", getPing)
			v1.POST("/stats", postStats)
			v1.POST("/mean", postMean)
			v1.POST("/median", postMedian)
		}
	}
	r.Run() // listen and serve on 0.0.0.0:8080
}

func getPing(c *gin.Context) {
	c.JSON(200, gin.H{
		"message": "pong",
	})
}

func printArgs(logWriter io.Writer, prefix, suffix string, args interface{}) error {
	m, err := json.MarshalIndent(args, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(logWriter, "%s%s%s", prefix, string(m), suffix)
	return nil
}

// Runs the given operators over the globbed input files, streaming the log
// to the response writer
func runPipeline(c *gin.Context, args interface{}, filePatterns []string, steps ...ops.Operator) {
	logWriter := c.Writer
	header := logWriter.Header()
	header.Set("Content-Type", "text/plain")
	logWriter.WriteHeader(http.StatusOK)

	if err := printArgs(logWriter, "Arguments:\n", "\n", args); err != nil {
		fmt.Fprintf(logWriter, "Error printing arguments: %s\n", err.Error())
		return
	}

	oc := ops.NewContext(logWriter)
	seq := ops.NewOpSequence(ops.NewOpLoadMany(filePatterns))
	seq.Append(steps...)

	promises, err := seq.MakePromises(nil, oc)
	if err != nil {
		fmt.Fprintf(logWriter, "error: %s\n", err.Error())
		logWriter.(http.Flusher).Flush()
		return
	}
	_, err = ops.MaterializeAll(promises, oc.MaxThreads)
	if err != nil {
		fmt.Fprintf(logWriter, "error: %s\n", err.Error())
	}
	logWriter.(http.Flusher).Flush()
}

type postStatsArgs struct {
	FilePatterns []string `json:"filePatterns"`
}

func postStats(c *gin.Context) {
	var args postStatsArgs
	if err := c.ShouldBind(&args); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	runPipeline(c, args, args.FilePatterns, ops.NewOpStatsDefault())
}

type postMeanArgs struct {
	FilePatterns []string `json:"filePatterns"`
	FilterWidth  int32    `json:"filterWidth"`
	FilterHeight int32    `json:"filterHeight"`
	Padding      string   `json:"padding"`
	OutPattern   string   `json:"outPattern"`
}

func postMean(c *gin.Context) {
	var args postMeanArgs
	if err := c.ShouldBind(&args); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var op ops.Operator
	if args.Padding != "" {
		op = ops.NewOpMeanPadded(args.FilterWidth, args.FilterHeight, args.Padding)
	} else {
		op = ops.NewOpMean(args.FilterWidth, args.FilterHeight)
	}
	runPipeline(c, args, args.FilePatterns, op, ops.NewOpSave(args.OutPattern))
}

type postMedianArgs struct {
	FilePatterns []string `json:"filePatterns"`
	FilterWidth  int32    `json:"filterWidth"`
	FilterHeight int32    `json:"filterHeight"`
	Padding      string   `json:"padding"`
	OutPattern   string   `json:"outPattern"`
}

func postMedian(c *gin.Context) {
	var args postMedianArgs
	if err := c.ShouldBind(&args); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	padding := args.Padding
	if padding == "" {
		padding = "symmetric"
	}
	op := ops.NewOpMedian(args.FilterWidth, args.FilterHeight, padding)
	runPipeline(c, args, args.FilePatterns, op, ops.NewOpSave(args.OutPattern))
}
