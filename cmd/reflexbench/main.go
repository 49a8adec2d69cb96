// Copyright 2025-2026 The CortexN Authors. SPDX-License-Identifier: Apache-2.0

// reflexbench reports which dense spiking kernel this machine's CPU selects
// and compares the throughput of every kernel variant on synthetic tensors.
//
// Usage:
//
//	reflexbench [-batch 1] [-input 256] [-output 64] [-min-time 200ms]
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"

	"github.com/cortexn/reflex"
	"github.com/cortexn/reflex/bench"
	"github.com/cortexn/reflex/cpu"
	"github.com/cortexn/reflex/kernels"
	"github.com/cortexn/reflex/snn"
)

var (
	flagBatch   = flag.Int("batch", 1, "batch size of the synthetic forward pass")
	flagInput   = flag.Int("input", 256, "input size (presynaptic neurons)")
	flagOutput  = flag.Int("output", 64, "output size (postsynaptic neurons)")
	flagMinTime = flag.Duration("min-time", 200*time.Millisecond, "minimum wall time per kernel variant")
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
	fastStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func main() {
	reflex.Init()
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "reflexbench: %+v\n", err)
		os.Exit(1)
	}
}

func run() error {
	feats := cpu.Detect()
	report := snn.NewManager().Capabilities()
	fmt.Printf("CPU features: %s\n", feats)
	fmt.Printf("Preferred kernel: %s\n\n", report.Preferred)

	klog.V(1).Infof("benchmarking shape batch=%d input=%d output=%d", *flagBatch, *flagInput, *flagOutput)

	bar := progressbar.NewOptions(len(kernels.KindValues()),
		progressbar.OptionSetDescription(fmt.Sprintf("forward %dx%dx%d", *flagBatch, *flagInput, *flagOutput)),
		progressbar.OptionClearOnFinish(),
	)
	results, err := bench.Run(*flagBatch, *flagInput, *flagOutput, bench.Options{
		MinTime: *flagMinTime,
		Progress: func(kind kernels.Kind) {
			bar.Describe(fmt.Sprintf("measuring %s", kind))
			_ = bar.Add(1)
		},
	})
	if err != nil {
		return err
	}
	_ = bar.Finish()

	var fastest float64
	for _, r := range results {
		if r.MFlops > fastest {
			fastest = r.MFlops
		}
	}

	rows := []string{renderRow(headerStyle, "KERNEL", "HW", "ITERATIONS", "NS/OP", "MFLOP/S")}
	for _, r := range results {
		style := dimStyle
		if r.Supported {
			style = cellStyle
		}
		if r.MFlops == fastest {
			style = fastStyle
		}
		hw := "-"
		if r.Supported {
			hw = "yes"
		}
		rows = append(rows, renderRow(style,
			r.Kind.String(),
			hw,
			humanize.Comma(int64(r.Iterations)),
			humanize.Comma(r.PerOp.Nanoseconds()),
			humanize.CommafWithDigits(r.MFlops, 1),
		))
	}
	fmt.Println(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return nil
}

func renderRow(style lipgloss.Style, cols ...string) string {
	widths := []int{18, 4, 14, 12, 12}
	row := ""
	for i, c := range cols {
		row += style.Width(widths[i]).Render(c)
	}
	return row
}
