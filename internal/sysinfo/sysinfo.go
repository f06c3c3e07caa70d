// Package sysinfo reports the host CPU and which delimiter scan kernel the
// parser will use on it.
package sysinfo

import (
	"context"
	"runtime"
	"slices"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/nnnkkk7/go-simdfix"
)

// featureFlags are the CPU flags relevant to the vector kernels.
var featureFlags = []string{"sse2", "avx2", "avx512f", "avx512bw", "avx512vl", "asimd"}

// Info describes the host as seen by the parser.
type Info struct {
	GOOS           string   `json:"goos" yaml:"goos"`
	GOARCH         string   `json:"goarch" yaml:"goarch"`
	NumCPU         int      `json:"num_cpu" yaml:"num_cpu"`
	ModelName      string   `json:"model_name,omitempty" yaml:"model_name,omitempty"`
	VendorID       string   `json:"vendor_id,omitempty" yaml:"vendor_id,omitempty"`
	Cores          int32    `json:"cores,omitempty" yaml:"cores,omitempty"`
	Features       []string `json:"features" yaml:"features"`
	VectorSupport  bool     `json:"vector_support" yaml:"vector_support"`
	VectorKernel   string   `json:"vector_kernel" yaml:"vector_kernel"`
	SelectedPath   string   `json:"selected_path" yaml:"selected_path"`
	DetectionError string   `json:"detection_error,omitempty" yaml:"detection_error,omitempty"`
}

// Collect gathers host information. A failed CPU query is recorded in
// DetectionError; the capability fields are always filled in.
func Collect(ctx context.Context) Info {
	info := Info{
		GOOS:          runtime.GOOS,
		GOARCH:        runtime.GOARCH,
		NumCPU:        runtime.NumCPU(),
		VectorSupport: simdfix.SupportsVector(),
		VectorKernel:  simdfix.VectorKernel(),
		SelectedPath:  simdfix.SelectScanner(simdfix.StrategyAuto).Name(),
		Features:      []string{},
	}

	stats, err := cpu.InfoWithContext(ctx)
	if err != nil {
		info.DetectionError = err.Error()
		return info
	}
	if len(stats) == 0 {
		return info
	}

	first := stats[0]
	info.ModelName = strings.TrimSpace(first.ModelName)
	info.VendorID = first.VendorID
	for _, s := range stats {
		info.Cores += s.Cores
	}
	info.Features = relevantFlags(first.Flags)
	return info
}

// relevantFlags returns the members of featureFlags present in flags, in
// featureFlags order.
func relevantFlags(flags []string) []string {
	out := []string{}
	for _, f := range featureFlags {
		if slices.ContainsFunc(flags, func(g string) bool { return strings.EqualFold(f, g) }) {
			out = append(out, f)
		}
	}
	return out
}
