package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/nnnkkk7/go-simdfix"
)

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cfg.Dump(out(cmd))
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(out(cmd), "simdfix %s\n", version)
			fmt.Fprintf(out(cmd), "go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			fmt.Fprintf(out(cmd), "vector kernel: %s (supported: %v)\n", simdfix.VectorKernel(), simdfix.SupportsVector())
		},
	}
}
