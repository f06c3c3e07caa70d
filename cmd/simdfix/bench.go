package main

import (
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/nnnkkk7/go-simdfix/internal/bench"
)

func newBenchCmd(a *app) *cobra.Command {
	var (
		size       string
		iterations int
		warmup     int
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare the scalar and vector parse paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, ok := bench.Messages[size]
			if !ok {
				return fmt.Errorf("unknown size %q (want one of %s)", size, sizeNames())
			}

			c := bench.Compare(msg, iterations, warmup)
			a.logger.Debug("benchmark finished")

			if asJSON {
				enc := gojson.NewEncoder(out(cmd))
				enc.SetIndent("", "  ")
				return enc.Encode(c)
			}

			w := out(cmd)
			fmt.Fprintf(w, "Message: %d bytes, %d iterations, kernel %s\n\n", c.MessageBytes, c.Iterations, c.Kernel)
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PATH\tNS/MSG\tMSG/S\tMB/S")
			for _, t := range []bench.Timing{c.Scalar, c.Vector, c.Auto} {
				fmt.Fprintf(tw, "%s\t%d\t%.0f\t%.2f\n", t.Path, t.PerMessage.Nanoseconds(), t.MessagesPerSec, t.MBPerSec)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(w, "\nVector speedup: %.2fx\n", c.Speedup)
			return nil
		},
	}

	cmd.Flags().StringVar(&size, "size", "medium", "Sample message ("+sizeNames()+")")
	cmd.Flags().IntVar(&iterations, "iterations", 1_000_000, "Timed parses per path")
	cmd.Flags().IntVar(&warmup, "warmup", 1000, "Untimed parses per path before timing")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the comparison as JSON")
	return cmd
}

func sizeNames() string {
	names := make([]string, 0, len(bench.Messages))
	for name := range bench.Messages {
		names = append(names, name)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}
