package main

import (
	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nnnkkk7/go-simdfix/internal/sysinfo"
)

func newCPUCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "cpu",
		Short: "Show CPU features and the selected scan kernel",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := sysinfo.Collect(cmd.Context())
			if info.DetectionError != "" {
				a.logger.Warn("CPU detection incomplete")
			}

			if asJSON {
				enc := gojson.NewEncoder(out(cmd))
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			enc := yaml.NewEncoder(out(cmd))
			enc.SetIndent(2)
			if err := enc.Encode(info); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON instead of YAML")
	return cmd
}
