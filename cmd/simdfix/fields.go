package main

import (
	"github.com/spf13/cobra"

	"github.com/nnnkkk7/go-simdfix/internal/render"
)

func newFieldsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fields <message>",
		Short: "Show the delimiter positions and tag=value pairs of a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return render.Fields(out(cmd), []byte(args[0]), a.parser.Delimiter(), a.parser.Scanner())
		},
	}
}
