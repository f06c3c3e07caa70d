package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nnnkkk7/go-simdfix"
	"github.com/nnnkkk7/go-simdfix/internal/render"
)

func newParseCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "parse [message...]",
		Short: "Parse messages given as arguments or read from stdin",
		Example: `  simdfix parse '8=FIX.4.4|35=D|55=AAPL|54=1|38=100|44=150.25|'
  printf '35=D\00155=SPY\001' | simdfix parse --delimiter SOH`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				recs []simdfix.Record
				err  error
			)
			if len(args) > 0 {
				recs = make([]simdfix.Record, len(args))
				for i, arg := range args {
					recs[i] = a.parser.Parse([]byte(arg))
				}
			} else {
				recs, err = a.readRecords(cmd.InOrStdin(), strict)
				if err != nil {
					return err
				}
			}

			a.logger.Debug("parsed messages",
				zap.Int("count", len(recs)),
				zap.String("path", a.parser.Scanner().Name()),
			)

			if asJSON {
				return render.NDJSON(out(cmd), recs)
			}
			for i, rec := range recs {
				fmt.Fprintf(out(cmd), "Message %d:\n", i+1)
				if err := render.Text(out(cmd), rec); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print one JSON object per message")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on the first stdin message missing MsgType or Symbol")
	return cmd
}

// readRecords parses one message per line of r.
func (a *app) readRecords(r io.Reader, strict bool) ([]simdfix.Record, error) {
	strategy, err := a.cfg.ParserStrategy()
	if err != nil {
		return nil, err
	}

	rd := simdfix.NewReader(r)
	rd.Delimiter = a.parser.Delimiter()
	rd.Strategy = strategy
	rd.MaxInputSize = a.cfg.MaxInputSize
	rd.Strict = strict

	var recs []simdfix.Record
	for {
		rec, err := rd.Read()
		if errors.Is(err, io.EOF) {
			return recs, nil
		}
		if err != nil {
			return recs, err
		}
		recs = append(recs, rec)
	}
}
