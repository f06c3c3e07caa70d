package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nnnkkk7/go-simdfix/internal/source"
)

func newGenCmd(a *app) *cobra.Command {
	var (
		count int
		seed  int64
	)

	cmd := &cobra.Command{
		Use:   "gen <path>",
		Short: "Write a synthetic message log",
		Long: `Write count synthetic order messages, one per line, using the configured
delimiter. The output is compressed according to the file extension; "-"
writes to stdout. A non-zero --seed randomizes symbols, sides, prices and
quantities reproducibly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if count < 0 {
				return fmt.Errorf("count must be non-negative, got %d", count)
			}
			path := args[0]

			msgs := source.Synthetic(count, a.parser.Delimiter())
			if seed != 0 {
				msgs = source.SyntheticRandom(count, a.parser.Delimiter(), seed)
			}

			f, err := source.Create(path)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, f.Close())
			}()
			if err := source.WriteMessages(f, msgs); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			a.logger.Info("generated messages",
				zap.String("path", path),
				zap.Int("count", count),
				zap.String("codec", string(source.CodecFor(path))),
			)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1000, "Number of messages")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 cycles through fixed samples)")
	return cmd
}
