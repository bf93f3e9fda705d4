package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/jack-barr3tt/pex-formatter/src/common/config"
	"github.com/jack-barr3tt/pex-formatter/src/common/output"
	"github.com/jack-barr3tt/pex-formatter/src/common/pex"
	"github.com/jack-barr3tt/pex-formatter/src/common/reference"
	"github.com/jack-barr3tt/pex-formatter/src/common/sink"
	"github.com/spf13/cobra"
)

const stdoutPath = "-"

type formatOptions struct {
	operatorsCSV string
	stationsCSV  string
	outputPath   string
	format       string
	workers      int
	publish      bool
}

func newFormatCmd(a *app) *cobra.Command {
	opts := &formatOptions{}

	cmd := &cobra.Command{
		Use:   "format <file.pex>...",
		Short: "Format one or more PEX files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFormat(cmd.Context(), cmd.OutOrStdout(), opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.operatorsCSV, "toc", "", "operator lookup CSV (Business Code, Company Name)")
	cmd.Flags().StringVar(&opts.stationsCSV, "tiploc", "", "TIPLOC lookup CSV (TIPLOC, Geography Description)")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", `output file, "-" for stdout (single input only)`)
	cmd.Flags().StringVar(&opts.format, "format", "csv", "output format: csv, xlsx or json")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "runs derived in parallel (defaults to the configured value)")
	cmd.Flags().BoolVar(&opts.publish, "publish", false, "also publish events to the configured sink")

	return cmd
}

func (a *app) runFormat(ctx context.Context, stdout io.Writer, opts *formatOptions, inputs []string) error {
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.outputPath != "" && len(inputs) > 1 {
		return errors.New("--output can only be used with a single input")
	}

	if opts.operatorsCSV != "" || opts.stationsCSV != "" {
		a.cfg.Reference.Source = config.ReferenceCSV
		if opts.operatorsCSV != "" {
			a.cfg.Reference.OperatorsCSV = opts.operatorsCSV
		}
		if opts.stationsCSV != "" {
			a.cfg.Reference.StationsCSV = opts.stationsCSV
		}
	}

	resolver, closeStore, err := reference.Open(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var publisher sink.Publisher
	if opts.publish {
		publisher, err = sink.New(a.cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to %s sink: %w", a.cfg.Sink.Kind, err)
		}
		if publisher == nil {
			return errors.New("--publish needs a sink, set sink.kind or PEX_SINK")
		}
		defer publisher.Close()
	}

	formatter := pex.NewFormatter(resolver, a.logger)
	formatter.Workers = a.cfg.Workers
	if opts.workers > 0 {
		formatter.Workers = opts.workers
	}

	for _, input := range inputs {
		start := time.Now()
		events, err := formatter.FormatFile(input)
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		a.logger.Infow("formatted timetable", "file", input, "events", len(events), "duration", time.Since(start))

		switch dest := opts.outputPath; dest {
		case stdoutPath:
			if err := output.Write(stdout, format, events); err != nil {
				return err
			}
		default:
			if dest == "" {
				dest = output.OutputPath(input, format)
			}
			if err := output.WriteFile(dest, format, events); err != nil {
				return err
			}
			a.logger.Infow("wrote output", "file", dest, "format", format)
		}

		if publisher != nil {
			n, err := sink.PublishEvents(ctx, publisher, nil, filepath.Base(input), events, a.cfg.Sink.BatchSize)
			if err != nil {
				return err
			}
			a.logger.Infow("published events", "sink", publisher.Name(), "batches", n)
		}
	}

	return nil
}
