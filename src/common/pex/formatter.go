package pex

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jack-barr3tt/pex-formatter/src/common/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Formatter turns PEX files into event tables.
type Formatter struct {
	// Workers bounds the number of runs derived at once. Values below 2 run sequentially.
	Workers int

	resolver Resolver
	logger   *zap.SugaredLogger
}

func NewFormatter(resolver Resolver, logger *zap.SugaredLogger) *Formatter {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Formatter{
		Workers:  1,
		resolver: resolver,
		logger:   logger,
	}
}

// FormatFile reads and formats the file at path. The timetable name is the file's base name.
func (f *Formatter) FormatFile(path string) ([]types.Event, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return f.FormatReader(filepath.Base(path), file)
}

func (f *Formatter) FormatReader(timetable string, r io.Reader) ([]types.Event, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", timetable, err)
	}
	return f.Format(timetable, lines)
}

// Format derives the events of every run in lines, in file order.
func (f *Formatter) Format(timetable string, lines []types.Line) ([]types.Event, error) {
	runs := Partition(lines)
	f.logger.Debugw("partitioned timetable", "timetable", timetable, "runs", len(runs))

	if f.Workers < 2 || len(runs) < 2 {
		var events []types.Event
		for _, run := range runs {
			runEvents, err := f.formatRun(timetable, run)
			if err != nil {
				return nil, err
			}
			events = append(events, runEvents...)
		}
		return events, nil
	}

	results := make([][]types.Event, len(runs))
	errs := make([]error, len(runs))

	var g errgroup.Group
	g.SetLimit(f.Workers)
	for i, run := range runs {
		g.Go(func() error {
			results[i], errs[i] = f.formatRun(timetable, run)
			return nil
		})
	}
	_ = g.Wait()

	// report the same run a sequential pass would have failed on
	total := 0
	for i := range runs {
		if errs[i] != nil {
			return nil, errs[i]
		}
		total += len(results[i])
	}

	events := make([]types.Event, 0, total)
	for _, runEvents := range results {
		events = append(events, runEvents...)
	}
	return events, nil
}

func (f *Formatter) formatRun(timetable string, run Run) ([]types.Event, error) {
	tpl, err := BuildTemplate(timetable, run, f.resolver)
	if err != nil {
		return nil, err
	}
	if len(run.Movements) == 0 {
		return nil, &RunStructureError{Line: run.Header.Number, Reason: "has no movement records"}
	}

	events, err := DeriveEvents(tpl, run.Movements, f.resolver)
	if err != nil {
		return nil, err
	}

	f.logger.Debugw("derived run", "headcode", tpl.TrainHeadcode, "line", run.Header.Number, "events", len(events))
	return events, nil
}
