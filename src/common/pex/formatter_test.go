package pex

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/jack-barr3tt/pex-formatter/src/common/types"
	"go.uber.org/zap"
)

func newTestFormatter(workers int) *Formatter {
	f := NewFormatter(testReference(), zap.NewNop().Sugar())
	f.Workers = workers
	return f
}

func TestFormat(t *testing.T) {
	events, err := newTestFormatter(1).Format("sample.pex", linesOf(t, sampleTimetable()...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events) != 9 {
		t.Fatalf("expected 9 events, got %d", len(events))
	}

	seen := make(map[int]bool, len(events))
	prev := 0
	for _, ev := range events {
		if seen[ev.LineInFile] {
			t.Errorf("duplicate line in file %d", ev.LineInFile)
		}
		seen[ev.LineInFile] = true
		if ev.LineInFile <= prev {
			t.Errorf("events out of file order: %d after %d", ev.LineInFile, prev)
		}
		prev = ev.LineInFile
		if ev.Timetable != "sample.pex" {
			t.Errorf("got timetable %q, want %q", ev.Timetable, "sample.pex")
		}
	}

	if events[6].TrainHeadcode != "2K01" || events[6].RunType != types.RunOrigin {
		t.Errorf("expected the second run to start at event 6, got %+v", events[6])
	}
	if events[6].TSC != "" {
		t.Errorf("run template leaked into the next run: TSC %q", events[6].TSC)
	}
}

func TestFormatEventCount(t *testing.T) {
	lines := linesOf(t, sampleTimetable()...)
	events, err := newTestFormatter(1).Format("sample.pex", lines)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// one origin and one destination per run, one event per TMV, one per TSP that dwells
	expected := 0
	for _, run := range Partition(lines) {
		expected += 2
		for i, line := range run.Movements {
			switch {
			case Prefix(line) == PrefixMovement:
				expected++
			case i > 0 && i < len(run.Movements)-1:
				tsp, err := ParseTSP(line)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if dwell, _ := IntervalMinutes(tsp.Arrival, tsp.Departure); dwell > 0 {
					expected++
				}
			}
		}
	}

	if len(events) != expected {
		t.Errorf("got %d events, want %d", len(events), expected)
	}
}

func TestFormatIsDeterministic(t *testing.T) {
	f := newTestFormatter(1)

	first, err := f.Format("sample.pex", linesOf(t, sampleTimetable()...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := f.Format("sample.pex", linesOf(t, sampleTimetable()...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical events from two runs over the same input")
	}
}

func TestFormatParallelMatchesSequential(t *testing.T) {
	var rows []string
	for range 20 {
		rows = append(rows, sampleTimetable()...)
	}
	lines := linesOf(t, rows...)

	sequential, err := newTestFormatter(1).Format("sample.pex", lines)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parallel, err := newTestFormatter(8).Format("sample.pex", lines)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sequential) != 180 {
		t.Fatalf("expected 180 events, got %d", len(sequential))
	}
	if !reflect.DeepEqual(sequential, parallel) {
		t.Error("parallel output differs from sequential output")
	}
}

func TestFormatMalformedHeader(t *testing.T) {
	rows := sampleTimetable()
	// drop the trailing field of the second header
	rows[12] = strings.TrimSuffix(rows[12], "\t")

	for _, workers := range []int{1, 4} {
		events, err := newTestFormatter(workers).Format("sample.pex", linesOf(t, rows...))
		if !errors.Is(err, ErrMalformedRecord) {
			t.Fatalf("workers=%d: expected ErrMalformedRecord, got %v", workers, err)
		}
		if got := ErrorLine(err); got != 13 {
			t.Errorf("workers=%d: got line %d, want 13", workers, got)
		}
		if !strings.Contains(err.Error(), "line 13") {
			t.Errorf("workers=%d: error should cite the line: %v", workers, err)
		}
		if events != nil {
			t.Errorf("workers=%d: expected no events, got %d", workers, len(events))
		}
	}
}

func TestFormatReportsEarliestFailure(t *testing.T) {
	rows := []string{
		thd("XC", "1A01", "A", "07:00:00", "B", "08:00:00"),
		tsp("A", "", "07:00:00", ""),
		tsp("B", "08:00:00", "", ""),
		thd("XC", "1A02", "A", "07:00:00", "B", "08:00:00"),
		tsp("A", "", "bad", ""),
		tsp("B", "08:00:00", "", ""),
		thd("XC", "1A03", "A", "07:00:00", "B", "08:00:00"),
		tdt("1", "2", "3") + "\textra",
		tsp("A", "", "07:00:00", ""),
		tsp("B", "08:00:00", "", ""),
	}

	for _, workers := range []int{1, 3} {
		_, err := newTestFormatter(workers).Format("x", linesOf(t, rows...))
		if got := ErrorLine(err); got != 5 {
			t.Errorf("workers=%d: got failure at line %d, want 5 (%v)", workers, got, err)
		}
	}
}

func TestFormatRunWithoutMovements(t *testing.T) {
	lines := linesOf(t,
		thd("XC", "1A01", "A", "07:00:00", "B", "08:00:00"),
		thd("XC", "1A02", "A", "07:00:00", "B", "08:00:00"),
		tsp("A", "", "07:00:00", ""),
		tsp("B", "08:00:00", "", ""),
	)

	_, err := newTestFormatter(1).Format("x", lines)
	if !errors.Is(err, ErrRunStructure) {
		t.Fatalf("expected ErrRunStructure, got %v", err)
	}
	if got := ErrorLine(err); got != 1 {
		t.Errorf("got line %d, want 1", got)
	}
}

func TestFormatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "WTT_2024.pex")
	// leading tab layout with CRLF line endings
	var b strings.Builder
	for _, row := range sampleTimetable() {
		b.WriteString("\t" + row + "\r\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	events, err := newTestFormatter(2).FormatFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 9 {
		t.Fatalf("expected 9 events, got %d", len(events))
	}
	if events[0].Timetable != "WTT_2024.pex" {
		t.Errorf("got timetable %q, want %q", events[0].Timetable, "WTT_2024.pex")
	}

	if _, err := newTestFormatter(1).FormatFile(filepath.Join(t.TempDir(), "missing.pex")); err == nil {
		t.Error("expected error for a missing file")
	}
}
