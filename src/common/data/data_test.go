package data

import (
	"database/sql"
	"testing"
	"time"

	"github.com/jack-barr3tt/pex-formatter/src/common/types"
)

func TestPreferredName(t *testing.T) {
	tests := []struct {
		name     string
		desc     sql.NullString
		tps      sql.NullString
		expected string
	}{
		{"description", sql.NullString{String: "Derby", Valid: true}, sql.NullString{String: "DERBY", Valid: true}, "Derby"},
		{"tps fallback", sql.NullString{}, sql.NullString{String: "DERBY", Valid: true}, "DERBY"},
		{"blank description", sql.NullString{String: "", Valid: true}, sql.NullString{String: "DERBY", Valid: true}, "DERBY"},
		{"neither", sql.NullString{}, sql.NullString{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preferredName(tt.desc, tt.tps); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestEventRow(t *testing.T) {
	runtime := 5.5
	ev := types.Event{
		Template:     types.Template{Timetable: "WTT.pex", TrainHeadcode: "1S42"},
		LineInFile:   7,
		RunType:      types.RunMovement,
		MovementType: "Stop to Pass",
		Runtime:      &runtime,
	}

	row := eventRow("b1", ev)
	if len(row) != len(eventColumns) {
		t.Fatalf("got %d values for %d columns", len(row), len(eventColumns))
	}

	index := make(map[string]int, len(eventColumns))
	for i, c := range eventColumns {
		index[c] = i
	}

	if row[index["line_in_file"]] != 7 {
		t.Errorf("got line %v, want 7", row[index["line_in_file"]])
	}
	if row[index["run_type"]] != "Movement" {
		t.Errorf("got run type %v", row[index["run_type"]])
	}
	if row[index["batch_id"]] != "b1" {
		t.Errorf("got batch id %v", row[index["batch_id"]])
	}
	if got, ok := row[index["runtime"]].(*float64); !ok || got == nil || *got != 5.5 {
		t.Errorf("got runtime %v", row[index["runtime"]])
	}
	if got, ok := row[index["dwell"]].(*float64); !ok || got != nil {
		t.Errorf("expected a nil dwell pointer, got %v", row[index["dwell"]])
	}
}

func TestSetCacheTTL(t *testing.T) {
	dc := NewDataClient(nil, nil, nil)
	if dc.cacheTTL != DefaultCacheTTL {
		t.Errorf("got %v, want %v", dc.cacheTTL, DefaultCacheTTL)
	}

	dc.SetCacheTTL(0)
	if dc.cacheTTL != DefaultCacheTTL {
		t.Error("non-positive ttl should be ignored")
	}

	dc.SetCacheTTL(time.Minute)
	if dc.cacheTTL != time.Minute {
		t.Errorf("got %v, want 1m", dc.cacheTTL)
	}
}
