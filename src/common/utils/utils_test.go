package utils

import (
	"testing"

	"github.com/jack-barr3tt/pex-formatter/src/common/types"
	"go.uber.org/zap/zapcore"
)

func TestReferenceKeys(t *testing.T) {
	tests := []struct {
		got      string
		expected string
	}{
		{OperatorReferenceKey(), "reference:toc"},
		{TiplocReferenceKey(), "reference:tiploc"},
		{EventBatchKey("abc"), "batch:abc"},
	}

	for _, tt := range tests {
		if tt.got != tt.expected {
			t.Errorf("got %q, want %q", tt.got, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"", zapcore.InfoLevel},
		{"loud", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestEventBatchCodec(t *testing.T) {
	dwell := 2.5
	batch := types.EventBatch{
		ID:        "b1",
		Timetable: "WTT.pex",
		Part:      1,
		Parts:     3,
		Events: []types.Event{
			{LineInFile: 8, RunType: types.RunDwell, Dwell: &dwell},
		},
	}

	data, err := MarshalEventBatch(batch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := UnmarshalEventBatch(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.ID != "b1" || decoded.Parts != 3 || len(decoded.Events) != 1 {
		t.Fatalf("unexpected batch: %+v", decoded)
	}
	if got := decoded.Events[0].Dwell; got == nil || *got != 2.5 {
		t.Errorf("dwell not preserved: %v", got)
	}
	if decoded.Events[0].Runtime != nil {
		t.Error("blank runtime should stay nil")
	}

	if _, err := UnmarshalEventBatch([]byte(`{"timetable":"x"}`)); err == nil {
		t.Error("expected error for a batch without id")
	}
	if _, err := UnmarshalEventBatch([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid json")
	}
}
