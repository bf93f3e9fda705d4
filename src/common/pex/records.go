package pex

import (
	"fmt"

	"github.com/jack-barr3tt/pex-formatter/src/common/types"
)

const (
	thdFields    = 15
	tdtFields    = 13
	tspMinFields = 7
	tmvMinFields = 14
)

// THD is a train header record.
type THD struct {
	OperatorCode string
	Headcode     string
	StartCode    string
	StartTime    string
	EndCode      string
	EndTime      string
}

// TDT is a train detail record describing one formation of the train.
type TDT struct {
	TSC   string
	Speed string
	Load  string
}

// TSP is a timing point record.
type TSP struct {
	Tiploc    string
	Arrival   string
	Departure string
	Platform  string
}

// TMV is a movement between two timing points.
type TMV struct {
	From                 string
	To                   string
	RunningLine          string
	Departure            string
	Arrival              string
	EngineeringAllowance string
	PathingAllowance     string
	PerformanceAllowance string
	AdjustmentAllowance  string
}

func malformed(line types.Line, kind, format string, args ...any) *MalformedRecordError {
	return &MalformedRecordError{
		Line:   line.Number,
		Kind:   kind,
		Text:   line.Text,
		Reason: fmt.Sprintf(format, args...),
	}
}

func ParseTHD(line types.Line) (THD, error) {
	f := Split(line.Text)
	if f[0] != PrefixHeader || len(f) != thdFields {
		return THD{}, malformed(line, PrefixHeader, "expected %d fields, got %d", thdFields, len(f))
	}
	return THD{
		OperatorCode: f[2],
		Headcode:     f[3],
		StartCode:    f[10],
		StartTime:    f[11],
		EndCode:      f[12],
		EndTime:      f[13],
	}, nil
}

func ParseTDT(line types.Line) (TDT, error) {
	f := Split(line.Text)
	if f[0] != PrefixDetail || len(f) != tdtFields {
		return TDT{}, malformed(line, PrefixDetail, "expected %d fields, got %d", tdtFields, len(f))
	}
	return TDT{TSC: f[4], Speed: f[6], Load: f[8]}, nil
}

func ParseTSP(line types.Line) (TSP, error) {
	f := Split(line.Text)
	if f[0] != PrefixTiming || len(f) < tspMinFields {
		return TSP{}, malformed(line, PrefixTiming, "expected at least %d fields, got %d", tspMinFields, len(f))
	}
	return TSP{Tiploc: f[3], Arrival: f[4], Departure: f[5], Platform: f[6]}, nil
}

func ParseTMV(line types.Line) (TMV, error) {
	f := Split(line.Text)
	if f[0] != PrefixMovement || len(f) < tmvMinFields {
		return TMV{}, malformed(line, PrefixMovement, "expected at least %d fields, got %d", tmvMinFields, len(f))
	}
	return TMV{
		From:                 f[3],
		To:                   f[4],
		RunningLine:          f[5],
		Departure:            f[6],
		Arrival:              f[7],
		EngineeringAllowance: f[10],
		PathingAllowance:     f[11],
		PerformanceAllowance: f[12],
		AdjustmentAllowance:  f[13],
	}, nil
}
