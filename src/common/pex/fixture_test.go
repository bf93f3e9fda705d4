package pex

import (
	"strings"
	"testing"

	"github.com/jack-barr3tt/pex-formatter/src/common/types"
)

func thd(operator, headcode, startCode, startTime, endCode, endTime string) string {
	return strings.Join([]string{
		"THD", "1", operator, headcode, "", "", "", "", "", "",
		startCode, startTime, endCode, endTime, "",
	}, "\t")
}

func tdt(tsc, speed, load string) string {
	return strings.Join([]string{"TDT", "1", "", "", tsc, "", speed, "", load, "", "", "", ""}, "\t")
}

func tsp(tiploc, arrival, departure, platform string) string {
	return strings.Join([]string{"TSP", "1", "", tiploc, arrival, departure, platform}, "\t")
}

func tmv(from, to, line, departure, arrival, eng, path, perf, adj string) string {
	return strings.Join([]string{
		"TMV", "1", "", from, to, line, departure, arrival, "", "", eng, path, perf, adj,
	}, "\t")
}

func linesOf(t *testing.T, rows ...string) []types.Line {
	t.Helper()
	lines, err := ReadLines(strings.NewReader(strings.Join(rows, "\n")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return lines
}

func testReference() *Reference {
	return NewReference(
		map[string]string{"XC": "CrossCountry"},
		map[string]string{
			"BHMNS":   "Birmingham New Street",
			"BRMSTRT": "Bromsgrove Street",
			"DRBY":    "Derby",
			"LDS":     "Leeds",
			"YORK":    "York",
		},
	)
}

// sampleTimetable holds two runs. The first (header on line 2, movements on
// lines 6-12) stops, passes a timing point and terminates. The second (header
// on line 13, movements on lines 14-16) crosses midnight.
func sampleTimetable() []string {
	return []string{
		"PEX\tSAMPLE\t2024",
		thd("XC", "1S42", "BHMNS", "07:00:00", "EDINBUR", "08:30:00"),
		tdt("11234", "125", "E"),
		tdt("22222", "100", "D"),
		tdt("11234", "125", "E"),
		tsp("BHMNS", "", "07:00:00", "3"),
		tmv("BHMNS", "BRMSTRT", "ML", "07:00:00", "07:05:30", "+1'00", "+0'30", "+0'00", "-0'30"),
		tsp("BRMSTRT", "07:05:30", "07:07:30", "1"),
		tmv("BRMSTRT", "TAMWTHL", "FL", "07:07:30", "07:20:00", "+0'00", "+0'00", "+0'00", "+0'00"),
		tsp("TAMWTHL", "07:20:00", "07:20:00", ""),
		tmv("TAMWTHL", "DRBY", "", "07:20:00", "07:35:00", "+2'00", "+0'00", "+0'00", "+0'00"),
		tsp("DRBY", "07:35:00", "", "4"),
		thd("NT", "2K01", "LDS", "23:50:00", "YORK", "00:15:00"),
		tsp("LDS", "", "23:50:00", ""),
		tmv("LDS", "YORK", "SL", "23:50:00", "00:15:00", "+0'00", "+0'00", "+0'00", "+0'00"),
		tsp("YORK", "00:15:00", "", "2"),
		"TRF\tEND",
	}
}

func value(t *testing.T, name string, v *float64) float64 {
	t.Helper()
	if v == nil {
		t.Fatalf("%s: expected a value, got nil", name)
	}
	return *v
}
