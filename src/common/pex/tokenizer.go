package pex

import (
	"bufio"
	"io"
	"strings"

	"github.com/jack-barr3tt/pex-formatter/src/common/types"
)

const (
	PrefixHeader   = "THD"
	PrefixDetail   = "TDT"
	PrefixTiming   = "TSP"
	PrefixMovement = "TMV"
)

// sentinel occupies index 0 so that lines[n].Number == n.
const sentinel = "DMY"

var knownPrefixes = map[string]bool{
	"PEX": true, PrefixHeader: true, PrefixDetail: true, PrefixTiming: true,
	PrefixMovement: true, "TRF": true, "NTE": true, "PIT": true,
}

// Split splits a raw line on tabs. A leading empty field in front of a known
// record prefix is dropped, so "\tTHD\t..." and "THD\t..." yield the same fields.
func Split(raw string) []string {
	fields := strings.Split(raw, "\t")
	if len(fields) > 1 && fields[0] == "" && knownPrefixes[fields[1]] {
		return fields[1:]
	}
	return fields
}

// Prefix returns the record type of a line.
func Prefix(line types.Line) string {
	return Split(line.Text)[0]
}

// ReadLines reads a whole PEX file into memory. The returned slice starts with a
// sentinel line so that real content begins at index 1.
func ReadLines(r io.Reader) ([]types.Line, error) {
	lines := []types.Line{{Number: 0, Text: sentinel}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		text := strings.TrimSuffix(scanner.Text(), "\r")
		lines = append(lines, types.Line{Number: len(lines), Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}
