package reference

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jack-barr3tt/pex-formatter/src/common/config"
	"github.com/jack-barr3tt/pex-formatter/src/common/pex"
)

const (
	OperatorCodeColumn = "Business Code"
	OperatorNameColumn = "Company Name"
	StationCodeColumn  = "TIPLOC"
	StationNameColumn  = "Geography Description"
)

const utf8BOM = "\ufeff"

// Store serves both lookup tables from a database.
type Store interface {
	LoadReference(ctx context.Context) (operators, stations map[string]string, err error)
}

// ReadTable reads a CSV with a header row into a code to name map. Rows with a
// blank code are skipped and a later duplicate replaces an earlier one.
func ReadTable(r io.Reader, keyColumn, valueColumn string) (map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("lookup table is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	keyIdx, valueIdx := -1, -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, utf8BOM))
		switch name {
		case keyColumn:
			keyIdx = i
		case valueColumn:
			valueIdx = i
		}
	}
	if keyIdx < 0 || valueIdx < 0 {
		return nil, fmt.Errorf("lookup table needs %q and %q columns", keyColumn, valueColumn)
	}

	table := make(map[string]string)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read lookup table: %w", err)
		}
		if keyIdx >= len(record) || valueIdx >= len(record) {
			continue
		}

		// a blank name is treated like a missing row so the code is shown instead
		key := strings.TrimSpace(record[keyIdx])
		value := strings.TrimSpace(record[valueIdx])
		if key == "" || value == "" {
			continue
		}
		table[key] = value
	}

	return table, nil
}

func readFile(path, keyColumn, valueColumn string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lookup table: %w", err)
	}
	defer file.Close()

	table, err := ReadTable(file, keyColumn, valueColumn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// LoadOperators reads an operator lookup CSV (Business Code, Company Name).
func LoadOperators(path string) (map[string]string, error) {
	return readFile(path, OperatorCodeColumn, OperatorNameColumn)
}

// LoadStations reads a TIPLOC lookup CSV (TIPLOC, Geography Description).
func LoadStations(path string) (map[string]string, error) {
	return readFile(path, StationCodeColumn, StationNameColumn)
}

// Load builds a resolver from the configured source. store is only used for
// the postgres source and may be nil otherwise.
func Load(ctx context.Context, cfg config.ReferenceConfig, store Store) (*pex.Reference, error) {
	switch cfg.Source {
	case config.ReferenceCSV:
		operators, err := LoadOperators(cfg.OperatorsCSV)
		if err != nil {
			return nil, err
		}
		stations, err := LoadStations(cfg.StationsCSV)
		if err != nil {
			return nil, err
		}
		return pex.NewReference(operators, stations), nil

	case config.ReferencePostgres:
		if store == nil {
			return nil, fmt.Errorf("postgres reference source needs a data store")
		}
		operators, stations, err := store.LoadReference(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load reference data: %w", err)
		}
		return pex.NewReference(operators, stations), nil
	}

	return nil, fmt.Errorf("unknown reference source %q", cfg.Source)
}
